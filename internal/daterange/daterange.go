// Package daterange resolves the date range a report covers.
package daterange

import (
	"errors"
	"fmt"
	"time"

	"github.com/dailyspend/dailyspend/internal/model"
)

// Layout is the only date representation accepted on the CLI and sent to providers.
const Layout = "2006-01-02"

// Span is the length used when only one end of a range is given.
const Span = 30

var (
	// ErrInvalidDate is returned for dates not in YYYY-MM-DD form.
	ErrInvalidDate = errors.New("invalid date")
	// ErrInvertedRange is returned when the end date precedes the start date.
	ErrInvertedRange = errors.New("end date is before start date")
)

// Default picks the range used when neither start nor end is given.
type Default int

const (
	// DefaultMonth covers the whole current calendar month.
	DefaultMonth Default = iota
	// DefaultYesterday covers yesterday through today.
	DefaultYesterday
)

// Parse reads a YYYY-MM-DD date. The empty string yields nil.
func Parse(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(Layout, s)
	if err != nil {
		return nil, fmt.Errorf("%w %q: want YYYY-MM-DD", ErrInvalidDate, s)
	}
	return &t, nil
}

// Format renders a date in Layout.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// Day truncates t to midnight UTC of its calendar day.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Resolve turns optional start and end dates into a concrete inclusive range.
func Resolve(start, end *time.Time, now time.Time, def Default) (model.Range, error) {
	switch {
	case start != nil && end != nil:
		s, e := Day(*start), Day(*end)
		if e.Before(s) {
			return model.Range{}, fmt.Errorf("%w: %s > %s", ErrInvertedRange, Format(s), Format(e))
		}
		return model.Range{Start: s, End: e}, nil
	case start != nil:
		s := Day(*start)
		return model.Range{Start: s, End: s.AddDate(0, 0, Span)}, nil
	case end != nil:
		e := Day(*end)
		return model.Range{Start: e.AddDate(0, 0, -Span), End: e}, nil
	}

	today := Day(now)
	if def == DefaultYesterday {
		return model.Range{Start: today.AddDate(0, 0, -1), End: today}, nil
	}
	return Month(today.Year(), today.Month()), nil
}

// Month returns the first through last day of a calendar month.
func Month(year int, month time.Month) model.Range {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return model.Range{Start: first, End: first.AddDate(0, 0, DaysIn(year, month)-1)}
}

// DaysIn returns the number of days in a month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// YearToDate returns January 1st of now's year through today.
func YearToDate(now time.Time) model.Range {
	today := Day(now)
	return model.Range{Start: time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC), End: today}
}
