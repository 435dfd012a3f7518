package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one record returned by the transaction source.
type Transaction struct {
	Date      time.Time
	Name      string          // merchant or description, may be empty
	Category  []string        // coarse to fine, may be empty
	Amount    decimal.Decimal // positive = debit (expense), negative = credit
	AccountID string
}

// Range is an inclusive date range.
type Range struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls on a day inside the range.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}
