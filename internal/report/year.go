package report

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dailyspend/dailyspend/internal/daterange"
	"github.com/dailyspend/dailyspend/internal/model"
)

// MonthNet is one month of a yearly breakdown.
type MonthNet struct {
	Month   time.Month
	Range   model.Range
	Net     decimal.Decimal
	Running decimal.Decimal // annual net through this month
}

// YearResult is a full year's monthly breakdown.
type YearResult struct {
	Year   int
	Months []MonthNet
	Net    decimal.Decimal
}

// Year computes the net total of each month of year and the running annual net.
func (d *Driver) Year(ctx context.Context, year int) (YearResult, error) {
	if year < 1 || year > 9999 {
		return YearResult{}, fmt.Errorf("invalid year %d", year)
	}

	res := YearResult{Year: year, Net: decimal.Zero}
	for m := time.January; m <= time.December; m++ {
		rng := daterange.Month(year, m)
		l, err := d.ledger(ctx, rng, model.ModeCategory)
		if err != nil {
			return YearResult{}, fmt.Errorf("%s %d: %w", m, year, err)
		}
		res.Net = res.Net.Add(l.NetTotal)
		res.Months = append(res.Months, MonthNet{Month: m, Range: rng, Net: l.NetTotal, Running: res.Net})
	}

	if err := PrintYear(d.Out, res); err != nil {
		return YearResult{}, err
	}
	d.record("year", model.Range{Start: res.Months[0].Range.Start, End: res.Months[11].Range.End}, TargetPrint, res.Net)
	return res, nil
}

// YearToDate prints the net total from January 1st through today.
func (d *Driver) YearToDate(ctx context.Context) (Result, error) {
	rng := daterange.YearToDate(d.now())
	l, err := d.ledger(ctx, rng, model.ModeCategory)
	if err != nil {
		return Result{}, err
	}
	if err := PrintNet(d.Out, rng, l.NetTotal); err != nil {
		return Result{}, err
	}
	d.record("ytd", rng, TargetPrint, l.NetTotal)
	return Result{Range: rng, Ledger: l}, nil
}

// Balance prints the current balance of the configured account.
func (d *Driver) Balance(ctx context.Context) (decimal.Decimal, error) {
	if d.Balances == nil {
		return decimal.Zero, fmt.Errorf("balance lookups are not supported by this source")
	}
	bal, err := d.Balances.Balance(ctx, d.AccountIDs)
	if err != nil {
		return decimal.Zero, fmt.Errorf("fetching balance: %w", err)
	}
	if err := PrintBalance(d.Out, bal); err != nil {
		return decimal.Zero, err
	}
	return bal, nil
}
