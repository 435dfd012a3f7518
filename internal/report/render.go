package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/dailyspend/dailyspend/internal/daterange"
	"github.com/dailyspend/dailyspend/internal/model"
	"github.com/dailyspend/dailyspend/internal/runlog"
)

// Currency is used for console formatting only; amounts are never converted.
const Currency = money.USD

// FormatAmount renders an amount with its currency symbol, e.g. "$1,234.50".
func FormatAmount(d decimal.Decimal) string {
	cur := money.GetCurrency(Currency)
	minor := d.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(minor, Currency).Display()
}

// rangeHeader renders "YYYY-MM-DD to YYYY-MM-DD".
func rangeHeader(rng model.Range) string {
	return daterange.Format(rng.Start) + " to " + daterange.Format(rng.End)
}

// PrintLedger writes the range header and an aligned ledger to w.
func PrintLedger(w io.Writer, rng model.Range, l model.Ledger) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, rangeHeader(rng))
	for _, e := range l.Entries() {
		key := e.Key
		if key == "" {
			key = "(none)"
		}
		fmt.Fprintf(tw, "%s\t%s\n", key, FormatAmount(e.Amount))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("printing report: %w", err)
	}
	return nil
}

// PrintYear writes one line per month plus the annual net.
func PrintYear(w io.Writer, y YearResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%d\tnet\trunning\n", y.Year)
	for _, m := range y.Months {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", m.Month, FormatAmount(m.Net), FormatAmount(m.Running))
	}
	fmt.Fprintf(tw, "%s\t%s\n", model.NetTotalLabel, FormatAmount(y.Net))
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("printing year: %w", err)
	}
	return nil
}

// PrintNet writes a single net total for a range.
func PrintNet(w io.Writer, rng model.Range, net decimal.Decimal) error {
	if _, err := fmt.Fprintf(w, "%s\n%s: %s\n", rangeHeader(rng), model.NetTotalLabel, FormatAmount(net)); err != nil {
		return fmt.Errorf("printing net total: %w", err)
	}
	return nil
}

// PrintBalance writes the current account balance.
func PrintBalance(w io.Writer, bal decimal.Decimal) error {
	if _, err := fmt.Fprintf(w, "Current balance: %s\n", FormatAmount(bal)); err != nil {
		return fmt.Errorf("printing balance: %w", err)
	}
	return nil
}

// PrintRuns writes run log entries as an aligned table, oldest first.
func PrintRuns(w io.Writer, entries []runlog.Entry) error {
	if len(entries) == 0 {
		if _, err := fmt.Fprintln(w, "No runs recorded."); err != nil {
			return fmt.Errorf("printing run log: %w", err)
		}
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "when\tcommand\trange\ttarget\tnet")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s to %s\t%s\t%s\n",
			e.Timestamp.Local().Format("2006-01-02 15:04"), e.Command, e.Start, e.End, e.Target, FormatAmount(e.NetTotal))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("printing run log: %w", err)
	}
	return nil
}
