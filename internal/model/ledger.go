package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Labels used when a Ledger is flattened for display.
const (
	TotalExpensesLabel = "Total Expenses"
	NetTotalLabel      = "Net Total"
)

// Mode selects how transactions are grouped.
type Mode string

const (
	ModeCategory Mode = "category"
	ModeMerchant Mode = "merchant"
)

// ParseMode converts a CLI value into a Mode.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeCategory, ModeMerchant:
		return m, nil
	default:
		return "", fmt.Errorf("unknown grouping mode %q (want %q or %q)", s, ModeCategory, ModeMerchant)
	}
}

// Group is one bucket of the ledger body.
type Group struct {
	Key    string
	Amount decimal.Decimal
}

// Ledger is the aggregated result of one report.
type Ledger struct {
	Groups        []Group // ascending by Amount
	TotalExpenses decimal.Decimal
	NetTotal      decimal.Decimal
}

// Entries returns the body followed by the two summary rows, in display order.
func (l Ledger) Entries() []Group {
	out := make([]Group, 0, len(l.Groups)+2)
	out = append(out, l.Groups...)
	out = append(out,
		Group{Key: TotalExpensesLabel, Amount: l.TotalExpenses},
		Group{Key: NetTotalLabel, Amount: l.NetTotal},
	)
	return out
}
