// Package aggregate folds transactions into a grouped, sorted ledger.
package aggregate

import (
	"regexp"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dailyspend/dailyspend/internal/model"
)

// CategorySeparator follows every element of a category path in a group key.
const CategorySeparator = ":"

// digitRun matches a run of digits with optional surrounding slashes,
// e.g. the "/12/" in "uber 063015 sf**pool**" or "03/14".
var digitRun = regexp.MustCompile(`/?\d+/?`)

// Aggregate groups transactions by mode and returns a ledger whose body is
// sorted ascending by amount. Ties keep first-seen order.
func Aggregate(txns []model.Transaction, mode model.Mode) model.Ledger {
	keyOf := KeyFunc(mode)

	sums := make(map[string]decimal.Decimal)
	var order []string
	net := decimal.Zero
	expenses := decimal.Zero

	for _, t := range txns {
		k := keyOf(t)
		if _, seen := sums[k]; !seen {
			order = append(order, k)
			sums[k] = decimal.Zero
		}
		sums[k] = sums[k].Add(t.Amount)

		net = net.Add(t.Amount)
		if t.Amount.IsPositive() {
			expenses = expenses.Add(t.Amount)
		}
	}

	groups := make([]model.Group, len(order))
	for i, k := range order {
		groups[i] = model.Group{Key: k, Amount: sums[k]}
	}
	slices.SortStableFunc(groups, func(a, b model.Group) int {
		return a.Amount.Cmp(b.Amount)
	})

	return model.Ledger{
		Groups:        groups,
		TotalExpenses: expenses,
		NetTotal:      net,
	}
}

// KeyFunc returns the group-key function for a mode. Unknown modes group by category.
func KeyFunc(mode model.Mode) func(model.Transaction) string {
	if mode == model.ModeMerchant {
		return func(t model.Transaction) string { return NormalizeMerchant(t.Name) }
	}
	return func(t model.Transaction) string { return CategoryKey(t.Category) }
}

// CategoryKey joins a category path with every element followed by the separator.
// "Food", "Coffee" -> "Food:Coffee:"; an empty path yields "".
func CategoryKey(path []string) string {
	var b strings.Builder
	for _, p := range path {
		b.WriteString(p)
		b.WriteString(CategorySeparator)
	}
	return b.String()
}

// NormalizeMerchant lowercases a merchant name and strips digit runs so that
// recurring merchants with changing reference numbers collapse into one group.
func NormalizeMerchant(name string) string {
	return digitRun.ReplaceAllString(strings.ToLower(name), "")
}
