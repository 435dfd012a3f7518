package aggregate

import (
	"cmp"
	"maps"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/dailyspend/dailyspend/internal/model"
)

// Snapshot is the rolling per-month total kept on disk.
type Snapshot struct {
	Groups   map[string]decimal.Decimal
	NetTotal decimal.Decimal
}

// Merge adds a ledger into a prior snapshot. Existing group keys are summed
// and the net total is incremented. prior is not modified.
func Merge(prior Snapshot, l model.Ledger) Snapshot {
	out := Snapshot{
		Groups:   make(map[string]decimal.Decimal, len(prior.Groups)+len(l.Groups)),
		NetTotal: prior.NetTotal.Add(l.NetTotal),
	}
	maps.Copy(out.Groups, prior.Groups)
	for _, g := range l.Groups {
		out.Groups[g.Key] = out.Groups[g.Key].Add(g.Amount)
	}
	return out
}

// FromLedger converts a ledger into a fresh snapshot.
func FromLedger(l model.Ledger) Snapshot {
	return Merge(Snapshot{}, l)
}

// ToLedger rebuilds a sorted ledger from a snapshot. Expense totals are not
// kept on disk, so TotalExpenses is the sum of positive groups.
func (s Snapshot) ToLedger() model.Ledger {
	groups := make([]model.Group, 0, len(s.Groups))
	expenses := decimal.Zero
	for k, v := range s.Groups {
		groups = append(groups, model.Group{Key: k, Amount: v})
		if v.IsPositive() {
			expenses = expenses.Add(v)
		}
	}
	sortGroups(groups)
	return model.Ledger{Groups: groups, TotalExpenses: expenses, NetTotal: s.NetTotal}
}

func sortGroups(groups []model.Group) {
	slices.SortFunc(groups, func(a, b model.Group) int {
		if c := a.Amount.Cmp(b.Amount); c != 0 {
			return c
		}
		return cmp.Compare(a.Key, b.Key)
	})
}
