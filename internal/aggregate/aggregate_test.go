package aggregate

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dailyspend/dailyspend/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func txn(amount string, category ...string) model.Transaction {
	return model.Transaction{Amount: dec(amount), Category: category}
}

func named(amount, name string) model.Transaction {
	return model.Transaction{Amount: dec(amount), Name: name}
}

func TestAggregate_ByCategoryExample(t *testing.T) {
	txns := []model.Transaction{
		txn("12.50", "Food", "Coffee"),
		txn("-5.00", "Food", "Coffee"),
		txn("30.00", "Transport"),
	}

	l := Aggregate(txns, model.ModeCategory)

	require.Len(t, l.Groups, 2)
	assert.Equal(t, "Food:Coffee:", l.Groups[0].Key)
	assert.Equal(t, "7.50", l.Groups[0].Amount.StringFixed(2))
	assert.Equal(t, "Transport:", l.Groups[1].Key)
	assert.Equal(t, "30.00", l.Groups[1].Amount.StringFixed(2))
	assert.Equal(t, "42.50", l.TotalExpenses.StringFixed(2))
	assert.Equal(t, "37.50", l.NetTotal.StringFixed(2))
}

func TestAggregate_UncategorizedCollapse(t *testing.T) {
	txns := []model.Transaction{
		txn("1.00"),
		txn("2.00", "Travel"),
		txn("3.00"),
	}

	l := Aggregate(txns, model.ModeCategory)

	require.Len(t, l.Groups, 2)
	assert.Equal(t, "", l.Groups[1].Key)
	assert.Equal(t, "4.00", l.Groups[1].Amount.StringFixed(2))
}

func TestAggregate_ByMerchant(t *testing.T) {
	txns := []model.Transaction{
		named("8.00", "Uber 063015 SF**POOL**"),
		named("11.00", "UBER 072115 SF**POOL**"),
		named("-20.00", "Payroll 2024/03/01"),
		named("4.00", ""),
	}

	l := Aggregate(txns, model.ModeMerchant)

	require.Len(t, l.Groups, 3)
	assert.Equal(t, "payroll ", l.Groups[0].Key)
	assert.Equal(t, "", l.Groups[1].Key)
	assert.Equal(t, "uber  sf**pool**", l.Groups[2].Key)
	assert.Equal(t, "19.00", l.Groups[2].Amount.StringFixed(2))
	assert.Equal(t, "23.00", l.TotalExpenses.StringFixed(2))
	assert.Equal(t, "3.00", l.NetTotal.StringFixed(2))
}

func TestAggregate_TiesKeepInsertionOrder(t *testing.T) {
	txns := []model.Transaction{
		txn("5.00", "B"),
		txn("5.00", "A"),
		txn("5.00", "C"),
		txn("1.00", "D"),
	}

	l := Aggregate(txns, model.ModeCategory)

	keys := make([]string, len(l.Groups))
	for i, g := range l.Groups {
		keys[i] = g.Key
	}
	assert.Equal(t, []string{"D:", "B:", "A:", "C:"}, keys)
}

func TestAggregate_Empty(t *testing.T) {
	l := Aggregate(nil, model.ModeCategory)
	assert.Empty(t, l.Groups)
	assert.True(t, l.NetTotal.IsZero())
	assert.True(t, l.TotalExpenses.IsZero())
	assert.Len(t, l.Entries(), 2)
}

func TestCategoryKey(t *testing.T) {
	tests := []struct {
		path []string
		want string
	}{
		{[]string{"Food and Drink", "Restaurants"}, "Food and Drink:Restaurants:"},
		{[]string{"Transfer"}, "Transfer:"},
		{nil, ""},
		{[]string{}, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CategoryKey(tt.path), "CategoryKey(%q)", tt.path)
	}
}

func TestNormalizeMerchant(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Starbucks", "starbucks"},
		{"SparkFun 1234", "sparkfun "},
		{"ACH 12/03/2024 Payment", "ach  payment"},
		{"Touchstone Climbing/42/", "touchstone climbing"},
		{"a/b", "a/b"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeMerchant(tt.name), "NormalizeMerchant(%q)", tt.name)
	}
}

// randomTxns builds a deterministic mix of categories, names and signed amounts.
func randomTxns(r *rand.Rand, n int) []model.Transaction {
	cats := [][]string{nil, {"Food"}, {"Food", "Coffee"}, {"Travel", "Taxi"}, {"Shops"}}
	names := []string{"", "Uber 123", "uber 456", "KFC #12/", "Amazon"}
	txns := make([]model.Transaction, n)
	for i := range txns {
		cents := r.Int63n(20000) - 5000
		txns[i] = model.Transaction{
			Amount:   decimal.New(cents, -2),
			Category: cats[r.Intn(len(cats))],
			Name:     names[r.Intn(len(names))],
		}
	}
	return txns
}

func TestAggregate_Properties(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for round := 0; round < 50; round++ {
		txns := randomTxns(r, r.Intn(40))
		for _, mode := range []model.Mode{model.ModeCategory, model.ModeMerchant} {
			l := Aggregate(txns, mode)

			sum := decimal.Zero
			for _, g := range l.Groups {
				sum = sum.Add(g.Amount)
			}
			assert.True(t, sum.Equal(l.NetTotal), "body sum %s != net %s", sum, l.NetTotal)

			positives := decimal.Zero
			for _, tx := range txns {
				if tx.Amount.IsPositive() {
					positives = positives.Add(tx.Amount)
				}
			}
			assert.True(t, positives.Equal(l.TotalExpenses))

			for i := 0; i+1 < len(l.Groups); i++ {
				assert.True(t, l.Groups[i].Amount.LessThanOrEqual(l.Groups[i+1].Amount), "body not sorted at %d", i)
			}

			keyOf := KeyFunc(mode)
			distinct := make(map[string]bool)
			for _, tx := range txns {
				distinct[keyOf(tx)] = true
			}
			assert.Len(t, l.Groups, len(distinct), "one group per distinct key")
		}
	}
}

func TestNormalizeMerchant_Idempotent(t *testing.T) {
	for _, name := range []string{"Uber 063015 SF**POOL**", "12/34/56", "//1//", "GitHub *Pro 9", "plain"} {
		once := NormalizeMerchant(name)
		assert.Equal(t, once, NormalizeMerchant(once), "name %q", name)
	}
}
