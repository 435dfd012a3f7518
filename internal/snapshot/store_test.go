package snapshot

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dailyspend/dailyspend/internal/aggregate"
	"github.com/dailyspend/dailyspend/internal/model"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var day = time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC)

func TestPath(t *testing.T) {
	s := NewStore("/data")
	assert.Equal(t, filepath.Join("/data", "March_2025.json"), s.Path(2025, time.March))
}

func TestLoad_MissingIsEmpty(t *testing.T) {
	s := NewStore(t.TempDir())
	snap, err := s.Load(2025, time.March)
	require.NoError(t, err)
	assert.Empty(t, snap.Groups)
	assert.True(t, snap.NetTotal.IsZero())
}

func TestSaveLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "snapshots")
	s := NewStore(dir)
	in := aggregate.Snapshot{
		Groups:   map[string]decimal.Decimal{"Food:Coffee:": dec("7.5"), "": dec("-0.01")},
		NetTotal: dec("7.49"),
	}
	require.NoError(t, s.Save(2025, time.March, in))

	got, err := s.Load(2025, time.March)
	require.NoError(t, err)
	require.Len(t, got.Groups, 2)
	assert.True(t, got.Groups["Food:Coffee:"].Equal(dec("7.5")))
	assert.True(t, got.Groups[""].Equal(dec("-0.01")))
	assert.True(t, got.NetTotal.Equal(dec("7.49")))
}

func TestSave_PlainNumbers(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)
	require.NoError(t, s.Save(2025, time.March, aggregate.Snapshot{
		Groups:   map[string]decimal.Decimal{"Food:": dec("12.5")},
		NetTotal: dec("12.5"),
	}))

	data, err := os.ReadFile(filepath.Join(dir, "March_2025.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Food:": 12.5`)
	assert.Contains(t, string(data), `"net_total": 12.5`)
}

func TestLoad_Malformed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "March_2025.json"), []byte("{not json"), 0o644))

	_, err := NewStore(dir).Load(2025, time.March)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing snapshot")
}

func TestPersist_Rolling(t *testing.T) {
	s := NewStore(t.TempDir())
	require.NoError(t, s.Save(2025, time.March, aggregate.Snapshot{
		Groups:   map[string]decimal.Decimal{"Food:": dec("5")},
		NetTotal: dec("5"),
	}))

	l := model.Ledger{
		Groups:        []model.Group{{Key: "Food:", Amount: dec("10")}},
		TotalExpenses: dec("10"),
		NetTotal:      dec("10"),
	}
	snap, err := s.Persist(day, l, true)
	require.NoError(t, err)
	assert.True(t, snap.Groups["Food:"].Equal(dec("15")))
	assert.True(t, snap.NetTotal.Equal(dec("15")))

	reloaded, err := s.Load(2025, time.March)
	require.NoError(t, err)
	assert.True(t, reloaded.Groups["Food:"].Equal(dec("15")))
}

func TestPersist_RollingFirstRunOfMonth(t *testing.T) {
	s := NewStore(t.TempDir())
	l := model.Ledger{Groups: []model.Group{{Key: "Food:", Amount: dec("10")}}, NetTotal: dec("10")}

	snap, err := s.Persist(day, l, true)
	require.NoError(t, err)
	assert.True(t, snap.Groups["Food:"].Equal(dec("10")))
}

func TestPersist_Overwrite(t *testing.T) {
	s := NewStore(t.TempDir())
	require.NoError(t, s.Save(2025, time.March, aggregate.Snapshot{
		Groups:   map[string]decimal.Decimal{"Old:": dec("99")},
		NetTotal: dec("99"),
	}))

	l := model.Ledger{Groups: []model.Group{{Key: "Food:", Amount: dec("10")}}, NetTotal: dec("10")}
	_, err := s.Persist(day, l, false)
	require.NoError(t, err)

	got, err := s.Load(2025, time.March)
	require.NoError(t, err)
	assert.NotContains(t, got.Groups, "Old:")
	assert.True(t, got.NetTotal.Equal(dec("10")))
}

func TestPersist_RollingFromFlatFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "March_2025.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"Food:": 5, "Net Total": 5}`), 0o644))

	l := model.Ledger{
		Groups:        []model.Group{{Key: "Food:", Amount: dec("10")}},
		TotalExpenses: dec("10"),
		NetTotal:      dec("10"),
	}
	snap, err := NewStore(dir).Persist(day, l, true)
	require.NoError(t, err)
	assert.True(t, snap.Groups["Food:"].Equal(dec("15")), "got %s", snap.Groups["Food:"])
	assert.True(t, snap.NetTotal.Equal(dec("15")), "got %s", snap.NetTotal)
	assert.NotContains(t, snap.Groups, model.NetTotalLabel)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"net_total": 15`)
}

func TestLoad_FlatDropsTotalExpenses(t *testing.T) {
	dir := t.TempDir()
	flat := `{"Transport:": 30, "Food:Coffee:": 7.5, "Total Expenses": 42.5, "Net Total": 37.5}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "March_2025.json"), []byte(flat), 0o644))

	snap, err := NewStore(dir).Load(2025, time.March)
	require.NoError(t, err)
	assert.Len(t, snap.Groups, 2)
	assert.True(t, snap.Groups["Food:Coffee:"].Equal(dec("7.5")))
	assert.True(t, snap.NetTotal.Equal(dec("37.5")))
}

func TestPersist_RollingUnreadableFileIsKept(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown field", `{"groups": {"Food:": 5}, "net_total": 5, "extra": 1}`},
		{"flat non-number", `{"Food:": "lots", "Net Total": 5}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "March_2025.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.body), 0o644))

			l := model.Ledger{Groups: []model.Group{{Key: "Food:", Amount: dec("10")}}, NetTotal: dec("10")}
			_, err := NewStore(dir).Persist(day, l, true)
			require.Error(t, err)

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tt.body, string(data))
		})
	}
}
