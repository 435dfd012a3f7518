// Package snapshot keeps one JSON file of group totals per calendar month.
package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dailyspend/dailyspend/internal/aggregate"
	"github.com/dailyspend/dailyspend/internal/model"
)

// Store reads and writes monthly snapshot files in a directory.
type Store struct {
	dir string
}

// NewStore creates a Store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// fileFormat is the on-disk layout. json.Number keeps amounts as plain JSON
// numbers without losing decimal precision.
type fileFormat struct {
	Groups   map[string]json.Number `json:"groups"`
	NetTotal json.Number            `json:"net_total"`
}

// Path returns the snapshot file for a month, e.g. <dir>/October_2026.json.
func (s *Store) Path(year int, month time.Month) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s_%d.json", month, year))
}

// Load reads a month's snapshot. A missing file yields an empty snapshot.
// Files in the flat layout, where the net total is stored under the
// "Net Total" key next to the groups, are read as well.
func (s *Store) Load(year int, month time.Month) (aggregate.Snapshot, error) {
	path := s.Path(year, month)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return aggregate.Snapshot{Groups: map[string]decimal.Decimal{}}, nil
	}
	if err != nil {
		return aggregate.Snapshot{}, fmt.Errorf("reading snapshot %s: %w", path, err)
	}

	snap, err := decodeSnapshot(data)
	if err != nil {
		return aggregate.Snapshot{}, fmt.Errorf("parsing snapshot %s: %w", path, err)
	}
	return snap, nil
}

func decodeSnapshot(data []byte) (aggregate.Snapshot, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return aggregate.Snapshot{}, err
	}
	if raw, ok := top["groups"]; ok && bytes.HasPrefix(bytes.TrimSpace(raw), []byte("{")) {
		return decodeStructured(data)
	}
	return decodeFlat(top)
}

func decodeStructured(data []byte) (aggregate.Snapshot, error) {
	var ff fileFormat
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	dec.DisallowUnknownFields()
	if err := dec.Decode(&ff); err != nil {
		return aggregate.Snapshot{}, err
	}

	snap := aggregate.Snapshot{Groups: make(map[string]decimal.Decimal, len(ff.Groups))}
	for k, v := range ff.Groups {
		d, err := decimal.NewFromString(v.String())
		if err != nil {
			return aggregate.Snapshot{}, fmt.Errorf("group %q: %w", k, err)
		}
		snap.Groups[k] = d
	}
	if ff.NetTotal != "" {
		d, err := decimal.NewFromString(ff.NetTotal.String())
		if err != nil {
			return aggregate.Snapshot{}, fmt.Errorf("net total: %w", err)
		}
		snap.NetTotal = d
	}
	return snap, nil
}

// decodeFlat reads {"<key>": amount, ..., "Total Expenses": x, "Net Total": y}.
// Total Expenses is derived from the groups, so it is dropped.
func decodeFlat(top map[string]json.RawMessage) (aggregate.Snapshot, error) {
	snap := aggregate.Snapshot{Groups: make(map[string]decimal.Decimal, len(top))}
	for k, raw := range top {
		var d decimal.Decimal
		if err := json.Unmarshal(raw, &d); err != nil {
			return aggregate.Snapshot{}, fmt.Errorf("key %q: want a number: %w", k, err)
		}
		switch k {
		case model.NetTotalLabel:
			snap.NetTotal = d
		case model.TotalExpensesLabel:
		default:
			snap.Groups[k] = d
		}
	}
	return snap, nil
}

// Save writes a month's snapshot, replacing any existing file.
func (s *Store) Save(year int, month time.Month, snap aggregate.Snapshot) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating snapshot dir: %w", err)
	}

	ff := fileFormat{
		Groups:   make(map[string]json.Number, len(snap.Groups)),
		NetTotal: json.Number(snap.NetTotal.String()),
	}
	for k, v := range snap.Groups {
		ff.Groups[k] = json.Number(v.String())
	}

	data, err := json.MarshalIndent(ff, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	path := s.Path(year, month)
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing snapshot %s: %w", path, err)
	}
	return nil
}

// Persist stores a ledger under the month containing day. With rolling set the
// ledger is merged into the month's existing totals, otherwise it replaces them.
// It returns the snapshot as written.
func (s *Store) Persist(day time.Time, l model.Ledger, rolling bool) (aggregate.Snapshot, error) {
	year, month := day.Year(), day.Month()

	snap := aggregate.FromLedger(l)
	if rolling {
		prior, err := s.Load(year, month)
		if err != nil {
			return aggregate.Snapshot{}, err
		}
		snap = aggregate.Merge(prior, l)
	}

	if err := s.Save(year, month, snap); err != nil {
		return aggregate.Snapshot{}, err
	}
	return snap, nil
}
