// Package importer reads bank CSV exports as an offline transaction source.
package importer

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dailyspend/dailyspend/internal/fetch"
	"github.com/dailyspend/dailyspend/internal/model"
)

// Parser converts a bank CSV file into transactions.
type Parser interface {
	Parse(r io.Reader) ([]model.Transaction, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&ChaseParser{})
	return r
}

// ImportDir is the subdirectory of the data dir holding bank exports.
const ImportDir = "import"

// Scan returns the CSV files in <dataDir>/import/, sorted by name.
func Scan(dataDir string) ([]string, error) {
	dir := filepath.Join(dataDir, ImportDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".csv") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	return paths, nil
}

// CSVSource serves transactions from bank exports through the fetch.Pager contract.
type CSVSource struct {
	Parser Parser
	Paths  []string

	loaded []model.Transaction
}

// NewCSVSource builds a source over every export in <dataDir>/import/ using the named format.
func NewCSVSource(dataDir, format string) (*CSVSource, error) {
	p := DefaultRegistry().Get(format)
	if p == nil {
		return nil, fmt.Errorf("unknown import format %q", format)
	}
	paths, err := Scan(dataDir)
	if err != nil {
		return nil, err
	}
	return &CSVSource{Parser: p, Paths: paths}, nil
}

// Page returns the transactions of req.Range in file order, sliced by offset and count.
// Account filters do not apply to single-account exports.
func (s *CSVSource) Page(ctx context.Context, req fetch.PageRequest) (fetch.Page, error) {
	if err := ctx.Err(); err != nil {
		return fetch.Page{}, err
	}
	if s.loaded == nil {
		if err := s.load(); err != nil {
			return fetch.Page{}, err
		}
	}

	var inRange []model.Transaction
	for _, t := range s.loaded {
		if req.Range.Contains(t.Date) {
			inRange = append(inRange, t)
		}
	}

	start := min(req.Offset, len(inRange))
	end := min(start+req.Count, len(inRange))
	return fetch.Page{Transactions: inRange[start:end], Total: len(inRange)}, nil
}

func (s *CSVSource) load() error {
	all := []model.Transaction{}
	for _, path := range s.Paths {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("opening %s: %w", path, err)
		}
		txns, err := s.Parser.Parse(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
		all = append(all, txns...)
	}
	s.loaded = all
	return nil
}
