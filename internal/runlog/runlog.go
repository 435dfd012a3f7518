// Package runlog records one CSV row per completed report.
package runlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Entry is one row in the run log.
type Entry struct {
	Timestamp time.Time
	Command   string
	Start     string // YYYY-MM-DD
	End       string // YYYY-MM-DD
	Target    string
	NetTotal  decimal.Decimal
}

// Header is the CSV header for run-log.csv.
const Header = "timestamp,command,start,end,target,net_total"

const (
	numFields   = 6
	logDir      = "logs"
	logFile     = "logs/run-log.csv"
	colTime     = 0
	colCommand  = 1
	colStart    = 2
	colEnd      = 3
	colTarget   = 4
	colNetTotal = 5
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTime] = e.Timestamp.Format(time.RFC3339)
	row[colCommand] = e.Command
	row[colStart] = e.Start
	row[colEnd] = e.End
	row[colTarget] = e.Target
	row[colNetTotal] = e.NetTotal.StringFixed(2)
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTime])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTime], err)
	}
	net, err := decimal.NewFromString(record[colNetTotal])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing net total %q: %w", record[colNetTotal], err)
	}

	return Entry{
		Timestamp: ts,
		Command:   record[colCommand],
		Start:     record[colStart],
		End:       record[colEnd],
		Target:    record[colTarget],
		NetTotal:  net,
	}, nil
}

// Append writes an entry to <dataDir>/logs/run-log.csv, creating the file and header if needed.
func Append(dataDir string, e Entry) error {
	if err := os.MkdirAll(filepath.Join(dataDir, logDir), 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(dataDir, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	if err := cw.Write(MarshalEntry(e)); err != nil {
		return fmt.Errorf("writing entry: %w", err)
	}
	cw.Flush()
	return cw.Error()
}

// Read returns all entries from <dataDir>/logs/run-log.csv.
// Returns nil if the file does not exist.
func Read(dataDir string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(dataDir, logFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading run log CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
