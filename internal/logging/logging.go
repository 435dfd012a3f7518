// Package logging builds the structured logger shared by every command.
package logging

import (
	"io"

	"github.com/charmbracelet/log"
)

// Common field names.
const (
	FieldComponent = "component"
	FieldStart     = "start"
	FieldEnd       = "end"
	FieldTarget    = "target"
	FieldCount     = "count"
	FieldPath      = "path"
)

// New returns a logger writing to w. verbose enables debug output.
func New(w io.Writer, verbose bool) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
		Prefix:          "dailyspend",
	})
}

// Discard returns a logger that drops everything, for tests.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

// Component returns a child logger tagged with a component name.
func Component(l *log.Logger, name string) *log.Logger {
	return l.With(FieldComponent, name)
}
