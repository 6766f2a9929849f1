package output

import (
	"fmt"
	"io"
	"strings"
)

// Formatter defines the interface for output formatters.
//
// Implementers must provide Format to write a materialized table in the
// target format and SetOutput to change the output destination.
type Formatter interface {
	// Format writes the table in the formatter's specific format
	Format(t *Table) error

	// SetOutput changes the output writer
	SetOutput(w io.Writer)
}

// Names of the supported output formats.
const (
	FormatTable = "table"
	FormatCSV   = "csv"
	FormatJSONL = "jsonl"
)

// Formats lists the accepted format names.
var Formats = []string{FormatTable, FormatCSV, FormatJSONL}

// NewFormatter returns the formatter registered under name, writing to w.
func NewFormatter(name string, w io.Writer) (Formatter, error) {
	switch strings.ToLower(name) {
	case FormatTable:
		return NewTableFormatter(w), nil
	case FormatCSV:
		return NewCSVFormatter(w), nil
	case FormatJSONL, "json":
		return NewJSONFormatter(w), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want one of %s)", name, strings.Join(Formats, ", "))
	}
}
