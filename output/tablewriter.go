package output

import (
	"io"

	"github.com/mattn/go-runewidth"
	"github.com/olekukonko/tablewriter"
)

// TableFormatter renders rows as an aligned text table.
type TableFormatter struct {
	writer   io.Writer
	maxWidth int
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{writer: w}
}

// SetOutput sets the output writer
func (f *TableFormatter) SetOutput(w io.Writer) {
	f.writer = w
}

// SetMaxCellWidth truncates cells wider than n display columns. Zero disables
// truncation.
func (f *TableFormatter) SetMaxCellWidth(n int) {
	f.maxWidth = n
}

// Format writes the table. An empty result still prints the header.
func (f *TableFormatter) Format(t *Table) error {
	tw := tablewriter.NewWriter(f.writer)
	tw.SetAutoFormatHeaders(false)
	tw.SetAutoWrapText(false)
	tw.SetHeader(f.fit(t.Columns))
	for _, row := range t.Rows {
		tw.Append(f.fit(row))
	}
	tw.Render()
	return nil
}

func (f *TableFormatter) fit(cells []string) []string {
	if f.maxWidth <= 0 {
		return cells
	}
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = runewidth.Truncate(c, f.maxWidth, "...")
	}
	return out
}
