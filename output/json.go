package output

import (
	"bufio"
	"io"

	"github.com/segmentio/encoding/json"
)

// JSONFormatter outputs rows as JSON Lines format
type JSONFormatter struct {
	writer io.Writer
}

// NewJSONFormatter creates a new JSON Lines formatter
func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{writer: w}
}

// SetOutput sets the output writer
func (j *JSONFormatter) SetOutput(w io.Writer) {
	j.writer = w
}

// Format writes one JSON object per row. Keys follow the query's column
// order; a column selected twice appears twice.
func (j *JSONFormatter) Format(t *Table) error {
	keys := make([][]byte, len(t.Columns))
	for i, name := range t.Columns {
		k, err := json.Marshal(name)
		if err != nil {
			return err
		}
		keys[i] = k
	}

	w := bufio.NewWriter(j.writer)
	for _, row := range t.Rows {
		_ = w.WriteByte('{')
		for i, v := range row {
			if i > 0 {
				_ = w.WriteByte(',')
			}
			val, err := json.Marshal(v)
			if err != nil {
				return err
			}
			_, _ = w.Write(keys[i])
			_ = w.WriteByte(':')
			_, _ = w.Write(val)
		}
		_, _ = w.WriteString("}\n")
	}
	return w.Flush()
}
