package output

import (
	"fmt"

	"github.com/vegasq/colq/executor"
	"github.com/vegasq/colq/workset"
)

// Table is a query result with every surviving cell read out of its pool.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Materialize dereferences the handles of a result. Only the rows that passed
// the filter and the columns the query asked for are read.
func Materialize(ws *workset.WorkingSet, res *executor.Result) (*Table, error) {
	t := &Table{
		Columns: make([]string, len(res.Columns)),
		Rows:    make([][]string, 0, len(res.Rows)),
	}
	for i, col := range res.Columns {
		t.Columns[i] = ws.Name(col)
	}

	for i, refs := range res.Rows {
		row := make([]string, len(refs))
		for j, ref := range refs {
			v, err := ws.Read(ref)
			if err != nil {
				return nil, fmt.Errorf("result row %d, column %q: %w", i, t.Columns[j], err)
			}
			row[j] = string(v)
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}
