// Package executor runs parsed statements against a working set.
//
// Execution resolves the selected columns, compiles the WHERE condition once
// into a Filter and folds that filter over every row. Matching rows are
// returned as workset.Ref values rather than bytes: callers read only the
// cells of rows that survived the filter, and only for requested columns.
//
// Example usage:
//
//	stmt, err := query.Parse(`get name where age = "30"`)
//	if err != nil {
//	    return err
//	}
//	res, err := executor.New(ws).Execute(stmt)
//	if err != nil {
//	    return err
//	}
//	for _, row := range res.Rows {
//	    for _, ref := range row {
//	        value, _ := ws.Read(ref)
//	        fmt.Println(string(value))
//	    }
//	}
package executor

import (
	"fmt"

	"github.com/RoaringBitmap/roaring"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vegasq/colq/query"
	"github.com/vegasq/colq/workset"
)

// minChunkRows keeps parallel chunks from becoming smaller than the cost of
// scheduling them.
const minChunkRows = 1024

// Result holds the rows selected by a statement.
type Result struct {
	// Columns are the selected column indices, in query order.
	Columns []int

	// Rows holds one Ref per selected column for each matching row, in
	// ingestion order.
	Rows [][]workset.Ref

	// Selection is the set of row indices in Rows.
	Selection *roaring.Bitmap

	// Filter is the compiled WHERE condition, nil without one.
	Filter Filter
}

// Len returns the number of result rows.
func (r *Result) Len() int {
	return len(r.Rows)
}

// Executor evaluates statements against one working set. It holds no
// per-query state and is safe for concurrent use.
type Executor struct {
	ws          *workset.WorkingSet
	parallelism int
	limit       int
}

// Option configures an Executor.
type Option func(*Executor)

// WithParallelism sets the number of goroutines evaluating row chunks.
// Values below 2 evaluate sequentially.
func WithParallelism(n int) Option {
	return func(e *Executor) {
		e.parallelism = n
	}
}

// WithLimit stops after n matching rows. Zero means no limit.
func WithLimit(n int) Option {
	return func(e *Executor) {
		e.limit = n
	}
}

// New creates an executor over ws.
func New(ws *workset.WorkingSet, opts ...Option) *Executor {
	e := &Executor{ws: ws, parallelism: 1}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs a parsed statement.
func (e *Executor) Execute(stmt query.Statement) (*Result, error) {
	switch s := stmt.(type) {
	case query.Get:
		return e.get(s)
	case nil:
		return nil, fmt.Errorf("nil statement")
	default:
		return nil, fmt.Errorf("unsupported statement %T", stmt)
	}
}

func (e *Executor) get(stmt query.Get) (*Result, error) {
	columns, err := e.resolveColumns(stmt.Columns)
	if err != nil {
		return nil, err
	}

	var filter Filter
	if stmt.Where != nil {
		filter, err = Compile(stmt.Where, e.ws)
		if err != nil {
			return nil, err
		}
		logrus.WithField("filter", filter.String()).Debug("compiled filter")
	}

	selection, err := e.selectRows(filter)
	if err != nil {
		return nil, err
	}

	rows, err := e.project(selection, columns)
	if err != nil {
		return nil, err
	}

	return &Result{
		Columns:   columns,
		Rows:      rows,
		Selection: selection,
		Filter:    filter,
	}, nil
}

func (e *Executor) resolveColumns(expr query.Expr) ([]int, error) {
	var columns []int

	var walk func(query.Expr) error
	walk = func(n query.Expr) error {
		switch n := n.(type) {
		case query.Literal:
			idx, ok := e.ws.Column(n.Token.Value)
			if !ok {
				return &ResolveError{Column: n.Token.Value, Pos: n.Token.Pos}
			}
			columns = append(columns, idx)
			return nil
		case query.Multiple:
			if err := walk(n.Left); err != nil {
				return err
			}
			return walk(n.Right)
		default:
			return fmt.Errorf("%w: column list contains %T", ErrInvalidCondition, n)
		}
	}

	if err := walk(expr); err != nil {
		return nil, err
	}
	return columns, nil
}

// selectRows returns the indices of rows matching filter.
func (e *Executor) selectRows(filter Filter) (*roaring.Bitmap, error) {
	n := e.ws.Len()
	chunks := e.chunks(n)

	if chunks <= 1 {
		return e.scan(filter, 0, n, e.limit)
	}

	size := (n + chunks - 1) / chunks
	parts := make([]*roaring.Bitmap, chunks)

	var g errgroup.Group
	g.SetLimit(e.parallelism)
	for i := 0; i < chunks; i++ {
		i := i
		start := i * size
		end := min(start+size, n)
		g.Go(func() error {
			part, err := e.scan(filter, start, end, 0)
			if err != nil {
				return err
			}
			parts[i] = part
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	selection := roaring.New()
	for _, part := range parts {
		selection.Or(part)
	}
	if e.limit > 0 && selection.GetCardinality() > uint64(e.limit) {
		last, err := selection.Select(uint32(e.limit - 1))
		if err != nil {
			return nil, err
		}
		selection.RemoveRange(uint64(last)+1, uint64(n))
	}
	return selection, nil
}

func (e *Executor) chunks(n int) int {
	if e.parallelism < 2 || n < 2*minChunkRows {
		return 1
	}
	return min(e.parallelism, n/minChunkRows)
}

// scan folds filter over rows [start, end), stopping after limit matches
// when limit is positive.
func (e *Executor) scan(filter Filter, start, end, limit int) (*roaring.Bitmap, error) {
	selection := roaring.New()
	matched := 0

	for row := start; row < end; row++ {
		ok, err := filter.Match(e.ws, row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		if !ok {
			continue
		}
		selection.Add(uint32(row))
		matched++
		if limit > 0 && matched >= limit {
			break
		}
	}

	return selection, nil
}

// project builds the Ref rows for the selected row indices, in ascending order.
func (e *Executor) project(selection *roaring.Bitmap, columns []int) ([][]workset.Ref, error) {
	rows := make([][]workset.Ref, 0, selection.GetCardinality())

	it := selection.Iterator()
	for it.HasNext() {
		row := int(it.Next())
		refs := make([]workset.Ref, len(columns))
		for i, col := range columns {
			ref, err := e.ws.Ref(row, col)
			if err != nil {
				return nil, err
			}
			refs[i] = ref
		}
		rows = append(rows, refs)
	}

	return rows, nil
}
