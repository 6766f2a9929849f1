// Package workset holds an ingested file in columnar form.
//
// Every column gets its own heap.Pool; every row is a list of handles, one per
// column, in column order. A WorkingSet is built once through a Builder and is
// read-only afterwards, so it can be shared by concurrent readers.
package workset

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vegasq/colq/heap"
)

var (
	// ErrEmptyHeader is returned when the header has no columns.
	ErrEmptyHeader = errors.New("header has no columns")

	// ErrRaggedRow is returned when a row's cell count differs from the header's.
	ErrRaggedRow = errors.New("row cell count does not match header")

	// ErrRowOutOfRange is returned for a row index past the last row.
	ErrRowOutOfRange = errors.New("row out of range")

	// ErrColumnOutOfRange is returned for a column index past the last column.
	ErrColumnOutOfRange = errors.New("column out of range")
)

// Ref pairs a handle with the index of the column whose pool owns it. It is
// the only form in which handles leave the working set.
type Ref struct {
	Column int
	Handle heap.Handle
}

// WorkingSet is the columnar, in-memory form of one ingested file.
type WorkingSet struct {
	columns map[string]int
	names   []string
	pools   []*heap.Pool
	rows    [][]heap.Handle
}

// ColumnStats describes the storage used by one column.
type ColumnStats struct {
	Name string
	heap.Stats
}

// Column returns the index of the named column.
func (ws *WorkingSet) Column(name string) (int, bool) {
	idx, ok := ws.columns[name]
	return idx, ok
}

// Columns returns the header names in column index order.
func (ws *WorkingSet) Columns() []string {
	out := make([]string, len(ws.names))
	copy(out, ws.names)
	return out
}

// Name returns the header name of a column index.
func (ws *WorkingSet) Name(col int) string {
	if col < 0 || col >= len(ws.names) {
		return ""
	}
	return ws.names[col]
}

// Width returns the number of columns, which is the number of handles per row.
func (ws *WorkingSet) Width() int {
	return len(ws.pools)
}

// Len returns the number of rows.
func (ws *WorkingSet) Len() int {
	return len(ws.rows)
}

// Ref returns the reference to the cell at (row, col).
func (ws *WorkingSet) Ref(row, col int) (Ref, error) {
	if row < 0 || row >= len(ws.rows) {
		return Ref{}, fmt.Errorf("%w: %d (rows %d)", ErrRowOutOfRange, row, len(ws.rows))
	}
	if col < 0 || col >= len(ws.pools) {
		return Ref{}, fmt.Errorf("%w: %d (columns %d)", ErrColumnOutOfRange, col, len(ws.pools))
	}
	return Ref{Column: col, Handle: ws.rows[row][col]}, nil
}

// Read returns the bytes a reference points to. The slice aliases pool memory
// and must not be modified.
func (ws *WorkingSet) Read(ref Ref) ([]byte, error) {
	if ref.Column < 0 || ref.Column >= len(ws.pools) {
		return nil, fmt.Errorf("%w: %d (columns %d)", ErrColumnOutOfRange, ref.Column, len(ws.pools))
	}
	value, err := ws.pools[ref.Column].Read(ref.Handle)
	if err != nil {
		return nil, fmt.Errorf("column %d: %w", ref.Column, err)
	}
	return value, nil
}

// Cell reads the value at (row, col).
func (ws *WorkingSet) Cell(row, col int) ([]byte, error) {
	ref, err := ws.Ref(row, col)
	if err != nil {
		return nil, err
	}
	value, err := ws.Read(ref)
	if err != nil {
		return nil, fmt.Errorf("row %d: %w", row, err)
	}
	return value, nil
}

// Stats reports pool usage per column, in column order.
func (ws *WorkingSet) Stats() []ColumnStats {
	stats := make([]ColumnStats, len(ws.pools))
	for i, p := range ws.pools {
		stats[i] = ColumnStats{Name: ws.names[i], Stats: p.Stats()}
	}
	return stats
}

// Builder accumulates rows for a WorkingSet. It is not safe for concurrent use.
type Builder struct {
	ws *WorkingSet
}

// NewBuilder starts a working set with the given header. Names are trimmed;
// a repeated name maps to its last position, but every position keeps its own
// pool.
func NewBuilder(header []string) (*Builder, error) {
	if len(header) == 0 {
		return nil, ErrEmptyHeader
	}

	ws := &WorkingSet{
		columns: make(map[string]int, len(header)),
		names:   make([]string, len(header)),
		pools:   make([]*heap.Pool, len(header)),
	}
	for i, name := range header {
		name = strings.TrimSpace(name)
		ws.columns[name] = i
		ws.names[i] = name
		ws.pools[i] = heap.NewPool()
	}

	return &Builder{ws: ws}, nil
}

// Append stores one data row. Cells are trimmed and allocated into their
// column's pool in column order.
func (b *Builder) Append(record []string) error {
	if len(record) != len(b.ws.pools) {
		return fmt.Errorf("%w: row %d has %d cells, header has %d",
			ErrRaggedRow, len(b.ws.rows), len(record), len(b.ws.pools))
	}

	row := make([]heap.Handle, len(record))
	for col, cell := range record {
		h, err := b.ws.pools[col].Allocate([]byte(strings.TrimSpace(cell)))
		if err != nil {
			return fmt.Errorf("row %d, column %q: %w", len(b.ws.rows), b.ws.names[col], err)
		}
		row[col] = h
	}

	b.ws.rows = append(b.ws.rows, row)
	return nil
}

// Len returns the number of rows appended so far.
func (b *Builder) Len() int {
	return len(b.ws.rows)
}

// Finish returns the completed working set. The builder must not be used
// afterwards.
func (b *Builder) Finish() *WorkingSet {
	ws := b.ws
	b.ws = nil
	return ws
}

// Build creates a working set from a header and all data rows at once.
func Build(header []string, rows [][]string) (*WorkingSet, error) {
	b, err := NewBuilder(header)
	if err != nil {
		return nil, err
	}
	for _, record := range rows {
		if err := b.Append(record); err != nil {
			return nil, err
		}
	}
	return b.Finish(), nil
}
