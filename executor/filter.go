package executor

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/vegasq/colq/query"
)

var (
	// ErrMissingColumn is returned when a query names a column the working set does not have.
	ErrMissingColumn = errors.New("missing column")

	// ErrInvalidCondition is returned for condition trees the parser never produces.
	ErrInvalidCondition = errors.New("invalid condition")
)

// ResolveError reports a column name that is not in the working set.
type ResolveError struct {
	Column string
	Pos    int // byte offset of the name in the query
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("position %d: %v %q", e.Pos, ErrMissingColumn, e.Column)
}

func (e *ResolveError) Unwrap() error {
	return ErrMissingColumn
}

// Resolver maps column names to column indices.
type Resolver interface {
	Column(name string) (int, bool)
}

// CellReader returns the stored bytes of one cell.
type CellReader interface {
	Cell(row, col int) ([]byte, error)
}

// LogicalOp joins a clause to the result of the clauses before it.
type LogicalOp uint8

const (
	OpNone LogicalOp = iota // first clause only
	OpAnd
	OpOr
)

func (op LogicalOp) String() string {
	switch op {
	case OpNone:
		return "NONE"
	case OpAnd:
		return "AND"
	case OpOr:
		return "OR"
	default:
		return fmt.Sprintf("LogicalOp(%d)", uint8(op))
	}
}

// PredicateKind is the comparison a predicate performs.
type PredicateKind uint8

const (
	Equals PredicateKind = iota
	NotEquals
)

func (k PredicateKind) String() string {
	switch k {
	case Equals:
		return "="
	case NotEquals:
		return "!="
	default:
		return fmt.Sprintf("PredicateKind(%d)", uint8(k))
	}
}

// Predicate compares a stored value against an expected byte string.
type Predicate struct {
	Kind     PredicateKind
	Expected []byte
}

// Match applies the predicate to the stored bytes of one cell.
func (p Predicate) Match(actual []byte) bool {
	switch p.Kind {
	case Equals:
		return bytes.Equal(actual, p.Expected)
	case NotEquals:
		return !bytes.Equal(actual, p.Expected)
	default:
		return false
	}
}

// Clause is one (operator, column, predicate) step of a compiled filter.
type Clause struct {
	Op        LogicalOp
	Column    int
	Predicate Predicate
}

// Filter is a compiled condition: clauses folded strictly left to right.
type Filter []Clause

// Compile flattens a condition tree into a Filter, resolving column names
// through cols.
func Compile(cond query.Expr, cols Resolver) (Filter, error) {
	var f Filter
	if err := f.flatten(cond, OpNone, cols); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *Filter) flatten(e query.Expr, op LogicalOp, cols Resolver) error {
	cond, ok := e.(query.Conditional)
	if !ok {
		return fmt.Errorf("%w: expected conditional, got %T", ErrInvalidCondition, e)
	}

	switch cond.Op.Type {
	case query.TokenAnd, query.TokenOr:
		if err := f.flatten(cond.Left, op, cols); err != nil {
			return err
		}
		if !isComparison(cond.Right) {
			return fmt.Errorf("%w: right operand of %v must be a comparison", ErrInvalidCondition, cond.Op.Type)
		}
		return f.flatten(cond.Right, logicalOp(cond.Op.Type), cols)

	case query.TokenEqual, query.TokenNotEqual:
		clause, err := compileComparison(cond, cols)
		if err != nil {
			return err
		}
		clause.Op = op
		*f = append(*f, clause)
		return nil

	default:
		return fmt.Errorf("%w: unsupported operator %v", ErrInvalidCondition, cond.Op.Type)
	}
}

func compileComparison(cond query.Conditional, cols Resolver) (Clause, error) {
	left, ok := cond.Left.(query.Literal)
	if !ok {
		return Clause{}, fmt.Errorf("%w: comparison column must be a literal, got %T", ErrInvalidCondition, cond.Left)
	}
	expected, err := query.Text(cond.Right)
	if err != nil {
		return Clause{}, fmt.Errorf("%w: %v", ErrInvalidCondition, err)
	}

	col, ok := cols.Column(left.Token.Value)
	if !ok {
		return Clause{}, &ResolveError{Column: left.Token.Value, Pos: left.Token.Pos}
	}

	kind := Equals
	if cond.Op.Type == query.TokenNotEqual {
		kind = NotEquals
	}

	return Clause{
		Column:    col,
		Predicate: Predicate{Kind: kind, Expected: []byte(expected)},
	}, nil
}

func isComparison(e query.Expr) bool {
	cond, ok := e.(query.Conditional)
	return ok && (cond.Op.Type == query.TokenEqual || cond.Op.Type == query.TokenNotEqual)
}

func logicalOp(t query.TokenType) LogicalOp {
	if t == query.TokenOr {
		return OpOr
	}
	return OpAnd
}

// Match folds the filter over one row. The first clause seeds the result;
// each later clause combines with it by its operator. A clause whose outcome
// cannot change the result is not read.
func (f Filter) Match(src CellReader, row int) (bool, error) {
	if len(f) == 0 {
		return true, nil
	}

	var acc bool
	for i, c := range f {
		switch {
		case i == 0:
		case c.Op == OpAnd:
			if !acc {
				continue
			}
		case c.Op == OpOr:
			if acc {
				continue
			}
		default:
			return false, fmt.Errorf("%w: clause %d has operator %v", ErrInvalidCondition, i, c.Op)
		}

		actual, err := src.Cell(row, c.Column)
		if err != nil {
			return false, err
		}
		acc = c.Predicate.Match(actual)
	}

	return acc, nil
}

func (f Filter) String() string {
	parts := make([]string, len(f))
	for i, c := range f {
		parts[i] = fmt.Sprintf("(%v, %d, %v %q)", c.Op, c.Column, c.Predicate.Kind, c.Predicate.Expected)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
