package query

import "fmt"

// Expr is a node of the query AST. The set of node types is closed:
// Literal, Multiple and Conditional.
type Expr interface {
	expr() // marker method
}

// Literal is a leaf holding a column name or a value.
type Literal struct {
	Token Token
}

// Multiple is a list of one or more terms, nested to the right:
// "a b c" is Multiple{a, Multiple{b, c}}.
type Multiple struct {
	Left  Expr
	Right Expr
}

// Conditional is either a comparison (Op is TokenEqual or TokenNotEqual, both
// operands are Literals) or a logical combination (Op is TokenAnd or TokenOr,
// both operands are Conditionals).
type Conditional struct {
	Left  Expr
	Op    Token
	Right Expr
}

func (Literal) expr()     {}
func (Multiple) expr()    {}
func (Conditional) expr() {}

// Statement is a parsed query. Get is the only statement.
type Statement interface {
	statement() // marker method
}

// Get selects columns, optionally from a named table and filtered by a condition.
// Table and Where are nil when the clause is absent.
type Get struct {
	Columns Expr
	Table   Expr
	Where   Expr
}

func (Get) statement() {}

// Text returns the literal text of a term.
func Text(e Expr) (string, error) {
	lit, ok := e.(Literal)
	if !ok {
		return "", fmt.Errorf("expected literal, got %T", e)
	}
	return lit.Token.Value, nil
}

// ColumnNames flattens a column list into names, in query order.
func ColumnNames(e Expr) ([]string, error) {
	switch n := e.(type) {
	case Literal:
		return []string{n.Token.Value}, nil
	case Multiple:
		left, err := ColumnNames(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := ColumnNames(n.Right)
		if err != nil {
			return nil, err
		}
		return append(left, right...), nil
	default:
		return nil, fmt.Errorf("invalid column list node %T", e)
	}
}
