package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseGet(t *testing.T, input string) Get {
	t.Helper()
	stmt, err := Parse(input)
	require.NoError(t, err)
	get, ok := stmt.(Get)
	require.True(t, ok, "expected Get, got %T", stmt)
	return get
}

func literal(t *testing.T, e Expr) string {
	t.Helper()
	text, err := Text(e)
	require.NoError(t, err)
	return text
}

func TestParser_Columns(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"single column", "get name", []string{"name"}},
		{"multiple columns", "get name age city", []string{"name", "age", "city"}},
		{"quoted column", `get "full name" age`, []string{"full name", "age"}},
		{"uppercase keyword", "GET name", []string{"name"}},
		{"case preserved", "get Name NAME", []string{"Name", "NAME"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			get := parseGet(t, tt.query)

			cols, err := ColumnNames(get.Columns)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cols)
			assert.Nil(t, get.Table)
			assert.Nil(t, get.Where)
		})
	}
}

func TestParser_SingleColumnIsLiteral(t *testing.T) {
	get := parseGet(t, "get name")

	lit, ok := get.Columns.(Literal)
	require.True(t, ok)
	assert.Equal(t, Token{Type: TokenIdent, Value: "name", Pos: 4}, lit.Token)
}

func TestParser_ColumnListNestsRight(t *testing.T) {
	get := parseGet(t, "get a b c")

	top, ok := get.Columns.(Multiple)
	require.True(t, ok)
	assert.Equal(t, "a", literal(t, top.Left))

	rest, ok := top.Right.(Multiple)
	require.True(t, ok)
	assert.Equal(t, "b", literal(t, rest.Left))
	assert.Equal(t, "c", literal(t, rest.Right))
}

func TestParser_Table(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantCols  []string
		wantTable string
	}{
		{"identifier", "get name @ users", []string{"name"}, "users"},
		{"quoted", `get name @ "users"`, []string{"name"}, "users"},
		{"multiple columns", "get a b @ users", []string{"a", "b"}, "users"},
		{"file path", "get id @ data/people.csv", []string{"id"}, "data/people.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			get := parseGet(t, tt.query)

			cols, err := ColumnNames(get.Columns)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCols, cols)
			require.NotNil(t, get.Table)
			assert.Equal(t, tt.wantTable, literal(t, get.Table))
		})
	}
}

func TestParser_WhereEquality(t *testing.T) {
	get := parseGet(t, `get name where first = "john"`)

	assert.Nil(t, get.Table)
	cond, ok := get.Where.(Conditional)
	require.True(t, ok)

	assert.Equal(t, "first", literal(t, cond.Left))
	assert.Equal(t, TokenEqual, cond.Op.Type)
	assert.Equal(t, "=", cond.Op.Value)
	assert.Equal(t, "john", literal(t, cond.Right))
}

func TestParser_WhereWithTable(t *testing.T) {
	get := parseGet(t, `get name @ users where first = "john"`)

	assert.Equal(t, "users", literal(t, get.Table))
	cond, ok := get.Where.(Conditional)
	require.True(t, ok)
	assert.Equal(t, "first", literal(t, cond.Left))
	assert.Equal(t, "john", literal(t, cond.Right))
}

func TestParser_WhereNotEqual(t *testing.T) {
	get := parseGet(t, `get name where city != "Paris"`)

	cond, ok := get.Where.(Conditional)
	require.True(t, ok)
	assert.Equal(t, TokenNotEqual, cond.Op.Type)
	assert.Equal(t, "!=", cond.Op.Value)
	assert.Equal(t, 20, cond.Op.Pos)
	assert.Equal(t, "Paris", literal(t, cond.Right))
}

func TestParser_ConditionalFoldsLeft(t *testing.T) {
	get := parseGet(t, `get id where a = "1" or b = "2" and c = "3"`)

	// ((a = 1 or b = 2) and c = 3)
	top, ok := get.Where.(Conditional)
	require.True(t, ok)
	assert.Equal(t, TokenAnd, top.Op.Type)

	right, ok := top.Right.(Conditional)
	require.True(t, ok)
	assert.Equal(t, "c", literal(t, right.Left))

	left, ok := top.Left.(Conditional)
	require.True(t, ok)
	assert.Equal(t, TokenOr, left.Op.Type)

	first, ok := left.Left.(Conditional)
	require.True(t, ok)
	assert.Equal(t, "a", literal(t, first.Left))

	second, ok := left.Right.(Conditional)
	require.True(t, ok)
	assert.Equal(t, "b", literal(t, second.Left))
}

func TestParser_UnquotedValue(t *testing.T) {
	get := parseGet(t, "get name where age = 30")

	cond := get.Where.(Conditional)
	assert.Equal(t, "30", literal(t, cond.Right))
}

func TestParser_Errors(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantErr error
		wantPos int
	}{
		{"empty query", "", ErrUnexpectedEnd, 0},
		{"get without columns", "get", ErrUnexpectedEnd, 3},
		{"unknown statement", "select name", ErrUnknownStatement, 0},
		{"statement starts with identifier", "name get", ErrUnknownStatement, 0},
		{"missing table after at", "get name @", ErrUnexpectedEnd, 10},
		{"keyword as table", "get name @ where a = b", ErrUnexpectedToken, 11},
		{"missing condition", "get name where", ErrUnexpectedEnd, 14},
		{"missing operator", "get name where a b", ErrUnexpectedToken, 17},
		{"missing value", "get name where a =", ErrUnexpectedEnd, 18},
		{"bang without equals", `get name where a ! "x"`, ErrUnexpectedToken, 19},
		{"dangling and", `get name where a = "x" and`, ErrUnexpectedEnd, 26},
		{"keyword as column", "get where", ErrUnexpectedToken, 4},
		{"operator as column", "get = name", ErrUnexpectedToken, 4},
		{"trailing tokens", "get name = x", ErrUnexpectedToken, 9},
		{"trailing after condition", `get a where b = "c" d`, ErrUnexpectedToken, 20},
		{"unterminated string", `get name where a = "x`, ErrUnterminatedString, 19},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.query)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var perr *ParseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.wantPos, perr.Pos)
			assert.NotEmpty(t, perr.Msg)
		})
	}
}

func TestParser_Limits(t *testing.T) {
	long := make([]byte, MaxQueryLength+1)
	for i := range long {
		long[i] = 'a'
	}
	_, err := Parse(string(long))
	assert.ErrorIs(t, err, ErrQueryTooLong)

	many := "get"
	for i := 0; i < MaxTokens; i++ {
		many += " c"
	}
	_, err = Parse(many)
	assert.ErrorIs(t, err, ErrTooManyTokens)
}

func TestColumnNames_InvalidNode(t *testing.T) {
	_, err := ColumnNames(Conditional{})
	assert.Error(t, err)

	_, err = Text(Multiple{})
	assert.Error(t, err)
}
