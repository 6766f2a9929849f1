package query

import (
	"fmt"
	"strings"
)

// TokenType represents the type of a token
type TokenType int

const (
	// Keywords
	TokenGet TokenType = iota
	TokenWhere

	// Operators
	TokenBang     // !
	TokenEqual    // =
	TokenAt       // @
	TokenNotEqual // != (combined by the parser from ! and =)

	// Conditionals
	TokenAnd
	TokenOr

	// Literals
	TokenIdent
	TokenQuoted

	// Special
	TokenEOF
)

var tokenNames = map[TokenType]string{
	TokenGet:      "GET",
	TokenWhere:    "WHERE",
	TokenBang:     "'!'",
	TokenEqual:    "'='",
	TokenAt:       "'@'",
	TokenNotEqual: "'!='",
	TokenAnd:      "AND",
	TokenOr:       "OR",
	TokenIdent:    "identifier",
	TokenQuoted:   "quoted value",
	TokenEOF:      "end of input",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// keywords maps lower-cased lexemes to their token type. Anything else is an
// identifier.
var keywords = map[string]TokenType{
	"get":   TokenGet,
	"where": TokenWhere,
	"and":   TokenAnd,
	"or":    TokenOr,
	"=":     TokenEqual,
	"!":     TokenBang,
	"@":     TokenAt,
}

// Lookup classifies a bare lexeme. Keywords are case-insensitive.
func Lookup(lexeme string) TokenType {
	if tokType, ok := keywords[strings.ToLower(lexeme)]; ok {
		return tokType
	}
	return TokenIdent
}

// Token represents a lexical token
type Token struct {
	Type  TokenType
	Value string
	Pos   int // byte offset in the query
}

func (t Token) String() string {
	if t.Type == TokenEOF {
		return t.Type.String()
	}
	return fmt.Sprintf("%v %q", t.Type, t.Value)
}

// isTerm reports whether the token can be used as a column name or value.
func (t Token) isTerm() bool {
	return t.Type == TokenIdent || t.Type == TokenQuoted
}
