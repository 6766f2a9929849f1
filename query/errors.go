package query

import (
	"errors"
	"fmt"
)

var (
	// ErrUnterminatedString is returned when a quoted value has no closing quote.
	ErrUnterminatedString = errors.New("unterminated string")

	// ErrUnexpectedEnd is returned when the query ends where more input is required.
	ErrUnexpectedEnd = errors.New("unexpected end of query")

	// ErrUnexpectedToken is returned when a token does not fit the grammar.
	ErrUnexpectedToken = errors.New("unexpected token")

	// ErrUnknownStatement is returned when the query does not start with a known keyword.
	ErrUnknownStatement = errors.New("unknown statement")
)

// ParseError reports a scan or parse failure at a byte position of the query.
type ParseError struct {
	Pos int
	Msg string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("position %d: %s", e.Pos, e.Msg)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func newParseError(pos int, err error, format string, args ...interface{}) *ParseError {
	return &ParseError{
		Pos: pos,
		Msg: fmt.Sprintf("%v: %s", err, fmt.Sprintf(format, args...)),
		Err: err,
	}
}
