// Package query implements the colq query language.
//
// A query selects columns from the loaded working set and optionally filters
// rows by equality conditions:
//
//	get name age
//	get name @ people where city = "New York"
//	get "full name" where age = "30" and city != "Paris"
//
// Keywords (get, where, and, or) are case-insensitive. Identifiers and quoted
// values are case-sensitive and are compared as raw bytes. The table after '@'
// is accepted but not used: a session works on a single working set.
//
// # Precedence
//
// AND and OR have the same precedence and are applied strictly from left to
// right. There are no parentheses:
//
//	get id where a = "1" or b = "2" and c = "3"
//
// selects rows where (a = 1 or b = 2) holds and c = 3 holds.
//
// # Basic Usage
//
//	stmt, err := query.Parse(`get name where age = "30"`)
//	if err != nil {
//	    var perr *query.ParseError
//	    if errors.As(err, &perr) {
//	        fmt.Printf("error at byte %d: %s\n", perr.Pos, perr.Msg)
//	    }
//	    return err
//	}
//	get := stmt.(query.Get)
//
// # Errors
//
// Scan and parse failures are returned as *ParseError carrying the byte
// position of the offending token. errors.Is matches them against
// ErrUnterminatedString, ErrUnexpectedEnd, ErrUnexpectedToken and
// ErrUnknownStatement. Queries longer than MaxQueryLength or with more than
// MaxTokens tokens are rejected with ErrQueryTooLong and ErrTooManyTokens.
//
// The parser does not check that columns exist; that is done when the
// statement is executed against a working set.
package query
