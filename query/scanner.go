package query

// scanState is the position of the scanner inside the current lexeme.
type scanState int

const (
	stateStart scanState = iota
	stateInTerm
	stateInQuoted
	stateEndQuoted
	stateEndTerm
	stateEnd
)

// Scanner turns a query string into tokens, one lexeme at a time.
//
// Whitespace separates lexemes. A '!', '=' or '@' at the start of a lexeme is
// a token on its own. A double quote starts a quoted value that runs up to the
// next double quote, whitespace included. Any other run of bytes up to the
// next whitespace is looked up as a keyword and otherwise is an identifier.
type Scanner struct {
	input string
	pos   int
	start int
	state scanState
}

// NewScanner creates a scanner over input
func NewScanner(input string) *Scanner {
	return &Scanner{input: input}
}

// Next returns the next token. Once the input is exhausted every call returns
// an EOF token without advancing.
func (s *Scanner) Next() (Token, error) {
	if s.pos >= len(s.input) {
		s.state = stateEnd
		return Token{Type: TokenEOF, Pos: len(s.input)}, nil
	}

	s.start = s.pos
	lexeme := make([]byte, 0, 16)

	for {
		ch, ok := s.peek()

		switch s.state {
		case stateStart:
			switch {
			case !ok:
				s.state = stateEnd
			case isSpace(ch):
				s.pos++
			case isOperator(ch):
				s.start = s.pos
				lexeme = append(lexeme, ch)
				s.pos++
				s.state = stateEndTerm
			case ch == '"':
				s.start = s.pos
				s.pos++
				s.state = stateInQuoted
			default:
				s.start = s.pos
				s.state = stateInTerm
			}

		case stateInTerm:
			if !ok || isSpace(ch) {
				s.state = stateEndTerm
				continue
			}
			lexeme = append(lexeme, ch)
			s.pos++

		case stateInQuoted:
			if !ok {
				s.state = stateEnd
				return Token{}, newParseError(s.start, ErrUnterminatedString, "expected '\"'")
			}
			if ch == '"' {
				s.state = stateEndQuoted
				continue
			}
			lexeme = append(lexeme, ch)
			s.pos++

		case stateEndQuoted:
			// Consume the closing quote.
			s.pos++
			s.state = stateStart
			return Token{Type: TokenQuoted, Value: string(lexeme), Pos: s.start}, nil

		case stateEndTerm:
			s.state = stateStart
			value := string(lexeme)
			return Token{Type: Lookup(value), Value: value, Pos: s.start}, nil

		case stateEnd:
			return Token{Type: TokenEOF, Pos: len(s.input)}, nil
		}
	}
}

func (s *Scanner) peek() (byte, bool) {
	if s.pos >= len(s.input) {
		return 0, false
	}
	return s.input[s.pos], true
}

func isSpace(ch byte) bool {
	switch ch {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

func isOperator(ch byte) bool {
	return ch == '!' || ch == '=' || ch == '@'
}

// Tokenize returns all tokens of input, ending with the EOF token
func Tokenize(input string) ([]Token, error) {
	s := NewScanner(input)
	var tokens []Token

	for {
		tok, err := s.Next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			break
		}
	}

	return tokens, nil
}
