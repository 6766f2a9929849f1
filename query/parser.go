package query

// Parser parses a token stream into a Statement.
//
// Grammar:
//
//	statement   := "get" columnList ( "@" term )? ( "where" conditional )?
//	columnList  := term ( term )*
//	conditional := comparison ( ( "and" | "or" ) comparison )*
//	comparison  := term ( "=" | "!" "=" ) term
//	term        := identifier | quoted value
//
// AND and OR share one precedence level and fold strictly left to right:
// "a = 1 or b = 2 and c = 3" means "(a = 1 or b = 2) and c = 3".
type Parser struct {
	tokens []Token
	pos    int
}

// NewParser creates a new parser
func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

// current returns the current token
func (p *Parser) current() Token {
	if p.pos >= len(p.tokens) {
		end := 0
		if n := len(p.tokens); n > 0 {
			end = p.tokens[n-1].Pos
		}
		return Token{Type: TokenEOF, Pos: end}
	}
	return p.tokens[p.pos]
}

// peek returns the token after the current one without advancing
func (p *Parser) peek() Token {
	if p.pos+1 >= len(p.tokens) {
		return Token{Type: TokenEOF}
	}
	return p.tokens[p.pos+1]
}

// advance moves to the next token
func (p *Parser) advance() Token {
	tok := p.current()
	p.pos++
	return tok
}

// unexpected builds the error for a token that does not fit at this point
func (p *Parser) unexpected(tok Token, want string) *ParseError {
	if tok.Type == TokenEOF {
		return newParseError(tok.Pos, ErrUnexpectedEnd, "expected %s", want)
	}
	return newParseError(tok.Pos, ErrUnexpectedToken, "expected %s, got %v", want, tok)
}

// Parse tokenizes and parses a query
func Parse(query string) (Statement, error) {
	if err := ValidateQuery(query); err != nil {
		return nil, err
	}

	tokens, err := Tokenize(query)
	if err != nil {
		return nil, err
	}

	if err := ValidateTokens(tokens); err != nil {
		return nil, err
	}

	return NewParser(tokens).ParseStatement()
}

// ParseStatement parses one complete statement; trailing tokens are an error.
func (p *Parser) ParseStatement() (Statement, error) {
	tok := p.current()
	var stmt Statement

	switch tok.Type {
	case TokenGet:
		p.advance()
		get, err := p.parseGet()
		if err != nil {
			return nil, err
		}
		stmt = get
	case TokenEOF:
		return nil, newParseError(tok.Pos, ErrUnexpectedEnd, "expected statement")
	default:
		return nil, newParseError(tok.Pos, ErrUnknownStatement, "expected GET, got %v", tok)
	}

	if tok := p.current(); tok.Type != TokenEOF {
		return nil, p.unexpected(tok, "end of query")
	}
	return stmt, nil
}

// parseGet parses: GET columns [@ table] [WHERE conditional]
func (p *Parser) parseGet() (Get, error) {
	var get Get

	columns, err := p.parseColumnList()
	if err != nil {
		return Get{}, err
	}
	get.Columns = columns

	if p.current().Type == TokenAt {
		p.advance()
		table, err := p.parseTerm()
		if err != nil {
			return Get{}, err
		}
		get.Table = table
	}

	if p.current().Type == TokenWhere {
		p.advance()
		cond, err := p.parseConditional()
		if err != nil {
			return Get{}, err
		}
		get.Where = cond
	}

	return get, nil
}

// parseColumnList parses one or more terms into a right-nested Multiple
func (p *Parser) parseColumnList() (Expr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}

	if !p.current().isTerm() {
		return left, nil
	}

	right, err := p.parseColumnList()
	if err != nil {
		return nil, err
	}
	return Multiple{Left: left, Right: right}, nil
}

// parseConditional folds comparisons joined by AND/OR from the left
func (p *Parser) parseConditional() (Expr, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}

	for p.current().Type == TokenAnd || p.current().Type == TokenOr {
		op := p.advance()
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = Conditional{Left: left, Op: op, Right: right}
	}

	return left, nil
}

// parseComparison parses: term (= | !=) term
func (p *Parser) parseComparison() (Expr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}

	op, err := p.parseComparisonOp()
	if err != nil {
		return nil, err
	}

	right, err := p.parseTerm()
	if err != nil {
		return nil, err
	}

	return Conditional{Left: left, Op: op, Right: right}, nil
}

func (p *Parser) parseComparisonOp() (Token, error) {
	tok := p.current()

	switch tok.Type {
	case TokenEqual:
		return p.advance(), nil
	case TokenBang:
		if next := p.peek(); next.Type != TokenEqual {
			return Token{}, p.unexpected(next, "'=' after '!'")
		}
		p.advance()
		p.advance()
		return Token{Type: TokenNotEqual, Value: "!=", Pos: tok.Pos}, nil
	default:
		return Token{}, p.unexpected(tok, "comparison operator")
	}
}

// parseTerm parses an identifier or quoted value
func (p *Parser) parseTerm() (Expr, error) {
	tok := p.current()
	if !tok.isTerm() {
		return nil, p.unexpected(tok, "identifier or quoted value")
	}
	p.advance()
	return Literal{Token: tok}, nil
}
