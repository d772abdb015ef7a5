package expression_parser

import (
	"fmt"

	"ngtv-go/packages/typeview/src/core"
	"ngtv-go/packages/typeview/src/util"
)

// SyntaxError reports a malformed expression. It carries the offending
// substring and its offset within the expression text.
type SyntaxError struct {
	Msg      string
	Input    string
	Location string
	Offset   int
}

// Error implements the error interface
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("Parser Error: %s at offset %d in [%s] in %s", e.Msg, e.Offset, e.Input, e.Location)
}

// Span locates the error within the expression text, resolving the offset to
// a line and column for multi-line expressions.
func (e *SyntaxError) Span() *util.ParseSourceSpan {
	file := util.NewParseSourceFile(e.Input, e.Location)
	return util.SpanOf(file, e.Offset, e.Offset)
}

// Parser parses one template expression into a FilterChain-rooted AST
type Parser struct {
	lexer *Lexer
}

// NewParser creates a new Parser
func NewParser(lexer *Lexer) *Parser {
	return &Parser{lexer: lexer}
}

// ParseExpression parses the given expression text. The result is always
// rooted in a FilterChain; an expression without filters has an empty chain.
func (p *Parser) ParseExpression(input, location string) (*ASTWithSource, error) {
	tokens := p.lexer.Tokenize(input)
	r := &reader{input: input, location: location, tokens: tokens}
	for _, token := range tokens {
		if err := r.checkErrorToken(token); err != nil {
			return nil, err
		}
	}
	ast, err := r.parseFilterChain()
	if err != nil {
		return nil, err
	}
	if r.index < len(r.tokens) {
		return nil, r.errorAt(fmt.Sprintf("Unexpected token [%s]", r.peek()), r.peek().Index)
	}
	return NewASTWithSource(ast, input, location), nil
}

// reader is the token cursor for a single parse
type reader struct {
	input    string
	location string
	tokens   []*Token
	index    int
}

func (r *reader) peek() *Token {
	if r.index < len(r.tokens) {
		return r.tokens[r.index]
	}
	return EOF
}

func (r *reader) next() *Token {
	token := r.peek()
	if r.index < len(r.tokens) {
		r.index++
	}
	return token
}

func (r *reader) inputIndex() int {
	if r.index < len(r.tokens) {
		return r.tokens[r.index].Index
	}
	return len(r.input)
}

func (r *reader) consumeOptionalCharacter(code int) bool {
	if r.peek().IsCharacter(code) {
		r.next()
		return true
	}
	return false
}

func (r *reader) consumeOptionalOperator(op string) bool {
	if r.peek().IsOperator(op) {
		r.next()
		return true
	}
	return false
}

func (r *reader) expectCharacter(code int) error {
	if r.consumeOptionalCharacter(code) {
		return nil
	}
	return r.errorAt(fmt.Sprintf("Missing expected %q", string(rune(code))), r.inputIndex())
}

func (r *reader) expectIdentifier() (*Token, error) {
	token := r.peek()
	if !token.IsIdentifier() {
		return nil, r.errorAt(fmt.Sprintf("Expected identifier, got [%s]", token), token.Index)
	}
	return r.next(), nil
}

func (r *reader) errorAt(msg string, offset int) error {
	if offset < 0 {
		offset = len(r.input)
	}
	return &SyntaxError{Msg: msg, Input: r.input, Location: r.location, Offset: offset}
}

func (r *reader) checkErrorToken(token *Token) error {
	if token.IsError() {
		return r.errorAt(token.StrValue, token.Index)
	}
	return nil
}

// parseFilterChain parses `expression ('|' name (':' arg)*)*`. The filter
// operator is only recognized at this level; sub-expressions see `|` as a
// syntax error unless parenthesized.
func (r *reader) parseFilterChain() (AST, error) {
	start := r.inputIndex()
	base, err := r.parseExpression()
	if err != nil {
		return nil, err
	}

	var calls []*FilterCall
	for r.consumeOptionalOperator("|") {
		name, err := r.expectIdentifier()
		if err != nil {
			return nil, err
		}
		call := &FilterCall{
			Name:     name.StrValue,
			NameSpan: NewParseSpan(name.Index, name.End),
		}
		for r.consumeOptionalCharacter(core.CharCOLON) {
			arg, err := r.parseExpression()
			if err != nil {
				return nil, err
			}
			call.Args = append(call.Args, arg)
		}
		calls = append(calls, call)
	}

	return NewFilterChain(NewParseSpan(start, r.inputIndex()), base, calls), nil
}

func (r *reader) parseExpression() (AST, error) {
	return r.parseConditional()
}

func (r *reader) parseConditional() (AST, error) {
	start := r.inputIndex()
	result, err := r.parseLogicalOr()
	if err != nil {
		return nil, err
	}
	if !r.consumeOptionalOperator("?") {
		return result, nil
	}
	trueExp, err := r.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := r.expectCharacter(core.CharCOLON); err != nil {
		return nil, err
	}
	falseExp, err := r.parseExpression()
	if err != nil {
		return nil, err
	}
	return NewConditional(NewParseSpan(start, r.inputIndex()), result, trueExp, falseExp), nil
}

func (r *reader) parseLogicalOr() (AST, error) {
	start := r.inputIndex()
	result, err := r.parseLogicalAnd()
	if err != nil {
		return nil, err
	}
	for {
		op := ""
		if r.consumeOptionalOperator("||") {
			op = "||"
		} else if r.consumeOptionalOperator("??") {
			op = "??"
		} else {
			return result, nil
		}
		right, err := r.parseLogicalAnd()
		if err != nil {
			return nil, err
		}
		result = NewBinary(NewParseSpan(start, r.inputIndex()), op, result, right)
	}
}

func (r *reader) parseLogicalAnd() (AST, error) {
	start := r.inputIndex()
	result, err := r.parseEquality()
	if err != nil {
		return nil, err
	}
	for r.consumeOptionalOperator("&&") {
		right, err := r.parseEquality()
		if err != nil {
			return nil, err
		}
		result = NewBinary(NewParseSpan(start, r.inputIndex()), "&&", result, right)
	}
	return result, nil
}

func (r *reader) parseEquality() (AST, error) {
	start := r.inputIndex()
	result, err := r.parseRelational()
	if err != nil {
		return nil, err
	}
	for {
		op := r.peek()
		if op.Type != TokenTypeOperator {
			return result, nil
		}
		switch op.StrValue {
		case "==", "===", "!=", "!==":
			r.next()
			right, err := r.parseRelational()
			if err != nil {
				return nil, err
			}
			result = NewBinary(NewParseSpan(start, r.inputIndex()), op.StrValue, result, right)
		default:
			return result, nil
		}
	}
}

func (r *reader) parseRelational() (AST, error) {
	start := r.inputIndex()
	result, err := r.parseAdditive()
	if err != nil {
		return nil, err
	}
	for {
		op := r.peek()
		if op.Type != TokenTypeOperator {
			return result, nil
		}
		switch op.StrValue {
		case "<", ">", "<=", ">=":
			r.next()
			right, err := r.parseAdditive()
			if err != nil {
				return nil, err
			}
			result = NewBinary(NewParseSpan(start, r.inputIndex()), op.StrValue, result, right)
		default:
			return result, nil
		}
	}
}

func (r *reader) parseAdditive() (AST, error) {
	start := r.inputIndex()
	result, err := r.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		op := r.peek()
		if !op.IsOperator("+") && !op.IsOperator("-") {
			return result, nil
		}
		r.next()
		right, err := r.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		result = NewBinary(NewParseSpan(start, r.inputIndex()), op.StrValue, result, right)
	}
}

func (r *reader) parseMultiplicative() (AST, error) {
	start := r.inputIndex()
	result, err := r.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		op := r.peek()
		if !op.IsOperator("*") && !op.IsOperator("/") && !op.IsOperator("%") {
			return result, nil
		}
		r.next()
		right, err := r.parseUnary()
		if err != nil {
			return nil, err
		}
		result = NewBinary(NewParseSpan(start, r.inputIndex()), op.StrValue, result, right)
	}
}

func (r *reader) parseUnary() (AST, error) {
	start := r.inputIndex()
	switch {
	case r.consumeOptionalOperator("+"):
		expr, err := r.parseUnary()
		if err != nil {
			return nil, err
		}
		return NewUnary(NewParseSpan(start, r.inputIndex()), "+", expr), nil
	case r.consumeOptionalOperator("-"):
		expr, err := r.parseUnary()
		if err != nil {
			return nil, err
		}
		return NewUnary(NewParseSpan(start, r.inputIndex()), "-", expr), nil
	case r.consumeOptionalOperator("!"):
		expr, err := r.parseUnary()
		if err != nil {
			return nil, err
		}
		return NewPrefixNot(NewParseSpan(start, r.inputIndex()), expr), nil
	}
	return r.parseCallChain()
}

// parseCallChain parses a primary followed by any number of member accesses,
// keyed reads and call argument lists.
func (r *reader) parseCallChain() (AST, error) {
	start := r.inputIndex()
	result, err := r.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case r.consumeOptionalCharacter(core.CharPERIOD):
			name, err := r.expectIdentifier()
			if err != nil {
				return nil, err
			}
			result = NewPropertyRead(NewParseSpan(start, r.inputIndex()), result, name.StrValue)
		case r.consumeOptionalOperator("?."):
			name, err := r.expectIdentifier()
			if err != nil {
				return nil, err
			}
			result = NewSafePropertyRead(NewParseSpan(start, r.inputIndex()), result, name.StrValue)
		case r.consumeOptionalCharacter(core.CharLBRACKET):
			key, err := r.parseExpression()
			if err != nil {
				return nil, err
			}
			if err := r.expectCharacter(core.CharRBRACKET); err != nil {
				return nil, err
			}
			result = NewKeyedRead(NewParseSpan(start, r.inputIndex()), result, key)
		case r.consumeOptionalCharacter(core.CharLPAREN):
			args, err := r.parseCallArguments()
			if err != nil {
				return nil, err
			}
			if err := r.expectCharacter(core.CharRPAREN); err != nil {
				return nil, err
			}
			result = NewCall(NewParseSpan(start, r.inputIndex()), result, args)
		default:
			return result, nil
		}
	}
}

func (r *reader) parseCallArguments() ([]AST, error) {
	args := []AST{}
	if r.peek().IsCharacter(core.CharRPAREN) {
		return args, nil
	}
	for {
		arg, err := r.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if !r.consumeOptionalCharacter(core.CharCOMMA) {
			return args, nil
		}
	}
}

func (r *reader) parsePrimary() (AST, error) {
	start := r.inputIndex()
	token := r.peek()
	if err := r.checkErrorToken(token); err != nil {
		return nil, err
	}

	switch {
	case token.IsCharacter(core.CharLPAREN):
		r.next()
		// A parenthesized sub-expression may carry its own filter chain.
		result, err := r.parseFilterChain()
		if err != nil {
			return nil, err
		}
		if err := r.expectCharacter(core.CharRPAREN); err != nil {
			return nil, err
		}
		return NewParenthesizedExpression(NewParseSpan(start, r.inputIndex()), result), nil

	case token.IsKeywordNull():
		r.next()
		return NewLiteralPrimitive(NewParseSpan(start, r.inputIndex()), nil), nil

	case token.IsKeywordUndefined():
		r.next()
		return NewLiteralPrimitive(NewParseSpan(start, r.inputIndex()), Undefined{}), nil

	case token.IsKeywordTrue():
		r.next()
		return NewLiteralPrimitive(NewParseSpan(start, r.inputIndex()), true), nil

	case token.IsKeywordFalse():
		r.next()
		return NewLiteralPrimitive(NewParseSpan(start, r.inputIndex()), false), nil

	case token.IsKeywordThis():
		r.next()
		return NewThisReceiver(NewParseSpan(start, r.inputIndex())), nil

	case token.IsNumber():
		r.next()
		return NewLiteralPrimitive(NewParseSpan(start, r.inputIndex()), token.NumValue), nil

	case token.IsString():
		r.next()
		return NewLiteralPrimitive(NewParseSpan(start, r.inputIndex()), token.StrValue), nil

	case token.IsRegExpBody():
		r.next()
		flags := ""
		if r.peek().IsRegExpFlags() {
			flags = r.next().StrValue
		}
		return NewRegularExpressionLiteral(NewParseSpan(start, r.inputIndex()), token.StrValue, flags), nil

	case token.IsIdentifier():
		r.next()
		span := NewParseSpan(start, r.inputIndex())
		return NewPropertyRead(span, NewImplicitReceiver(span), token.StrValue), nil

	case token.IsCharacter(core.CharLBRACKET):
		return r.parseLiteralArray()

	case token.IsCharacter(core.CharLBRACE):
		return r.parseLiteralMap()
	}

	return nil, r.errorAt(fmt.Sprintf("Unexpected token [%s]", token), token.Index)
}

func (r *reader) parseLiteralArray() (AST, error) {
	start := r.inputIndex()
	r.next() // consume '['
	expressions := []AST{}
	if !r.peek().IsCharacter(core.CharRBRACKET) {
		for {
			expr, err := r.parseExpression()
			if err != nil {
				return nil, err
			}
			expressions = append(expressions, expr)
			if !r.consumeOptionalCharacter(core.CharCOMMA) {
				break
			}
		}
	}
	if err := r.expectCharacter(core.CharRBRACKET); err != nil {
		return nil, err
	}
	return NewLiteralArray(NewParseSpan(start, r.inputIndex()), expressions), nil
}

func (r *reader) parseLiteralMap() (AST, error) {
	start := r.inputIndex()
	r.next() // consume '{'
	keys := []LiteralMapKey{}
	values := []AST{}
	if !r.peek().IsCharacter(core.CharRBRACE) {
		for {
			token := r.peek()
			var key LiteralMapKey
			switch {
			case token.IsString():
				key = LiteralMapKey{Key: token.StrValue, Quoted: true}
			case token.IsIdentifier() || token.IsKeyword():
				key = LiteralMapKey{Key: token.StrValue, Quoted: false}
			default:
				return nil, r.errorAt(fmt.Sprintf("Expected map key, got [%s]", token), token.Index)
			}
			r.next()
			keys = append(keys, key)
			if err := r.expectCharacter(core.CharCOLON); err != nil {
				return nil, err
			}
			value, err := r.parseExpression()
			if err != nil {
				return nil, err
			}
			values = append(values, value)
			if !r.consumeOptionalCharacter(core.CharCOMMA) {
				break
			}
		}
	}
	if err := r.expectCharacter(core.CharRBRACE); err != nil {
		return nil, err
	}
	return NewLiteralMap(NewParseSpan(start, r.inputIndex()), keys, values), nil
}
