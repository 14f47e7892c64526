package parser

import (
	"unicode"

	"github.com/pluto-lang/pluto/internal/ast"
	"github.com/pluto-lang/pluto/internal/lexer"
)

// parseExpression is the Pratt/precedence-climbing core.
func (p *Parser) parseExpression(minPrec int) ast.Expression {
	left := p.parsePrefix()
	if left == nil {
		return nil
	}

	for !p.at(lexer.NEWLINE) && !p.at(lexer.EOF) && minPrec < p.curPrecedence() {
		switch p.cur().Type {
		case lexer.LPAREN:
			left = p.parseCallExpr(left)
		case lexer.LBRACKET:
			left = p.parseIndexExpr(left)
		case lexer.DOT:
			left = p.parseDotExpr(left)
		case lexer.BANG:
			left = p.parseCallPropagate(left)
		case lexer.DOT_DOT, lexer.DOT_DOT_EQ:
			left = p.parseRangeExpr(left)
		default:
			left = p.parseInfixExpr(left)
		}
		if p.err != nil {
			return left
		}
	}
	return left
}

func (p *Parser) parsePrefix() ast.Expression {
	switch p.cur().Type {
	case lexer.IDENT:
		return p.parseIdentOrStructLiteral()
	case lexer.INT:
		tok := p.advance()
		return &ast.IntegerLiteral{Token: tok, Value: tok.IntValue}
	case lexer.FLOAT:
		tok := p.advance()
		return &ast.FloatLiteral{Token: tok, Value: tok.FloatValue}
	case lexer.STRING:
		tok := p.advance()
		return &ast.StringLiteral{Token: tok, Value: tok.Literal}
	case lexer.STRING_START:
		return p.parseInterpolatedString()
	case lexer.TRUE, lexer.FALSE:
		tok := p.advance()
		return &ast.BooleanLiteral{Token: tok, Value: tok.Type == lexer.TRUE}
	case lexer.NONE:
		tok := p.advance()
		return &ast.NoneLiteral{Token: tok}
	case lexer.SELF:
		tok := p.advance()
		return &ast.SelfExpr{Token: tok}
	case lexer.MINUS, lexer.BANG:
		tok := p.advance()
		right := p.parseExpression(precPrefix)
		return &ast.PrefixExpr{Token: tok, Operator: tok.Literal, Right: right}
	case lexer.LPAREN:
		return p.parseParenOrLambda()
	case lexer.LBRACKET:
		return p.parseArrayOrMapLiteral()
	case lexer.LBRACE:
		return p.parseSetLiteral()
	case lexer.SPAWN:
		return p.parseSpawnExpr()
	case lexer.CHAN:
		return p.parseChanExpr()
	case lexer.MATCH:
		return p.parseMatchExpr()
	default:
		p.fail("unexpected token %s in expression", p.cur().Type)
		return nil
	}
}

func (p *Parser) parseInterpolatedString() ast.Expression {
	tok := p.expect(lexer.STRING_START)
	lit := &ast.InterpolatedString{Token: tok, Parts: []string{tok.Literal}}
	for {
		lit.Holes = append(lit.Holes, p.parseExpression(precLowest))
		switch p.cur().Type {
		case lexer.STRING_MID:
			t := p.advance()
			lit.Parts = append(lit.Parts, t.Literal)
		case lexer.STRING_END:
			t := p.advance()
			lit.Parts = append(lit.Parts, t.Literal)
			return lit
		default:
			p.fail("unterminated interpolated string")
			return lit
		}
	}
}

// parseIdentOrStructLiteral disambiguates `Ident.Ident.Ident` between a
// qualified enum variant and nested field access by the parser's
// capitalization heuristic: if the middle identifier's
// first character is uppercase, treat it as an enum reference.
func (p *Parser) parseIdentOrStructLiteral() ast.Expression {
	tok := p.advance()
	ident := &ast.Identifier{Token: tok, Value: tok.Literal}

	if p.at(lexer.LBRACE) && !p.noStructLiteral && startsUpper(tok.Literal) {
		return p.parseStructLiteralBody(tok, tok.Literal)
	}

	return ident
}

func startsUpper(s string) bool {
	if s == "" {
		return false
	}
	return unicode.IsUpper(rune(s[0]))
}

func (p *Parser) parseStructLiteralBody(tok lexer.Token, name string) ast.Expression {
	p.expect(lexer.LBRACE)
	p.skipNewlines()
	lit := &ast.StructLiteral{Token: tok, Name: name}
	for !p.at(lexer.RBRACE) && !p.at(lexer.EOF) {
		fname := p.expect(lexer.IDENT).Literal
		p.expect(lexer.COLON)
		value := p.parseExpression(precLowest)
		lit.Fields = append(lit.Fields, &ast.StructLiteralField{Name: fname, Value: value})
		if p.at(lexer.COMMA) {
			p.advance()
		}
		p.skipNewlines()
	}
	p.expect(lexer.RBRACE)
	return lit
}

// parseDotExpr handles both `obj.field` and `Module.Enum.Variant` /
// `Enum.Variant`, per the §4.2 heuristic.
func (p *Parser) parseDotExpr(left ast.Expression) ast.Expression {
	tok := p.expect(lexer.DOT)
	name := p.expect(lexer.IDENT).Literal

	if ident, ok := left.(*ast.Identifier); ok && startsUpper(name) && p.at(lexer.DOT) {
		// `X.Y.` — X is a module alias, Y is (heuristically) an enum name.
		save := p.pos
		p.advance() // consume the second DOT
		if p.at(lexer.IDENT) {
			variant := p.advance().Literal
			q := &ast.QualifiedEnumVariant{Token: tok, Module: ident.Value, Enum: name, Variant: variant}
			if p.at(lexer.LPAREN) {
				p.advance()
				for !p.at(lexer.RPAREN) && !p.at(lexer.EOF) {
					q.Args = append(q.Args, p.parseExpression(precLowest))
					if p.at(lexer.COMMA) {
						p.advance()
					}
				}
				p.expect(lexer.RPAREN)
			}
			return q
		}
		p.pos = save
	}

	if ident, ok := left.(*ast.Identifier); ok && startsUpper(ident.Value) && startsUpper(name) {
		// `Enum.Variant` — middle (here, the base) identifier is capitalized.
		q := &ast.QualifiedEnumVariant{Token: tok, Enum: ident.Value, Variant: name}
		if p.at(lexer.LPAREN) {
			p.advance()
			for !p.at(lexer.RPAREN) && !p.at(lexer.EOF) {
				q.Args = append(q.Args, p.parseExpression(precLowest))
				if p.at(lexer.COMMA) {
					p.advance()
				}
			}
			p.expect(lexer.RPAREN)
		}
		return q
	}

	return &ast.FieldAccess{Token: tok, Obj: left, Field: name}
}

func (p *Parser) parseCallExpr(callee ast.Expression) ast.Expression {
	tok := p.expect(lexer.LPAREN)
	call := &ast.CallExpr{Token: tok, Callee: callee}
	for !p.at(lexer.RPAREN) && !p.at(lexer.EOF) {
		call.Args = append(call.Args, p.parseExpression(precLowest))
		if p.at(lexer.COMMA) {
			p.advance()
		}
	}
	p.expect(lexer.RPAREN)
	return call
}

// parseCallPropagate attaches a trailing `!` (error propagation) and an
// optional `catch` clause to the call it follows.
func (p *Parser) parseCallPropagate(left ast.Expression) ast.Expression {
	call, ok := left.(*ast.CallExpr)
	if !ok {
		p.fail("'!' may only follow a call expression")
		return left
	}
	p.expect(lexer.BANG)
	call.Propagate = true
	if p.at(lexer.CATCH) {
		call.Catch = p.parseCatchClause()
	}
	return call
}

func (p *Parser) parseCatchClause() *ast.CatchClause {
	tok := p.expect(lexer.CATCH)
	cc := &ast.CatchClause{Token: tok}
	if p.at(lexer.LBRACE) {
		cc.Block = p.parseBlockStatement()
		return cc
	}
	if p.at(lexer.IDENT) && p.peekAt(1).Type == lexer.LBRACE {
		cc.ErrBinding = p.advance().Literal
		cc.Block = p.parseBlockStatement()
		return cc
	}
	cc.Default = p.parseExpression(precLowest)
	return cc
}

func (p *Parser) parseIndexExpr(left ast.Expression) ast.Expression {
	tok := p.expect(lexer.LBRACKET)
	idx := p.parseExpression(precLowest)
	p.expect(lexer.RBRACKET)
	return &ast.IndexExpr{Token: tok, Obj: left, Index: idx}
}

func (p *Parser) parseRangeExpr(left ast.Expression) ast.Expression {
	tok := p.cur()
	inclusive := p.cur().Type == lexer.DOT_DOT_EQ
	p.advance()
	high := p.parseExpression(precRange)
	return &ast.RangeExpr{Token: tok, Low: left, High: high, Inclusive: inclusive}
}

func (p *Parser) parseInfixExpr(left ast.Expression) ast.Expression {
	tok := p.cur()
	prec := p.curPrecedence()
	op := tok.Literal
	p.advance()
	right := p.parseExpression(prec)
	return &ast.InfixExpr{Token: tok, Left: left, Operator: op, Right: right}
}

// parseParenOrLambda disambiguates `(expr)` from `(params) => body` by
// scanning ahead for the matching `)` and checking whether `=>` follows.
func (p *Parser) parseParenOrLambda() ast.Expression {
	if p.looksLikeLambdaParams() {
		return p.parseLambda()
	}
	p.expect(lexer.LPAREN)
	expr := p.parseExpression(precLowest)
	p.expect(lexer.RPAREN)
	return expr
}

func (p *Parser) looksLikeLambdaParams() bool {
	depth := 0
	for i := p.pos; i < len(p.tokens); i++ {
		switch p.tokens[i].Type {
		case lexer.LPAREN:
			depth++
		case lexer.RPAREN:
			depth--
			if depth == 0 {
				return i+1 < len(p.tokens) && p.tokens[i+1].Type == lexer.FAT_ARROW
			}
		case lexer.EOF, lexer.NEWLINE:
			return false
		}
	}
	return false
}

func (p *Parser) parseLambda() ast.Expression {
	tok := p.cur()
	params := p.parseLambdaParamList()
	p.expect(lexer.FAT_ARROW)
	lam := &ast.LambdaExpr{Token: tok, Params: params}
	if p.at(lexer.LBRACE) {
		lam.Body = p.parseBlockStatement()
	} else {
		exprTok := p.cur()
		expr := p.parseExpression(precLowest)
		lam.Body = &ast.BlockStatement{
			Token:      exprTok,
			Statements: []ast.Statement{&ast.ReturnStatement{Token: exprTok, Value: expr}},
		}
	}
	return lam
}

// parseLambdaParamList parses lambda parameters, which are unannotated
// (`(a, b) => a + b`) unlike function parameters.
func (p *Parser) parseLambdaParamList() []*ast.Param {
	p.expect(lexer.LPAREN)
	var params []*ast.Param
	for !p.at(lexer.RPAREN) && !p.at(lexer.EOF) {
		name := p.expect(lexer.IDENT).Literal
		param := &ast.Param{Name: name}
		if p.at(lexer.COLON) {
			p.advance()
			param.Type = p.parseTypeExpr()
		}
		params = append(params, param)
		if p.at(lexer.COMMA) {
			p.advance()
		}
	}
	p.expect(lexer.RPAREN)
	return params
}

// parseArrayOrMapLiteral disambiguates `[e1, e2]` from `[k1: v1, k2: v2]`
// by checking for a `:` after the first element.
func (p *Parser) parseArrayOrMapLiteral() ast.Expression {
	tok := p.expect(lexer.LBRACKET)
	if p.at(lexer.RBRACKET) {
		p.advance()
		return &ast.ArrayLiteral{Token: tok}
	}
	if p.at(lexer.COLON) {
		// `[:]` empty map literal shorthand is not supported; fall through
		// to a normal parse error via the first element parse below.
	}
	first := p.parseExpression(precLowest)
	if p.at(lexer.COLON) {
		p.advance()
		val := p.parseExpression(precLowest)
		m := &ast.MapLiteral{Token: tok, Entries: []*ast.MapEntry{{Key: first, Value: val}}}
		for p.at(lexer.COMMA) {
			p.advance()
			if p.at(lexer.RBRACKET) {
				break
			}
			k := p.parseExpression(precLowest)
			p.expect(lexer.COLON)
			v := p.parseExpression(precLowest)
			m.Entries = append(m.Entries, &ast.MapEntry{Key: k, Value: v})
		}
		p.expect(lexer.RBRACKET)
		return m
	}

	arr := &ast.ArrayLiteral{Token: tok, Elements: []ast.Expression{first}}
	for p.at(lexer.COMMA) {
		p.advance()
		if p.at(lexer.RBRACKET) {
			break
		}
		arr.Elements = append(arr.Elements, p.parseExpression(precLowest))
	}
	p.expect(lexer.RBRACKET)
	return arr
}

func (p *Parser) parseSetLiteral() ast.Expression {
	tok := p.expect(lexer.LBRACE)
	lit := &ast.SetLiteral{Token: tok}
	p.skipNewlines()
	for !p.at(lexer.RBRACE) && !p.at(lexer.EOF) {
		lit.Elements = append(lit.Elements, p.parseExpression(precLowest))
		if p.at(lexer.COMMA) {
			p.advance()
		}
		p.skipNewlines()
	}
	p.expect(lexer.RBRACE)
	return lit
}

func (p *Parser) parseSpawnExpr() ast.Expression {
	tok := p.expect(lexer.SPAWN)
	callee := p.parseExpression(precPrefix)
	call, ok := callee.(*ast.CallExpr)
	if !ok {
		p.fail("'spawn' must be followed by a function call")
		return nil
	}
	return &ast.SpawnExpr{Token: tok, Call: call}
}

func (p *Parser) parseChanExpr() ast.Expression {
	tok := p.expect(lexer.CHAN)
	p.expect(lexer.LT)
	elem := p.parseTypeExpr()
	p.expect(lexer.GT)
	p.expect(lexer.LPAREN)
	cap := p.parseExpression(precLowest)
	p.expect(lexer.RPAREN)
	return &ast.ChanExpr{Token: tok, ElemType: elem, Capacity: cap}
}

func (p *Parser) parseMatchExpr() ast.Expression {
	tok := p.expect(lexer.MATCH)
	prevNoStruct := p.noStructLiteral
	p.noStructLiteral = true
	subject := p.parseExpression(precLowest)
	p.noStructLiteral = prevNoStruct

	m := &ast.MatchExpr{Token: tok, Subject: subject}
	p.expect(lexer.LBRACE)
	p.skipNewlines()
	for !p.at(lexer.RBRACE) && !p.at(lexer.EOF) {
		arm := &ast.MatchArm{Pattern: p.parsePattern()}
		p.expect(lexer.FAT_ARROW)
		arm.Body = p.parseExpression(precLowest)
		m.Arms = append(m.Arms, arm)
		if p.at(lexer.COMMA) {
			p.advance()
		}
		p.skipNewlines()
	}
	p.expect(lexer.RBRACE)
	return m
}

func (p *Parser) parsePattern() ast.Pattern {
	if p.at(lexer.IDENT) && p.cur().Literal == "_" {
		tok := p.advance()
		return &ast.WildcardPattern{Token: tok}
	}
	tok := p.expect(lexer.IDENT)
	if p.at(lexer.DOT) {
		p.advance()
		variant := p.expect(lexer.IDENT).Literal
		vp := &ast.VariantPattern{Token: tok, Enum: tok.Literal, Variant: variant}
		if p.at(lexer.LPAREN) {
			p.advance()
			for !p.at(lexer.RPAREN) && !p.at(lexer.EOF) {
				vp.SubNames = append(vp.SubNames, p.expect(lexer.IDENT).Literal)
				if p.at(lexer.COMMA) {
					p.advance()
				}
			}
			p.expect(lexer.RPAREN)
		}
		return vp
	}
	return &ast.BindingPattern{Token: tok, Name: tok.Literal}
}
