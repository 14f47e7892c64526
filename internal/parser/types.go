package parser

import (
	"github.com/pluto-lang/pluto/internal/ast"
	"github.com/pluto-lang/pluto/internal/lexer"
)

// parseTypeExpr parses a syntactic type annotation. Generic type arguments
// must immediately follow the identifier with no whitespace before `<`;
// the lexer does not track whitespace adjacency directly,
// so this parser treats `<` right after a type name as the start of a
// type-argument list whenever it is itself inside a type-expression
// context (there is no ambiguity with comparison here, since comparisons
// never appear in type position).
func (p *Parser) parseTypeExpr() ast.TypeExpr {
	var te ast.TypeExpr

	switch p.cur().Type {
	case lexer.LBRACKET:
		tok := p.advance()
		first := p.parseTypeExpr()
		if p.at(lexer.COLON) {
			p.advance()
			val := p.parseTypeExpr()
			p.expect(lexer.RBRACKET)
			te = &ast.MapType{Token: tok, Key: first, Value: val}
		} else {
			p.expect(lexer.RBRACKET)
			te = &ast.ArrayType{Token: tok, Elem: first}
		}
	case lexer.LBRACE:
		tok := p.advance()
		elem := p.parseTypeExpr()
		p.expect(lexer.RBRACE)
		te = &ast.SetType{Token: tok, Elem: elem}
	case lexer.STREAM:
		tok := p.advance()
		p.expect(lexer.LT)
		elem := p.parseTypeExpr()
		p.expect(lexer.GT)
		te = &ast.StreamType{Token: tok, Elem: elem}
	case lexer.FN:
		tok := p.advance()
		p.expect(lexer.LPAREN)
		var params []ast.TypeExpr
		for !p.at(lexer.RPAREN) && !p.at(lexer.EOF) {
			params = append(params, p.parseTypeExpr())
			if p.at(lexer.COMMA) {
				p.advance()
			}
		}
		p.expect(lexer.RPAREN)
		ft := &ast.FnType{Token: tok, Params: params}
		if p.at(lexer.BANG) {
			ft.Fallible = true
			p.advance()
		}
		if p.at(lexer.ARROW) {
			p.advance()
			ft.Ret = p.parseTypeExpr()
		}
		te = ft
	case lexer.IDENT:
		tok := p.advance()
		switch tok.Literal {
		case "task":
			p.expect(lexer.LT)
			elem := p.parseTypeExpr()
			p.expect(lexer.GT)
			te = &ast.TaskType{Token: tok, Elem: elem}
		case "sender":
			p.expect(lexer.LT)
			elem := p.parseTypeExpr()
			p.expect(lexer.GT)
			te = &ast.SenderType{Token: tok, Elem: elem}
		case "receiver":
			p.expect(lexer.LT)
			elem := p.parseTypeExpr()
			p.expect(lexer.GT)
			te = &ast.ReceiverType{Token: tok, Elem: elem}
		case "stream":
			p.expect(lexer.LT)
			elem := p.parseTypeExpr()
			p.expect(lexer.GT)
			te = &ast.StreamType{Token: tok, Elem: elem}
		default:
			nt := &ast.NamedType{Token: tok, Name: tok.Literal}
			if p.at(lexer.LT) {
				p.advance()
				for !p.at(lexer.GT) && !p.at(lexer.EOF) {
					nt.TypeArgs = append(nt.TypeArgs, p.parseTypeExpr())
					if p.at(lexer.COMMA) {
						p.advance()
					}
				}
				p.expect(lexer.GT)
			}
			te = nt
		}
	default:
		p.fail("expected a type, got %s", p.cur().Type)
		return &ast.NamedType{Token: p.cur(), Name: "<error>"}
	}

	if p.at(lexer.QUESTION) {
		p.advance()
		if nt, ok := te.(*ast.NamedType); ok {
			nt.Nullable = true
		} else {
			te = &ast.NullableType{Elem: te}
		}
	}

	return te
}
