package parser

import (
	"github.com/pluto-lang/pluto/internal/ast"
	"github.com/pluto-lang/pluto/internal/lexer"
)

func (p *Parser) parseImport() *ast.Import {
	tok := p.expect(lexer.IMPORT)
	im := &ast.Import{Token: tok}
	im.Path = append(im.Path, p.expect(lexer.IDENT).Literal)
	for p.at(lexer.DOT) {
		p.advance()
		im.Path = append(im.Path, p.expect(lexer.IDENT).Literal)
	}
	im.Alias = im.Path[len(im.Path)-1]
	if p.at(lexer.AS) {
		p.advance()
		im.Alias = p.expect(lexer.IDENT).Literal
	}
	return im
}

func (p *Parser) parseExternRust() {
	p.expect(lexer.EXTERN)
	p.expect(lexer.RUST)
	p.expect(lexer.LBRACE)
	depth := 1
	for depth > 0 && !p.at(lexer.EOF) {
		switch p.cur().Type {
		case lexer.LBRACE:
			depth++
		case lexer.RBRACE:
			depth--
		}
		p.advance()
	}
}

func (p *Parser) parseErrorDecl(ordinal int) *ast.ErrorDecl {
	tok := p.expect(lexer.ERROR)
	name := p.expect(lexer.IDENT).Literal
	decl := &ast.ErrorDecl{Token: tok, Name: name, ID: ast.NewID("error", name, ordinal)}
	if p.at(lexer.LBRACE) {
		p.advance()
		p.skipNewlines()
		for !p.at(lexer.RBRACE) && !p.at(lexer.EOF) {
			fname := p.expect(lexer.IDENT).Literal
			p.expect(lexer.COLON)
			ftype := p.parseTypeExpr()
			decl.Fields = append(decl.Fields, &ast.Param{Name: fname, Type: ftype})
			if p.at(lexer.COMMA) {
				p.advance()
			}
			p.skipNewlines()
		}
		p.expect(lexer.RBRACE)
	}
	return decl
}

func (p *Parser) parseParamList() []*ast.Param {
	p.expect(lexer.LPAREN)
	var params []*ast.Param
	for !p.at(lexer.RPAREN) && !p.at(lexer.EOF) {
		param := &ast.Param{}
		if p.at(lexer.MUT) {
			param.IsMut = true
			p.advance()
		}
		if p.at(lexer.SELF) {
			param.Name = "self"
			p.advance()
		} else {
			param.Name = p.expect(lexer.IDENT).Literal
			p.expect(lexer.COLON)
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

func (p *Parser) parseRequiresList() []*ast.Contract {
	var out []*ast.Contract
	for p.at(lexer.REQUIRES) {
		tok := p.advance()
		out = append(out, &ast.Contract{Token: tok, Expr: p.parseExpression(precLowest)})
	}
	return out
}

func (p *Parser) parseFunctionDecl(ordinal int) *ast.FunctionDecl {
	tok := p.expect(lexer.FN)
	name := p.expect(lexer.IDENT).Literal

	fn := &ast.FunctionDecl{Token: tok, Name: name, ID: ast.NewID("function", name, ordinal)}

	if p.at(lexer.LT) {
		p.advance()
		for !p.at(lexer.GT) && !p.at(lexer.EOF) {
			fn.TypeParams = append(fn.TypeParams, p.expect(lexer.IDENT).Literal)
			if p.at(lexer.COMMA) {
				p.advance()
			}
		}
		p.expect(lexer.GT)
	}

	fn.Params = p.parseParamList()

	for _, param := range fn.Params {
		if param.Name == "self" {
			fn.IsMethod = true
			fn.Receiver = "self"
			fn.ReceiverMut = param.IsMut
		}
	}

	if p.at(lexer.ARROW) {
		p.advance()
		if p.at(lexer.STREAM) {
			fn.IsGenerator = true
			p.advance()
		}
		fn.ReturnType = p.parseTypeExpr()
	}

	fn.Requires = p.parseRequiresList()
	fn.Body = p.parseBlockStatement()
	return fn
}

func (p *Parser) parseClassDecl(ordinal int) *ast.ClassDecl {
	tok := p.expect(lexer.CLASS)
	name := p.expect(lexer.IDENT).Literal
	decl := &ast.ClassDecl{Token: tok, Name: name, ID: ast.NewID("class", name, ordinal), Lifecycle: ast.Singleton}

	if p.at(lexer.LT) {
		p.advance()
		for !p.at(lexer.GT) && !p.at(lexer.EOF) {
			decl.TypeParams = append(decl.TypeParams, p.expect(lexer.IDENT).Literal)
			if p.at(lexer.COMMA) {
				p.advance()
			}
		}
		p.expect(lexer.GT)
	}

	if p.at(lexer.LBRACKET) {
		p.advance()
		for !p.at(lexer.RBRACKET) && !p.at(lexer.EOF) {
			depName := p.expect(lexer.IDENT).Literal
			p.expect(lexer.COLON)
			depType := p.parseTypeExpr()
			decl.Deps = append(decl.Deps, &ast.BracketDep{Name: depName, Type: depType})
			if p.at(lexer.COMMA) {
				p.advance()
			}
		}
		p.expect(lexer.RBRACKET)
	}

	if p.at(lexer.COLON) {
		p.advance()
		decl.Traits = append(decl.Traits, p.expect(lexer.IDENT).Literal)
		for p.at(lexer.COMMA) {
			p.advance()
			decl.Traits = append(decl.Traits, p.expect(lexer.IDENT).Literal)
		}
	}

	p.expect(lexer.LBRACE)
	p.skipNewlines()
	fieldOrdinal := 0
	methodOrdinal := 0
	for !p.at(lexer.RBRACE) && !p.at(lexer.EOF) {
		switch {
		case p.at(lexer.INVARIANT):
			tok := p.advance()
			decl.Invariants = append(decl.Invariants, &ast.Contract{Token: tok, Expr: p.parseExpression(precLowest)})
		case p.at(lexer.FN):
			decl.Methods = append(decl.Methods, p.parseFunctionDecl(methodOrdinal))
			methodOrdinal++
		default:
			fname := p.expect(lexer.IDENT).Literal
			p.expect(lexer.COLON)
			ftype := p.parseTypeExpr()
			decl.Fields = append(decl.Fields, &ast.Field{
				ID:   ast.NewID("field", name+"."+fname, fieldOrdinal),
				Name: fname,
				Type: ftype,
			})
			fieldOrdinal++
		}
		p.skipNewlines()
	}
	p.expect(lexer.RBRACE)
	return decl
}

func (p *Parser) parseEnumDecl(ordinal int) *ast.EnumDecl {
	tok := p.expect(lexer.ENUM)
	name := p.expect(lexer.IDENT).Literal
	decl := &ast.EnumDecl{Token: tok, Name: name, ID: ast.NewID("enum", name, ordinal)}

	if p.at(lexer.LT) {
		p.advance()
		for !p.at(lexer.GT) && !p.at(lexer.EOF) {
			decl.TypeParams = append(decl.TypeParams, p.expect(lexer.IDENT).Literal)
			if p.at(lexer.COMMA) {
				p.advance()
			}
		}
		p.expect(lexer.GT)
	}

	p.expect(lexer.LBRACE)
	p.skipNewlines()
	vOrdinal := 0
	for !p.at(lexer.RBRACE) && !p.at(lexer.EOF) {
		vname := p.expect(lexer.IDENT).Literal
		v := &ast.Variant{Name: vname, ID: ast.NewID("variant", name+"."+vname, vOrdinal)}
		if p.at(lexer.LPAREN) {
			p.advance()
			idx := 0
			for !p.at(lexer.RPAREN) && !p.at(lexer.EOF) {
				v.Fields = append(v.Fields, &ast.Param{Name: "_" + vname + "Field", Type: p.parseTypeExpr()})
				idx++
				if p.at(lexer.COMMA) {
					p.advance()
				}
			}
			p.expect(lexer.RPAREN)
		}
		decl.Variants = append(decl.Variants, v)
		vOrdinal++
		if p.at(lexer.COMMA) {
			p.advance()
		}
		p.skipNewlines()
	}
	p.expect(lexer.RBRACE)
	return decl
}

func (p *Parser) parseTraitDecl(ordinal int) *ast.TraitDecl {
	tok := p.expect(lexer.TRAIT)
	name := p.expect(lexer.IDENT).Literal
	decl := &ast.TraitDecl{Token: tok, Name: name, ID: ast.NewID("trait", name, ordinal)}

	p.expect(lexer.LBRACE)
	p.skipNewlines()
	for !p.at(lexer.RBRACE) && !p.at(lexer.EOF) {
		p.expect(lexer.FN)
		mname := p.expect(lexer.IDENT).Literal
		m := &ast.TraitMethod{Name: mname, Params: p.parseParamList()}
		if p.at(lexer.ARROW) {
			p.advance()
			m.ReturnType = p.parseTypeExpr()
		}
		m.Requires = p.parseRequiresList()
		if p.at(lexer.LBRACE) {
			m.Default = p.parseBlockStatement()
		}
		decl.Methods = append(decl.Methods, m)
		p.skipNewlines()
	}
	p.expect(lexer.RBRACE)
	return decl
}

func (p *Parser) parseAppDecl(ordinal int) *ast.AppDecl {
	tok := p.expect(lexer.APP)
	name := p.expect(lexer.IDENT).Literal
	decl := &ast.AppDecl{Token: tok, Name: name, ID: ast.NewID("app", name, ordinal)}

	if p.at(lexer.LBRACKET) {
		p.advance()
		for !p.at(lexer.RBRACKET) && !p.at(lexer.EOF) {
			depName := p.expect(lexer.IDENT).Literal
			p.expect(lexer.COLON)
			depType := p.parseTypeExpr()
			decl.Deps = append(decl.Deps, &ast.BracketDep{Name: depName, Type: depType})
			if p.at(lexer.COMMA) {
				p.advance()
			}
		}
		p.expect(lexer.RBRACKET)
	}

	p.expect(lexer.LBRACE)
	p.skipNewlines()
	for !p.at(lexer.RBRACE) && !p.at(lexer.EOF) {
		if p.at(lexer.FN) {
			decl.Main = p.parseFunctionDecl(0)
		} else {
			p.fail("expected fn main inside app body")
			return decl
		}
		p.skipNewlines()
	}
	p.expect(lexer.RBRACE)
	return decl
}

func (p *Parser) parseTestDecl(ordinal int) *ast.TestDecl {
	tok := p.advance() // "test" ident
	name := p.expect(lexer.STRING).Literal
	decl := &ast.TestDecl{Token: tok, Name: name, ID: ast.NewID("test", name, ordinal)}
	decl.Body = p.parseBlockStatement()
	return decl
}
