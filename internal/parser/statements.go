package parser

import (
	"github.com/pluto-lang/pluto/internal/ast"
	"github.com/pluto-lang/pluto/internal/lexer"
)

func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	tok := p.expect(lexer.LBRACE)
	block := &ast.BlockStatement{Token: tok}
	p.skipNewlines()
	for !p.at(lexer.RBRACE) && !p.at(lexer.EOF) && p.err == nil {
		stmt := p.parseStatement()
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		p.skipStatementEnd()
	}
	p.expect(lexer.RBRACE)
	return block
}

// skipStatementEnd consumes the NEWLINE(s) that terminate a statement, or
// does nothing at a closing `}`: statement boundaries are driven by
// newline tokens and `}`.
func (p *Parser) skipStatementEnd() {
	for p.at(lexer.NEWLINE) {
		p.advance()
	}
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.cur().Type {
	case lexer.LET:
		return p.parseLetStatement()
	case lexer.RETURN:
		return p.parseReturnStatement()
	case lexer.RAISE:
		return p.parseRaiseStatement()
	case lexer.YIELD:
		return p.parseYieldStatement()
	case lexer.BREAK:
		tok := p.advance()
		return &ast.BreakStatement{Token: tok}
	case lexer.CONTINUE:
		tok := p.advance()
		return &ast.ContinueStatement{Token: tok}
	case lexer.IF:
		return p.parseIfStatement()
	case lexer.WHILE:
		return p.parseWhileStatement()
	case lexer.FOR:
		return p.parseForStatement()
	case lexer.SCOPE:
		tok := p.advance()
		return &ast.ScopeStatement{Token: tok, Body: p.parseBlockStatement()}
	default:
		return p.parseSimpleStatement()
	}
}

func (p *Parser) parseLetStatement() ast.Statement {
	tok := p.expect(lexer.LET)
	stmt := &ast.LetStatement{Token: tok}
	if p.at(lexer.MUT) {
		stmt.Mut = true
		p.advance()
	}
	stmt.Name = p.expect(lexer.IDENT).Literal
	if p.at(lexer.COLON) {
		p.advance()
		stmt.Type = p.parseTypeExpr()
	}
	p.expect(lexer.ASSIGN)
	stmt.Value = p.parseExpression(precLowest)
	return stmt
}

func (p *Parser) parseReturnStatement() ast.Statement {
	tok := p.expect(lexer.RETURN)
	stmt := &ast.ReturnStatement{Token: tok}
	if !p.at(lexer.NEWLINE) && !p.at(lexer.RBRACE) && !p.at(lexer.EOF) {
		stmt.Value = p.parseExpression(precLowest)
	}
	return stmt
}

func (p *Parser) parseRaiseStatement() ast.Statement {
	tok := p.expect(lexer.RAISE)
	return &ast.RaiseStatement{Token: tok, Error: p.parseExpression(precLowest)}
}

func (p *Parser) parseYieldStatement() ast.Statement {
	tok := p.expect(lexer.YIELD)
	return &ast.YieldStatement{Token: tok, Value: p.parseExpression(precLowest)}
}

func (p *Parser) parseIfStatement() ast.Statement {
	tok := p.expect(lexer.IF)
	stmt := &ast.IfStatement{Token: tok}
	prevNoStruct := p.noStructLiteral
	p.noStructLiteral = true
	stmt.Condition = p.parseExpression(precLowest)
	p.noStructLiteral = prevNoStruct
	stmt.Then = p.parseBlockStatement()
	if p.at(lexer.ELSE) {
		p.advance()
		if p.at(lexer.IF) {
			stmt.Else = p.parseIfStatement()
		} else {
			stmt.Else = p.parseBlockStatement()
		}
	}
	return stmt
}

func (p *Parser) parseWhileStatement() ast.Statement {
	tok := p.expect(lexer.WHILE)
	stmt := &ast.WhileStatement{Token: tok}
	prevNoStruct := p.noStructLiteral
	p.noStructLiteral = true
	stmt.Condition = p.parseExpression(precLowest)
	p.noStructLiteral = prevNoStruct
	stmt.Body = p.parseBlockStatement()
	return stmt
}

func (p *Parser) parseForStatement() ast.Statement {
	tok := p.expect(lexer.FOR)
	stmt := &ast.ForStatement{Token: tok}
	stmt.Name = p.expect(lexer.IDENT).Literal
	p.expect(lexer.IN)
	prevNoStruct := p.noStructLiteral
	p.noStructLiteral = true
	stmt.Iterable = p.parseExpression(precLowest)
	p.noStructLiteral = prevNoStruct
	stmt.Body = p.parseBlockStatement()
	return stmt
}

// parseSimpleStatement parses an expression, then decides whether it is
// followed by `=` (assignment) or stands alone as an expression statement.
func (p *Parser) parseSimpleStatement() ast.Statement {
	tok := p.cur()
	expr := p.parseExpression(precLowest)
	if p.at(lexer.ASSIGN) {
		p.advance()
		value := p.parseExpression(precLowest)
		return &ast.AssignStatement{Token: tok, Target: expr, Value: value}
	}
	return &ast.ExpressionStatement{Token: tok, Expr: expr}
}
