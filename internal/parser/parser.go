// Package parser implements a Pratt/precedence-climbing expression parser
// and recursive-descent declaration/statement parser over the lexer's
// token stream, producing an *ast.Program.
package parser

import (
	"fmt"

	"github.com/pluto-lang/pluto/internal/ast"
	"github.com/pluto-lang/pluto/internal/lexer"
)

// ParseError is the single syntax error surfaced to callers — the parser
// reports the first error with a span and does not attempt recovery.
type ParseError struct {
	Message string
	Span    lexer.Span
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at %s", e.Message, e.Span.Start)
}

// Precedence levels, lowest to highest.
const (
	_ int = iota
	precLowest
	precOr        // ||
	precAnd       // &&
	precEquality  // == !=
	precRelational // < > <= >=
	precRange     // .. ..=
	precAdditive  // + -
	precMultiplicative // * / %
	precPrefix    // -x !x
	precPostfix   // call, index, field access, !
)

var precedences = map[lexer.TokenType]int{
	lexer.PIPE_PIPE: precOr,
	lexer.AMP_AMP:   precAnd,
	lexer.EQ:        precEquality,
	lexer.NOT_EQ:    precEquality,
	lexer.LT:        precRelational,
	lexer.GT:        precRelational,
	lexer.LT_EQ:     precRelational,
	lexer.GT_EQ:     precRelational,
	lexer.DOT_DOT:   precRange,
	lexer.DOT_DOT_EQ: precRange,
	lexer.PLUS:      precAdditive,
	lexer.MINUS:     precAdditive,
	lexer.STAR:      precMultiplicative,
	lexer.SLASH:     precMultiplicative,
	lexer.PERCENT:   precMultiplicative,
	lexer.LPAREN:    precPostfix,
	lexer.LBRACKET:  precPostfix,
	lexer.DOT:       precPostfix,
	lexer.BANG:      precPostfix,
}

// Parser holds the full token slice (the lexer is total, so the whole
// stream is available up front) plus a cursor into it.
type Parser struct {
	tokens []lexer.Token
	pos    int
	err    *ParseError

	// noStructLiteral suppresses struct-literal parsing of `Name{...}`
	// while parsing a condition that is itself followed by a block, so
	// `if Point{x:1,y:2}.x > 0 {` isn't misread as `if Point { ... }`.
	noStructLiteral bool
}

// New constructs a Parser over src, lexing it first. A lexer SyntaxError
// is reported as the parser's error without attempting to parse further:
// no partial AST is ever surfaced to later stages.
func New(src string) *Parser {
	toks, err := lexer.Lex(src)
	if err != nil {
		var span lexer.Span
		if se, ok := err.(*lexer.SyntaxError); ok {
			span = se.Span
		}
		return &Parser{err: &ParseError{Message: err.Error(), Span: span}}
	}
	return &Parser{tokens: toks}
}

// Err returns the first error encountered, if any.
func (p *Parser) Err() *ParseError { return p.err }

func (p *Parser) cur() lexer.Token {
	if p.pos >= len(p.tokens) {
		return lexer.Token{Type: lexer.EOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekAt(offset int) lexer.Token {
	idx := p.pos + offset
	if idx >= len(p.tokens) {
		return lexer.Token{Type: lexer.EOF}
	}
	return p.tokens[idx]
}

func (p *Parser) advance() lexer.Token {
	t := p.cur()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return t
}

// skipNewlines consumes blank-line separators permitted between
// declarations.
func (p *Parser) skipNewlines() {
	for p.cur().Type == lexer.NEWLINE {
		p.advance()
	}
}

func (p *Parser) fail(format string, args ...any) {
	if p.err != nil {
		return // first error wins
	}
	p.err = &ParseError{Message: fmt.Sprintf(format, args...), Span: p.cur().Span}
}

func (p *Parser) expect(tt lexer.TokenType) lexer.Token {
	if p.cur().Type != tt {
		p.fail("expected %s, got %s %q", tt, p.cur().Type, p.cur().Literal)
		return p.cur()
	}
	return p.advance()
}

func (p *Parser) at(tt lexer.TokenType) bool { return p.cur().Type == tt }

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.cur().Type]; ok {
		return pr
	}
	return precLowest
}

// ParseProgram parses the full token stream into a Program. Errors are
// available via Err() afterward; ParseProgram stops at the first one.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{}
	if p.err != nil {
		return prog
	}

	counters := map[string]int{}
	next := func(kind string) int {
		n := counters[kind]
		counters[kind]++
		return n
	}

	p.skipNewlines()
	for !p.at(lexer.EOF) && p.err == nil {
		pub := false
		if p.at(lexer.PUB) {
			pub = true
			p.advance()
		}

		switch p.cur().Type {
		case lexer.IMPORT:
			prog.Imports = append(prog.Imports, p.parseImport())
		case lexer.ERROR:
			decl := p.parseErrorDecl(next("error"))
			decl.Pub = pub
			prog.Errors = append(prog.Errors, decl)
		case lexer.FN:
			decl := p.parseFunctionDecl(next("function"))
			decl.Pub = pub
			prog.Functions = append(prog.Functions, decl)
		case lexer.CLASS:
			decl := p.parseClassDecl(next("class"))
			decl.Pub = pub
			prog.Classes = append(prog.Classes, decl)
		case lexer.ENUM:
			decl := p.parseEnumDecl(next("enum"))
			decl.Pub = pub
			prog.Enums = append(prog.Enums, decl)
		case lexer.TRAIT:
			decl := p.parseTraitDecl(next("trait"))
			decl.Pub = pub
			prog.Traits = append(prog.Traits, decl)
		case lexer.APP:
			if prog.App != nil {
				p.fail("a program may declare only one app")
				break
			}
			prog.App = p.parseAppDecl(next("app"))
		case lexer.EXTERN:
			p.parseExternRust()
		case lexer.IDENT:
			if p.cur().Literal == "test" {
				prog.Tests = append(prog.Tests, p.parseTestDecl(next("test")))
				break
			}
			p.fail("unexpected token %q at top level", p.cur().Literal)
		default:
			p.fail("unexpected token %s at top level", p.cur().Type)
		}
		p.skipNewlines()
	}

	return prog
}
