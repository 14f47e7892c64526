// Package ast defines the Abstract Syntax Tree node types produced by the
// parser: declarations, statements, and expressions, each carrying a byte
// span for diagnostics.
package ast

import (
	"bytes"

	"github.com/pluto-lang/pluto/internal/lexer"
)

// ID is a stable 128-bit identifier assigned to every top-level declaration
// at creation time. It is preserved across pretty-print/reparse cycles
// because it is derived from the declaration's kind, name and declaration
// order rather than from anything a reprint could perturb.
type ID [16]byte

// Node is the base interface every AST node implements.
type Node interface {
	TokenLiteral() string
	String() string
	Pos() lexer.Position
}

// Expression is any node that produces a value.
type Expression interface {
	Node
	expressionNode()
}

// Statement is any node that performs an action without producing a value.
type Statement interface {
	Node
	statementNode()
}

// Decl is any top-level declaration: it carries a stable ID.
type Decl interface {
	Node
	DeclID() ID
}

// Program is the root of a single merged compilation unit: the
// module loader unions imports and sibling files into one of these before
// the rest of the pipeline ever runs.
type Program struct {
	Imports   []*Import
	Errors    []*ErrorDecl
	Functions []*FunctionDecl
	Classes   []*ClassDecl
	Enums     []*EnumDecl
	Traits    []*TraitDecl
	App       *AppDecl // nil if this program declares no entry point
	Tests     []*TestDecl
}

func (p *Program) TokenLiteral() string { return "program" }

func (p *Program) String() string {
	var out bytes.Buffer
	for _, im := range p.Imports {
		out.WriteString(im.String())
		out.WriteString("\n")
	}
	for _, e := range p.Errors {
		out.WriteString(e.String())
		out.WriteString("\n")
	}
	for _, f := range p.Functions {
		out.WriteString(f.String())
		out.WriteString("\n")
	}
	for _, c := range p.Classes {
		out.WriteString(c.String())
		out.WriteString("\n")
	}
	for _, en := range p.Enums {
		out.WriteString(en.String())
		out.WriteString("\n")
	}
	for _, tr := range p.Traits {
		out.WriteString(tr.String())
		out.WriteString("\n")
	}
	if p.App != nil {
		out.WriteString(p.App.String())
		out.WriteString("\n")
	}
	for _, t := range p.Tests {
		out.WriteString(t.String())
		out.WriteString("\n")
	}
	return out.String()
}

func (p *Program) Pos() lexer.Position { return lexer.Position{Line: 1, Column: 1} }

// Merge unions other's declarations into p, used for sibling-file merging
// and for registering an imported module's pub declarations.
func (p *Program) Merge(other *Program) {
	p.Imports = append(p.Imports, other.Imports...)
	p.Errors = append(p.Errors, other.Errors...)
	p.Functions = append(p.Functions, other.Functions...)
	p.Classes = append(p.Classes, other.Classes...)
	p.Enums = append(p.Enums, other.Enums...)
	p.Traits = append(p.Traits, other.Traits...)
	p.Tests = append(p.Tests, other.Tests...)
	if p.App == nil {
		p.App = other.App
	}
}
