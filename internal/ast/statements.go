package ast

import (
	"strings"

	"github.com/pluto-lang/pluto/internal/lexer"
)

// BlockStatement is a `{ ... }` statement list.
type BlockStatement struct {
	Token      lexer.Token
	Statements []Statement
}

func (b *BlockStatement) statementNode()       {}
func (b *BlockStatement) TokenLiteral() string { return b.Token.Literal }
func (b *BlockStatement) Pos() lexer.Position  { return b.Token.Pos() }
func (b *BlockStatement) String() string {
	var sb strings.Builder
	sb.WriteString("{\n")
	for _, s := range b.Statements {
		sb.WriteString("  " + s.String() + "\n")
	}
	sb.WriteString("}")
	return sb.String()
}

// ExpressionStatement wraps an expression used for its side effects.
type ExpressionStatement struct {
	Token lexer.Token
	Expr  Expression
}

func (e *ExpressionStatement) statementNode()       {}
func (e *ExpressionStatement) TokenLiteral() string { return e.Token.Literal }
func (e *ExpressionStatement) Pos() lexer.Position  { return e.Token.Pos() }
func (e *ExpressionStatement) String() string       { return e.Expr.String() }

// LetStatement is `let [mut] name[: Type] = expr`. Local bindings infer
// their type from the RHS when Type is nil.
type LetStatement struct {
	Token lexer.Token
	Name  string
	Type  TypeExpr // nil if inferred
	Mut   bool
	Value Expression
}

func (l *LetStatement) statementNode()       {}
func (l *LetStatement) TokenLiteral() string { return l.Token.Literal }
func (l *LetStatement) Pos() lexer.Position  { return l.Token.Pos() }
func (l *LetStatement) String() string {
	var sb strings.Builder
	sb.WriteString("let ")
	if l.Mut {
		sb.WriteString("mut ")
	}
	sb.WriteString(l.Name)
	if l.Type != nil {
		sb.WriteString(": " + l.Type.String())
	}
	sb.WriteString(" = " + l.Value.String())
	return sb.String()
}

// AssignStatement is `target = value`, where target is an identifier,
// field access, or index expression. Class field assignment additionally
// requires `mut self` and a `let mut` binding.
type AssignStatement struct {
	Token  lexer.Token
	Target Expression
	Value  Expression
}

func (a *AssignStatement) statementNode()       {}
func (a *AssignStatement) TokenLiteral() string { return a.Token.Literal }
func (a *AssignStatement) Pos() lexer.Position  { return a.Token.Pos() }
func (a *AssignStatement) String() string       { return a.Target.String() + " = " + a.Value.String() }

// ReturnStatement is `return [expr]`.
type ReturnStatement struct {
	Token lexer.Token
	Value Expression // nil for a bare `return`
}

func (r *ReturnStatement) statementNode()       {}
func (r *ReturnStatement) TokenLiteral() string { return r.Token.Literal }
func (r *ReturnStatement) Pos() lexer.Position  { return r.Token.Pos() }
func (r *ReturnStatement) String() string {
	if r.Value == nil {
		return "return"
	}
	return "return " + r.Value.String()
}

// RaiseStatement is `raise E{...}`.
type RaiseStatement struct {
	Token lexer.Token
	Error Expression // a StructLiteral naming the error type
}

func (r *RaiseStatement) statementNode()       {}
func (r *RaiseStatement) TokenLiteral() string { return r.Token.Literal }
func (r *RaiseStatement) Pos() lexer.Position  { return r.Token.Pos() }
func (r *RaiseStatement) String() string       { return "raise " + r.Error.String() }

// YieldStatement is `yield expr` inside a `stream T` function body.
// It cannot appear inside a closure.
type YieldStatement struct {
	Token lexer.Token
	Value Expression
}

func (y *YieldStatement) statementNode()       {}
func (y *YieldStatement) TokenLiteral() string { return y.Token.Literal }
func (y *YieldStatement) Pos() lexer.Position  { return y.Token.Pos() }
func (y *YieldStatement) String() string       { return "yield " + y.Value.String() }

// BreakStatement / ContinueStatement are loop-control statements. Either
// inside a closure body is rejected by the closure lifter when the target
// loop encloses the lambda rather than the lifted function.
type BreakStatement struct{ Token lexer.Token }

func (b *BreakStatement) statementNode()       {}
func (b *BreakStatement) TokenLiteral() string { return b.Token.Literal }
func (b *BreakStatement) Pos() lexer.Position  { return b.Token.Pos() }
func (b *BreakStatement) String() string       { return "break" }

type ContinueStatement struct{ Token lexer.Token }

func (c *ContinueStatement) statementNode()       {}
func (c *ContinueStatement) TokenLiteral() string { return c.Token.Literal }
func (c *ContinueStatement) Pos() lexer.Position  { return c.Token.Pos() }
func (c *ContinueStatement) String() string       { return "continue" }

// IfStatement is `if cond { ... } else { ... }` (Else may itself be
// another *IfStatement for `else if`, or nil).
type IfStatement struct {
	Token     lexer.Token
	Condition Expression
	Then      *BlockStatement
	Else      Statement // *BlockStatement, *IfStatement, or nil
}

func (i *IfStatement) statementNode()       {}
func (i *IfStatement) TokenLiteral() string { return i.Token.Literal }
func (i *IfStatement) Pos() lexer.Position  { return i.Token.Pos() }
func (i *IfStatement) String() string {
	s := "if " + i.Condition.String() + " " + i.Then.String()
	if i.Else != nil {
		s += " else " + i.Else.String()
	}
	return s
}

// WhileStatement is `while cond { ... }`.
type WhileStatement struct {
	Token     lexer.Token
	Condition Expression
	Body      *BlockStatement
}

func (w *WhileStatement) statementNode()       {}
func (w *WhileStatement) TokenLiteral() string { return w.Token.Literal }
func (w *WhileStatement) Pos() lexer.Position  { return w.Token.Pos() }
func (w *WhileStatement) String() string       { return "while " + w.Condition.String() + " " + w.Body.String() }

// ForStatement is `for name in iterable { ... }`, including the range
// form `for i in lo..hi` / `lo..=hi`, which the parser represents as a
// RangeExpr Iterable.
type ForStatement struct {
	Token    lexer.Token
	Name     string
	Iterable Expression
	Body     *BlockStatement
}

func (f *ForStatement) statementNode()       {}
func (f *ForStatement) TokenLiteral() string { return f.Token.Literal }
func (f *ForStatement) Pos() lexer.Position  { return f.Token.Pos() }
func (f *ForStatement) String() string {
	return "for " + f.Name + " in " + f.Iterable.String() + " " + f.Body.String()
}

// RangeExpr is `lo..hi` (exclusive) or `lo..=hi` (inclusive).
type RangeExpr struct {
	typedBase
	Token     lexer.Token
	Low, High Expression
	Inclusive bool
}

func (r *RangeExpr) expressionNode()      {}
func (r *RangeExpr) TokenLiteral() string { return r.Token.Literal }
func (r *RangeExpr) Pos() lexer.Position  { return r.Token.Pos() }
func (r *RangeExpr) String() string {
	op := ".."
	if r.Inclusive {
		op = "..="
	}
	return r.Low.String() + op + r.High.String()
}

// ScopeStatement is `scope { ... }` — Scoped-lifecycle classes are
// re-allocated once per scope block.
type ScopeStatement struct {
	Token lexer.Token
	Body  *BlockStatement
}

func (s *ScopeStatement) statementNode()       {}
func (s *ScopeStatement) TokenLiteral() string { return s.Token.Literal }
func (s *ScopeStatement) Pos() lexer.Position  { return s.Token.Pos() }
func (s *ScopeStatement) String() string       { return "scope " + s.Body.String() }

// ExternRustStatement is `extern rust { ... }` — an FFI declaration block.
// Whether it must appear in the entry file is an ambiguous point in the
// source language this compiler leaves unconstrained: it is permitted
// anywhere, consistent with ordinary declarations.
type ExternRustStatement struct {
	Token lexer.Token
	Raw   string
}

func (e *ExternRustStatement) statementNode()       {}
func (e *ExternRustStatement) TokenLiteral() string { return e.Token.Literal }
func (e *ExternRustStatement) Pos() lexer.Position  { return e.Token.Pos() }
func (e *ExternRustStatement) String() string       { return "extern rust { " + e.Raw + " }" }
