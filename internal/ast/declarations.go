package ast

import (
	"strings"

	"github.com/pluto-lang/pluto/internal/lexer"
)

// Import is a top-level `import path.to.module [as alias]` declaration,
// resolved by the module loader.
type Import struct {
	Token lexer.Token
	Path  []string // dotted segments: ["path", "to", "module"]
	Alias string   // defaults to the last segment
}

func (i *Import) statementNode()        {}
func (i *Import) TokenLiteral() string  { return i.Token.Literal }
func (i *Import) Pos() lexer.Position   { return i.Token.Pos() }
func (i *Import) String() string        { return "import " + strings.Join(i.Path, ".") }

// ErrorDecl declares a typed error.
type ErrorDecl struct {
	Token  lexer.Token
	ID     ID
	Name   string
	Fields []*Param // optional ordered field list
	Pub    bool
}

func (e *ErrorDecl) statementNode()       {}
func (e *ErrorDecl) DeclID() ID           { return e.ID }
func (e *ErrorDecl) TokenLiteral() string { return e.Token.Literal }
func (e *ErrorDecl) Pos() lexer.Position  { return e.Token.Pos() }
func (e *ErrorDecl) String() string {
	var sb strings.Builder
	if e.Pub {
		sb.WriteString("pub ")
	}
	sb.WriteString("error ")
	sb.WriteString(e.Name)
	sb.WriteString("{")
	for i, f := range e.Fields {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(f.String())
	}
	sb.WriteString("}")
	return sb.String()
}

// Param is a function/error/variant field: name, type, and mutability for
// function parameters (`mut self` or `mut x: T`).
type Param struct {
	Name  string
	Type  TypeExpr
	IsMut bool
}

func (p *Param) String() string {
	var sb strings.Builder
	if p.IsMut {
		sb.WriteString("mut ")
	}
	sb.WriteString(p.Name)
	if p.Type != nil {
		sb.WriteString(": ")
		sb.WriteString(p.Type.String())
	}
	return sb.String()
}

// Contract is a `requires <expr>` clause, restricted at validation time to
// the decidable fragment.
type Contract struct {
	Token lexer.Token
	Expr  Expression
}

func (c *Contract) String() string { return "requires " + c.Expr.String() }

// FunctionDecl is a top-level function, method, or lifted closure. Its
// ErrorSet field starts empty and is populated by the error-set inferrer;
// fallibility is defined as len(ErrorSet) > 0.
type FunctionDecl struct {
	Token       lexer.Token
	ID          ID
	Name        string
	TypeParams  []string
	Params      []*Param
	ReturnType  TypeExpr
	Body        *BlockStatement
	IsGenerator bool // declared `stream T` return
	Requires    []*Contract
	Pub         bool

	// Implicit receiver for methods: "" for free functions, "self" or
	// "mut self" encoded via ReceiverMut.
	Receiver    string
	ReceiverMut bool
	IsMethod    bool

	// Populated by error-set inference, after closure lifting runs.
	ErrorSet map[ID]string // error-decl ID -> name, for diagnostics
}

func (f *FunctionDecl) statementNode()       {}
func (f *FunctionDecl) DeclID() ID           { return f.ID }
func (f *FunctionDecl) TokenLiteral() string { return f.Token.Literal }
func (f *FunctionDecl) Pos() lexer.Position  { return f.Token.Pos() }

// Fallible reports whether the inferred error set is non-empty. Callers
// must not consult this before error-set inference has run.
func (f *FunctionDecl) Fallible() bool { return len(f.ErrorSet) > 0 }

func (f *FunctionDecl) String() string {
	var sb strings.Builder
	if f.Pub {
		sb.WriteString("pub ")
	}
	sb.WriteString("fn ")
	sb.WriteString(f.Name)
	if len(f.TypeParams) > 0 {
		sb.WriteString("<" + strings.Join(f.TypeParams, ", ") + ">")
	}
	sb.WriteString("(")
	for i, p := range f.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.String())
	}
	sb.WriteString(")")
	if f.ReturnType != nil {
		sb.WriteString(" -> ")
		sb.WriteString(f.ReturnType.String())
	}
	for _, r := range f.Requires {
		sb.WriteString(" ")
		sb.WriteString(r.String())
	}
	sb.WriteString(" ")
	if f.Body != nil {
		sb.WriteString(f.Body.String())
	}
	return sb.String()
}

// Lifecycle is the DI lifecycle tag for a class.
type Lifecycle int

const (
	Singleton Lifecycle = iota
	Scoped
	Transient
)

func (l Lifecycle) String() string {
	switch l {
	case Scoped:
		return "scoped"
	case Transient:
		return "transient"
	default:
		return "singleton"
	}
}

// Field is an ordered class or record field.
type Field struct {
	ID   ID
	Name string
	Type TypeExpr
}

// BracketDep is one `[name: Type]` DI dependency slot on a class or app.
type BracketDep struct {
	Name string
	Type TypeExpr
}

// ClassDecl is a class with fields, methods, bracket-deps, implemented
// traits, invariants, and a lifecycle tag.
type ClassDecl struct {
	Token      lexer.Token
	ID         ID
	Name       string
	TypeParams []string
	Fields     []*Field
	Methods    []*FunctionDecl
	Deps       []*BracketDep
	Traits     []string // implemented trait names
	Invariants []*Contract
	Lifecycle  Lifecycle
	Pub        bool
}

func (c *ClassDecl) statementNode()       {}
func (c *ClassDecl) DeclID() ID           { return c.ID }
func (c *ClassDecl) TokenLiteral() string { return c.Token.Literal }
func (c *ClassDecl) Pos() lexer.Position  { return c.Token.Pos() }

// HasDeps reports whether this class participates in dependency injection:
// only classes with bracket-deps, and the app, are resolved by the solver.
func (c *ClassDecl) HasDeps() bool { return len(c.Deps) > 0 }

func (c *ClassDecl) String() string {
	var sb strings.Builder
	if c.Pub {
		sb.WriteString("pub ")
	}
	sb.WriteString("class ")
	sb.WriteString(c.Name)
	if len(c.Deps) > 0 {
		sb.WriteString("[")
		for i, d := range c.Deps {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(d.Name + ": " + d.Type.String())
		}
		sb.WriteString("]")
	}
	sb.WriteString(" {")
	for _, f := range c.Fields {
		sb.WriteString("\n  " + f.Name + ": " + f.Type.String())
	}
	for _, m := range c.Methods {
		sb.WriteString("\n  " + m.String())
	}
	sb.WriteString("\n}")
	return sb.String()
}

// Variant is one enum case: Unit (no data) or Data (named+typed fields).
type Variant struct {
	ID     ID
	Name   string
	Fields []*Param // nil/empty for a unit variant
}

func (v *Variant) IsUnit() bool { return len(v.Fields) == 0 }

// EnumDecl is an enum with unit/data variants, optionally generic.
type EnumDecl struct {
	Token      lexer.Token
	ID         ID
	Name       string
	TypeParams []string
	Variants   []*Variant
	Pub        bool
}

func (e *EnumDecl) statementNode()       {}
func (e *EnumDecl) DeclID() ID           { return e.ID }
func (e *EnumDecl) TokenLiteral() string { return e.Token.Literal }
func (e *EnumDecl) Pos() lexer.Position  { return e.Token.Pos() }
func (e *EnumDecl) String() string {
	var sb strings.Builder
	sb.WriteString("enum " + e.Name + " {")
	for i, v := range e.Variants {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(v.Name)
	}
	sb.WriteString("}")
	return sb.String()
}

// TraitMethod is a method signature, possibly with a default body and
// `requires` contracts.
type TraitMethod struct {
	Name       string
	Params     []*Param
	ReturnType TypeExpr
	Requires   []*Contract
	Default    *BlockStatement // nil if no default implementation
}

// TraitDecl declares a set of method signatures implementable by classes.
type TraitDecl struct {
	Token   lexer.Token
	ID      ID
	Name    string
	Methods []*TraitMethod
	Pub     bool
}

func (t *TraitDecl) statementNode()       {}
func (t *TraitDecl) DeclID() ID           { return t.ID }
func (t *TraitDecl) TokenLiteral() string { return t.Token.Literal }
func (t *TraitDecl) Pos() lexer.Position  { return t.Token.Pos() }
func (t *TraitDecl) String() string {
	return "trait " + t.Name
}

// AppDecl declares the program's single entry point and its bracket-deps.
type AppDecl struct {
	Token  lexer.Token
	ID     ID
	Name   string
	Deps   []*BracketDep
	Main   *FunctionDecl
}

func (a *AppDecl) statementNode()       {}
func (a *AppDecl) DeclID() ID           { return a.ID }
func (a *AppDecl) TokenLiteral() string { return a.Token.Literal }
func (a *AppDecl) Pos() lexer.Position  { return a.Token.Pos() }
func (a *AppDecl) String() string       { return "app " + a.Name }

// TestDecl is a `test "name" { ... }` block. Sibling-file merging can make
// two files declaring the same test name collide; the loader namespaces
// tests by source file path to avoid that.
type TestDecl struct {
	Token lexer.Token
	ID    ID
	Name  string
	File  string
	Body  *BlockStatement
}

func (t *TestDecl) statementNode()       {}
func (t *TestDecl) DeclID() ID           { return t.ID }
func (t *TestDecl) TokenLiteral() string { return t.Token.Literal }
func (t *TestDecl) Pos() lexer.Position  { return t.Token.Pos() }
func (t *TestDecl) String() string       { return "test \"" + t.Name + "\"" }
