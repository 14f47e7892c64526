package ast

import (
	"strings"

	"github.com/pluto-lang/pluto/internal/lexer"
)

// TypedExpression is implemented by expression nodes that the type
// inferrer annotates in place, so later passes can read a resolved type
// off the AST without a side table.
type TypedExpression interface {
	Expression
	ResolvedType() any // holds a *types.PlutoType once inference runs
	SetResolvedType(any)
}

type typedBase struct {
	resolved any
}

func (t *typedBase) ResolvedType() any     { return t.resolved }
func (t *typedBase) SetResolvedType(r any) { t.resolved = r }

// Identifier references a variable, parameter, function, or type name.
type Identifier struct {
	typedBase
	Token lexer.Token
	Value string
}

func (i *Identifier) expressionNode()       {}
func (i *Identifier) TokenLiteral() string  { return i.Token.Literal }
func (i *Identifier) Pos() lexer.Position   { return i.Token.Pos() }
func (i *Identifier) String() string        { return i.Value }

type IntegerLiteral struct {
	typedBase
	Token lexer.Token
	Value int64
}

func (n *IntegerLiteral) expressionNode()      {}
func (n *IntegerLiteral) TokenLiteral() string { return n.Token.Literal }
func (n *IntegerLiteral) Pos() lexer.Position  { return n.Token.Pos() }
func (n *IntegerLiteral) String() string       { return n.Token.Literal }

type FloatLiteral struct {
	typedBase
	Token lexer.Token
	Value float64
}

func (n *FloatLiteral) expressionNode()      {}
func (n *FloatLiteral) TokenLiteral() string { return n.Token.Literal }
func (n *FloatLiteral) Pos() lexer.Position  { return n.Token.Pos() }
func (n *FloatLiteral) String() string       { return n.Token.Literal }

// StringLiteral is a non-interpolated string; InterpolatedString handles
// the `"... {expr} ..."` case.
type StringLiteral struct {
	typedBase
	Token lexer.Token
	Value string
}

func (n *StringLiteral) expressionNode()      {}
func (n *StringLiteral) TokenLiteral() string { return n.Token.Literal }
func (n *StringLiteral) Pos() lexer.Position  { return n.Token.Pos() }
func (n *StringLiteral) String() string       { return "\"" + n.Value + "\"" }

// InterpolatedString alternates literal text segments and hole
// expressions: len(Parts) == len(Holes)+1.
type InterpolatedString struct {
	typedBase
	Token lexer.Token
	Parts []string
	Holes []Expression
}

func (n *InterpolatedString) expressionNode()      {}
func (n *InterpolatedString) TokenLiteral() string { return n.Token.Literal }
func (n *InterpolatedString) Pos() lexer.Position  { return n.Token.Pos() }
func (n *InterpolatedString) String() string {
	var sb strings.Builder
	sb.WriteString("\"")
	for i, p := range n.Parts {
		sb.WriteString(p)
		if i < len(n.Holes) {
			sb.WriteString("{")
			sb.WriteString(n.Holes[i].String())
			sb.WriteString("}")
		}
	}
	sb.WriteString("\"")
	return sb.String()
}

type BooleanLiteral struct {
	typedBase
	Token lexer.Token
	Value bool
}

func (n *BooleanLiteral) expressionNode()      {}
func (n *BooleanLiteral) TokenLiteral() string { return n.Token.Literal }
func (n *BooleanLiteral) Pos() lexer.Position  { return n.Token.Pos() }
func (n *BooleanLiteral) String() string       { return n.Token.Literal }

// NoneLiteral is the `none` literal, only legal in a nullable context.
type NoneLiteral struct {
	typedBase
	Token lexer.Token
}

func (n *NoneLiteral) expressionNode()      {}
func (n *NoneLiteral) TokenLiteral() string { return n.Token.Literal }
func (n *NoneLiteral) Pos() lexer.Position  { return n.Token.Pos() }
func (n *NoneLiteral) String() string       { return "none" }

// SelfExpr is the implicit `self` receiver reference inside a method.
type SelfExpr struct {
	typedBase
	Token lexer.Token
}

func (n *SelfExpr) expressionNode()      {}
func (n *SelfExpr) TokenLiteral() string { return n.Token.Literal }
func (n *SelfExpr) Pos() lexer.Position  { return n.Token.Pos() }
func (n *SelfExpr) String() string       { return "self" }

// PrefixExpr is a unary operator: `-x`, `!x`.
type PrefixExpr struct {
	typedBase
	Token    lexer.Token
	Operator string
	Right    Expression
}

func (p *PrefixExpr) expressionNode()      {}
func (p *PrefixExpr) TokenLiteral() string { return p.Token.Literal }
func (p *PrefixExpr) Pos() lexer.Position  { return p.Token.Pos() }
func (p *PrefixExpr) String() string       { return "(" + p.Operator + p.Right.String() + ")" }

// InfixExpr is a binary operator expression.
type InfixExpr struct {
	typedBase
	Token    lexer.Token
	Left     Expression
	Operator string
	Right    Expression
}

func (i *InfixExpr) expressionNode()      {}
func (i *InfixExpr) TokenLiteral() string { return i.Token.Literal }
func (i *InfixExpr) Pos() lexer.Position  { return i.Token.Pos() }
func (i *InfixExpr) String() string {
	return "(" + i.Left.String() + " " + i.Operator + " " + i.Right.String() + ")"
}

// CallExpr is `fn(args...)`, optionally suffixed with `!` (propagate
// errors). It is also how a class is instantiated via the DI solver's
// synthesized constructor when Callee names a class with bracket-deps;
// ordinary calls are unrestricted.
type CallExpr struct {
	typedBase
	Token     lexer.Token
	Callee    Expression
	Args      []Expression
	Propagate bool // trailing `!`
	Catch     *CatchClause // non-nil if followed by `catch`
}

func (c *CallExpr) expressionNode()      {}
func (c *CallExpr) TokenLiteral() string { return c.Token.Literal }
func (c *CallExpr) Pos() lexer.Position  { return c.Token.Pos() }
func (c *CallExpr) String() string {
	var sb strings.Builder
	sb.WriteString(c.Callee.String())
	sb.WriteString("(")
	for i, a := range c.Args {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(a.String())
	}
	sb.WriteString(")")
	if c.Propagate {
		sb.WriteString("!")
	}
	if c.Catch != nil {
		sb.WriteString(" " + c.Catch.String())
	}
	return sb.String()
}

// CatchClause is either a shorthand default-value expression or a block
// `catch err { ... }`.
type CatchClause struct {
	Token      lexer.Token
	ErrBinding string          // "" for the shorthand-expression form
	Default    Expression      // non-nil for the shorthand form
	Block      *BlockStatement // non-nil for the block form
}

func (c *CatchClause) String() string {
	if c.Block != nil {
		return "catch " + c.ErrBinding + " " + c.Block.String()
	}
	return "catch " + c.Default.String()
}

// FieldAccess is nested field access, `obj.field`, disambiguated from a
// qualified enum variant by the parser's capitalization heuristic.
type FieldAccess struct {
	typedBase
	Token lexer.Token
	Obj   Expression
	Field string
}

func (f *FieldAccess) expressionNode()      {}
func (f *FieldAccess) TokenLiteral() string { return f.Token.Literal }
func (f *FieldAccess) Pos() lexer.Position  { return f.Token.Pos() }
func (f *FieldAccess) String() string       { return f.Obj.String() + "." + f.Field }

// QualifiedEnumVariant is `Enum.Variant` or `module.Enum.Variant`,
// disambiguated by the parser's capitalization heuristic. A dedicated
// QualifiedPath node would be a cleaner long-term redesign but isn't
// implemented here.
type QualifiedEnumVariant struct {
	typedBase
	Token   lexer.Token
	Module  string // "" if unqualified
	Enum    string
	Variant string
	Args    []Expression // non-nil for a Data variant construction
}

func (q *QualifiedEnumVariant) expressionNode()      {}
func (q *QualifiedEnumVariant) TokenLiteral() string { return q.Token.Literal }
func (q *QualifiedEnumVariant) Pos() lexer.Position  { return q.Token.Pos() }
func (q *QualifiedEnumVariant) String() string {
	prefix := q.Enum + "." + q.Variant
	if q.Module != "" {
		prefix = q.Module + "." + prefix
	}
	return prefix
}

// IndexExpr is `arr[idx]`.
type IndexExpr struct {
	typedBase
	Token lexer.Token
	Obj   Expression
	Index Expression
}

func (i *IndexExpr) expressionNode()      {}
func (i *IndexExpr) TokenLiteral() string { return i.Token.Literal }
func (i *IndexExpr) Pos() lexer.Position  { return i.Token.Pos() }
func (i *IndexExpr) String() string       { return i.Obj.String() + "[" + i.Index.String() + "]" }

// ArrayLiteral is `[e1, e2, ...]`.
type ArrayLiteral struct {
	typedBase
	Token    lexer.Token
	Elements []Expression
}

func (a *ArrayLiteral) expressionNode()      {}
func (a *ArrayLiteral) TokenLiteral() string { return a.Token.Literal }
func (a *ArrayLiteral) Pos() lexer.Position  { return a.Token.Pos() }
func (a *ArrayLiteral) String() string {
	parts := make([]string, len(a.Elements))
	for i, e := range a.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// MapEntry is one `key: value` pair in a map literal.
type MapEntry struct {
	Key   Expression
	Value Expression
}

// MapLiteral is `[k1: v1, k2: v2]`.
type MapLiteral struct {
	typedBase
	Token   lexer.Token
	Entries []*MapEntry
}

func (m *MapLiteral) expressionNode()      {}
func (m *MapLiteral) TokenLiteral() string { return m.Token.Literal }
func (m *MapLiteral) Pos() lexer.Position  { return m.Token.Pos() }
func (m *MapLiteral) String() string {
	parts := make([]string, len(m.Entries))
	for i, e := range m.Entries {
		parts[i] = e.Key.String() + ": " + e.Value.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// SetLiteral is `{e1, e2}`.
type SetLiteral struct {
	typedBase
	Token    lexer.Token
	Elements []Expression
}

func (s *SetLiteral) expressionNode()      {}
func (s *SetLiteral) TokenLiteral() string { return s.Token.Literal }
func (s *SetLiteral) Pos() lexer.Position  { return s.Token.Pos() }
func (s *SetLiteral) String() string {
	parts := make([]string, len(s.Elements))
	for i, e := range s.Elements {
		parts[i] = e.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// StructLiteralField is one `name: expr` in a class/record literal.
type StructLiteralField struct {
	Name  string
	Value Expression
}

// StructLiteral is `C{field: value, ...}`. Disallowed at direct
// instantiation sites for classes with bracket-deps; the contract
// validator enforces a runtime invariant check after construction.
type StructLiteral struct {
	typedBase
	Token  lexer.Token
	Name   string
	Fields []*StructLiteralField
}

func (s *StructLiteral) expressionNode()      {}
func (s *StructLiteral) TokenLiteral() string { return s.Token.Literal }
func (s *StructLiteral) Pos() lexer.Position  { return s.Token.Pos() }
func (s *StructLiteral) String() string {
	parts := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		parts[i] = f.Name + ": " + f.Value.String()
	}
	return s.Name + "{" + strings.Join(parts, ", ") + "}"
}

// LambdaExpr is `(params) => expr` or `(params) => { ... }`, rewritten by
// the closure lifter into a top-level function.
type LambdaExpr struct {
	typedBase
	Token  lexer.Token
	Params []*Param
	Body   *BlockStatement // a single-expression body is wrapped in a ReturnStatement

	// LiftedName and Captures are filled in by the closure lifter: Name is
	// the top-level function synthesized from this lambda, and Captures
	// lists the free variables it closes over, in the order they were
	// prepended to the lifted function's parameter list.
	LiftedName string
	Captures   []string
}

func (l *LambdaExpr) expressionNode()      {}
func (l *LambdaExpr) TokenLiteral() string { return l.Token.Literal }
func (l *LambdaExpr) Pos() lexer.Position  { return l.Token.Pos() }
func (l *LambdaExpr) String() string {
	parts := make([]string, len(l.Params))
	for i, p := range l.Params {
		parts[i] = p.String()
	}
	return "(" + strings.Join(parts, ", ") + ") => " + l.Body.String()
}

// SpawnExpr is `spawn f(args)`, evaluated for its Task<T> handle.
// Args are evaluated eagerly before the task launches.
type SpawnExpr struct {
	typedBase
	Token lexer.Token
	Call  *CallExpr
}

func (s *SpawnExpr) expressionNode()      {}
func (s *SpawnExpr) TokenLiteral() string { return s.Token.Literal }
func (s *SpawnExpr) Pos() lexer.Position  { return s.Token.Pos() }
func (s *SpawnExpr) String() string       { return "spawn " + s.Call.String() }

// ChanExpr is `chan<T>(capacity)`.
type ChanExpr struct {
	typedBase
	Token    lexer.Token
	ElemType TypeExpr
	Capacity Expression
}

func (c *ChanExpr) expressionNode()      {}
func (c *ChanExpr) TokenLiteral() string { return c.Token.Literal }
func (c *ChanExpr) Pos() lexer.Position  { return c.Token.Pos() }
func (c *ChanExpr) String() string {
	return "chan<" + c.ElemType.String() + ">(" + c.Capacity.String() + ")"
}

// MatchArm is one `pattern => expr` arm of a match expression.
type MatchArm struct {
	Pattern Pattern
	Body    Expression
}

// Pattern is a match-arm pattern: a bound name, a qualified enum variant
// with sub-bindings, or a wildcard `_`.
type Pattern interface {
	Node
	patternNode()
}

// WildcardPattern matches anything, binding nothing.
type WildcardPattern struct {
	Token lexer.Token
}

func (w *WildcardPattern) patternNode()        {}
func (w *WildcardPattern) TokenLiteral() string { return w.Token.Literal }
func (w *WildcardPattern) Pos() lexer.Position  { return w.Token.Pos() }
func (w *WildcardPattern) String() string       { return "_" }

// BindingPattern matches anything and binds it to Name.
type BindingPattern struct {
	Token lexer.Token
	Name  string
}

func (b *BindingPattern) patternNode()        {}
func (b *BindingPattern) TokenLiteral() string { return b.Token.Literal }
func (b *BindingPattern) Pos() lexer.Position  { return b.Token.Pos() }
func (b *BindingPattern) String() string       { return b.Name }

// VariantPattern matches `Enum.Variant(sub1, sub2)`.
type VariantPattern struct {
	Token    lexer.Token
	Enum     string
	Variant  string
	SubNames []string
}

func (v *VariantPattern) patternNode()        {}
func (v *VariantPattern) TokenLiteral() string { return v.Token.Literal }
func (v *VariantPattern) Pos() lexer.Position  { return v.Token.Pos() }
func (v *VariantPattern) String() string {
	return v.Enum + "." + v.Variant + "(" + strings.Join(v.SubNames, ", ") + ")"
}

// MatchExpr is `match subject { arm, arm, ... }`.
type MatchExpr struct {
	typedBase
	Token   lexer.Token
	Subject Expression
	Arms    []*MatchArm
}

func (m *MatchExpr) expressionNode()      {}
func (m *MatchExpr) TokenLiteral() string { return m.Token.Literal }
func (m *MatchExpr) Pos() lexer.Position  { return m.Token.Pos() }
func (m *MatchExpr) String() string {
	var sb strings.Builder
	sb.WriteString("match " + m.Subject.String() + " {")
	for _, arm := range m.Arms {
		sb.WriteString(" " + arm.Pattern.String() + " => " + arm.Body.String() + ",")
	}
	sb.WriteString(" }")
	return sb.String()
}
