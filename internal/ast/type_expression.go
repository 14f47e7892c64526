package ast

import (
	"strings"

	"github.com/pluto-lang/pluto/internal/lexer"
)

// TypeExpr is the syntactic representation of a type annotation, as written
// in source. The type inferrer resolves each TypeExpr to a types.PlutoType.
type TypeExpr interface {
	Node
	typeExprNode()
}

// NamedType is a bare identifier type reference, optionally with generic
// type arguments (`Box<Int>`) under a no-whitespace-before-`<`
// rule, which the parser enforces when it decides whether `<` starts a
// type-argument list or is the comparison operator.
type NamedType struct {
	Token     lexer.Token
	Name      string
	TypeArgs  []TypeExpr
	Nullable  bool // trailing `?`
}

func (n *NamedType) typeExprNode()      {}
func (n *NamedType) TokenLiteral() string { return n.Token.Literal }
func (n *NamedType) Pos() lexer.Position  { return n.Token.Pos() }
func (n *NamedType) String() string {
	var sb strings.Builder
	sb.WriteString(n.Name)
	if len(n.TypeArgs) > 0 {
		sb.WriteString("<")
		for i, a := range n.TypeArgs {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(a.String())
		}
		sb.WriteString(">")
	}
	if n.Nullable {
		sb.WriteString("?")
	}
	return sb.String()
}

// ArrayType is `[T]`.
type ArrayType struct {
	Token lexer.Token
	Elem  TypeExpr
}

func (a *ArrayType) typeExprNode()        {}
func (a *ArrayType) TokenLiteral() string { return a.Token.Literal }
func (a *ArrayType) Pos() lexer.Position  { return a.Token.Pos() }
func (a *ArrayType) String() string       { return "[" + a.Elem.String() + "]" }

// MapType is `[K:V]`.
type MapType struct {
	Token lexer.Token
	Key   TypeExpr
	Value TypeExpr
}

func (m *MapType) typeExprNode()        {}
func (m *MapType) TokenLiteral() string { return m.Token.Literal }
func (m *MapType) Pos() lexer.Position  { return m.Token.Pos() }
func (m *MapType) String() string       { return "[" + m.Key.String() + ":" + m.Value.String() + "]" }

// SetType is `{T}`.
type SetType struct {
	Token lexer.Token
	Elem  TypeExpr
}

func (s *SetType) typeExprNode()        {}
func (s *SetType) TokenLiteral() string { return s.Token.Literal }
func (s *SetType) Pos() lexer.Position  { return s.Token.Pos() }
func (s *SetType) String() string       { return "{" + s.Elem.String() + "}" }

// FnType is a function-value type: `fn(T1, T2) -> R` or `fn(T1)!->R` when
// the value is fallible.
type FnType struct {
	Token     lexer.Token
	Params    []TypeExpr
	Ret       TypeExpr
	Fallible  bool
}

func (f *FnType) typeExprNode()        {}
func (f *FnType) TokenLiteral() string { return f.Token.Literal }
func (f *FnType) Pos() lexer.Position  { return f.Token.Pos() }
func (f *FnType) String() string {
	var sb strings.Builder
	sb.WriteString("fn(")
	for i, p := range f.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.String())
	}
	sb.WriteString(")")
	if f.Fallible {
		sb.WriteString("!")
	}
	if f.Ret != nil {
		sb.WriteString(" -> ")
		sb.WriteString(f.Ret.String())
	}
	return sb.String()
}

// TaskType is `task<T>`, SenderType `sender<T>`, ReceiverType `receiver<T>`,
// StreamType `stream<T>` — the concurrency/generator type wrappers.
type TaskType struct {
	Token lexer.Token
	Elem  TypeExpr
}

func (t *TaskType) typeExprNode()        {}
func (t *TaskType) TokenLiteral() string { return t.Token.Literal }
func (t *TaskType) Pos() lexer.Position  { return t.Token.Pos() }
func (t *TaskType) String() string       { return "task<" + t.Elem.String() + ">" }

type SenderType struct {
	Token lexer.Token
	Elem  TypeExpr
}

func (s *SenderType) typeExprNode()        {}
func (s *SenderType) TokenLiteral() string { return s.Token.Literal }
func (s *SenderType) Pos() lexer.Position  { return s.Token.Pos() }
func (s *SenderType) String() string       { return "sender<" + s.Elem.String() + ">" }

type ReceiverType struct {
	Token lexer.Token
	Elem  TypeExpr
}

func (r *ReceiverType) typeExprNode()        {}
func (r *ReceiverType) TokenLiteral() string { return r.Token.Literal }
func (r *ReceiverType) Pos() lexer.Position  { return r.Token.Pos() }
func (r *ReceiverType) String() string       { return "receiver<" + r.Elem.String() + ">" }

type StreamType struct {
	Token lexer.Token
	Elem  TypeExpr
}

func (s *StreamType) typeExprNode()        {}
func (s *StreamType) TokenLiteral() string { return s.Token.Literal }
func (s *StreamType) Pos() lexer.Position  { return s.Token.Pos() }
func (s *StreamType) String() string       { return "stream<" + s.Elem.String() + ">" }

// NullableType wraps any TypeExpr with a trailing `?`. NamedType also
// carries its own Nullable flag for the common case of a bare name
// followed by `?`; NullableType exists for the remaining composite cases
// (`[Int]?`, `fn(Int)->Int?`, ...).
type NullableType struct {
	Elem TypeExpr
}

func (n *NullableType) typeExprNode()        {}
func (n *NullableType) TokenLiteral() string { return n.Elem.TokenLiteral() }
func (n *NullableType) Pos() lexer.Position  { return n.Elem.Pos() }
func (n *NullableType) String() string       { return n.Elem.String() + "?" }
