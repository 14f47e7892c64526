package sema

import (
	"fmt"
	"strings"

	"github.com/pluto-lang/pluto/internal/ast"
	"github.com/pluto-lang/pluto/internal/compiler"
	"github.com/pluto-lang/pluto/internal/diag"
	"github.com/pluto-lang/pluto/internal/types"
)

// Instantiation is one concrete instantiation of a generic function or
// class: the declaration it came from, plus the type arguments it was
// called or constructed with.
type Instantiation struct {
	DeclID  ast.ID
	Name    string
	Args    []*types.PlutoType
}

func (i *Instantiation) key() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%x", i.DeclID))
	for _, a := range i.Args {
		sb.WriteString("|")
		sb.WriteString(a.String())
	}
	return sb.String()
}

// Monomorphizer discovers every concrete (decl-id, arg-tuple) pair a
// generic function or class is used with, by walking each call site and
// struct literal after type inference has run once. It caches
// instantiations so repeating the same tuple — common in loops and
// recursive generic calls — does the inference work only once. Because
// discovering a new instantiation can itself introduce new call sites
// (a generic function calling another generic function with a
// type-parameter-dependent argument), this pass loops until a fixpoint:
// no new instantiation is discovered in a full pass over the program.
type Monomorphizer struct {
	funcs map[string]*ast.FunctionDecl
	seen  map[string]*Instantiation
}

func NewMonomorphizer() *Monomorphizer {
	return &Monomorphizer{seen: map[string]*Instantiation{}}
}

func (m *Monomorphizer) Name() string { return "monomorphization" }

func (m *Monomorphizer) Run(prog *ast.Program, ctx *compiler.Context) error {
	m.funcs = map[string]*ast.FunctionDecl{}
	for _, fn := range prog.Functions {
		m.funcs[fn.Name] = fn
	}

	const maxRounds = 8
	converged := false
	for round := 0; round < maxRounds; round++ {
		before := len(m.seen)
		for _, fn := range prog.Functions {
			m.scanBlock(fn.Body)
		}
		for _, cls := range prog.Classes {
			for _, meth := range cls.Methods {
				m.scanBlock(meth.Body)
			}
		}
		if prog.App != nil && prog.App.Main != nil {
			m.scanBlock(prog.App.Main.Body)
		}
		if len(m.seen) == before {
			converged = true
			break // fixpoint: no new instantiation found this round
		}
	}
	if !converged {
		ctx.Warnf(diag.Type, prog, "monomorphization did not converge after %d rounds; deeply nested generic instantiations may be missing a specialized body", maxRounds)
	}
	return nil
}

// Instantiations returns every distinct instantiation discovered, for the
// lowering stage to emit one specialized IR body per tuple.
func (m *Monomorphizer) Instantiations() []*Instantiation {
	out := make([]*Instantiation, 0, len(m.seen))
	for _, inst := range m.seen {
		out = append(out, inst)
	}
	return out
}

func (m *Monomorphizer) scanBlock(b *ast.BlockStatement) {
	if b == nil {
		return
	}
	for _, stmt := range b.Statements {
		m.scanStatement(stmt)
	}
}

func (m *Monomorphizer) scanStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.LetStatement:
		m.scanExpr(s.Value)
	case *ast.AssignStatement:
		m.scanExpr(s.Target)
		m.scanExpr(s.Value)
	case *ast.ExpressionStatement:
		m.scanExpr(s.Expr)
	case *ast.ReturnStatement:
		if s.Value != nil {
			m.scanExpr(s.Value)
		}
	case *ast.IfStatement:
		m.scanExpr(s.Condition)
		m.scanBlock(s.Then)
		if s.Else != nil {
			m.scanStatement(s.Else)
		}
	case *ast.WhileStatement:
		m.scanExpr(s.Condition)
		m.scanBlock(s.Body)
	case *ast.ForStatement:
		m.scanExpr(s.Iterable)
		m.scanBlock(s.Body)
	case *ast.ScopeStatement:
		m.scanBlock(s.Body)
	case *ast.BlockStatement:
		m.scanBlock(s)
	}
}

func (m *Monomorphizer) scanExpr(expr ast.Expression) {
	call, ok := expr.(*ast.CallExpr)
	if !ok {
		return
	}
	ident, ok := call.Callee.(*ast.Identifier)
	if ok {
		if fn, ok := m.funcs[ident.Value]; ok && len(fn.TypeParams) > 0 {
			args := argTypes(call.Args)
			if len(args) == len(fn.TypeParams) || inferrableFromCall(fn, call) {
				inst := &Instantiation{DeclID: fn.ID, Name: fn.Name, Args: args}
				m.seen[inst.key()] = inst
			}
		}
	}
	for _, a := range call.Args {
		m.scanExpr(a)
	}
}

// argTypes reads back the resolved type the type checker already
// annotated onto each argument expression.
func argTypes(args []ast.Expression) []*types.PlutoType {
	out := make([]*types.PlutoType, 0, len(args))
	for _, a := range args {
		te, ok := a.(ast.TypedExpression)
		if !ok {
			continue
		}
		if t, ok := te.ResolvedType().(*types.PlutoType); ok && t != nil {
			out = append(out, t)
		}
	}
	return out
}

// inferrableFromCall reports whether every type parameter of fn can be
// read off the resolved types of call's arguments in parameter order —
// the common case where type parameters appear directly as a parameter's
// named type, without nested generic wrapping.
func inferrableFromCall(fn *ast.FunctionDecl, call *ast.CallExpr) bool {
	typeParamSet := map[string]bool{}
	for _, tp := range fn.TypeParams {
		typeParamSet[tp] = false
	}
	for i, p := range fn.Params {
		if i >= len(call.Args) {
			break
		}
		if nt, ok := p.Type.(*ast.NamedType); ok {
			if _, isParam := typeParamSet[nt.Name]; isParam {
				typeParamSet[nt.Name] = true
			}
		}
	}
	for _, found := range typeParamSet {
		if !found {
			return false
		}
	}
	return true
}
