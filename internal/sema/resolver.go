package sema

import (
	"github.com/pluto-lang/pluto/internal/ast"
	"github.com/pluto-lang/pluto/internal/compiler"
	"github.com/pluto-lang/pluto/internal/diag"
	"github.com/pluto-lang/pluto/internal/types"
)

// Resolver registers every class, enum, trait, and error declaration into
// the shared type registry, then walks every function and method body
// checking that each identifier reference resolves to a parameter, local
// binding, global function, class, enum, or self. It runs first in the
// pipeline because every later pass needs the registry populated and
// every expression's free identifiers already validated.
type Resolver struct {
	globals map[string]*types.PlutoType
}

func NewResolver() *Resolver { return &Resolver{} }

func (r *Resolver) Name() string { return "name-resolution" }

func (r *Resolver) Run(prog *ast.Program, ctx *compiler.Context) error {
	reg := ctx.Registry
	r.registerDecls(prog, reg)

	r.globals = map[string]*types.PlutoType{}
	for _, fn := range prog.Functions {
		r.globals[fn.Name] = functionType(fn, reg)
	}
	for _, e := range prog.Errors {
		r.globals[e.Name] = types.Error
	}

	for _, fn := range prog.Functions {
		r.resolveFunctionBody(fn, ctx)
	}
	for _, cls := range prog.Classes {
		for _, m := range cls.Methods {
			r.resolveFunctionBody(m, ctx)
		}
	}
	if prog.App != nil && prog.App.Main != nil {
		r.resolveFunctionBody(prog.App.Main, ctx)
	}

	return nil
}

func (r *Resolver) registerDecls(prog *ast.Program, reg *types.Registry) {
	for _, cls := range prog.Classes {
		info := &types.ClassInfo{
			Name:      cls.Name,
			Fields:    map[string]*types.PlutoType{},
			Methods:   map[string]*types.PlutoType{},
			Traits:    map[string]bool{},
			Lifecycle: cls.Lifecycle.String(),
			HasDeps:   cls.HasDeps(),
		}
		for _, t := range cls.Traits {
			info.Traits[t] = true
		}
		reg.Classes[cls.Name] = info
	}
	for _, en := range prog.Enums {
		info := &types.EnumInfo{Name: en.Name, Variants: map[string][]*types.PlutoType{}}
		reg.Enums[en.Name] = info
	}
	for _, tr := range prog.Traits {
		info := &types.TraitInfo{Name: tr.Name, Methods: map[string]*types.PlutoType{}, Preconditions: map[string][]string{}}
		reg.Traits[tr.Name] = info
	}
	for _, e := range prog.Errors {
		reg.Errors[e.Name] = types.Error
	}

	// Second pass: field/method/variant types can reference any class
	// name declared anywhere in the program, so types are resolved only
	// after every name is registered.
	for _, cls := range prog.Classes {
		info := reg.Classes[cls.Name]
		for _, f := range cls.Fields {
			info.Fields[f.Name] = resolveTypeExpr(f.Type, reg)
			info.FieldOrder = append(info.FieldOrder, f.Name)
		}
		// A bracket-dep is wired in by the DI solver/lowerer exactly like an
		// ordinary field, just populated by construction order instead of a
		// struct literal, so it gets a slot in the same FieldOrder.
		for _, d := range cls.Deps {
			info.Fields[d.Name] = resolveTypeExpr(d.Type, reg)
			info.FieldOrder = append(info.FieldOrder, d.Name)
		}
		for _, m := range cls.Methods {
			info.Methods[m.Name] = functionType(m, reg)
		}
	}
	for _, en := range prog.Enums {
		info := reg.Enums[en.Name]
		for _, v := range en.Variants {
			fieldTypes := make([]*types.PlutoType, len(v.Fields))
			for i, f := range v.Fields {
				fieldTypes[i] = resolveTypeExpr(f.Type, reg)
			}
			info.Variants[v.Name] = fieldTypes
		}
	}
	for _, tr := range prog.Traits {
		info := reg.Traits[tr.Name]
		for _, m := range tr.Methods {
			params := make([]*types.PlutoType, len(m.Params))
			for i, p := range m.Params {
				if p.Name == "self" {
					continue
				}
				params[i] = resolveTypeExpr(p.Type, reg)
			}
			var ret *types.PlutoType = types.Void
			if m.ReturnType != nil {
				ret = resolveTypeExpr(m.ReturnType, reg)
			}
			info.Methods[m.Name] = types.Fn(params, ret, false)
			for _, c := range m.Requires {
				info.Preconditions[m.Name] = append(info.Preconditions[m.Name], c.Expr.String())
			}
		}
	}
}

func functionType(fn *ast.FunctionDecl, reg *types.Registry) *types.PlutoType {
	var params []*types.PlutoType
	for _, p := range fn.Params {
		if p.Name == "self" {
			continue
		}
		params = append(params, resolveTypeExpr(p.Type, reg))
	}
	ret := types.Void
	if fn.ReturnType != nil {
		ret = resolveTypeExpr(fn.ReturnType, reg)
	}
	return types.Fn(params, ret, fn.Fallible())
}

func (r *Resolver) resolveFunctionBody(fn *ast.FunctionDecl, ctx *compiler.Context) {
	scope := NewScope(nil)
	for _, p := range fn.Params {
		if p.Name == "self" {
			continue
		}
		scope.Define(p.Name, resolveTypeExpr(p.Type, ctx.Registry))
	}
	if fn.IsMethod {
		scope.Define("self", types.Class(""))
	}
	r.resolveBlock(fn.Body, scope, ctx)
}

func (r *Resolver) resolveBlock(b *ast.BlockStatement, parent *Scope, ctx *compiler.Context) {
	scope := NewScope(parent)
	for _, stmt := range b.Statements {
		r.resolveStatement(stmt, scope, ctx)
	}
}

func (r *Resolver) resolveStatement(stmt ast.Statement, scope *Scope, ctx *compiler.Context) {
	switch s := stmt.(type) {
	case *ast.LetStatement:
		r.resolveExpr(s.Value, scope, ctx)
		t := resolveExprPlaceholder(s.Value, scope, ctx)
		if s.Type != nil {
			t = resolveTypeExpr(s.Type, ctx.Registry)
		}
		scope.Define(s.Name, t)
	case *ast.AssignStatement:
		r.resolveExpr(s.Target, scope, ctx)
		r.resolveExpr(s.Value, scope, ctx)
	case *ast.ExpressionStatement:
		r.resolveExpr(s.Expr, scope, ctx)
	case *ast.ReturnStatement:
		if s.Value != nil {
			r.resolveExpr(s.Value, scope, ctx)
		}
	case *ast.RaiseStatement:
		r.resolveExpr(s.Error, scope, ctx)
	case *ast.YieldStatement:
		r.resolveExpr(s.Value, scope, ctx)
	case *ast.IfStatement:
		r.resolveExpr(s.Condition, scope, ctx)
		r.resolveBlock(s.Then, scope, ctx)
		if s.Else != nil {
			r.resolveStatement(s.Else, scope, ctx)
		}
	case *ast.WhileStatement:
		r.resolveExpr(s.Condition, scope, ctx)
		r.resolveBlock(s.Body, scope, ctx)
	case *ast.ForStatement:
		r.resolveExpr(s.Iterable, scope, ctx)
		inner := NewScope(scope)
		inner.Define(s.Name, types.Int)
		r.resolveBlock(s.Body, inner, ctx)
	case *ast.ScopeStatement:
		r.resolveBlock(s.Body, scope, ctx)
	case *ast.BlockStatement:
		r.resolveBlock(s, scope, ctx)
	}
}

// resolveExpr walks an expression tree checking that every identifier
// reference is bound, without computing a resolved type (that is the
// type checker's job — this pass only validates names exist).
func (r *Resolver) resolveExpr(expr ast.Expression, scope *Scope, ctx *compiler.Context) {
	switch e := expr.(type) {
	case *ast.Identifier:
		if _, ok := scope.Lookup(e.Value); ok {
			return
		}
		if _, ok := r.globals[e.Value]; ok {
			return
		}
		if _, ok := ctx.Registry.Classes[e.Value]; ok {
			return
		}
		if _, ok := ctx.Registry.Enums[e.Value]; ok {
			return
		}
		ctx.Errorf(diag.NameResolution, e, "undefined name %q", e.Value)
	case *ast.PrefixExpr:
		r.resolveExpr(e.Right, scope, ctx)
	case *ast.InfixExpr:
		r.resolveExpr(e.Left, scope, ctx)
		r.resolveExpr(e.Right, scope, ctx)
	case *ast.RangeExpr:
		r.resolveExpr(e.Low, scope, ctx)
		r.resolveExpr(e.High, scope, ctx)
	case *ast.CallExpr:
		r.resolveExpr(e.Callee, scope, ctx)
		for _, a := range e.Args {
			r.resolveExpr(a, scope, ctx)
		}
		if e.Catch != nil {
			if e.Catch.Default != nil {
				r.resolveExpr(e.Catch.Default, scope, ctx)
			}
			if e.Catch.Block != nil {
				inner := NewScope(scope)
				if e.Catch.ErrBinding != "" {
					inner.Define(e.Catch.ErrBinding, types.Error)
				}
				r.resolveBlock(e.Catch.Block, inner, ctx)
			}
		}
	case *ast.FieldAccess:
		r.resolveExpr(e.Obj, scope, ctx)
	case *ast.QualifiedEnumVariant:
		for _, a := range e.Args {
			r.resolveExpr(a, scope, ctx)
		}
	case *ast.IndexExpr:
		r.resolveExpr(e.Obj, scope, ctx)
		r.resolveExpr(e.Index, scope, ctx)
	case *ast.ArrayLiteral:
		for _, el := range e.Elements {
			r.resolveExpr(el, scope, ctx)
		}
	case *ast.MapLiteral:
		for _, en := range e.Entries {
			r.resolveExpr(en.Key, scope, ctx)
			r.resolveExpr(en.Value, scope, ctx)
		}
	case *ast.SetLiteral:
		for _, el := range e.Elements {
			r.resolveExpr(el, scope, ctx)
		}
	case *ast.StructLiteral:
		for _, f := range e.Fields {
			r.resolveExpr(f.Value, scope, ctx)
		}
	case *ast.LambdaExpr:
		inner := NewScope(scope)
		for _, p := range e.Params {
			inner.Define(p.Name, &types.PlutoType{Kind: types.KUnresolved})
		}
		r.resolveBlock(e.Body, inner, ctx)
	case *ast.SpawnExpr:
		r.resolveExpr(e.Call, scope, ctx)
	case *ast.ChanExpr:
		r.resolveExpr(e.Capacity, scope, ctx)
	case *ast.InterpolatedString:
		for _, h := range e.Holes {
			r.resolveExpr(h, scope, ctx)
		}
	case *ast.MatchExpr:
		r.resolveExpr(e.Subject, scope, ctx)
		for _, arm := range e.Arms {
			inner := NewScope(scope)
			bindPattern(arm.Pattern, inner)
			r.resolveExpr(arm.Body, inner, ctx)
		}
	}
}

func bindPattern(p ast.Pattern, scope *Scope) {
	switch pat := p.(type) {
	case *ast.BindingPattern:
		scope.Define(pat.Name, &types.PlutoType{Kind: types.KUnresolved})
	case *ast.VariantPattern:
		for _, n := range pat.SubNames {
			scope.Define(n, &types.PlutoType{Kind: types.KUnresolved})
		}
	}
}

// resolveExprPlaceholder returns an approximate type for a `let` binding
// with no explicit annotation, good enough to seed the scope before the
// type checker pass runs its full inference.
func resolveExprPlaceholder(expr ast.Expression, scope *Scope, ctx *compiler.Context) *types.PlutoType {
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		return types.Int
	case *ast.FloatLiteral:
		return types.Float
	case *ast.StringLiteral, *ast.InterpolatedString:
		return types.String
	case *ast.BooleanLiteral:
		return types.Bool
	case *ast.Identifier:
		if t, ok := scope.Lookup(e.Value); ok {
			return t
		}
		if _, ok := ctx.Registry.Classes[e.Value]; ok {
			return types.Class(e.Value)
		}
	}
	return &types.PlutoType{Kind: types.KUnresolved}
}
