package sema

import (
	"fmt"
	"sort"

	"github.com/pluto-lang/pluto/internal/ast"
	"github.com/pluto-lang/pluto/internal/compiler"
	"github.com/pluto-lang/pluto/internal/diag"
)

// ClosureLifter rewrites every lambda expression into a synthesized
// top-level function named __closure_N, whose parameter list is the
// lambda's free variables (its captures) followed by its declared
// parameters. It runs before error-set inference so a lifted closure's
// raises become a normal participant in the call graph the error-set
// fixpoint walks, rather than an anonymous body error inference can't
// see into.
//
// A lambda that uses break or continue is rejected: those statements
// target the nearest enclosing loop, and a lifted function has none of
// its original enclosing scope.
type ClosureLifter struct {
	ordinal int
	lifted  []*ast.FunctionDecl
}

func NewClosureLifter() *ClosureLifter { return &ClosureLifter{} }

func (l *ClosureLifter) Name() string { return "closure-lifting" }

func (l *ClosureLifter) Run(prog *ast.Program, ctx *compiler.Context) error {
	globals := map[string]bool{}
	for _, fn := range prog.Functions {
		globals[fn.Name] = true
	}
	for _, e := range prog.Errors {
		globals[e.Name] = true
	}
	for _, cls := range prog.Classes {
		globals[cls.Name] = true
	}

	for _, fn := range prog.Functions {
		l.liftBlock(fn.Body, paramSet(fn.Params), globals, ctx)
	}
	for _, cls := range prog.Classes {
		for _, m := range cls.Methods {
			l.liftBlock(m.Body, paramSet(m.Params), globals, ctx)
		}
	}
	if prog.App != nil && prog.App.Main != nil {
		l.liftBlock(prog.App.Main.Body, paramSet(prog.App.Main.Params), globals, ctx)
	}

	prog.Functions = append(prog.Functions, l.lifted...)
	return nil
}

func paramSet(params []*ast.Param) map[string]bool {
	set := map[string]bool{}
	for _, p := range params {
		set[p.Name] = true
	}
	return set
}

func (l *ClosureLifter) liftBlock(b *ast.BlockStatement, bound map[string]bool, globals map[string]bool, ctx *compiler.Context) {
	if b == nil {
		return
	}
	for _, stmt := range b.Statements {
		l.liftStatement(stmt, bound, globals, ctx)
	}
}

func (l *ClosureLifter) liftStatement(stmt ast.Statement, bound map[string]bool, globals map[string]bool, ctx *compiler.Context) {
	switch s := stmt.(type) {
	case *ast.LetStatement:
		l.liftExpr(s.Value, bound, globals, ctx)
	case *ast.AssignStatement:
		l.liftExpr(s.Target, bound, globals, ctx)
		l.liftExpr(s.Value, bound, globals, ctx)
	case *ast.ExpressionStatement:
		l.liftExpr(s.Expr, bound, globals, ctx)
	case *ast.ReturnStatement:
		if s.Value != nil {
			l.liftExpr(s.Value, bound, globals, ctx)
		}
	case *ast.RaiseStatement:
		l.liftExpr(s.Error, bound, globals, ctx)
	case *ast.YieldStatement:
		l.liftExpr(s.Value, bound, globals, ctx)
	case *ast.IfStatement:
		l.liftExpr(s.Condition, bound, globals, ctx)
		l.liftBlock(s.Then, bound, globals, ctx)
		if s.Else != nil {
			l.liftStatement(s.Else, bound, globals, ctx)
		}
	case *ast.WhileStatement:
		l.liftExpr(s.Condition, bound, globals, ctx)
		l.liftBlock(s.Body, bound, globals, ctx)
	case *ast.ForStatement:
		l.liftExpr(s.Iterable, bound, globals, ctx)
		inner := withVar(bound, s.Name)
		l.liftBlock(s.Body, inner, globals, ctx)
	case *ast.ScopeStatement:
		l.liftBlock(s.Body, bound, globals, ctx)
	case *ast.BlockStatement:
		l.liftBlock(s, bound, globals, ctx)
	}
}

func withVar(bound map[string]bool, name string) map[string]bool {
	out := make(map[string]bool, len(bound)+1)
	for k := range bound {
		out[k] = true
	}
	out[name] = true
	return out
}

func (l *ClosureLifter) liftExpr(expr ast.Expression, bound map[string]bool, globals map[string]bool, ctx *compiler.Context) {
	switch e := expr.(type) {
	case *ast.PrefixExpr:
		l.liftExpr(e.Right, bound, globals, ctx)
	case *ast.InfixExpr:
		l.liftExpr(e.Left, bound, globals, ctx)
		l.liftExpr(e.Right, bound, globals, ctx)
	case *ast.RangeExpr:
		l.liftExpr(e.Low, bound, globals, ctx)
		l.liftExpr(e.High, bound, globals, ctx)
	case *ast.CallExpr:
		l.liftExpr(e.Callee, bound, globals, ctx)
		for _, a := range e.Args {
			l.liftExpr(a, bound, globals, ctx)
		}
	case *ast.FieldAccess:
		l.liftExpr(e.Obj, bound, globals, ctx)
	case *ast.IndexExpr:
		l.liftExpr(e.Obj, bound, globals, ctx)
		l.liftExpr(e.Index, bound, globals, ctx)
	case *ast.ArrayLiteral:
		for _, el := range e.Elements {
			l.liftExpr(el, bound, globals, ctx)
		}
	case *ast.MapLiteral:
		for _, en := range e.Entries {
			l.liftExpr(en.Key, bound, globals, ctx)
			l.liftExpr(en.Value, bound, globals, ctx)
		}
	case *ast.SetLiteral:
		for _, el := range e.Elements {
			l.liftExpr(el, bound, globals, ctx)
		}
	case *ast.StructLiteral:
		for _, f := range e.Fields {
			l.liftExpr(f.Value, bound, globals, ctx)
		}
	case *ast.SpawnExpr:
		l.liftExpr(e.Call, bound, globals, ctx)
	case *ast.ChanExpr:
		l.liftExpr(e.Capacity, bound, globals, ctx)
	case *ast.InterpolatedString:
		for _, h := range e.Holes {
			l.liftExpr(h, bound, globals, ctx)
		}
	case *ast.MatchExpr:
		l.liftExpr(e.Subject, bound, globals, ctx)
		for _, arm := range e.Arms {
			l.liftExpr(arm.Body, bound, globals, ctx)
		}
	case *ast.LambdaExpr:
		l.lift(e, bound, globals, ctx)
	}
}

func (l *ClosureLifter) lift(lam *ast.LambdaExpr, bound map[string]bool, globals map[string]bool, ctx *compiler.Context) {
	if hasLoopControl(lam.Body) {
		ctx.Errorf(diag.NameResolution, lam, "break/continue may not appear inside a closure body")
	}

	ownParams := paramSet(lam.Params)
	free := map[string]bool{}
	collectFreeVars(lam.Body, ownParams, globals, free)

	captures := make([]string, 0, len(free))
	for name := range free {
		if bound[name] {
			captures = append(captures, name)
		}
	}
	sort.Strings(captures)

	name := fmt.Sprintf("__closure_%d", l.ordinal)
	l.ordinal++

	params := make([]*ast.Param, 0, len(captures)+len(lam.Params))
	for _, c := range captures {
		params = append(params, &ast.Param{Name: c})
	}
	params = append(params, lam.Params...)

	fn := &ast.FunctionDecl{
		Token:  lam.Token,
		ID:     ast.NewID("closure", name, l.ordinal),
		Name:   name,
		Params: params,
		Body:   lam.Body,
	}
	l.lifted = append(l.lifted, fn)

	lam.LiftedName = name
	lam.Captures = captures

	// Recurse into the lifted body for nested lambdas, with the lifted
	// function's own parameters as the new bound set.
	l.liftBlock(fn.Body, paramSet(params), globals, ctx)
}

func hasLoopControl(b *ast.BlockStatement) bool {
	for _, stmt := range b.Statements {
		switch s := stmt.(type) {
		case *ast.BreakStatement, *ast.ContinueStatement:
			return true
		case *ast.IfStatement:
			if hasLoopControl(s.Then) {
				return true
			}
			if eb, ok := s.Else.(*ast.BlockStatement); ok && hasLoopControl(eb) {
				return true
			}
		}
	}
	return false
}

// collectFreeVars gathers every identifier referenced in b that is not
// one of own (the lambda's own parameters) or a known global.
func collectFreeVars(b *ast.BlockStatement, own, globals, out map[string]bool) {
	var walkExpr func(ast.Expression)
	var walkStmt func(ast.Statement)

	walkExpr = func(expr ast.Expression) {
		switch e := expr.(type) {
		case *ast.Identifier:
			if !own[e.Value] && !globals[e.Value] {
				out[e.Value] = true
			}
		case *ast.PrefixExpr:
			walkExpr(e.Right)
		case *ast.InfixExpr:
			walkExpr(e.Left)
			walkExpr(e.Right)
		case *ast.RangeExpr:
			walkExpr(e.Low)
			walkExpr(e.High)
		case *ast.CallExpr:
			walkExpr(e.Callee)
			for _, a := range e.Args {
				walkExpr(a)
			}
		case *ast.FieldAccess:
			walkExpr(e.Obj)
		case *ast.IndexExpr:
			walkExpr(e.Obj)
			walkExpr(e.Index)
		case *ast.ArrayLiteral:
			for _, el := range e.Elements {
				walkExpr(el)
			}
		case *ast.MapLiteral:
			for _, en := range e.Entries {
				walkExpr(en.Key)
				walkExpr(en.Value)
			}
		case *ast.SetLiteral:
			for _, el := range e.Elements {
				walkExpr(el)
			}
		case *ast.StructLiteral:
			for _, f := range e.Fields {
				walkExpr(f.Value)
			}
		case *ast.SpawnExpr:
			walkExpr(e.Call)
		case *ast.ChanExpr:
			walkExpr(e.Capacity)
		case *ast.InterpolatedString:
			for _, h := range e.Holes {
				walkExpr(h)
			}
		case *ast.MatchExpr:
			walkExpr(e.Subject)
			for _, arm := range e.Arms {
				walkExpr(arm.Body)
			}
		case *ast.LambdaExpr:
			for _, s := range e.Body.Statements {
				walkStmt(s)
			}
		}
	}

	walkStmt = func(stmt ast.Statement) {
		switch s := stmt.(type) {
		case *ast.LetStatement:
			walkExpr(s.Value)
			own[s.Name] = true
		case *ast.AssignStatement:
			walkExpr(s.Target)
			walkExpr(s.Value)
		case *ast.ExpressionStatement:
			walkExpr(s.Expr)
		case *ast.ReturnStatement:
			if s.Value != nil {
				walkExpr(s.Value)
			}
		case *ast.RaiseStatement:
			walkExpr(s.Error)
		case *ast.YieldStatement:
			walkExpr(s.Value)
		case *ast.IfStatement:
			walkExpr(s.Condition)
			for _, st := range s.Then.Statements {
				walkStmt(st)
			}
			if s.Else != nil {
				walkStmt(s.Else)
			}
		case *ast.WhileStatement:
			walkExpr(s.Condition)
			for _, st := range s.Body.Statements {
				walkStmt(st)
			}
		case *ast.ForStatement:
			walkExpr(s.Iterable)
			own[s.Name] = true
			for _, st := range s.Body.Statements {
				walkStmt(st)
			}
		case *ast.ScopeStatement:
			for _, st := range s.Body.Statements {
				walkStmt(st)
			}
		case *ast.BlockStatement:
			for _, st := range s.Statements {
				walkStmt(st)
			}
		}
	}

	for _, stmt := range b.Statements {
		walkStmt(stmt)
	}
}
