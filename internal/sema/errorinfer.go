package sema

import (
	"github.com/pluto-lang/pluto/internal/ast"
	"github.com/pluto-lang/pluto/internal/compiler"
	"github.com/pluto-lang/pluto/internal/diag"
)

// ErrorSetInferer computes each function's ErrorSet: the error
// declarations it may raise, directly via `raise E{...}` or transitively
// by propagating a callee's error set through a call suffixed with `!`
// that isn't followed by a catch clause. It must run after the closure
// lifter, since a lifted closure is appended to prog.Functions and needs
// to be a normal call-graph node — otherwise a lambda's raises would be
// invisible to callers that invoke it indirectly.
type ErrorSetInferer struct {
	errorIDs map[string]ast.ID
	fns      map[string]*ast.FunctionDecl
}

func NewErrorSetInferer() *ErrorSetInferer { return &ErrorSetInferer{} }

func (e *ErrorSetInferer) Name() string { return "error-set-inference" }

func (e *ErrorSetInferer) Run(prog *ast.Program, ctx *compiler.Context) error {
	e.errorIDs = map[string]ast.ID{}
	for _, ed := range prog.Errors {
		e.errorIDs[ed.Name] = ed.ID
	}

	e.fns = map[string]*ast.FunctionDecl{}
	for _, fn := range prog.Functions {
		if fn.ErrorSet == nil {
			fn.ErrorSet = map[ast.ID]string{}
		}
		e.fns[fn.Name] = fn
	}
	for _, cls := range prog.Classes {
		for _, m := range cls.Methods {
			if m.ErrorSet == nil {
				m.ErrorSet = map[ast.ID]string{}
			}
			e.fns[methodKey(cls.Name, m.Name)] = m
		}
	}
	if prog.App != nil && prog.App.Main != nil {
		if prog.App.Main.ErrorSet == nil {
			prog.App.Main.ErrorSet = map[ast.ID]string{}
		}
		e.fns["__app_main"] = prog.App.Main
	}

	const maxRounds = 8
	changed := false
	for round := 0; round < maxRounds; round++ {
		changed = false
		for _, fn := range e.fns {
			if e.scanFunction(fn) {
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	if changed {
		ctx.Warnf(diag.ErrorInference, prog, "error-set inference did not converge after %d rounds; some propagated errors may be missing from the inferred error sets", maxRounds)
	}
	return nil
}

func methodKey(class, method string) string { return class + "." + method }

// scanFunction walks fn's body collecting raised and propagated errors
// into fn.ErrorSet, returning true if the set grew this round.
func (e *ErrorSetInferer) scanFunction(fn *ast.FunctionDecl) bool {
	before := len(fn.ErrorSet)
	e.scanBlock(fn.Body, fn)
	return len(fn.ErrorSet) != before
}

func (e *ErrorSetInferer) scanBlock(b *ast.BlockStatement, fn *ast.FunctionDecl) {
	if b == nil {
		return
	}
	for _, stmt := range b.Statements {
		e.scanStatement(stmt, fn)
	}
}

func (e *ErrorSetInferer) scanStatement(stmt ast.Statement, fn *ast.FunctionDecl) {
	switch s := stmt.(type) {
	case *ast.LetStatement:
		e.scanExpr(s.Value, fn)
	case *ast.AssignStatement:
		e.scanExpr(s.Target, fn)
		e.scanExpr(s.Value, fn)
	case *ast.ExpressionStatement:
		e.scanExpr(s.Expr, fn)
	case *ast.ReturnStatement:
		if s.Value != nil {
			e.scanExpr(s.Value, fn)
		}
	case *ast.RaiseStatement:
		e.scanExpr(s.Error, fn)
		if lit, ok := s.Error.(*ast.StructLiteral); ok {
			if id, ok := e.errorIDs[lit.Name]; ok {
				fn.ErrorSet[id] = lit.Name
			}
		}
	case *ast.YieldStatement:
		e.scanExpr(s.Value, fn)
	case *ast.IfStatement:
		e.scanExpr(s.Condition, fn)
		e.scanBlock(s.Then, fn)
		if s.Else != nil {
			e.scanStatement(s.Else, fn)
		}
	case *ast.WhileStatement:
		e.scanExpr(s.Condition, fn)
		e.scanBlock(s.Body, fn)
	case *ast.ForStatement:
		e.scanExpr(s.Iterable, fn)
		e.scanBlock(s.Body, fn)
	case *ast.ScopeStatement:
		e.scanBlock(s.Body, fn)
	case *ast.BlockStatement:
		e.scanBlock(s, fn)
	}
}

func (e *ErrorSetInferer) scanExpr(expr ast.Expression, fn *ast.FunctionDecl) {
	switch ex := expr.(type) {
	case *ast.PrefixExpr:
		e.scanExpr(ex.Right, fn)
	case *ast.InfixExpr:
		e.scanExpr(ex.Left, fn)
		e.scanExpr(ex.Right, fn)
	case *ast.RangeExpr:
		e.scanExpr(ex.Low, fn)
		e.scanExpr(ex.High, fn)
	case *ast.CallExpr:
		e.scanExpr(ex.Callee, fn)
		for _, a := range ex.Args {
			e.scanExpr(a, fn)
		}
		e.scanCall(ex, fn)
	case *ast.FieldAccess:
		e.scanExpr(ex.Obj, fn)
	case *ast.IndexExpr:
		e.scanExpr(ex.Obj, fn)
		e.scanExpr(ex.Index, fn)
	case *ast.ArrayLiteral:
		for _, el := range ex.Elements {
			e.scanExpr(el, fn)
		}
	case *ast.MapLiteral:
		for _, en := range ex.Entries {
			e.scanExpr(en.Key, fn)
			e.scanExpr(en.Value, fn)
		}
	case *ast.SetLiteral:
		for _, el := range ex.Elements {
			e.scanExpr(el, fn)
		}
	case *ast.StructLiteral:
		for _, f := range ex.Fields {
			e.scanExpr(f.Value, fn)
		}
	case *ast.SpawnExpr:
		e.scanExpr(ex.Call, fn)
	case *ast.ChanExpr:
		e.scanExpr(ex.Capacity, fn)
	case *ast.InterpolatedString:
		for _, h := range ex.Holes {
			e.scanExpr(h, fn)
		}
	case *ast.MatchExpr:
		e.scanExpr(ex.Subject, fn)
		for _, arm := range ex.Arms {
			e.scanExpr(arm.Body, fn)
		}
	}
}

// scanCall merges the callee's currently-known error set into fn's when
// the call propagates (`!`) and isn't fully handled by a catch block. A
// catch with a binding or shorthand default absorbs the error locally; a
// bare `!` with no catch hands it to the caller.
func (e *ErrorSetInferer) scanCall(call *ast.CallExpr, fn *ast.FunctionDecl) {
	if !call.Propagate || call.Catch != nil {
		return
	}
	var callee *ast.FunctionDecl
	switch c := call.Callee.(type) {
	case *ast.Identifier:
		callee = e.fns[c.Value]
	case *ast.FieldAccess:
		// Method calls are resolved by name only, not by receiver class:
		// good enough for error-set propagation since method names rarely
		// collide across classes in the same program, but a true resolver
		// would need the receiver's static type to disambiguate.
		suffix := "." + c.Field
		for key, f := range e.fns {
			if key == c.Field || (len(key) >= len(suffix) && key[len(key)-len(suffix):] == suffix) {
				callee = f
				break
			}
		}
	}
	if callee == nil {
		return
	}
	for id, name := range callee.ErrorSet {
		fn.ErrorSet[id] = name
	}
}
