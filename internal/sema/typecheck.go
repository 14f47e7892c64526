package sema

import (
	"github.com/pluto-lang/pluto/internal/ast"
	"github.com/pluto-lang/pluto/internal/compiler"
	"github.com/pluto-lang/pluto/internal/diag"
	"github.com/pluto-lang/pluto/internal/types"
)

// TypeChecker performs bidirectional type inference and checking: it
// infers a type bottom-up for every expression, annotating
// ast.TypedExpression nodes via SetResolvedType, and checks that binary
// operators, assignments, and calls use compatible types. There is no
// implicit numeric coercion between Int and Float; the only implicit
// conversion is wrapping a bare T into a T? at an assignment or return
// site. The bare `none` literal is only legal where a nullable type is
// expected.
type TypeChecker struct {
	reg *types.Registry
}

func NewTypeChecker() *TypeChecker { return &TypeChecker{} }

func (c *TypeChecker) Name() string { return "type-inference" }

func (c *TypeChecker) Run(prog *ast.Program, ctx *compiler.Context) error {
	c.reg = ctx.Registry

	for _, fn := range prog.Functions {
		c.checkFunction(fn, ctx)
	}
	for _, cls := range prog.Classes {
		for _, m := range cls.Methods {
			c.checkFunction(m, ctx)
		}
	}
	if prog.App != nil && prog.App.Main != nil {
		c.checkFunction(prog.App.Main, ctx)
	}
	return nil
}

func (c *TypeChecker) checkFunction(fn *ast.FunctionDecl, ctx *compiler.Context) {
	scope := NewScope(nil)
	for _, p := range fn.Params {
		if p.Name == "self" {
			continue
		}
		scope.DefineMut(p.Name, resolveTypeExpr(p.Type, c.reg), p.IsMut)
	}
	if fn.IsMethod {
		scope.DefineMut("self", types.Class(""), fn.ReceiverMut)
	}
	var ret *types.PlutoType = types.Void
	if fn.ReturnType != nil {
		ret = resolveTypeExpr(fn.ReturnType, c.reg)
	}
	c.checkBlock(fn.Body, scope, ret, ctx)
}

func (c *TypeChecker) checkBlock(b *ast.BlockStatement, parent *Scope, ret *types.PlutoType, ctx *compiler.Context) {
	scope := NewScope(parent)
	for _, stmt := range b.Statements {
		c.checkStatement(stmt, scope, ret, ctx)
	}
}

func (c *TypeChecker) checkStatement(stmt ast.Statement, scope *Scope, ret *types.PlutoType, ctx *compiler.Context) {
	switch s := stmt.(type) {
	case *ast.LetStatement:
		valType := c.infer(s.Value, scope, ctx)
		if s.Type != nil {
			declared := resolveTypeExpr(s.Type, c.reg)
			if !valType.AssignableTo(declared) {
				ctx.Errorf(diag.Type, s, "cannot assign %s to %s", valType, declared)
			}
			scope.DefineMut(s.Name, declared, s.Mut)
		} else {
			scope.DefineMut(s.Name, valType, s.Mut)
		}
	case *ast.AssignStatement:
		c.checkAssignMutability(s, scope, ctx)
		targetType := c.infer(s.Target, scope, ctx)
		valType := c.infer(s.Value, scope, ctx)
		if !valType.AssignableTo(targetType) {
			ctx.Errorf(diag.Type, s, "cannot assign %s to %s", valType, targetType)
		}
	case *ast.ExpressionStatement:
		c.infer(s.Expr, scope, ctx)
	case *ast.ReturnStatement:
		if s.Value == nil {
			if ret != nil && ret.Kind != types.KVoid {
				ctx.Errorf(diag.Type, s, "missing return value, expected %s", ret)
			}
			return
		}
		got := c.infer(s.Value, scope, ctx)
		if ret != nil && !got.AssignableTo(ret) {
			ctx.Errorf(diag.Type, s, "cannot return %s where %s is expected", got, ret)
		}
	case *ast.RaiseStatement:
		c.infer(s.Error, scope, ctx)
	case *ast.YieldStatement:
		c.infer(s.Value, scope, ctx)
	case *ast.IfStatement:
		cond := c.infer(s.Condition, scope, ctx)
		if cond.Kind != types.KBool && cond.Kind != types.KUnresolved {
			ctx.Errorf(diag.Type, s, "if condition must be Bool, got %s", cond)
		}
		c.checkBlock(s.Then, scope, ret, ctx)
		if s.Else != nil {
			c.checkStatement(s.Else, scope, ret, ctx)
		}
	case *ast.WhileStatement:
		cond := c.infer(s.Condition, scope, ctx)
		if cond.Kind != types.KBool && cond.Kind != types.KUnresolved {
			ctx.Errorf(diag.Type, s, "while condition must be Bool, got %s", cond)
		}
		c.checkBlock(s.Body, scope, ret, ctx)
	case *ast.ForStatement:
		c.infer(s.Iterable, scope, ctx)
		inner := NewScope(scope)
		inner.Define(s.Name, types.Int)
		c.checkBlock(s.Body, inner, ret, ctx)
	case *ast.ScopeStatement:
		c.checkBlock(s.Body, scope, ret, ctx)
	case *ast.BlockStatement:
		c.checkBlock(s, scope, ret, ctx)
	}
}

// checkAssignMutability enforces that assigning into a class field only
// happens through a mutable binding: `self.field = ...` requires the
// enclosing method to declare `mut self`, and `obj.field = ...` requires
// obj to have been bound with `let mut` (or a `mut` parameter).
func (c *TypeChecker) checkAssignMutability(s *ast.AssignStatement, scope *Scope, ctx *compiler.Context) {
	fa, ok := s.Target.(*ast.FieldAccess)
	if !ok {
		return
	}
	switch obj := fa.Obj.(type) {
	case *ast.SelfExpr:
		if mutable, found := scope.IsMutable("self"); found && !mutable {
			ctx.Errorf(diag.Type, s, "cannot assign to self.%s: enclosing method does not declare mut self", fa.Field)
		}
	case *ast.Identifier:
		if mutable, found := scope.IsMutable(obj.Value); found && !mutable {
			ctx.Errorf(diag.Type, s, "cannot assign to %s.%s: %s is not declared mut", obj.Value, fa.Field, obj.Value)
		}
	}
}

// infer computes the type of expr, annotating it when it implements
// ast.TypedExpression, and returns the result for the caller to check
// against context (assignment target, operator operand, etc).
func (c *TypeChecker) infer(expr ast.Expression, scope *Scope, ctx *compiler.Context) *types.PlutoType {
	var result *types.PlutoType

	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		result = types.Int
	case *ast.FloatLiteral:
		result = types.Float
	case *ast.StringLiteral:
		result = types.String
	case *ast.InterpolatedString:
		for _, h := range e.Holes {
			c.infer(h, scope, ctx)
		}
		result = types.String
	case *ast.BooleanLiteral:
		result = types.Bool
	case *ast.NoneLiteral:
		result = &types.PlutoType{Kind: types.KUnresolved, Name: "none"}
	case *ast.SelfExpr:
		if t, ok := scope.Lookup("self"); ok {
			result = t
		} else {
			result = &types.PlutoType{Kind: types.KUnresolved}
		}
	case *ast.Identifier:
		if t, ok := scope.Lookup(e.Value); ok {
			result = t
		} else if _, ok := c.reg.Classes[e.Value]; ok {
			result = types.Class(e.Value)
		} else {
			result = &types.PlutoType{Kind: types.KUnresolved, Name: e.Value}
		}
	case *ast.PrefixExpr:
		operand := c.infer(e.Right, scope, ctx)
		switch e.Operator {
		case "-":
			if !operand.IsNumeric() && operand.Kind != types.KUnresolved {
				ctx.Errorf(diag.Type, e, "unary '-' requires a numeric operand, got %s", operand)
			}
			result = operand
		case "!":
			if operand.Kind != types.KBool && operand.Kind != types.KUnresolved {
				ctx.Errorf(diag.Type, e, "unary '!' requires Bool, got %s", operand)
			}
			result = types.Bool
		default:
			result = operand
		}
	case *ast.InfixExpr:
		left := c.infer(e.Left, scope, ctx)
		right := c.infer(e.Right, scope, ctx)
		result = c.inferInfix(e, left, right, ctx)
	case *ast.RangeExpr:
		c.infer(e.Low, scope, ctx)
		c.infer(e.High, scope, ctx)
		result = types.Int
	case *ast.CallExpr:
		result = c.inferCall(e, scope, ctx)
	case *ast.FieldAccess:
		objType := c.infer(e.Obj, scope, ctx)
		result = c.fieldType(objType, e.Field)
	case *ast.QualifiedEnumVariant:
		for _, a := range e.Args {
			c.infer(a, scope, ctx)
		}
		if e.Enum != "" {
			result = types.Enum(e.Enum)
		} else {
			result = &types.PlutoType{Kind: types.KUnresolved}
		}
	case *ast.IndexExpr:
		objType := c.infer(e.Obj, scope, ctx)
		c.infer(e.Index, scope, ctx)
		switch objType.Kind {
		case types.KArray:
			result = objType.Elem
		case types.KMap:
			result = objType.Elem
		default:
			result = &types.PlutoType{Kind: types.KUnresolved}
		}
	case *ast.ArrayLiteral:
		var elem *types.PlutoType
		for _, el := range e.Elements {
			t := c.infer(el, scope, ctx)
			if elem == nil {
				elem = t
			}
		}
		if elem == nil {
			elem = &types.PlutoType{Kind: types.KUnresolved}
		}
		result = types.Array(elem)
	case *ast.MapLiteral:
		var key, val *types.PlutoType
		for _, en := range e.Entries {
			k := c.infer(en.Key, scope, ctx)
			v := c.infer(en.Value, scope, ctx)
			if key == nil {
				key, val = k, v
			}
		}
		if key == nil {
			key = &types.PlutoType{Kind: types.KUnresolved}
			val = &types.PlutoType{Kind: types.KUnresolved}
		}
		result = types.Map(key, val)
	case *ast.SetLiteral:
		var elem *types.PlutoType
		for _, el := range e.Elements {
			t := c.infer(el, scope, ctx)
			if elem == nil {
				elem = t
			}
		}
		if elem == nil {
			elem = &types.PlutoType{Kind: types.KUnresolved}
		}
		result = types.Set(elem)
	case *ast.StructLiteral:
		for _, f := range e.Fields {
			c.infer(f.Value, scope, ctx)
		}
		if _, ok := c.reg.Classes[e.Name]; ok {
			result = types.Class(e.Name)
		} else if _, ok := c.reg.Errors[e.Name]; ok {
			result = types.Error
		} else {
			result = &types.PlutoType{Kind: types.KUnresolved, Name: e.Name}
		}
	case *ast.LambdaExpr:
		inner := NewScope(scope)
		var params []*types.PlutoType
		for _, p := range e.Params {
			t := &types.PlutoType{Kind: types.KUnresolved}
			if p.Type != nil {
				t = resolveTypeExpr(p.Type, c.reg)
			}
			inner.Define(p.Name, t)
			params = append(params, t)
		}
		c.checkBlock(e.Body, inner, nil, ctx)
		result = types.Fn(params, &types.PlutoType{Kind: types.KUnresolved}, false)
	case *ast.SpawnExpr:
		calleeRet := c.inferCall(e.Call, scope, ctx)
		result = types.Task(calleeRet)
	case *ast.ChanExpr:
		c.infer(e.Capacity, scope, ctx)
		result = types.Sender(resolveTypeExpr(e.ElemType, c.reg))
	case *ast.MatchExpr:
		c.infer(e.Subject, scope, ctx)
		var armType *types.PlutoType
		for _, arm := range e.Arms {
			inner := NewScope(scope)
			bindPattern(arm.Pattern, inner)
			t := c.infer(arm.Body, inner, ctx)
			if armType == nil {
				armType = t
			}
		}
		if armType == nil {
			armType = &types.PlutoType{Kind: types.KUnresolved}
		}
		result = armType
	default:
		result = &types.PlutoType{Kind: types.KUnresolved}
	}

	if te, ok := expr.(ast.TypedExpression); ok {
		te.SetResolvedType(result)
	}
	return result
}

func (c *TypeChecker) inferInfix(e *ast.InfixExpr, left, right *types.PlutoType, ctx *compiler.Context) *types.PlutoType {
	switch e.Operator {
	case "+", "-", "*", "/", "%":
		if left.Kind == types.KUnresolved || right.Kind == types.KUnresolved {
			return left
		}
		if !left.Equal(right) {
			ctx.Errorf(diag.Type, e, "operator %q requires matching operand types, got %s and %s", e.Operator, left, right)
			return left
		}
		if !left.IsNumeric() && left.Kind != types.KString {
			ctx.Errorf(diag.Type, e, "operator %q requires numeric (or String for '+') operands, got %s", e.Operator, left)
		}
		return left
	case "==", "!=":
		return types.Bool
	case "<", ">", "<=", ">=":
		if left.Kind != types.KUnresolved && !left.IsNumeric() {
			ctx.Errorf(diag.Type, e, "operator %q requires numeric operands, got %s", e.Operator, left)
		}
		return types.Bool
	case "&&", "||":
		if left.Kind != types.KBool && left.Kind != types.KUnresolved {
			ctx.Errorf(diag.Type, e, "operator %q requires Bool operands, got %s", e.Operator, left)
		}
		return types.Bool
	default:
		return &types.PlutoType{Kind: types.KUnresolved}
	}
}

func (c *TypeChecker) inferCall(call *ast.CallExpr, scope *Scope, ctx *compiler.Context) *types.PlutoType {
	calleeType := c.infer(call.Callee, scope, ctx)
	for _, a := range call.Args {
		c.infer(a, scope, ctx)
	}
	if call.Catch != nil {
		if call.Catch.Default != nil {
			c.infer(call.Catch.Default, scope, ctx)
		}
		if call.Catch.Block != nil {
			inner := NewScope(scope)
			if call.Catch.ErrBinding != "" {
				inner.Define(call.Catch.ErrBinding, types.Error)
			}
			c.checkBlock(call.Catch.Block, inner, nil, ctx)
		}
	}
	if calleeType != nil && calleeType.Kind == types.KFn {
		return calleeType.Ret
	}
	if calleeType != nil && calleeType.Kind == types.KClass {
		return calleeType
	}
	return &types.PlutoType{Kind: types.KUnresolved}
}

func (c *TypeChecker) fieldType(objType *types.PlutoType, field string) *types.PlutoType {
	if objType == nil {
		return &types.PlutoType{Kind: types.KUnresolved}
	}
	if objType.Kind == types.KClass {
		if info, ok := c.reg.Classes[objType.Name]; ok {
			if t, ok := info.Fields[field]; ok {
				return t
			}
			if t, ok := info.Methods[field]; ok {
				return t
			}
		}
	}
	return &types.PlutoType{Kind: types.KUnresolved}
}
