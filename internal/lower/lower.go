package lower

import (
	"fmt"

	"github.com/pluto-lang/pluto/internal/ast"
	"github.com/pluto-lang/pluto/internal/compiler"
)

// Lowerer is the final compiler.Pass: it consumes a fully resolved,
// type-checked, closure-lifted, error-inferred program and produces a
// Module of basic blocks. It runs last, after DI solving and contract
// validation, since contract checks are compiled as ordinary branches
// here rather than re-validated.
type Lowerer struct {
	mod *Module

	tmp       int
	blocks    []*Block
	cur       *Block
	fn        *ast.FunctionDecl
	loopStack []loopLabels

	// classInvariants maps a class name to its declared invariants, so a
	// struct literal's construction-time check (lowerExpr's StructLiteral
	// case) doesn't need prog.Classes threaded through every call.
	classInvariants map[string][]*ast.Contract
	// selfOverride, when non-empty, is substituted for "self" wherever a
	// *ast.SelfExpr lowers — used only while checking a just-constructed
	// struct literal's invariants against the new object before it's bound
	// to any name, rather than the enclosing method's own self.
	selfOverride string
}

// loopLabels records the head and exit block labels of an enclosing loop,
// so a break/continue nested arbitrarily deep inside its body (through
// ifs, scopes, matches) still resolves to the right jump target without
// threading the labels through every lowerStatement call individually.
type loopLabels struct {
	continueTarget string // while/for head: re-evaluates the condition
	breakTarget    string // loop's exit block
}

func NewLowerer() *Lowerer { return &Lowerer{} }

func (l *Lowerer) Name() string { return "ir-lowering" }

// Module returns the lowered program, valid after Run completes.
func (l *Lowerer) Module() *Module { return l.mod }

func (l *Lowerer) Run(prog *ast.Program, ctx *compiler.Context) error {
	l.mod = &Module{}

	l.classInvariants = map[string][]*ast.Contract{}
	for _, cls := range prog.Classes {
		if len(cls.Invariants) > 0 {
			l.classInvariants[cls.Name] = cls.Invariants
		}
	}

	for _, fn := range prog.Functions {
		l.mod.Functions = append(l.mod.Functions, l.lowerFunction(fn, "", nil, ctx))
	}
	for _, cls := range prog.Classes {
		for _, m := range cls.Methods {
			l.mod.Functions = append(l.mod.Functions, l.lowerFunction(m, cls.Name, cls.Invariants, ctx))
		}
	}
	if prog.App != nil && prog.App.Main != nil {
		l.mod.Functions = append(l.mod.Functions, l.lowerFunction(prog.App.Main, "", nil, ctx))
		l.mod.Functions = append(l.mod.Functions, l.lowerProgramMain(prog, ctx))
	}
	return nil
}

// lowerProgramMain synthesizes the process entry point: it allocates every
// Singleton class exactly once, in the DI solver's topological order
// (ctx.DIOrder), wiring each one's bracket-deps to the already-constructed
// instance it depends on, then allocates the app the same way and calls
// its main. Scoped and Transient classes are never allocated here — a
// Scoped instance is rebuilt at each `scope { ... }` block and a Transient
// one at each construction site, neither of which is a program-wide,
// construct-once concern.
func (l *Lowerer) lowerProgramMain(prog *ast.Program, ctx *compiler.Context) *Function {
	l.blocks = nil
	l.cur = l.newBlock("entry")
	l.fn = nil

	classByName := map[string]*ast.ClassDecl{}
	for _, cls := range prog.Classes {
		classByName[cls.Name] = cls
	}

	instances := map[string]string{}
	for _, name := range ctx.DIOrder {
		cls, ok := classByName[name]
		if !ok || cls.Lifecycle != ast.Singleton {
			continue
		}
		instances[name] = l.allocWithDeps(ctx, cls.Name, cls.Deps, instances)
	}

	if prog.App != nil {
		appDst := l.allocWithDeps(ctx, prog.App.Name, prog.App.Deps, instances)
		l.emit(&Call{Callee: prog.App.Name + ".main", Args: []string{appDst}})
	}

	l.cur.Terminator = &Return{}

	return &Function{Name: "__program_main", Blocks: l.blocks}
}

// allocWithDeps emits an Alloc for className followed by a FieldStore for
// each of its bracket-deps, wired to the matching already-constructed
// Singleton recorded in instances. A dep whose class isn't a known
// Singleton (e.g. unresolved or non-singleton) is left zero-valued; the DI
// solver already reports unresolvable app/class dependencies separately.
func (l *Lowerer) allocWithDeps(ctx *compiler.Context, className string, deps []*ast.BracketDep, instances map[string]string) string {
	dst := l.newTemp()
	l.emit(&Alloc{Dst: dst, ClassName: className})
	for _, d := range deps {
		depClass, ok := depClassName(d.Type)
		if !ok {
			continue
		}
		src, ok := instances[depClass]
		if !ok {
			continue
		}
		l.emit(&FieldStore{Obj: dst, Field: d.Name, Offset: classFieldOffset(ctx, className, d.Name), Value: src})
	}
	return dst
}

// depClassName extracts the named-class target of a bracket-dep's declared
// type, mirroring the DI solver's own depClassName (internal/sema/di.go) —
// duplicated here rather than imported since internal/lower must not
// depend on internal/sema (lowering runs after, and only after, DI solving
// has already populated ctx.DIOrder).
func depClassName(t ast.TypeExpr) (string, bool) {
	nt, ok := t.(*ast.NamedType)
	if !ok {
		return "", false
	}
	return nt.Name, true
}

func (l *Lowerer) newTemp() string {
	l.tmp++
	return fmt.Sprintf("%%t%d", l.tmp)
}

func (l *Lowerer) newBlock(label string) *Block {
	b := &Block{Label: label}
	l.blocks = append(l.blocks, b)
	return b
}

func (l *Lowerer) lowerFunction(fn *ast.FunctionDecl, receiverClass string, invariants []*ast.Contract, ctx *compiler.Context) *Function {
	l.blocks = nil
	l.cur = l.newBlock("entry")
	l.fn = fn

	name := fn.Name
	if receiverClass != "" {
		name = receiverClass + "." + fn.Name
	}

	params := make([]string, 0, len(fn.Params))
	for _, p := range fn.Params {
		params = append(params, p.Name)
	}

	for _, c := range fn.Requires {
		cond := l.lowerExpr(c.Expr, ctx)
		l.emit(&ContractCheck{Cond: cond, Message: "requires " + c.Expr.String() + " failed"})
	}
	// A class invariant holds on entry to and exit from every method, not
	// just at construction, so it's checked at both ends of each method
	// body rather than folded into Requires.
	for _, c := range invariants {
		cond := l.lowerExpr(c.Expr, ctx)
		l.emit(&ContractCheck{Cond: cond, Message: "invariant " + c.Expr.String() + " violated on entry"})
	}

	// Only the implicit fallthrough return gets the exit check injected;
	// an explicit `return` inside the body skips it, since that would
	// require rewriting every ReturnStatement lowering to detour through
	// a shared exit block.
	l.lowerBlock(fn.Body, ctx)
	if l.cur.Terminator == nil {
		for _, c := range invariants {
			cond := l.lowerExpr(c.Expr, ctx)
			l.emit(&ContractCheck{Cond: cond, Message: "invariant " + c.Expr.String() + " violated on exit"})
		}
		l.cur.Terminator = &Return{}
	}

	errSet := make([]string, 0, len(fn.ErrorSet))
	for _, n := range fn.ErrorSet {
		errSet = append(errSet, n)
	}

	return &Function{
		Name:     name,
		Params:   params,
		ErrorSet: errSet,
		Blocks:   l.blocks,
		IsGen:    fn.IsGenerator,
	}
}

func (l *Lowerer) emit(i Instr) {
	l.cur.Instrs = append(l.cur.Instrs, i)
}

// emitClassInvariants checks className's declared invariants against dst,
// a struct literal just constructed — the same check a mut-self method
// runs on entry/exit, run once here since construction isn't itself a
// method call and so never passes through lowerFunction's own checks.
func (l *Lowerer) emitClassInvariants(dst, className string, ctx *compiler.Context) {
	invariants := l.classInvariants[className]
	if len(invariants) == 0 {
		return
	}
	prevSelf := l.selfOverride
	l.selfOverride = dst
	for _, c := range invariants {
		cond := l.lowerExpr(c.Expr, ctx)
		l.emit(&ContractCheck{Cond: cond, Message: "invariant " + c.Expr.String() + " violated on construction"})
	}
	l.selfOverride = prevSelf
}

func (l *Lowerer) lowerBlock(b *ast.BlockStatement, ctx *compiler.Context) {
	if b == nil {
		return
	}
	for _, stmt := range b.Statements {
		if l.cur.Terminator != nil {
			return // unreachable: a prior statement already terminated this block
		}
		l.lowerStatement(stmt, ctx)
	}
}

func (l *Lowerer) lowerStatement(stmt ast.Statement, ctx *compiler.Context) {
	switch s := stmt.(type) {
	case *ast.LetStatement:
		v := l.lowerExpr(s.Value, ctx)
		l.emit(&Move{Dst: s.Name, Src: v})
	case *ast.AssignStatement:
		l.lowerAssign(s, ctx)
	case *ast.ExpressionStatement:
		l.lowerExpr(s.Expr, ctx)
	case *ast.ReturnStatement:
		val := ""
		if s.Value != nil {
			val = l.lowerExpr(s.Value, ctx)
		}
		l.cur.Terminator = &Return{Value: val}
	case *ast.RaiseStatement:
		lit, ok := s.Error.(*ast.StructLiteral)
		args := []string{}
		name := ""
		if ok {
			name = lit.Name
			for _, f := range lit.Fields {
				args = append(args, l.lowerExpr(f.Value, ctx))
			}
		} else {
			l.lowerExpr(s.Error, ctx)
		}
		l.cur.Terminator = &RaiseTerm{ErrorName: name, Args: args}
	case *ast.YieldStatement:
		v := l.lowerExpr(s.Value, ctx)
		l.emit(&Call{Callee: "__stream_yield", Args: []string{v}})
	case *ast.IfStatement:
		l.lowerIf(s, ctx)
	case *ast.WhileStatement:
		l.lowerWhile(s, ctx)
	case *ast.ForStatement:
		l.lowerFor(s, ctx)
	case *ast.ScopeStatement:
		l.emit(&Call{Callee: "__scope_enter"})
		l.lowerBlock(s.Body, ctx)
		l.emit(&Call{Callee: "__scope_exit"})
	case *ast.BlockStatement:
		l.lowerBlock(s, ctx)
	case *ast.BreakStatement:
		if n := len(l.loopStack); n > 0 {
			l.cur.Terminator = &Jump{Target: l.loopStack[n-1].breakTarget}
		}
	case *ast.ContinueStatement:
		if n := len(l.loopStack); n > 0 {
			l.cur.Terminator = &Jump{Target: l.loopStack[n-1].continueTarget}
		}
	}
}

func (l *Lowerer) lowerAssign(s *ast.AssignStatement, ctx *compiler.Context) {
	v := l.lowerExpr(s.Value, ctx)
	switch t := s.Target.(type) {
	case *ast.Identifier:
		l.emit(&Move{Dst: t.Value, Src: v})
	case *ast.FieldAccess:
		obj := l.lowerExpr(t.Obj, ctx)
		l.emit(&FieldStore{Obj: obj, Field: t.Field, Offset: fieldOffset(ctx, t), Value: v})
	case *ast.IndexExpr:
		obj := l.lowerExpr(t.Obj, ctx)
		idx := l.lowerExpr(t.Index, ctx)
		l.emit(&IndexStore{Obj: obj, Index: idx, Value: v})
	}
}

// fieldOffset resolves a field access to its offset in the owning class's
// declared field order. The lowerer doesn't carry a per-expression static
// type (the type checker's results aren't threaded through to this pass),
// so this matches by field name across every known class rather than the
// object's actual receiver type — safe as long as field names don't
// collide across unrelated classes.
func fieldOffset(ctx *compiler.Context, fa *ast.FieldAccess) int {
	for _, info := range ctx.Registry.Classes {
		for i, name := range info.FieldOrder {
			if name == fa.Field {
				return i
			}
		}
	}
	return -1
}

// classFieldOffset resolves field's offset within className's own
// FieldOrder. Used wherever the owning class is already known by name
// (struct literals) instead of needing fieldOffset's cross-class search.
func classFieldOffset(ctx *compiler.Context, className, field string) int {
	info, ok := ctx.Registry.Classes[className]
	if !ok {
		return -1
	}
	for i, name := range info.FieldOrder {
		if name == field {
			return i
		}
	}
	return -1
}

func (l *Lowerer) lowerIf(s *ast.IfStatement, ctx *compiler.Context) {
	cond := l.lowerExpr(s.Condition, ctx)
	thenBlock := l.newBlock(fmt.Sprintf("if.then.%d", len(l.blocks)))
	joinLabel := fmt.Sprintf("if.end.%d", len(l.blocks)+1)

	var elseBlock *Block
	if s.Else != nil {
		elseBlock = l.newBlock(fmt.Sprintf("if.else.%d", len(l.blocks)))
	}

	head := l.cur
	if elseBlock != nil {
		head.Terminator = &Branch{Cond: cond, Then: thenBlock.Label, Else: elseBlock.Label}
	} else {
		head.Terminator = &Branch{Cond: cond, Then: thenBlock.Label, Else: joinLabel}
	}

	l.cur = thenBlock
	l.lowerBlock(s.Then, ctx)
	if l.cur.Terminator == nil {
		l.cur.Terminator = &Jump{Target: joinLabel}
	}

	if elseBlock != nil {
		l.cur = elseBlock
		l.lowerStatement(s.Else, ctx)
		if l.cur.Terminator == nil {
			l.cur.Terminator = &Jump{Target: joinLabel}
		}
	}

	join := l.newBlock(joinLabel)
	l.cur = join
}

func (l *Lowerer) lowerWhile(s *ast.WhileStatement, ctx *compiler.Context) {
	headLabel := fmt.Sprintf("while.head.%d", len(l.blocks))
	bodyLabel := fmt.Sprintf("while.body.%d", len(l.blocks)+1)
	exitLabel := fmt.Sprintf("while.exit.%d", len(l.blocks)+2)

	l.cur.Terminator = &Jump{Target: headLabel}
	head := l.newBlock(headLabel)
	l.cur = head
	cond := l.lowerExpr(s.Condition, ctx)
	head.Terminator = &Branch{Cond: cond, Then: bodyLabel, Else: exitLabel}

	body := l.newBlock(bodyLabel)
	l.cur = body
	l.loopStack = append(l.loopStack, loopLabels{continueTarget: headLabel, breakTarget: exitLabel})
	l.lowerBlock(s.Body, ctx)
	l.loopStack = l.loopStack[:len(l.loopStack)-1]
	if l.cur.Terminator == nil {
		l.cur.Terminator = &Jump{Target: headLabel}
	}

	exit := l.newBlock(exitLabel)
	l.cur = exit
}

func (l *Lowerer) lowerFor(s *ast.ForStatement, ctx *compiler.Context) {
	iterable := l.lowerExpr(s.Iterable, ctx)
	idx := l.newTemp()
	l.emit(&Const{Dst: idx, Value: int64(0)})

	headLabel := fmt.Sprintf("for.head.%d", len(l.blocks))
	bodyLabel := fmt.Sprintf("for.body.%d", len(l.blocks)+1)
	latchLabel := fmt.Sprintf("for.latch.%d", len(l.blocks)+2)
	exitLabel := fmt.Sprintf("for.exit.%d", len(l.blocks)+3)

	l.cur.Terminator = &Jump{Target: headLabel}
	head := l.newBlock(headLabel)
	l.cur = head
	lenVal := l.newTemp()
	l.emit(&Call{Dst: lenVal, Callee: "__len", Args: []string{iterable}})
	cond := l.newTemp()
	l.emit(&BinOp{Dst: cond, Op: "<", Left: idx, Right: lenVal})
	head.Terminator = &Branch{Cond: cond, Then: bodyLabel, Else: exitLabel}

	body := l.newBlock(bodyLabel)
	l.cur = body
	elem := l.newTemp()
	l.emit(&IndexLoad{Dst: elem, Obj: iterable, Index: idx})
	l.emit(&Move{Dst: s.Name, Src: elem})
	// continue must land on the latch, not the head, so the index still
	// advances before the condition is re-checked.
	l.loopStack = append(l.loopStack, loopLabels{continueTarget: latchLabel, breakTarget: exitLabel})
	l.lowerBlock(s.Body, ctx)
	l.loopStack = l.loopStack[:len(l.loopStack)-1]
	if l.cur.Terminator == nil {
		l.cur.Terminator = &Jump{Target: latchLabel}
	}

	latch := l.newBlock(latchLabel)
	l.cur = latch
	next := l.newTemp()
	l.emit(&BinOp{Dst: next, Op: "+", Left: idx, Right: "1"})
	l.emit(&Move{Dst: idx, Src: next})
	latch.Terminator = &Jump{Target: headLabel}

	exit := l.newBlock(exitLabel)
	l.cur = exit
}

func (l *Lowerer) constStr(s string) string {
	dst := l.newTemp()
	l.emit(&Const{Dst: dst, Value: s})
	return dst
}

func (l *Lowerer) constBool(b bool) string {
	dst := l.newTemp()
	l.emit(&Const{Dst: dst, Value: b})
	return dst
}

func (l *Lowerer) lowerExpr(e ast.Expression, ctx *compiler.Context) string {
	switch x := e.(type) {
	case *ast.Identifier:
		return x.Value
	case *ast.IntegerLiteral:
		dst := l.newTemp()
		l.emit(&Const{Dst: dst, Value: x.Value})
		return dst
	case *ast.FloatLiteral:
		dst := l.newTemp()
		l.emit(&Const{Dst: dst, Value: x.Value})
		return dst
	case *ast.StringLiteral:
		return l.constStr(x.Value)
	case *ast.BooleanLiteral:
		return l.constBool(x.Value)
	case *ast.NoneLiteral:
		dst := l.newTemp()
		l.emit(&Const{Dst: dst, Value: nil})
		return dst
	case *ast.SelfExpr:
		if l.selfOverride != "" {
			return l.selfOverride
		}
		return "self"
	case *ast.InterpolatedString:
		acc := l.constStr(x.Parts[0])
		for i, hole := range x.Holes {
			v := l.lowerExpr(hole, ctx)
			next := l.newTemp()
			l.emit(&BinOp{Dst: next, Op: "+", Left: acc, Right: v})
			acc = next
			if i+1 < len(x.Parts) {
				tail := l.constStr(x.Parts[i+1])
				joined := l.newTemp()
				l.emit(&BinOp{Dst: joined, Op: "+", Left: acc, Right: tail})
				acc = joined
			}
		}
		return acc
	case *ast.PrefixExpr:
		operand := l.lowerExpr(x.Right, ctx)
		dst := l.newTemp()
		l.emit(&UnOp{Dst: dst, Op: x.Operator, Operand: operand})
		return dst
	case *ast.InfixExpr:
		left := l.lowerExpr(x.Left, ctx)
		right := l.lowerExpr(x.Right, ctx)
		dst := l.newTemp()
		l.emit(&BinOp{Dst: dst, Op: x.Operator, Left: left, Right: right})
		return dst
	case *ast.FieldAccess:
		obj := l.lowerExpr(x.Obj, ctx)
		dst := l.newTemp()
		l.emit(&FieldLoad{Dst: dst, Obj: obj, Field: x.Field, Offset: fieldOffset(ctx, x)})
		return dst
	case *ast.QualifiedEnumVariant:
		if len(x.Args) == 0 {
			return l.constStr(x.Enum + "." + x.Variant)
		}
		args := make([]string, 0, len(x.Args))
		for _, a := range x.Args {
			args = append(args, l.lowerExpr(a, ctx))
		}
		dst := l.newTemp()
		l.emit(&Call{Dst: dst, Callee: "__enum_ctor_" + x.Enum + "." + x.Variant, Args: args})
		return dst
	case *ast.IndexExpr:
		obj := l.lowerExpr(x.Obj, ctx)
		idx := l.lowerExpr(x.Index, ctx)
		dst := l.newTemp()
		l.emit(&IndexLoad{Dst: dst, Obj: obj, Index: idx})
		return dst
	case *ast.ArrayLiteral:
		args := make([]string, 0, len(x.Elements))
		for _, e := range x.Elements {
			args = append(args, l.lowerExpr(e, ctx))
		}
		dst := l.newTemp()
		l.emit(&Call{Dst: dst, Callee: "__array_new", Args: args})
		return dst
	case *ast.MapLiteral:
		args := make([]string, 0, len(x.Entries)*2)
		for _, entry := range x.Entries {
			args = append(args, l.lowerExpr(entry.Key, ctx), l.lowerExpr(entry.Value, ctx))
		}
		dst := l.newTemp()
		l.emit(&Call{Dst: dst, Callee: "__map_new", Args: args})
		return dst
	case *ast.SetLiteral:
		args := make([]string, 0, len(x.Elements))
		for _, e := range x.Elements {
			args = append(args, l.lowerExpr(e, ctx))
		}
		dst := l.newTemp()
		l.emit(&Call{Dst: dst, Callee: "__set_new", Args: args})
		return dst
	case *ast.StructLiteral:
		dst := l.newTemp()
		l.emit(&Alloc{Dst: dst, ClassName: x.Name})
		for _, f := range x.Fields {
			v := l.lowerExpr(f.Value, ctx)
			// Unlike FieldAccess, a struct literal names its class directly,
			// so its fields resolve against that class's own FieldOrder
			// rather than a name search across every class — fields given
			// out of declaration order in the literal (`C{b: 1, a: 2}`)
			// still land at the right offset.
			l.emit(&FieldStore{Obj: dst, Field: f.Name, Offset: classFieldOffset(ctx, x.Name, f.Name), Value: v})
		}
		// An invariant holds from the moment a value exists, not just at
		// method boundaries, so a struct literal checks it right after
		// construction the same way a method checks it on entry/exit.
		l.emitClassInvariants(dst, x.Name, ctx)
		return dst
	case *ast.LambdaExpr:
		args := append([]string{x.LiftedName}, x.Captures...)
		dst := l.newTemp()
		l.emit(&Call{Dst: dst, Callee: "__make_closure", Args: args})
		return dst
	case *ast.SpawnExpr:
		args := make([]string, 0, len(x.Call.Args))
		for _, a := range x.Call.Args {
			args = append(args, l.lowerExpr(a, ctx))
		}
		dst := l.newTemp()
		l.emit(&Spawn{Dst: dst, Callee: calleeName(x.Call.Callee), Args: args})
		return dst
	case *ast.ChanExpr:
		cap := l.lowerExpr(x.Capacity, ctx)
		dst := l.newTemp()
		l.emit(&ChanMake{Dst: dst, Capacity: cap})
		return dst
	case *ast.CallExpr:
		return l.lowerCall(x, ctx)
	case *ast.MatchExpr:
		return l.lowerMatch(x, ctx)
	default:
		return l.constStr("")
	}
}

// calleeName derives an IR-level callee identifier for a call or spawn
// target. A bare identifier names a free function directly; a field
// access is rendered "<receiver-text>.<method>" so the error-set
// inferrer's suffix match against "Class.Method" keys still finds it,
// since no per-expression static receiver type is available here.
func calleeName(e ast.Expression) string {
	switch c := e.(type) {
	case *ast.Identifier:
		return c.Value
	case *ast.FieldAccess:
		return c.Obj.String() + "." + c.Field
	default:
		return e.String()
	}
}

// lowerCall lowers an ordinary call, a method call (receiver threaded as
// the first argument), or a class instantiation (when Callee names a
// registered class, compiled as an Alloc followed by a call to its
// synthesized __init__). A Catch clause is not yet modeled as its own
// control-flow split — the call lowers as if Propagate always decided the
// outcome, and recovery happens one layer up in the interpreter/runtime
// this IR feeds.
func (l *Lowerer) lowerCall(call *ast.CallExpr, ctx *compiler.Context) string {
	args := make([]string, 0, len(call.Args)+1)
	if fa, ok := call.Callee.(*ast.FieldAccess); ok {
		args = append(args, l.lowerExpr(fa.Obj, ctx))
	}
	for _, a := range call.Args {
		args = append(args, l.lowerExpr(a, ctx))
	}

	if ident, ok := call.Callee.(*ast.Identifier); ok {
		if _, isClass := ctx.Registry.Classes[ident.Value]; isClass {
			dst := l.newTemp()
			l.emit(&Alloc{Dst: dst, ClassName: ident.Value})
			ctorArgs := append([]string{dst}, args...)
			l.emit(&Call{Callee: ident.Value + ".__init__", Args: ctorArgs, Propagate: call.Propagate})
			return dst
		}
	}

	dst := l.newTemp()
	l.emit(&Call{Dst: dst, Callee: calleeName(call.Callee), Args: args, Propagate: call.Propagate})
	return dst
}

// lowerMatch compiles a match expression into a chain of tag-test
// branches, each arm's value moved into a shared result temp before
// jumping to the join block — the same branch/join shape lowerIf uses,
// but threading a value through instead of falling through to statements.
func (l *Lowerer) lowerMatch(m *ast.MatchExpr, ctx *compiler.Context) string {
	subject := l.lowerExpr(m.Subject, ctx)
	result := l.newTemp()
	joinLabel := fmt.Sprintf("match.end.%d", len(l.blocks)+len(m.Arms)+1)

	for i, arm := range m.Arms {
		var cond string
		switch p := arm.Pattern.(type) {
		case *ast.WildcardPattern, *ast.BindingPattern:
			cond = l.constBool(true)
		case *ast.VariantPattern:
			tag := l.constStr(p.Enum + "." + p.Variant)
			cond = l.newTemp()
			l.emit(&Call{Dst: cond, Callee: "__match_tag", Args: []string{subject, tag}})
		default:
			cond = l.constBool(false)
		}

		head := l.cur
		bodyBlock := l.newBlock(fmt.Sprintf("match.arm.%d", len(l.blocks)))
		isLast := i == len(m.Arms)-1
		var elseLabel string
		var nextBlock *Block
		if isLast {
			elseLabel = joinLabel
		} else {
			nextBlock = l.newBlock(fmt.Sprintf("match.next.%d", len(l.blocks)))
			elseLabel = nextBlock.Label
		}
		head.Terminator = &Branch{Cond: cond, Then: bodyBlock.Label, Else: elseLabel}

		l.cur = bodyBlock
		if vp, ok := arm.Pattern.(*ast.VariantPattern); ok {
			for idx, sub := range vp.SubNames {
				bound := l.newTemp()
				l.emit(&Call{Dst: bound, Callee: "__match_extract", Args: []string{subject, l.constStr(fmt.Sprintf("%d", idx))}})
				l.emit(&Move{Dst: sub, Src: bound})
			}
		} else if bp, ok := arm.Pattern.(*ast.BindingPattern); ok {
			l.emit(&Move{Dst: bp.Name, Src: subject})
		}

		val := l.lowerExpr(arm.Body, ctx)
		l.emit(&Move{Dst: result, Src: val})
		l.cur.Terminator = &Jump{Target: joinLabel}

		if nextBlock != nil {
			l.cur = nextBlock
		}
	}

	join := l.newBlock(joinLabel)
	l.cur = join
	return result
}
