package parser

import (
	"testing"

	"github.com/pluto-lang/pluto/internal/ast"
)

func parseOK(t *testing.T, src string) *ast.Program {
	t.Helper()
	p := New(src)
	prog := p.ParseProgram()
	if err := p.Err(); err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	return prog
}

func TestParseFunctionDeclWithRequiresAndReturn(t *testing.T) {
	prog := parseOK(t, `
fn add(a: Int, b: Int) -> Int requires a >= 0 {
	return a + b
}
`)
	if len(prog.Functions) != 1 {
		t.Fatalf("expected 1 function, got %d", len(prog.Functions))
	}
	fn := prog.Functions[0]
	if fn.Name != "add" || len(fn.Params) != 2 || len(fn.Requires) != 1 {
		t.Fatalf("unexpected function shape: %+v", fn)
	}
	if fn.ReturnType.String() != "Int" {
		t.Fatalf("expected return type Int, got %s", fn.ReturnType.String())
	}
}

func TestParseClassWithDepsAndInvariant(t *testing.T) {
	prog := parseOK(t, `
class Account[store: Store] {
	invariant self.balance >= 0
	balance: Int

	fn withdraw(mut self, amount: Int) {
		self.balance = self.balance - amount
	}
}
`)
	if len(prog.Classes) != 1 {
		t.Fatalf("expected 1 class, got %d", len(prog.Classes))
	}
	cls := prog.Classes[0]
	if !cls.HasDeps() {
		t.Fatalf("expected class to have deps")
	}
	if len(cls.Invariants) != 1 {
		t.Fatalf("expected 1 invariant")
	}
	if len(cls.Methods) != 1 || !cls.Methods[0].IsMethod || !cls.Methods[0].ReceiverMut {
		t.Fatalf("expected one mut-self method, got %+v", cls.Methods)
	}
}

func TestParseEnumWithDataVariants(t *testing.T) {
	prog := parseOK(t, `
enum Shape {
	Circle(Float),
	Square(Float, Float),
	Empty,
}
`)
	if len(prog.Enums) != 1 {
		t.Fatalf("expected 1 enum")
	}
	en := prog.Enums[0]
	if len(en.Variants) != 3 {
		t.Fatalf("expected 3 variants, got %d", len(en.Variants))
	}
	if !en.Variants[2].IsUnit() {
		t.Fatalf("expected third variant to be unit")
	}
	if len(en.Variants[1].Fields) != 2 {
		t.Fatalf("expected Square to carry 2 fields")
	}
}

func TestParseMatchExpressionOnQualifiedVariant(t *testing.T) {
	prog := parseOK(t, `
fn describe(s: Shape) -> String {
	return match s {
		Shape.Circle(r) => "circle",
		Shape.Empty => "empty",
		other => "other",
	}
}
`)
	fn := prog.Functions[0]
	ret := fn.Body.Statements[0].(*ast.ReturnStatement)
	m, ok := ret.Value.(*ast.MatchExpr)
	if !ok {
		t.Fatalf("expected MatchExpr, got %T", ret.Value)
	}
	if len(m.Arms) != 3 {
		t.Fatalf("expected 3 arms, got %d", len(m.Arms))
	}
	vp, ok := m.Arms[0].Pattern.(*ast.VariantPattern)
	if !ok || vp.Enum != "Shape" || vp.Variant != "Circle" || len(vp.SubNames) != 1 {
		t.Fatalf("unexpected pattern: %+v", m.Arms[0].Pattern)
	}
}

func TestParseQualifiedEnumVariantVsFieldAccess(t *testing.T) {
	prog := parseOK(t, `
fn f() {
	let a = Color.Red
	let b = point.x
}
`)
	fn := prog.Functions[0]
	let1 := fn.Body.Statements[0].(*ast.LetStatement)
	if _, ok := let1.Value.(*ast.QualifiedEnumVariant); !ok {
		t.Fatalf("expected QualifiedEnumVariant, got %T", let1.Value)
	}
	let2 := fn.Body.Statements[1].(*ast.LetStatement)
	if _, ok := let2.Value.(*ast.FieldAccess); !ok {
		t.Fatalf("expected FieldAccess, got %T", let2.Value)
	}
}

func TestParseCallWithPropagateAndCatch(t *testing.T) {
	prog := parseOK(t, `
fn f() {
	let a = risky()! catch 0
	let b = risky()! catch err { return 1 }
}
`)
	fn := prog.Functions[0]
	let1 := fn.Body.Statements[0].(*ast.LetStatement)
	call1 := let1.Value.(*ast.CallExpr)
	if !call1.Propagate || call1.Catch == nil || call1.Catch.Default == nil {
		t.Fatalf("expected propagate+shorthand catch, got %+v", call1)
	}
	let2 := fn.Body.Statements[1].(*ast.LetStatement)
	call2 := let2.Value.(*ast.CallExpr)
	if call2.Catch == nil || call2.Catch.Block == nil || call2.Catch.ErrBinding != "err" {
		t.Fatalf("expected block catch with binding, got %+v", call2.Catch)
	}
}

func TestParseLambdaExpression(t *testing.T) {
	prog := parseOK(t, `
fn f() {
	let add = (a, b) => a + b
}
`)
	fn := prog.Functions[0]
	let := fn.Body.Statements[0].(*ast.LetStatement)
	lam, ok := let.Value.(*ast.LambdaExpr)
	if !ok || len(lam.Params) != 2 {
		t.Fatalf("expected lambda with 2 params, got %T", let.Value)
	}
}

func TestParseArrayMapSetLiterals(t *testing.T) {
	prog := parseOK(t, `
fn f() {
	let xs = [1, 2, 3]
	let m = [1: "one", 2: "two"]
	let s = {1, 2, 3}
}
`)
	fn := prog.Functions[0]
	if _, ok := fn.Body.Statements[0].(*ast.LetStatement).Value.(*ast.ArrayLiteral); !ok {
		t.Fatalf("expected array literal")
	}
	mapLit, ok := fn.Body.Statements[1].(*ast.LetStatement).Value.(*ast.MapLiteral)
	if !ok || len(mapLit.Entries) != 2 {
		t.Fatalf("expected map literal with 2 entries, got %+v", mapLit)
	}
	if _, ok := fn.Body.Statements[2].(*ast.LetStatement).Value.(*ast.SetLiteral); !ok {
		t.Fatalf("expected set literal")
	}
}

func TestParseStructLiteral(t *testing.T) {
	prog := parseOK(t, `
fn f() {
	let p = Point{x: 1, y: 2}
}
`)
	fn := prog.Functions[0]
	lit, ok := fn.Body.Statements[0].(*ast.LetStatement).Value.(*ast.StructLiteral)
	if !ok || lit.Name != "Point" || len(lit.Fields) != 2 {
		t.Fatalf("expected struct literal Point with 2 fields, got %+v", lit)
	}
}

func TestParseSpawnAndChan(t *testing.T) {
	prog := parseOK(t, `
fn f() {
	let t = spawn work(1, 2)
	let c = chan<Int>(4)
}
`)
	fn := prog.Functions[0]
	spawn, ok := fn.Body.Statements[0].(*ast.LetStatement).Value.(*ast.SpawnExpr)
	if !ok || spawn.Call.Callee.(*ast.Identifier).Value != "work" {
		t.Fatalf("expected spawn expr calling work, got %+v", spawn)
	}
	ch, ok := fn.Body.Statements[1].(*ast.LetStatement).Value.(*ast.ChanExpr)
	if !ok || ch.ElemType.String() != "Int" {
		t.Fatalf("expected chan<Int> literal, got %+v", ch)
	}
}

func TestParseIfStructLiteralAmbiguityResolved(t *testing.T) {
	// The `if` condition must not swallow `{` as a struct literal body —
	// it belongs to the `if` block.
	prog := parseOK(t, `
fn f(ready: Bool) {
	if ready {
		return
	}
}
`)
	fn := prog.Functions[0]
	ifs, ok := fn.Body.Statements[0].(*ast.IfStatement)
	if !ok {
		t.Fatalf("expected IfStatement, got %T", fn.Body.Statements[0])
	}
	if _, ok := ifs.Condition.(*ast.Identifier); !ok {
		t.Fatalf("expected bare identifier condition, got %T", ifs.Condition)
	}
}

func TestParseForRangeLoop(t *testing.T) {
	prog := parseOK(t, `
fn f() {
	for i in 0..10 {
		continue
	}
}
`)
	fn := prog.Functions[0]
	forStmt := fn.Body.Statements[0].(*ast.ForStatement)
	rng, ok := forStmt.Iterable.(*ast.RangeExpr)
	if !ok || rng.Inclusive {
		t.Fatalf("expected exclusive range, got %+v", rng)
	}
}

func TestParseStringInterpolationExpression(t *testing.T) {
	prog := parseOK(t, `
fn f(name: String) {
	let greeting = "hello {name}!"
}
`)
	fn := prog.Functions[0]
	lit, ok := fn.Body.Statements[0].(*ast.LetStatement).Value.(*ast.InterpolatedString)
	if !ok || len(lit.Holes) != 1 {
		t.Fatalf("expected interpolated string with 1 hole, got %+v", lit)
	}
}

func TestParseErrorDeclAndRaise(t *testing.T) {
	prog := parseOK(t, `
error InsufficientFunds {
	needed: Int
}

fn withdraw() {
	raise InsufficientFunds{needed: 10}
}
`)
	if len(prog.Errors) != 1 || prog.Errors[0].Name != "InsufficientFunds" {
		t.Fatalf("expected InsufficientFunds error decl")
	}
	fn := prog.Functions[0]
	raise := fn.Body.Statements[0].(*ast.RaiseStatement)
	if _, ok := raise.Error.(*ast.StructLiteral); !ok {
		t.Fatalf("expected raise to carry a struct literal, got %T", raise.Error)
	}
}

func TestParseAppDeclRequiresSingleMain(t *testing.T) {
	prog := parseOK(t, `
app Server[db: Database] {
	fn main() {
		return
	}
}
`)
	if prog.App == nil || prog.App.Main == nil || len(prog.App.Deps) != 1 {
		t.Fatalf("expected app with main and 1 dep, got %+v", prog.App)
	}
}

func TestParseRejectsSecondApp(t *testing.T) {
	p := New(`
app A {
	fn main() { return }
}
app B {
	fn main() { return }
}
`)
	p.ParseProgram()
	if p.Err() == nil {
		t.Fatalf("expected error for a second app declaration")
	}
}

func TestParseTraitWithDefaultMethod(t *testing.T) {
	prog := parseOK(t, `
trait Greeter {
	fn greet() -> String {
		return "hi"
	}
}
`)
	if len(prog.Traits) != 1 || prog.Traits[0].Methods[0].Default == nil {
		t.Fatalf("expected trait with a default method body")
	}
}

func TestParseTestDecl(t *testing.T) {
	prog := parseOK(t, `
test "adds numbers" {
	let x = 1 + 2
}
`)
	if len(prog.Tests) != 1 || prog.Tests[0].Name != "adds numbers" {
		t.Fatalf("expected one test decl, got %+v", prog.Tests)
	}
}

func TestParseImportWithAlias(t *testing.T) {
	prog := parseOK(t, `import collections.stack as stack`)
	if len(prog.Imports) != 1 {
		t.Fatalf("expected 1 import")
	}
	im := prog.Imports[0]
	if im.Alias != "stack" || len(im.Path) != 2 {
		t.Fatalf("unexpected import: %+v", im)
	}
}

func TestParseStreamFunctionAndType(t *testing.T) {
	prog := parseOK(t, `
fn counter() -> stream Int {
	yield 1
}

fn takeStream(s: stream<Int>) {
	return
}
`)
	if !prog.Functions[0].IsGenerator {
		t.Fatalf("expected generator flag set")
	}
	st, ok := prog.Functions[1].Params[0].Type.(*ast.StreamType)
	if !ok || st.Elem.String() != "Int" {
		t.Fatalf("expected stream<Int> param type, got %+v", prog.Functions[1].Params[0].Type)
	}
}

func TestParseGenericClassAndFunction(t *testing.T) {
	prog := parseOK(t, `
class Box<T> {
	value: T
}

fn identity<T>(x: T) -> T {
	return x
}
`)
	if len(prog.Classes[0].TypeParams) != 1 || prog.Classes[0].TypeParams[0] != "T" {
		t.Fatalf("expected class type param T")
	}
	if len(prog.Functions[0].TypeParams) != 1 {
		t.Fatalf("expected function type param T")
	}
}

func TestParseNullableTypeAnnotations(t *testing.T) {
	prog := parseOK(t, `
fn f() {
	let a: Int? = none
	let b: [Int]? = none
}
`)
	fn := prog.Functions[0]
	let1 := fn.Body.Statements[0].(*ast.LetStatement)
	nt, ok := let1.Type.(*ast.NamedType)
	if !ok || !nt.Nullable {
		t.Fatalf("expected nullable NamedType, got %+v", let1.Type)
	}
	let2 := fn.Body.Statements[1].(*ast.LetStatement)
	if _, ok := let2.Type.(*ast.NullableType); !ok {
		t.Fatalf("expected NullableType wrapper for [Int]?, got %T", let2.Type)
	}
}

func TestParseErrorReportsSpan(t *testing.T) {
	p := New("fn f(\n")
	p.ParseProgram()
	if p.Err() == nil {
		t.Fatalf("expected parse error for unterminated param list")
	}
}
