package lower

import (
	"testing"

	"github.com/pluto-lang/pluto/internal/compiler"
	"github.com/pluto-lang/pluto/internal/parser"

	_ "github.com/pluto-lang/pluto/internal/sema" // registers the standard pipeline passes
)

// lowerOK parses src, runs the full semantic pipeline, then the lowerer,
// and fails the test if either stage reports a problem.
func lowerOK(t *testing.T, src string) *Module {
	t.Helper()

	p := parser.New(src)
	prog := p.ParseProgram()
	if err := p.Err(); err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}

	ctx := compiler.NewContext("test.pluto", src)
	pipeline := compiler.NewStandardPipeline()
	if err := pipeline.Run(prog, ctx); err != nil {
		t.Fatalf("unexpected pipeline error: %v", err)
	}
	if ctx.HasErrors() {
		t.Fatalf("unexpected semantic diagnostics: %v", ctx.Sink.Diagnostics)
	}

	lowerer := NewLowerer()
	if err := lowerer.Run(prog, ctx); err != nil {
		t.Fatalf("unexpected lowering error: %v", err)
	}
	return lowerer.Module()
}

func findFunc(t *testing.T, mod *Module, name string) *Function {
	t.Helper()
	for _, fn := range mod.Functions {
		if fn.Name == name {
			return fn
		}
	}
	t.Fatalf("no lowered function named %q in %v", name, mod.Functions)
	return nil
}

func findBlock(t *testing.T, fn *Function, label string) *Block {
	t.Helper()
	for _, b := range fn.Blocks {
		if b.Label == label {
			return b
		}
	}
	t.Fatalf("no block labeled %q in function %s", label, fn.Name)
	return nil
}

func TestLowerSimpleFunctionReturnsBinOp(t *testing.T) {
	mod := lowerOK(t, `
fn add(a: Int, b: Int) -> Int {
	return a + b
}
`)
	fn := findFunc(t, mod, "add")
	if len(fn.Params) != 2 {
		t.Fatalf("expected 2 params, got %v", fn.Params)
	}
	entry := findBlock(t, fn, "entry")
	if _, ok := entry.Terminator.(*Return); !ok {
		t.Fatalf("expected entry block to terminate in a Return, got %T", entry.Terminator)
	}

	var sawBinOp bool
	for _, instr := range entry.Instrs {
		if _, ok := instr.(*BinOp); ok {
			sawBinOp = true
		}
	}
	if !sawBinOp {
		t.Fatal("expected a BinOp instruction lowering a + b")
	}
}

func TestLowerIfProducesThreeBlocksAndJoins(t *testing.T) {
	mod := lowerOK(t, `
fn sign(x: Int) -> Int {
	if x > 0 {
		return 1
	} else {
		return -1
	}
}
`)
	fn := findFunc(t, mod, "sign")

	var sawBranch bool
	for _, b := range fn.Blocks {
		if br, ok := b.Terminator.(*Branch); ok {
			sawBranch = true
			if br.Then == "" || br.Else == "" {
				t.Fatalf("branch missing a target: %+v", br)
			}
		}
	}
	if !sawBranch {
		t.Fatal("expected at least one Branch terminator lowering the if")
	}
}

func TestLowerWhileBreakJumpsToExitNotHead(t *testing.T) {
	mod := lowerOK(t, `
fn firstPositive(xs: [Int]) -> Int {
	let mut i: Int = 0
	while i < 10 {
		if xs[i] > 0 {
			break
		}
		i = i + 1
	}
	return i
}
`)
	fn := findFunc(t, mod, "firstPositive")

	var exitLabel string
	for _, b := range fn.Blocks {
		if br, ok := b.Terminator.(*Branch); ok && br.Else != "" {
			// the while head's branch: Then=body, Else=exit
			exitLabel = br.Else
		}
	}
	if exitLabel == "" {
		t.Fatal("could not find the while loop's head branch")
	}

	var sawBreakJump bool
	for _, b := range fn.Blocks {
		if jmp, ok := b.Terminator.(*Jump); ok && jmp.Target == exitLabel {
			sawBreakJump = true
		}
	}
	if !sawBreakJump {
		t.Fatal("expected break to lower to a Jump targeting the loop's exit block")
	}
}

func TestLowerForContinueJumpsToLatchNotHead(t *testing.T) {
	mod := lowerOK(t, `
fn sumPositive(xs: [Int]) -> Int {
	let mut total: Int = 0
	for x in xs {
		if x < 0 {
			continue
		}
		total = total + x
	}
	return total
}
`)
	fn := findFunc(t, mod, "sumPositive")

	var latchLabel string
	for _, b := range fn.Blocks {
		if b.Label == "" {
			continue
		}
		if len(b.Label) >= len("for.latch") && b.Label[:len("for.latch")] == "for.latch" {
			latchLabel = b.Label
		}
	}
	if latchLabel == "" {
		t.Fatal("expected a for.latch block performing the index increment")
	}

	var sawContinueJump bool
	for _, b := range fn.Blocks {
		if jmp, ok := b.Terminator.(*Jump); ok && jmp.Target == latchLabel {
			sawContinueJump = true
		}
	}
	if !sawContinueJump {
		t.Fatal("expected continue to lower to a Jump targeting the loop's latch block, not its head")
	}
}

func TestLowerStructLiteralUsesClassFieldOrderNotLiteralOrder(t *testing.T) {
	mod := lowerOK(t, `
class Point {
	x: Int
	y: Int
}

fn makeSwapped() -> Point {
	return Point{y: 2, x: 1}
}
`)
	fn := findFunc(t, mod, "makeSwapped")

	var xOffset, yOffset = -1, -1
	for _, b := range fn.Blocks {
		for _, instr := range b.Instrs {
			if fs, ok := instr.(*FieldStore); ok {
				switch fs.Field {
				case "x":
					xOffset = fs.Offset
				case "y":
					yOffset = fs.Offset
				}
			}
		}
	}
	if xOffset != 0 {
		t.Errorf("expected x (declared first) at offset 0, got %d", xOffset)
	}
	if yOffset != 1 {
		t.Errorf("expected y (declared second) at offset 1, got %d", yOffset)
	}
}

func TestLowerClassMethodInjectsInvariantChecks(t *testing.T) {
	mod := lowerOK(t, `
class Account {
	balance: Int

	invariant self.balance >= 0

	fn deposit(mut self, amount: Int) {
		self.balance = self.balance + amount
	}
}
`)
	fn := findFunc(t, mod, "Account.deposit")

	var sawContractCheck bool
	for _, b := range fn.Blocks {
		for _, instr := range b.Instrs {
			if _, ok := instr.(*ContractCheck); ok {
				sawContractCheck = true
			}
		}
	}
	if !sawContractCheck {
		t.Fatal("expected the method to lower at least one ContractCheck for its class invariant")
	}
}

func TestLowerStructLiteralEmitsInvariantCheckAfterConstruction(t *testing.T) {
	mod := lowerOK(t, `
class Balloon {
	size: Int

	invariant self.size >= 0
}

fn makeBalloon(n: Int) -> Balloon {
	return Balloon{size: n}
}
`)
	fn := findFunc(t, mod, "makeBalloon")

	entry := findBlock(t, fn, "entry")
	var allocIdx, storeIdx, checkIdx = -1, -1, -1
	for i, instr := range entry.Instrs {
		switch instr.(type) {
		case *Alloc:
			allocIdx = i
		case *FieldStore:
			storeIdx = i
		case *ContractCheck:
			checkIdx = i
		}
	}
	if allocIdx == -1 || storeIdx == -1 || checkIdx == -1 {
		t.Fatalf("expected Alloc, FieldStore, and ContractCheck in %v", entry.Instrs)
	}
	if !(allocIdx < storeIdx && storeIdx < checkIdx) {
		t.Fatalf("expected Alloc < FieldStore < ContractCheck, got indices %d, %d, %d", allocIdx, storeIdx, checkIdx)
	}
}

func TestLowerProgramMainAllocatesSingletonsInDIOrderThenApp(t *testing.T) {
	mod := lowerOK(t, `
class Database {
	fn connect(self) {}
}

class UserService[db: Database] {
	fn lookup(self) {}
}

app Server[svc: UserService] {
	fn main() {
		return
	}
}
`)
	fn := findFunc(t, mod, "__program_main")

	var allocOrder []string
	var sawMainCall bool
	for _, b := range fn.Blocks {
		for _, instr := range b.Instrs {
			switch ins := instr.(type) {
			case *Alloc:
				allocOrder = append(allocOrder, ins.ClassName)
			case *Call:
				if ins.Callee == "Server.main" {
					sawMainCall = true
				}
			}
		}
	}
	if !sawMainCall {
		t.Fatal("expected __program_main to call Server.main")
	}
	if len(allocOrder) != 3 {
		t.Fatalf("expected 3 allocations (Database, UserService, Server), got %v", allocOrder)
	}
	dbIdx, svcIdx, appIdx := -1, -1, -1
	for i, name := range allocOrder {
		switch name {
		case "Database":
			dbIdx = i
		case "UserService":
			svcIdx = i
		case "Server":
			appIdx = i
		}
	}
	if !(dbIdx < svcIdx && svcIdx < appIdx) {
		t.Fatalf("expected Database before UserService before Server, got order %v", allocOrder)
	}
}

func TestLowerRaiseCarriesErrorStructFields(t *testing.T) {
	mod := lowerOK(t, `
error InsufficientFunds { amount: Int }

fn withdraw(balance: Int, amount: Int) {
	if amount > balance {
		raise InsufficientFunds{amount: amount}
	}
}
`)
	fn := findFunc(t, mod, "withdraw")

	var sawRaise bool
	for _, b := range fn.Blocks {
		if raise, ok := b.Terminator.(*RaiseTerm); ok {
			sawRaise = true
			if raise.ErrorName != "InsufficientFunds" {
				t.Errorf("expected error name InsufficientFunds, got %q", raise.ErrorName)
			}
			if len(raise.Args) != 1 {
				t.Errorf("expected 1 raise arg, got %d", len(raise.Args))
			}
		}
	}
	if !sawRaise {
		t.Fatal("expected a RaiseTerm terminator lowering the raise statement")
	}
}

func TestLowerMatchBuildsBranchChainAndJoinsOnResult(t *testing.T) {
	mod := lowerOK(t, `
enum Shape {
	Circle(Int),
	Square(Int),
}

fn area(s: Shape) -> Int {
	return match s {
		Shape.Circle(radius) => radius * radius,
		Shape.Square(side) => side * side,
	}
}
`)
	fn := findFunc(t, mod, "area")

	var branches, joins int
	for _, b := range fn.Blocks {
		switch b.Terminator.(type) {
		case *Branch:
			branches++
		}
		for _, instr := range b.Instrs {
			if mv, ok := instr.(*Move); ok && mv.Dst == "result" {
				joins++
			}
		}
	}
	if branches == 0 {
		t.Fatal("expected at least one Branch comparing a variant tag")
	}
	if joins != 2 {
		t.Fatalf("expected each of the 2 arms to Move into the shared result temp, got %d", joins)
	}
}

func TestLowerToJSONRoundTripsBasicShape(t *testing.T) {
	mod := lowerOK(t, `
fn identity(x: Int) -> Int {
	return x
}
`)
	out, err := ToJSON(mod)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out == "" {
		t.Fatal("expected non-empty JSON output")
	}
}
