package sema

import "testing"

func indexOf(xs []string, x string) int {
	for i, s := range xs {
		if s == x {
			return i
		}
	}
	return -1
}

func TestDISolverOrdersDependenciesBeforeDependents(t *testing.T) {
	prog, ctx := parseForSema(t, `
class Database {
	fn connect(self) {}
}

class Cache {
	fn clear(self) {}
}

class UserService[db: Database, cache: Cache] {
	fn lookup(self) {}
}
`)
	solver := NewDISolver()
	if err := solver.Run(prog, ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ctx.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", ctx.Sink.Diagnostics)
	}

	dbIdx, cacheIdx, svcIdx := indexOf(solver.Order, "Database"), indexOf(solver.Order, "Cache"), indexOf(solver.Order, "UserService")
	if dbIdx < 0 || cacheIdx < 0 || svcIdx < 0 {
		t.Fatalf("expected all three classes in order, got %v", solver.Order)
	}
	if dbIdx >= svcIdx || cacheIdx >= svcIdx {
		t.Fatalf("expected Database and Cache before UserService, got %v", solver.Order)
	}
	if ctx.DIOrder == nil {
		t.Fatal("expected ctx.DIOrder to be populated alongside solver.Order")
	}
}

func TestDISolverIsDeterministicAcrossIndependentSubgraphs(t *testing.T) {
	prog, ctx := parseForSema(t, `
class Alpha {
	fn run(self) {}
}

class Beta {
	fn run(self) {}
}
`)
	solver := NewDISolver()
	if err := solver.Run(prog, ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(solver.Order) != 2 || solver.Order[0] != "Alpha" || solver.Order[1] != "Beta" {
		t.Fatalf("expected alphabetical tie-break [Alpha, Beta], got %v", solver.Order)
	}
}

func TestDISolverReportsCircularDependency(t *testing.T) {
	prog, ctx := parseForSema(t, `
class A[b: B] {
	fn run(self) {}
}

class B[a: A] {
	fn run(self) {}
}
`)
	solver := NewDISolver()
	if err := solver.Run(prog, ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ctx.HasErrors() {
		t.Fatal("expected a circular-dependency diagnostic for A <-> B")
	}
}

func TestDISolverFlagsUnresolvableAppDependency(t *testing.T) {
	prog, ctx := parseForSema(t, `
class Looping[other: Looping] {
	fn run(self) {}
}

app Server[svc: Looping] {
	fn main() {}
}
`)
	solver := NewDISolver()
	if err := solver.Run(prog, ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ctx.HasErrors() {
		t.Fatal("expected a diagnostic since Looping cannot be constructed at all")
	}
}
