package sema

import "testing"

func TestTypeCheckerAcceptsMatchingOperandTypes(t *testing.T) {
	prog, ctx := parseForSema(t, `
fn add(a: Int, b: Int) -> Int {
	return a + b
}
`)
	if err := NewResolver().Run(prog, ctx); err != nil {
		t.Fatalf("unexpected resolver error: %v", err)
	}
	if err := NewTypeChecker().Run(prog, ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ctx.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", ctx.Sink.Diagnostics)
	}
}

func TestTypeCheckerRejectsMismatchedOperandTypes(t *testing.T) {
	prog, ctx := parseForSema(t, `
fn bad(a: Int, b: String) -> Int {
	return a + b
}
`)
	if err := NewResolver().Run(prog, ctx); err != nil {
		t.Fatalf("unexpected resolver error: %v", err)
	}
	if err := NewTypeChecker().Run(prog, ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ctx.HasErrors() {
		t.Fatal("expected a diagnostic for mixing Int and String in '+'")
	}
}

func TestTypeCheckerRejectsWrongReturnType(t *testing.T) {
	prog, ctx := parseForSema(t, `
fn greeting() -> Int {
	return "hello"
}
`)
	if err := NewResolver().Run(prog, ctx); err != nil {
		t.Fatalf("unexpected resolver error: %v", err)
	}
	if err := NewTypeChecker().Run(prog, ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ctx.HasErrors() {
		t.Fatal("expected a diagnostic for returning String where Int is declared")
	}
}

func TestTypeCheckerRejectsNonBoolCondition(t *testing.T) {
	prog, ctx := parseForSema(t, `
fn weird(n: Int) -> Int {
	if n {
		return 1
	}
	return 0
}
`)
	if err := NewResolver().Run(prog, ctx); err != nil {
		t.Fatalf("unexpected resolver error: %v", err)
	}
	if err := NewTypeChecker().Run(prog, ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ctx.HasErrors() {
		t.Fatal("expected a diagnostic for a non-Bool if condition")
	}
}

func TestTypeCheckerRejectsSelfFieldAssignmentWithoutMutSelf(t *testing.T) {
	prog, ctx := parseForSema(t, `
class Account {
	balance: Int

	fn withdraw(self, amount: Int) {
		self.balance = self.balance - amount
	}
}
`)
	if err := NewResolver().Run(prog, ctx); err != nil {
		t.Fatalf("unexpected resolver error: %v", err)
	}
	if err := NewTypeChecker().Run(prog, ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ctx.HasErrors() {
		t.Fatal("expected a diagnostic for assigning self.balance without mut self")
	}
}

func TestTypeCheckerAcceptsSelfFieldAssignmentWithMutSelf(t *testing.T) {
	prog, ctx := parseForSema(t, `
class Account {
	balance: Int

	fn withdraw(mut self, amount: Int) {
		self.balance = self.balance - amount
	}
}
`)
	if err := NewResolver().Run(prog, ctx); err != nil {
		t.Fatalf("unexpected resolver error: %v", err)
	}
	if err := NewTypeChecker().Run(prog, ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ctx.HasErrors() {
		t.Fatalf("expected self.balance assignment under mut self to type-check, got %v", ctx.Sink.Diagnostics)
	}
}

func TestTypeCheckerRejectsFieldAssignmentThroughNonMutBinding(t *testing.T) {
	prog, ctx := parseForSema(t, `
class Account {
	balance: Int
}

fn reset(acct: Account) {
	acct.balance = 0
}
`)
	if err := NewResolver().Run(prog, ctx); err != nil {
		t.Fatalf("unexpected resolver error: %v", err)
	}
	if err := NewTypeChecker().Run(prog, ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ctx.HasErrors() {
		t.Fatal("expected a diagnostic for assigning through a non-mut parameter binding")
	}
}

func TestTypeCheckerAcceptsFieldAssignmentThroughMutBinding(t *testing.T) {
	prog, ctx := parseForSema(t, `
class Account {
	balance: Int
}

fn reset(mut acct: Account) {
	acct.balance = 0
}
`)
	if err := NewResolver().Run(prog, ctx); err != nil {
		t.Fatalf("unexpected resolver error: %v", err)
	}
	if err := NewTypeChecker().Run(prog, ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ctx.HasErrors() {
		t.Fatalf("expected acct.balance assignment through a mut parameter to type-check, got %v", ctx.Sink.Diagnostics)
	}
}

func TestTypeCheckerResolvesClassFieldAccess(t *testing.T) {
	prog, ctx := parseForSema(t, `
class Point {
	x: Int
	y: Int
}

fn sumCoords(p: Point) -> Int {
	return p.x + p.y
}
`)
	if err := NewResolver().Run(prog, ctx); err != nil {
		t.Fatalf("unexpected resolver error: %v", err)
	}
	if err := NewTypeChecker().Run(prog, ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ctx.HasErrors() {
		t.Fatalf("expected field access through a known class to type-check, got %v", ctx.Sink.Diagnostics)
	}
}
