package sema

import "testing"

func TestContractValidatorAcceptsDecidableFragment(t *testing.T) {
	prog, ctx := parseForSema(t, `
class Account {
	balance: Int

	invariant self.balance >= 0

	fn withdraw(mut self, amount: Int) requires amount > 0 {
		self.balance = self.balance - amount
	}
}
`)
	v := NewContractValidator()
	if err := v.Run(prog, ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ctx.HasErrors() {
		t.Fatalf("expected no diagnostics for a decidable invariant and requires clause, got %v", ctx.Sink.Diagnostics)
	}
}

func TestContractValidatorAcceptsLenCall(t *testing.T) {
	prog, ctx := parseForSema(t, `
class Buffer {
	items: [Int]

	fn pop(mut self) requires self.items.len() > 0 {
		self.items = self.items
	}
}
`)
	v := NewContractValidator()
	if err := v.Run(prog, ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ctx.HasErrors() {
		t.Fatalf("expected .len() requires clause to be decidable, got %v", ctx.Sink.Diagnostics)
	}
}

func TestContractValidatorRejectsArbitraryCall(t *testing.T) {
	prog, ctx := parseForSema(t, `
fn isPrime(n: Int) -> Bool {
	return n > 1
}

fn divide(a: Int, b: Int) -> Int requires isPrime(b) {
	return a / b
}
`)
	v := NewContractValidator()
	if err := v.Run(prog, ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ctx.HasErrors() {
		t.Fatal("expected a diagnostic rejecting a requires clause calling an arbitrary function")
	}
}

func TestContractValidatorEnforcesLiskovPrecondition(t *testing.T) {
	prog, ctx := parseForSema(t, `
trait Shrinkable {
	fn shrink(amount: Int) requires amount > 0
}

class Balloon : Shrinkable {
	size: Int

	fn shrink(mut self, amount: Int) requires amount > 0 && amount < 1000 {
		self.size = self.size - amount
	}
}
`)
	if err := NewResolver().Run(prog, ctx); err != nil {
		t.Fatalf("unexpected resolver error: %v", err)
	}
	v := NewContractValidator()
	if err := v.Run(prog, ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ctx.HasErrors() {
		t.Fatal("expected a Liskov violation diagnostic: the class requires more than the trait promised")
	}
}

func TestContractValidatorAllowsMatchingTraitPrecondition(t *testing.T) {
	prog, ctx := parseForSema(t, `
trait Shrinkable {
	fn shrink(amount: Int) requires amount > 0
}

class Balloon : Shrinkable {
	size: Int

	fn shrink(mut self, amount: Int) requires amount > 0 {
		self.size = self.size - amount
	}
}
`)
	if err := NewResolver().Run(prog, ctx); err != nil {
		t.Fatalf("unexpected resolver error: %v", err)
	}
	v := NewContractValidator()
	if err := v.Run(prog, ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ctx.HasErrors() {
		t.Fatalf("expected no Liskov violation when the class repeats the trait's own precondition, got %v", ctx.Sink.Diagnostics)
	}
}
