package sema

import (
	"testing"

	"github.com/pluto-lang/pluto/internal/ast"
)

func TestErrorSetInfererCollectsDirectRaise(t *testing.T) {
	prog, ctx := parseForSema(t, `
error InsufficientFunds { amount: Int }

fn withdraw(balance: Int, amount: Int) {
	if amount > balance {
		raise InsufficientFunds{amount: amount}
	}
}
`)
	inferer := NewErrorSetInferer()
	if err := inferer.Run(prog, ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fn := prog.Functions[0]
	if len(fn.ErrorSet) != 1 {
		t.Fatalf("expected 1 error in set, got %v", fn.ErrorSet)
	}
	for _, name := range fn.ErrorSet {
		if name != "InsufficientFunds" {
			t.Errorf("expected InsufficientFunds, got %q", name)
		}
	}
}

func TestErrorSetInfererPropagatesThroughUnhandledBang(t *testing.T) {
	prog, ctx := parseForSema(t, `
error Empty { }

fn first(xs: [Int]) -> Int {
	if xs[0] == 0 {
		raise Empty{}
	}
	return xs[0]
}

fn useFirst(xs: [Int]) -> Int {
	return first(xs)!
}
`)
	inferer := NewErrorSetInferer()
	if err := inferer.Run(prog, ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var first, useFirst *ast.FunctionDecl
	for _, fn := range prog.Functions {
		switch fn.Name {
		case "first":
			first = fn
		case "useFirst":
			useFirst = fn
		}
	}
	if len(first.ErrorSet) != 1 {
		t.Fatalf("expected first to raise 1 error, got %v", first.ErrorSet)
	}
	if len(useFirst.ErrorSet) != 1 {
		t.Fatalf("expected useFirst to inherit the propagated error, got %v", useFirst.ErrorSet)
	}
}

func TestErrorSetInfererStopsAtHandledCatch(t *testing.T) {
	prog, ctx := parseForSema(t, `
error Empty { }

fn first(xs: [Int]) -> Int {
	if xs[0] == 0 {
		raise Empty{}
	}
	return xs[0]
}

fn useFirstSafely(xs: [Int]) -> Int {
	return first(xs)! catch 0
}
`)
	inferer := NewErrorSetInferer()
	if err := inferer.Run(prog, ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var useFirstSafely *ast.FunctionDecl
	for _, fn := range prog.Functions {
		if fn.Name == "useFirstSafely" {
			useFirstSafely = fn
		}
	}
	if len(useFirstSafely.ErrorSet) != 0 {
		t.Fatalf("expected a caught error not to propagate, got %v", useFirstSafely.ErrorSet)
	}
}

func TestErrorSetInfererResolvesMethodCallsByName(t *testing.T) {
	prog, ctx := parseForSema(t, `
error Overdrawn { }

class Account {
	balance: Int

	fn withdraw(mut self, amount: Int) {
		if amount > self.balance {
			raise Overdrawn{}
		}
		self.balance = self.balance - amount
	}
}

fn drain(mut acct: Account) {
	acct.withdraw(acct.balance + 1)!
}
`)
	inferer := NewErrorSetInferer()
	if err := inferer.Run(prog, ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	drain := prog.Functions[0]
	if len(drain.ErrorSet) != 1 {
		t.Fatalf("expected drain to inherit Overdrawn from the method call, got %v", drain.ErrorSet)
	}
}
