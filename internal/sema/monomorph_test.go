package sema

import "testing"

func TestMonomorphizerDiscoversInstantiationFromDirectCall(t *testing.T) {
	prog, ctx := parseForSema(t, `
fn identity<T>(x: T) -> T {
	return x
}

fn useIdentity() -> Int {
	return identity(5)
}
`)
	if err := NewResolver().Run(prog, ctx); err != nil {
		t.Fatalf("unexpected resolver error: %v", err)
	}
	if err := NewTypeChecker().Run(prog, ctx); err != nil {
		t.Fatalf("unexpected typecheck error: %v", err)
	}

	mono := NewMonomorphizer()
	if err := mono.Run(prog, ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	insts := mono.Instantiations()
	if len(insts) != 1 {
		t.Fatalf("expected 1 instantiation of identity, got %d: %v", len(insts), insts)
	}
	if insts[0].Name != "identity" {
		t.Errorf("expected instantiation of identity, got %q", insts[0].Name)
	}
	if len(insts[0].Args) != 1 || insts[0].Args[0].String() != "Int" {
		t.Errorf("expected identity<Int>, got args %v", insts[0].Args)
	}
}

func TestMonomorphizerDedupesRepeatedInstantiations(t *testing.T) {
	prog, ctx := parseForSema(t, `
fn identity<T>(x: T) -> T {
	return x
}

fn useTwice() -> Int {
	let a: Int = identity(1)
	let b: Int = identity(2)
	return a + b
}
`)
	if err := NewResolver().Run(prog, ctx); err != nil {
		t.Fatalf("unexpected resolver error: %v", err)
	}
	if err := NewTypeChecker().Run(prog, ctx); err != nil {
		t.Fatalf("unexpected typecheck error: %v", err)
	}

	mono := NewMonomorphizer()
	if err := mono.Run(prog, ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	insts := mono.Instantiations()
	if len(insts) != 1 {
		t.Fatalf("expected identity<Int> to be deduped to 1 instantiation, got %d: %v", len(insts), insts)
	}
}

func TestMonomorphizerIgnoresNonGenericCalls(t *testing.T) {
	prog, ctx := parseForSema(t, `
fn add(a: Int, b: Int) -> Int {
	return a + b
}

fn useAdd() -> Int {
	return add(1, 2)
}
`)
	if err := NewResolver().Run(prog, ctx); err != nil {
		t.Fatalf("unexpected resolver error: %v", err)
	}
	if err := NewTypeChecker().Run(prog, ctx); err != nil {
		t.Fatalf("unexpected typecheck error: %v", err)
	}

	mono := NewMonomorphizer()
	if err := mono.Run(prog, ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(mono.Instantiations()) != 0 {
		t.Fatalf("expected no instantiations for a non-generic call, got %v", mono.Instantiations())
	}
}
