package ast

import (
	"testing"

	"github.com/pluto-lang/pluto/internal/lexer"
)

func TestProgramStringOrdersSections(t *testing.T) {
	prog := &Program{
		Functions: []*FunctionDecl{
			{Token: lexer.Token{Literal: "fn"}, Name: "main", Body: &BlockStatement{}},
		},
	}
	s := prog.String()
	if s == "" {
		t.Fatal("expected non-empty program string")
	}
}

func TestNewIDStableAcrossCalls(t *testing.T) {
	a := NewID("function", "main", 0)
	b := NewID("function", "main", 0)
	if a != b {
		t.Fatalf("expected stable id, got %x vs %x", a, b)
	}
	c := NewID("function", "main", 1)
	if a == c {
		t.Fatal("expected different ordinal to change id")
	}
}

func TestFunctionDeclFallibleReflectsErrorSet(t *testing.T) {
	fn := &FunctionDecl{Name: "f"}
	if fn.Fallible() {
		t.Fatal("empty error set should be infallible")
	}
	fn.ErrorSet = map[ID]string{NewID("error", "E", 0): "E"}
	if !fn.Fallible() {
		t.Fatal("non-empty error set should be fallible")
	}
}

func TestClassDeclHasDeps(t *testing.T) {
	c := &ClassDecl{Name: "C"}
	if c.HasDeps() {
		t.Fatal("no deps declared")
	}
	c.Deps = []*BracketDep{{Name: "b", Type: &NamedType{Name: "B"}}}
	if !c.HasDeps() {
		t.Fatal("expected HasDeps true")
	}
}

func TestMerge(t *testing.T) {
	p1 := &Program{Functions: []*FunctionDecl{{Name: "a"}}}
	p2 := &Program{Functions: []*FunctionDecl{{Name: "b"}}}
	p1.Merge(p2)
	if len(p1.Functions) != 2 {
		t.Fatalf("expected 2 functions after merge, got %d", len(p1.Functions))
	}
}
