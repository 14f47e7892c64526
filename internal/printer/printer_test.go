package printer

import (
	"testing"

	"github.com/pluto-lang/pluto/internal/parser"
)

func TestPrintReparseStableIDs(t *testing.T) {
	src := `
fn add(a: Int, b: Int) -> Int {
	return a + b
}
`
	p1 := parser.New(src)
	prog1 := p1.ParseProgram()
	if err := p1.Err(); err != nil {
		t.Fatal(err)
	}

	out := Print(prog1)

	p2 := parser.New(out)
	prog2 := p2.ParseProgram()
	if err := p2.Err(); err != nil {
		t.Fatalf("reparse of printed output failed: %v\n---\n%s", err, out)
	}

	if len(prog2.Functions) != 1 {
		t.Fatalf("expected 1 function after reparse, got %d", len(prog2.Functions))
	}
	if prog1.Functions[0].ID != prog2.Functions[0].ID {
		t.Fatalf("expected stable declaration ID across print/reparse, got %x vs %x",
			prog1.Functions[0].ID, prog2.Functions[0].ID)
	}
}
