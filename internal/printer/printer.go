// Package printer renders an *ast.Program back to Pluto source text. The
// output must reparse to an AST with the same declaration IDs, since
// ast.NewID derives IDs from declaration kind, name, and ordinal rather
// than position.
package printer

import (
	"github.com/pluto-lang/pluto/internal/ast"
)

// Print renders prog using each node's String() method, which already
// produces syntactically valid Pluto source (the AST's String() methods
// double as the pretty-printer, following the same node-by-node shape the
// parser builds).
func Print(prog *ast.Program) string {
	return prog.String()
}
