package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pluto-lang/pluto/internal/ast"
	"github.com/pluto-lang/pluto/internal/compiler"
	"github.com/pluto-lang/pluto/internal/config"
	"github.com/pluto-lang/pluto/internal/diag"
	"github.com/pluto-lang/pluto/internal/loader"
	"github.com/pluto-lang/pluto/internal/lower"

	_ "github.com/pluto-lang/pluto/internal/sema" // registers the standard pipeline passes
)

var moduleSearchPaths []string

// loadProgram reads filename, resolves its imports against the project's
// plutoc.yaml configuration (falling back to sane defaults when absent),
// and merges every imported module's declarations into one *ast.Program
// ready for the semantic pipeline.
func loadProgram(filename string) (*ast.Program, string, error) {
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", filename, err)
	}

	cfg, err := config.Load(filepath.Dir(filename))
	if err != nil {
		return nil, "", fmt.Errorf("loading plutoc.yaml: %w", err)
	}
	roots := append(append([]string{}, moduleSearchPaths...), cfg.Roots()...)

	cache := loader.NewCache(roots...)
	entry, err := cache.LoadEntry(filename)
	if err != nil {
		return nil, "", err
	}

	prog := entry.Program
	for _, mod := range cache.Modules() {
		prog.Merge(mod.Program)
	}
	return prog, string(src), nil
}

// runPipeline runs the full semantic pipeline over prog and returns the
// Context carrying the registry and any diagnostics it accumulated.
func runPipeline(prog *ast.Program, filename, source string) (*compiler.Context, error) {
	ctx := compiler.NewContext(filename, source)
	pipeline := compiler.NewStandardPipeline()
	if err := pipeline.Run(prog, ctx); err != nil {
		return ctx, err
	}
	return ctx, nil
}

// formatDiagnostics renders every diagnostic a pipeline run collected.
func formatDiagnostics(ctx *compiler.Context, color bool) string {
	return diag.FormatAll(ctx.Sink.Diagnostics, 2, color)
}

// disassembleModule prints a lowered IR module's basic blocks in a
// readable form, one function and block at a time.
func disassembleModule(mod *lower.Module, w io.Writer) {
	for _, fn := range mod.Functions {
		fmt.Fprintf(w, "func %s(%s)", fn.Name, joinStrings(fn.Params))
		if len(fn.ErrorSet) > 0 {
			fmt.Fprintf(w, " ! %s", joinStrings(fn.ErrorSet))
		}
		fmt.Fprintln(w, " {")
		for _, b := range fn.Blocks {
			fmt.Fprintf(w, "  %s:\n", b.Label)
			for _, instr := range b.Instrs {
				fmt.Fprintf(w, "    %T %+v\n", instr, instr)
			}
			fmt.Fprintf(w, "    %T %+v\n", b.Terminator, b.Terminator)
		}
		fmt.Fprintln(w, "}")
	}
}

func joinStrings(xs []string) string {
	out := ""
	for i, x := range xs {
		if i > 0 {
			out += ", "
		}
		out += x
	}
	return out
}
