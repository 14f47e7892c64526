package compiler

import (
	"github.com/pluto-lang/pluto/internal/ast"
)

// Pass is a single pipeline stage. The multi-pass architecture mirrors a
// classic compiler middle-end: each stage reads and annotates the shared
// Context and AST, collects diagnostics, and stops the pipeline only on a
// fatal internal error — semantic errors are reported via the Context's
// diagnostic sink, not returned here.
type Pass interface {
	Name() string
	Run(prog *ast.Program, ctx *Context) error
}

// Pipeline runs a fixed, ordered sequence of passes. The order matters:
// closures must be lifted before error-set inference runs, since a lifted
// closure becomes its own fixpoint participant in the call graph.
type Pipeline struct {
	passes []Pass
}

// NewPipeline builds a Pipeline from passes, executed in the given order.
func NewPipeline(passes ...Pass) *Pipeline {
	return &Pipeline{passes: passes}
}

// Run executes every pass in order, stopping early if a pass reports a
// fatal error or the Context has accumulated error-severity diagnostics.
func (pl *Pipeline) Run(prog *ast.Program, ctx *Context) error {
	for _, pass := range pl.passes {
		if err := pass.Run(prog, ctx); err != nil {
			return err
		}
		if ctx.HasErrors() {
			break
		}
	}
	return nil
}

func (pl *Pipeline) Passes() []Pass { return pl.passes }

func (pl *Pipeline) AddPass(p Pass) { pl.passes = append(pl.passes, p) }
