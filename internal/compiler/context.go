// Package compiler wires the pipeline stages — parsing, name resolution,
// monomorphization, type inference, error-set inference, closure lifting,
// DI graph solving, contract validation, and IR lowering — into a single
// ordered Pipeline over a shared Context.
package compiler

import (
	"github.com/pluto-lang/pluto/internal/ast"
	"github.com/pluto-lang/pluto/internal/diag"
	"github.com/pluto-lang/pluto/internal/types"
)

// Context carries everything a Pass needs, explicitly, instead of relying
// on package-level mutable state: the file being compiled, its source
// text (for diagnostic rendering), the type registry populated by the
// name resolver, and the diagnostic sink every pass appends to.
type Context struct {
	File     string
	Source   string
	Registry *types.Registry
	Sink     *diag.Sink

	// ClosureOrdinal feeds the closure lifter's __closure_N naming; kept
	// here so re-running passes (e.g. in tests) produces stable names.
	ClosureOrdinal int

	// DIOrder is the dependency-injection construction order the DI
	// solver computed, published here since pass instances don't outlive
	// Pipeline.Run.
	DIOrder []string
}

// NewContext constructs a Context ready for a fresh compile of one file.
func NewContext(file, source string) *Context {
	return &Context{
		File:     file,
		Source:   source,
		Registry: types.NewRegistry(),
		Sink:     &diag.Sink{},
	}
}

func (c *Context) Errorf(phase diag.Phase, pos ast.Node, format string, args ...any) {
	c.Sink.Add(diag.New(phase, spanOf(pos), sprintf(format, args...), c.Source, c.File))
}

func (c *Context) Warnf(phase diag.Phase, pos ast.Node, format string, args ...any) {
	c.Sink.Add(diag.NewWarning(phase, spanOf(pos), sprintf(format, args...), c.Source, c.File))
}

func (c *Context) HasErrors() bool { return c.Sink.HasErrors() }
