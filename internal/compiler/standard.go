package compiler

// StandardPipeline is built by cmd/plutoc from the sema package's passes
// in a fixed order: name resolution and monomorphization must run before
// type inference can see every call site's concrete argument types;
// closure lifting must run before error-set inference so a lifted
// closure is a normal call-graph node; contract validation runs last,
// after the DI graph is solved, since it needs the Liskov precondition
// data the resolver attached to the registry.
//
// It's a function rather than a package-level var because each pass
// instance carries its own mutable scan state (the closure lifter's
// ordinal counter, the monomorphizer's instantiation cache) and must not
// be shared across concurrent compiles.
type PassFactory func() Pass

var standardFactories []PassFactory

// RegisterStandardPass appends a pass factory to the standard pipeline
// order. Called from sema's package init so compiler itself never needs
// to import sema (which would create an import cycle, since sema imports
// compiler for Context and Pass).
func RegisterStandardPass(f PassFactory) {
	standardFactories = append(standardFactories, f)
}

// NewStandardPipeline builds a fresh Pipeline instance with every
// registered pass, in registration order.
func NewStandardPipeline() *Pipeline {
	passes := make([]Pass, 0, len(standardFactories))
	for _, f := range standardFactories {
		passes = append(passes, f())
	}
	return NewPipeline(passes...)
}
