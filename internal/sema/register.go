package sema

import "github.com/pluto-lang/pluto/internal/compiler"

// init registers every semantic pass with the compiler package in pipeline
// order, so cmd/plutoc only needs to import sema for its side effect and
// call compiler.NewStandardPipeline() to get a fully wired pipeline.
func init() {
	compiler.RegisterStandardPass(func() compiler.Pass { return NewResolver() })
	compiler.RegisterStandardPass(func() compiler.Pass { return NewMonomorphizer() })
	compiler.RegisterStandardPass(func() compiler.Pass { return NewTypeChecker() })
	compiler.RegisterStandardPass(func() compiler.Pass { return NewClosureLifter() })
	compiler.RegisterStandardPass(func() compiler.Pass { return NewErrorSetInferer() })
	compiler.RegisterStandardPass(func() compiler.Pass { return NewDISolver() })
	compiler.RegisterStandardPass(func() compiler.Pass { return NewContractValidator() })
}
