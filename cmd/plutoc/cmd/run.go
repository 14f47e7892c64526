package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
)

var (
	evalExpr string
	dumpAST  bool
	showDI   bool
	showErrs bool
)

// checkCmd runs the whole semantic pipeline over a program and reports
// whether it is well-formed — there is no bytecode interpreter here, only
// ahead-of-time compilation to the lowered IR (see compileCmd), so this
// command is the fastest way to see the diagnostics and derived facts
// (DI order, inferred error sets) a compile would produce.
var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Run the full semantic pipeline and report diagnostics",
	Long: `check parses a program, runs every semantic pass — name resolution,
monomorphization, type checking, closure lifting, error-set inference,
dependency-injection graph solving, and contract validation — and prints
any diagnostics it collects.

Examples:
  # Check a program for errors
  plutoc check service.pluto

  # Also print the inferred DI construction order
  plutoc check --show-di service.pluto

  # Also print each function's inferred error set
  plutoc check --show-errors service.pluto`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "check inline code instead of reading from file (reserved, not yet wired to stdin/-e source selection)")
	checkCmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "print the parsed program before checking")
	checkCmd.Flags().BoolVar(&showDI, "show-di", false, "print the resolved dependency-injection construction order")
	checkCmd.Flags().BoolVar(&showErrs, "show-errors", false, "print each function's inferred error set")
}

func runCheck(_ *cobra.Command, args []string) error {
	filename := args[0]

	prog, source, err := loadProgram(filename)
	if err != nil {
		return err
	}

	if dumpAST {
		fmt.Println(prog.String())
		fmt.Println()
	}

	ctx, err := runPipeline(prog, filename, source)
	if err != nil {
		return err
	}

	if ctx.Sink.HasErrors() {
		fmt.Fprint(os.Stderr, formatDiagnostics(ctx, true))
		return fmt.Errorf("check failed with %d error(s)", len(ctx.Sink.Diagnostics))
	}
	if len(ctx.Sink.Diagnostics) > 0 {
		fmt.Fprint(os.Stderr, formatDiagnostics(ctx, true))
	}

	if showDI {
		fmt.Println("Dependency-injection construction order:")
		for i, name := range ctx.DIOrder {
			fmt.Printf("  %d. %s\n", i+1, name)
		}
	}

	if showErrs {
		fmt.Println("Inferred error sets:")
		for _, fn := range prog.Functions {
			names := make([]string, 0, len(fn.ErrorSet))
			for _, n := range fn.ErrorSet {
				names = append(names, n)
			}
			sort.Strings(names)
			if len(names) == 0 {
				fmt.Printf("  %s: (none)\n", fn.Name)
				continue
			}
			fmt.Printf("  %s: %v\n", fn.Name, names)
		}
	}

	fmt.Printf("%s: OK\n", filename)
	return nil
}
