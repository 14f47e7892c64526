package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pluto-lang/pluto/internal/lower"
	"github.com/spf13/cobra"
)

var (
	outputFile     string
	disassemble    bool
	compileVerbose bool
)

var compileCmd = &cobra.Command{
	Use:   "compile [file]",
	Short: "Compile a Pluto file to its intermediate representation",
	Long: `Compile a Pluto program through the full pipeline — name resolution,
monomorphization, type checking, closure lifting, error-set inference,
dependency-injection graph solving, contract validation, and IR lowering —
and write the resulting IR as JSON.

Examples:
  # Compile a program to IR
  plutoc compile service.pluto

  # Compile with a custom output file
  plutoc compile service.pluto -o service.ir.json

  # Print the lowered blocks to stderr as they're produced
  plutoc compile service.pluto --disassemble`,
	Args: cobra.ExactArgs(1),
	RunE: compileScript,
}

func init() {
	rootCmd.AddCommand(compileCmd)

	compileCmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file (default: <input>.ir.json)")
	compileCmd.Flags().BoolVar(&disassemble, "disassemble", false, "print lowered blocks to stderr after compilation")
	compileCmd.Flags().BoolVarP(&compileVerbose, "verbose", "v", false, "verbose output")
}

func compileScript(_ *cobra.Command, args []string) error {
	filename := args[0]

	if compileVerbose {
		fmt.Fprintf(os.Stderr, "Compiling %s...\n", filename)
	}

	prog, source, err := loadProgram(filename)
	if err != nil {
		return err
	}

	ctx, err := runPipeline(prog, filename, source)
	if err != nil {
		return err
	}
	if ctx.Sink.HasErrors() {
		fmt.Fprint(os.Stderr, formatDiagnostics(ctx, true))
		return fmt.Errorf("compilation failed with %d error(s)", len(ctx.Sink.Diagnostics))
	}

	lowerer := lower.NewLowerer()
	if err := lowerer.Run(prog, ctx); err != nil {
		return fmt.Errorf("IR lowering failed: %w", err)
	}
	mod := lowerer.Module()

	if compileVerbose {
		fmt.Fprintf(os.Stderr, "Lowered %d function(s)\n", len(mod.Functions))
	}

	if disassemble {
		fmt.Fprintf(os.Stderr, "\n== Lowered IR (%s) ==\n", filename)
		disassembleModule(mod, os.Stderr)
		fmt.Fprintln(os.Stderr)
	}

	doc, err := lower.ToJSON(mod)
	if err != nil {
		return fmt.Errorf("encoding IR: %w", err)
	}

	outFile := outputFile
	if outFile == "" {
		ext := filepath.Ext(filename)
		if ext != "" {
			outFile = strings.TrimSuffix(filename, ext) + ".ir.json"
		} else {
			outFile = filename + ".ir.json"
		}
	}

	if err := os.WriteFile(outFile, []byte(doc), 0644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", outFile, err)
	}

	if compileVerbose {
		fmt.Fprintf(os.Stderr, "IR written to %s (%d bytes)\n", outFile, len(doc))
	} else {
		fmt.Printf("Compiled %s -> %s\n", filename, outFile)
	}

	return nil
}
