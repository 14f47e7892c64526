package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/pluto-lang/pluto/internal/parser"
	"github.com/spf13/cobra"
)

var parseDumpAST bool

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse Pluto source code and print its AST",
	Long: `Parse Pluto source code and display the resulting AST.

If no file is provided, reads from stdin.
Use --dump-ast to print one line per top-level declaration instead of
reprinting source.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().BoolVar(&parseDumpAST, "dump-ast", false, "dump the full AST structure")
}

func runParse(cmd *cobra.Command, args []string) error {
	var input string
	var filename string
	if len(args) > 0 {
		filename = args[0]
		data, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("error reading file: %w", err)
		}
		input = string(data)
	} else {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("error reading stdin: %w", err)
		}
		input = string(data)
		filename = "<stdin>"
	}

	p := parser.New(input)
	program := p.ParseProgram()
	if perr := p.Err(); perr != nil {
		fmt.Fprintf(os.Stderr, "Parse error in %s: %s\n", filename, perr.Error())
		return fmt.Errorf("parsing failed")
	}

	if parseDumpAST {
		fmt.Println("Functions:")
		for _, fn := range program.Functions {
			fmt.Printf("  func %s\n", fn.Name)
		}
		fmt.Println("Classes:")
		for _, cls := range program.Classes {
			fmt.Printf("  class %s\n", cls.Name)
		}
		fmt.Println("Errors:")
		for _, e := range program.Errors {
			fmt.Printf("  error %s\n", e.Name)
		}
		if program.App != nil {
			fmt.Printf("App: %s\n", program.App.Name)
		}
	} else {
		fmt.Println(program.String())
	}

	return nil
}
