package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/tuck/internal"
	"github.com/gnoswap-labs/tuck/meta"
	"github.com/gnoswap-labs/tuck/query"
)

const stdinName = "<stdin>"

var (
	jsonOutput bool
	selectExpr string
	outPath    string
)

var runCmd = &cobra.Command{
	Use:   "run [paths...]",
	Short: "Run the grammar over files, directories or standard input",
	RunE: func(cmd *cobra.Command, args []string) error {
		var sel *query.Selector
		if selectExpr != "" {
			var err error
			if sel, err = query.Compile(selectExpr); err != nil {
				return err
			}
		}
		return runGrammar(args, sel)
	},
}

func init() {
	runCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output forests in JSON format")
	runCmd.Flags().StringVar(&selectExpr, "select", "", "Only print nodes matching this selector")
	runCmd.Flags().StringVarP(&outPath, "output", "o", "", "Output path (when using JSON)")
}

func runGrammar(paths []string, sel *query.Selector) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	engine := newEngine()
	prog, err := compileGrammar(engine)
	if err != nil {
		return err
	}

	var results []internal.Result
	if len(paths) == 0 {
		text, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("error reading standard input: %w", err)
		}
		results = []internal.Result{{Filename: stdinName, Forest: engine.Run(prog, string(text))}}
	} else {
		results, err = internal.ProcessPaths(ctx, logger, paths, internal.ProcessOptions{
			Accept:   config.HasExtension,
			Progress: progressWriter(),
		}, func(path string) (internal.Result, error) {
			return engine.RunFile(prog, path)
		})
		if err != nil {
			return err
		}
	}

	if sel != nil {
		for i := range results {
			results[i].Forest = sel.Select(results[i].Forest)
		}
	}
	return printResults(results, jsonOutput || config.Output == internal.OutputJSON, outPath)
}

// progressWriter returns where progress bars go: stderr, unless forests
// are being written there as JSON for another program.
func progressWriter() io.Writer {
	if jsonOutput && outPath == "" {
		return nil
	}
	return os.Stderr
}

func printResults(results []internal.Result, isJSON bool, jsonPath string) error {
	if !isJSON {
		for _, res := range results {
			fmt.Print(internal.FormatResult(res))
		}
		return nil
	}

	forests := make(map[string][]internal.JSONNode, len(results))
	for _, res := range results {
		forests[res.Filename] = internal.ToJSON(res.Forest)
	}
	d, err := json.Marshal(forests)
	if err != nil {
		logger.Error("Error marshalling forests to JSON", zap.Error(err))
		return err
	}
	if jsonPath == "" {
		fmt.Println(string(d))
		return nil
	}
	if err := os.WriteFile(jsonPath, d, 0o644); err != nil {
		logger.Error("Error writing JSON output file", zap.Error(err))
		return err
	}
	return nil
}

// describe is a one-line summary of a compiled program.
func describe(prog *meta.Program) string {
	return fmt.Sprintf("%d rules, %d definitions", len(prog.Rules), len(prog.Definitions))
}
