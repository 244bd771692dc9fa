package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [grammar]",
	Short: "Compile a grammar and report errors without running it",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			config.Grammar = args[0]
		}
		prog, err := compileGrammar(newEngine())
		if err != nil {
			return err
		}
		fmt.Printf("%s: ok, %s\n", config.Grammar, describe(prog))
		if verbose {
			fmt.Print(prog.String())
		}
		return nil
	},
}
