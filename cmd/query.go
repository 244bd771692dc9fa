package cmd

import (
	"github.com/spf13/cobra"

	"github.com/gnoswap-labs/tuck/query"
)

var queryCmd = &cobra.Command{
	Use:   "query <selector> [paths...]",
	Short: "Print the nodes a selector picks from each forest",
	Long: `Print the nodes a selector picks from each forest.

A selector is a path of label steps: "/" steps to children, "//" to any
descendant, "*" accepts every node and "a,b" accepts nodes labeled a or b.

  tuck query 'expr//number' input.txt`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sel, err := query.Compile(args[0])
		if err != nil {
			return err
		}
		return runGrammar(args[1:], sel)
	},
}

func init() {
	queryCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output selected nodes in JSON format")
	queryCmd.Flags().StringVarP(&outPath, "output", "o", "", "Output path (when using JSON)")
}
