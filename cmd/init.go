package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/tuck/internal"
)

const sampleGrammar = `# words and numbers, whitespace dropped
%a..z | A..Z | '_'. letter;
%letter+. word;
%0..9+. number;
%ws~;
`

// initCmd: tuck init
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a configuration file and a starter grammar",
	Run: func(cmd *cobra.Command, args []string) {
		if err := initConfigurationFile(cfgFile); err != nil {
			logger.Error("Error initializing config file", zap.Error(err))
			return
		}
		fmt.Printf("Configuration file created/updated: %s\n", cfgFile)
	},
}

// initConfigurationFile writes the default configuration and, unless one
// exists already, the grammar file it names.
func initConfigurationFile(configurationPath string) error {
	if configurationPath == "" {
		configurationPath = internal.DefaultConfigFile
	}

	cfg := internal.DefaultConfig()
	if grammarFile != "" {
		cfg.Grammar = grammarFile
	}
	if err := internal.WriteConfig(configurationPath, cfg); err != nil {
		return err
	}

	_, err := os.Stat(cfg.Grammar)
	if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(cfg.Grammar, []byte(sampleGrammar), 0o644)
}
