package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/tuck/internal"
	"github.com/gnoswap-labs/tuck/meta"
)

const defaultTimeout = 5 * time.Minute

var (
	cfgFile     string
	grammarFile string
	timeout     time.Duration
	verbose     bool

	logger *zap.Logger
	config internal.Config
)

var rootCmd = &cobra.Command{
	Use:              "tuck [paths...]",
	Short:            "tuck - rewrite text into labeled trees with a grammar",
	TraverseChildren: true, // Prioritize subcommands
	SilenceUsage:     true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if verbose {
			logger, err = zap.NewDevelopment()
		} else {
			logger, err = zap.NewProduction()
		}
		if err != nil {
			return fmt.Errorf("error creating logger: %w", err)
		}
		return loadConfig(cmd.Flags().Changed("config"))
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// no subcommand
		if len(args) == 0 {
			return cmd.Help()
		}
		// Format: tuck [path1 path2 ...] => behaves like the run subcommand
		return runCmd.RunE(runCmd, args)
	},
}

func Execute() error {
	defer func() {
		if logger != nil {
			_ = logger.Sync()
		}
	}()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", internal.DefaultConfigFile, "Path to the configuration file")
	rootCmd.PersistentFlags().StringVarP(&grammarFile, "grammar", "g", "", "Grammar file (overrides the configuration)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", defaultTimeout, "Set a timeout for processing")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every rewrite")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(replCmd)
}

// loadConfig reads the configuration file. A missing file at the default
// location is not an error.
func loadConfig(explicit bool) error {
	var err error
	config, err = internal.LoadConfig(cfgFile)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		config = internal.DefaultConfig()
		err = nil
	}
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}
	if grammarFile != "" {
		config.Grammar = grammarFile
	}
	return nil
}

func newEngine() *internal.Engine {
	return internal.NewEngine(logger, internal.NewCache(config.CacheMaxAge))
}

// compileGrammar compiles the configured grammar, printing compilation
// errors against the grammar source.
func compileGrammar(engine *internal.Engine) (*meta.Program, error) {
	prog, err := engine.CompileFile(config.Grammar)
	if err == nil {
		return prog, nil
	}
	var cerr *meta.CompileError
	if errors.As(err, &cerr) {
		if source, rerr := os.ReadFile(config.Grammar); rerr == nil {
			fmt.Fprint(os.Stderr, internal.FormatCompileError(config.Grammar, string(source), cerr))
		}
	}
	return nil, err
}
