package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/tuck/internal"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dirs...]",
	Short: "Rerun the grammar on input files whenever they change",
	RunE: func(cmd *cobra.Command, args []string) error {
		dirs := args
		if len(dirs) == 0 {
			dirs = []string{"."}
		}

		engine := newEngine()
		// fail early on a broken grammar; later edits are picked up per event
		if _, err := compileGrammar(engine); err != nil {
			return err
		}

		w, err := internal.NewWatcher(engine, config.Grammar, dirs, config.HasExtension, func(res internal.Result) {
			fmt.Print(internal.FormatResult(res))
		})
		if err != nil {
			return err
		}
		if err := w.Start(); err != nil {
			return err
		}
		logger.Info("watching", zap.Strings("dirs", dirs), zap.String("grammar", config.Grammar))

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		<-ctx.Done()

		return w.Stop()
	},
}
