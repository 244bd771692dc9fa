package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/tuck/internal"
	"github.com/gnoswap-labs/tuck/meta"
	"github.com/gnoswap-labs/tuck/query"
)

const (
	historyFile = ".tuck_history"
	promptMain  = "tuck> "
	replHelp    = `Each line is run through the grammar and its forest printed.
  :grammar      print the compiled grammar
  :reload       recompile the grammar file
  :select SEL   only print nodes matching SEL (empty to clear)
  :quit         exit`
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Run the grammar over lines typed interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine := newEngine()
		prog, err := compileGrammar(engine)
		if err != nil {
			return err
		}

		ln := liner.NewLiner()
		defer ln.Close()
		ln.SetCtrlCAborts(true)

		if home, err := os.UserHomeDir(); err == nil {
			histPath := filepath.Join(home, historyFile)
			if f, err := os.Open(histPath); err == nil {
				_, _ = ln.ReadHistory(f)
				_ = f.Close()
			}
			defer func() {
				if f, err := os.Create(histPath); err == nil {
					_, _ = ln.WriteHistory(f)
					_ = f.Close()
				}
			}()
		}

		fmt.Println(replHelp)
		s := &replSession{engine: engine, prog: prog}
		for {
			line, err := ln.Prompt(promptMain)
			if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
				fmt.Println()
				return nil
			}
			if err != nil {
				return err
			}
			if strings.TrimSpace(line) == "" {
				continue
			}
			ln.AppendHistory(line)

			out, quit := s.handle(line)
			fmt.Print(out)
			if quit {
				return nil
			}
		}
	},
}

type replSession struct {
	engine *internal.Engine
	prog   *meta.Program
	sel    *query.Selector
}

// handle evaluates one line of input and returns what to print.
func (s *replSession) handle(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, ":") {
		forest := s.engine.Run(s.prog, line)
		if s.sel != nil {
			forest = s.sel.Select(forest)
		}
		return internal.FormatForest(forest), false
	}

	command, arg, _ := strings.Cut(trimmed, " ")
	switch command {
	case ":quit", ":q":
		return "", true
	case ":grammar":
		return s.prog.String(), false
	case ":reload":
		prog, err := compileGrammar(s.engine)
		if err != nil {
			logger.Error("Error reloading grammar", zap.Error(err))
			return err.Error() + "\n", false
		}
		s.prog = prog
		return describe(prog) + "\n", false
	case ":select":
		arg = strings.TrimSpace(arg)
		if arg == "" {
			s.sel = nil
			return "", false
		}
		sel, err := query.Compile(arg)
		if err != nil {
			return err.Error() + "\n", false
		}
		s.sel = sel
		return "", false
	}
	return "unknown command\n" + replHelp + "\n", false
}
