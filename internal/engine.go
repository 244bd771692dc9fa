package internal

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gnoswap-labs/tuck/meta"
)

// Engine compiles grammars, caching the results, and runs them over
// target text.
type Engine struct {
	logger *zap.Logger
	cache  *Cache
}

// NewEngine creates an engine. A nil logger discards all output and a nil
// cache gets replaced by one without expiry.
func NewEngine(logger *zap.Logger, cache *Cache) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cache == nil {
		cache = NewCache(0)
	}
	return &Engine{logger: logger, cache: cache}
}

func (e *Engine) Cache() *Cache { return e.cache }

// Compile compiles grammar source.
func (e *Engine) Compile(source string) (*meta.Program, error) {
	if prog, ok := e.cache.GetSource(source); ok {
		e.logger.Debug("grammar cache hit")
		return prog, nil
	}

	prog, err := meta.Compile(source)
	if err != nil {
		return nil, err
	}
	e.cache.SetSource(source, prog)
	e.logger.Debug("grammar compiled", zap.Int("rules", len(prog.Rules)), zap.Int("definitions", len(prog.Definitions)))
	return prog, nil
}

// CompileFile compiles the grammar stored in filename. The compiled program
// is reused for as long as the file stays unchanged.
func (e *Engine) CompileFile(filename string) (*meta.Program, error) {
	if prog, ok := e.cache.GetFile(filename); ok {
		e.logger.Debug("grammar cache hit", zap.String("file", filename))
		return prog, nil
	}

	source, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading grammar: %w", err)
	}
	prog, err := meta.Compile(string(source))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	if err := e.cache.SetFile(filename, prog); err != nil {
		e.logger.Warn("failed to cache grammar", zap.String("file", filename), zap.Error(err))
	}
	e.logger.Info("grammar compiled",
		zap.String("file", filename),
		zap.Int("rules", len(prog.Rules)),
		zap.Int("definitions", len(prog.Definitions)))
	return prog, nil
}

// Run applies prog to text. Every rewrite is logged at debug level.
func (e *Engine) Run(prog *meta.Program, text string) []*meta.Node {
	tokens := meta.Tokens(text)
	if !e.logger.Core().Enabled(zapcore.DebugLevel) {
		prog.Execute(&tokens)
		return tokens
	}

	rewrites := 0
	prog.Trace(&tokens, func(rule *meta.Tree, at int, replacement []*meta.Node) {
		rewrites++
		e.logger.Debug("rewrite",
			zap.Stringer("rule", rule),
			zap.Int("at", at),
			zap.Int("nodes", len(replacement)))
	})
	e.logger.Debug("run finished", zap.Int("rewrites", rewrites), zap.Int("nodes", len(tokens)))
	return tokens
}

// RunFile applies prog to the contents of filename.
func (e *Engine) RunFile(prog *meta.Program, filename string) (Result, error) {
	text, err := os.ReadFile(filename)
	if err != nil {
		return Result{}, fmt.Errorf("error reading %s: %w", filename, err)
	}
	return Result{Filename: filename, Forest: e.Run(prog, string(text))}, nil
}
