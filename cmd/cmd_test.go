package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/tuck/internal"
	"github.com/gnoswap-labs/tuck/query"
)

// The commands share package state, so these tests run sequentially.

func setup(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	logger = zap.NewNop()
	timeout = defaultTimeout
	cfgFile = filepath.Join(dir, internal.DefaultConfigFile)
	grammarFile = filepath.Join(dir, "grammar.tuck")
	config = internal.DefaultConfig()
	config.Grammar = grammarFile
	t.Cleanup(func() {
		grammarFile = ""
		jsonOutput = false
		outPath = ""
	})
	return dir
}

func TestInitConfigurationFile(t *testing.T) {
	setup(t)
	require.NoError(t, initConfigurationFile(cfgFile))

	loaded, err := internal.LoadConfig(cfgFile)
	require.NoError(t, err)
	assert.Equal(t, grammarFile, loaded.Grammar)

	source, err := os.ReadFile(grammarFile)
	require.NoError(t, err)
	assert.Equal(t, sampleGrammar, string(source))

	// an existing grammar is left alone
	require.NoError(t, os.WriteFile(grammarFile, []byte("ws~;"), 0o644))
	require.NoError(t, initConfigurationFile(cfgFile))
	source, err = os.ReadFile(grammarFile)
	require.NoError(t, err)
	assert.Equal(t, "ws~;", string(source))
}

func TestLoadConfigFallsBackToDefaults(t *testing.T) {
	setup(t)
	require.NoError(t, loadConfig(false))
	assert.Equal(t, grammarFile, config.Grammar)
	assert.Equal(t, internal.OutputTree, config.Output)

	assert.Error(t, loadConfig(true))
}

func TestRunGrammarJSON(t *testing.T) {
	dir := setup(t)
	require.NoError(t, os.WriteFile(grammarFile, []byte(sampleGrammar), 0o644))
	input := filepath.Join(dir, "input.txt")
	require.NoError(t, os.WriteFile(input, []byte("abc 42"), 0o644))

	jsonOutput = true
	outPath = filepath.Join(dir, "out.json")
	require.NoError(t, runGrammar([]string{input}, query.MustCompile("number")))

	d, err := os.ReadFile(outPath)
	require.NoError(t, err)
	var forests map[string][]internal.JSONNode
	require.NoError(t, json.Unmarshal(d, &forests))
	require.Len(t, forests[input], 1)
	assert.Equal(t, "42", forests[input][0].Text)
	assert.Equal(t, []string{"number"}, forests[input][0].Labels)
}

func TestRunGrammarBrokenGrammar(t *testing.T) {
	setup(t)
	require.NoError(t, os.WriteFile(grammarFile, []byte("a: b"), 0o644))
	assert.Error(t, runGrammar([]string{"."}, nil))
}

func TestReplSession(t *testing.T) {
	setup(t)
	require.NoError(t, os.WriteFile(grammarFile, []byte(sampleGrammar), 0o644))
	engine := internal.NewEngine(nil, nil)
	prog, err := compileGrammar(engine)
	require.NoError(t, err)
	s := &replSession{engine: engine, prog: prog}

	out, quit := s.handle("hi 7")
	assert.False(t, quit)
	assert.Contains(t, out, "word")
	assert.Contains(t, out, "number")

	out, _ = s.handle(":select number")
	assert.Empty(t, out)
	out, _ = s.handle("hi 7")
	assert.NotContains(t, out, "word")
	assert.Contains(t, out, `"7"`)

	out, _ = s.handle(":select //")
	assert.Contains(t, out, "invalid selector")

	out, _ = s.handle(":grammar")
	assert.Contains(t, out, "ws~;")

	out, _ = s.handle(":reload")
	assert.Equal(t, "4 rules, 0 definitions\n", out)

	out, _ = s.handle(":nope")
	assert.Contains(t, out, "unknown command")

	_, quit = s.handle(":quit")
	assert.True(t, quit)
}
