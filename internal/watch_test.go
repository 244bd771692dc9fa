package internal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher(t *testing.T) {
	t.Parallel()
	root := createTempDir(t, "watch-test")
	grammar := filepath.Join(root, "grammar.tuck")
	writeTestFile(t, grammar, wordsGrammar)

	config := Config{Extensions: []string{".txt"}}
	results := make(chan Result, 8)
	w, err := NewWatcher(NewEngine(nil, nil), grammar, []string{root}, config.HasExtension, func(res Result) {
		results <- res
	})
	require.NoError(t, err)
	require.NoError(t, w.Start())
	assert.Error(t, w.Start())

	input := filepath.Join(root, "input.txt")
	writeTestFile(t, input, "watched words")

	select {
	case res := <-results:
		assert.Equal(t, input, res.Filename)
		assert.Len(t, res.Forest, 2)
	case <-time.After(5 * time.Second):
		t.Fatal("no result for written file")
	}

	require.NoError(t, w.Stop())
	assert.Error(t, w.Stop())
}
