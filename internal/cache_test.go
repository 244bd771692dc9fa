package internal

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnoswap-labs/tuck/meta"
)

func TestCache(t *testing.T) {
	t.Parallel()
	tmpDir := createTempDir(t, "cache-test")
	cache := NewCache(0)
	prog := meta.MustCompile("ws~;")

	t.Run("NotFound", func(t *testing.T) {
		_, found := cache.GetFile("nonexistent.tuck")
		assert.False(t, found)
		_, found = cache.GetSource("a: b;")
		assert.False(t, found)
	})

	t.Run("Source", func(t *testing.T) {
		cache.SetSource("ws~;", prog)
		got, found := cache.GetSource("ws~;")
		require.True(t, found)
		assert.Same(t, prog, got)

		_, found = cache.GetSource("ws~; ")
		assert.False(t, found)
	})

	t.Run("FileModified", func(t *testing.T) {
		filename := filepath.Join(tmpDir, "modified.tuck")
		writeTestFile(t, filename, "ws~;")

		require.NoError(t, cache.SetFile(filename, prog))
		got, found := cache.GetFile(filename)
		require.True(t, found)
		assert.Same(t, prog, got)

		writeTestFile(t, filename, "ws~;\na: b;")
		_, found = cache.GetFile(filename)
		assert.False(t, found)
	})

	t.Run("FileRemoved", func(t *testing.T) {
		filename := filepath.Join(tmpDir, "removed.tuck")
		writeTestFile(t, filename, "ws~;")
		require.NoError(t, cache.SetFile(filename, prog))
		require.NoError(t, os.Remove(filename))

		_, found := cache.GetFile(filename)
		assert.False(t, found)
		assert.Error(t, cache.SetFile(filename, prog))
	})
}

func TestCacheExpiry(t *testing.T) {
	t.Parallel()
	cache := NewCache(time.Hour)
	prog := meta.MustCompile("ws~;")

	cache.SetSource("ws~;", prog)
	_, found := cache.GetSource("ws~;")
	assert.True(t, found)

	cache.SetMaxAge(time.Nanosecond)
	time.Sleep(time.Millisecond)
	_, found = cache.GetSource("ws~;")
	assert.False(t, found)
	assert.Equal(t, 0, cache.Len())
}

func TestCacheInvalidateAll(t *testing.T) {
	t.Parallel()
	cache := NewCache(0)
	cache.SetSource("a~;", meta.MustCompile("a~;"))
	cache.SetSource("b~;", meta.MustCompile("b~;"))
	assert.Equal(t, 2, cache.Len())

	cache.InvalidateAll()
	assert.Equal(t, 0, cache.Len())
	_, found := cache.GetSource("a~;")
	assert.False(t, found)
}

func TestCacheConcurrency(t *testing.T) {
	t.Parallel()
	tempDir := createTempDir(t, "cache-concurrency-test")
	cache := NewCache(0)
	prog := meta.MustCompile("ws~;")

	testFile := filepath.Join(tempDir, "test.tuck")
	writeTestFile(t, testFile, "ws~;")

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			assert.NoError(t, cache.SetFile(testFile, prog))
		}()
		go func() {
			defer wg.Done()
			_, _ = cache.GetFile(testFile)
		}()
	}
	wg.Wait()

	_, found := cache.GetFile(testFile)
	assert.True(t, found)
}

// createTempDir creates a temporary directory removed when the test ends.
func createTempDir(t testing.TB, prefix string) string {
	tempDir, err := os.MkdirTemp("", prefix)
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tempDir) })
	return tempDir
}

func writeTestFile(t testing.TB, filename string, content string) {
	err := os.WriteFile(filename, []byte(content), 0o644)
	require.NoError(t, err)

	// make sure a later write gets a different modification time
	time.Sleep(10 * time.Millisecond)
}
