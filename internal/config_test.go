package internal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigRoundTrip(t *testing.T) {
	t.Parallel()
	tmpDir := createTempDir(t, "config-test")
	path := filepath.Join(tmpDir, DefaultConfigFile)

	config := DefaultConfig()
	config.Extensions = []string{".calc", ".txt"}
	config.Output = OutputJSON
	config.CacheMaxAge = 90 * time.Second
	require.NoError(t, WriteConfig(path, config))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, config, loaded)
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()
	tmpDir := createTempDir(t, "config-load-test")

	tests := []struct {
		name     string
		content  string
		expected func(*Config)
		wantErr  bool
	}{
		{
			name:     "empty file keeps defaults",
			content:  "",
			expected: func(*Config) {},
		},
		{
			name:    "partial file",
			content: "grammar: calc.tuck\ncache_max_age: 5m\n",
			expected: func(c *Config) {
				c.Grammar = "calc.tuck"
				c.CacheMaxAge = 5 * time.Minute
			},
		},
		{
			name:    "unknown output",
			content: "output: xml\n",
			wantErr: true,
		},
		{
			name:    "malformed yaml",
			content: "extensions: [\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(tmpDir, filepath.Base(t.Name())+".yaml")
			writeTestFile(t, path, tt.content)

			config, err := LoadConfig(path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			expected := DefaultConfig()
			tt.expected(&expected)
			assert.Equal(t, expected, config)
		})
	}

	_, err := LoadConfig(filepath.Join(tmpDir, "missing.yaml"))
	assert.Error(t, err)
}

func TestHasExtension(t *testing.T) {
	t.Parallel()
	config := Config{Extensions: []string{".txt", ".calc"}}
	assert.True(t, config.HasExtension("dir/a.txt"))
	assert.True(t, config.HasExtension("b.calc"))
	assert.False(t, config.HasExtension("c.go"))
	assert.False(t, config.HasExtension("txt"))

	assert.True(t, Config{}.HasExtension("anything"))
}
