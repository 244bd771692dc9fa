package internal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const DefaultConfigFile = ".tuck.yaml"

// Output formats.
const (
	OutputTree = "tree"
	OutputJSON = "json"
)

// Config is the contents of a .tuck.yaml file.
type Config struct {
	Name string `yaml:"name"`
	// Grammar is the path of the grammar file, relative to the working
	// directory.
	Grammar string `yaml:"grammar"`
	// Extensions selects the files processed when a directory is given.
	Extensions  []string      `yaml:"extensions"`
	Output      string        `yaml:"output"`
	CacheMaxAge time.Duration `yaml:"cache_max_age"`
}

func DefaultConfig() Config {
	return Config{
		Name:        "tuck",
		Grammar:     "grammar.tuck",
		Extensions:  []string{".txt"},
		Output:      OutputTree,
		CacheMaxAge: 10 * time.Minute,
	}
}

// LoadConfig reads a configuration file. Fields missing from the file keep
// their default values.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	f, err := os.Open(path)
	if err != nil {
		return config, err
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return config, fmt.Errorf("error decoding %s: %w", path, err)
	}

	switch config.Output {
	case OutputTree, OutputJSON:
	default:
		return config, fmt.Errorf("unknown output format %q", config.Output)
	}
	return config, nil
}

func WriteConfig(path string, config Config) error {
	d, err := yaml.Marshal(config)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(d)
	return err
}

// HasExtension reports whether path ends in one of the configured
// extensions. An empty list accepts every file.
func (c Config) HasExtension(path string) bool {
	if len(c.Extensions) == 0 {
		return true
	}
	ext := filepath.Ext(path)
	for _, e := range c.Extensions {
		if e == ext {
			return true
		}
	}
	return false
}
