// Package config loads the datawash runtime configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	yaml "gopkg.in/yaml.v3"
)

type Config struct {
	Store struct {
		// Root is the directory that object keys resolve under.
		Root      string `json:"root" yaml:"root" toml:"root"`
		Encoding  string `json:"encoding" yaml:"encoding" toml:"encoding"`
		Delimiter string `json:"delimiter" yaml:"delimiter" toml:"delimiter"`
	} `json:"store" yaml:"store" toml:"store"`
	// Registry optionally replaces the built-in dataset registry.
	Registry string `json:"registry" yaml:"registry" toml:"registry"`
	Log      struct {
		Level  string `json:"level" yaml:"level" toml:"level"`
		Format string `json:"format" yaml:"format" toml:"format"` // json|console
	} `json:"log" yaml:"log" toml:"log"`
	Metrics struct {
		Addr string `json:"addr" yaml:"addr" toml:"addr"`
	} `json:"metrics" yaml:"metrics" toml:"metrics"`
	// Schedule is a cron spec; each firing processes the previous month.
	Schedule string `json:"schedule" yaml:"schedule" toml:"schedule"`
	// Parallel bounds concurrent dataset runs; 0 means one per dataset.
	Parallel int `json:"parallel" yaml:"parallel" toml:"parallel"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	var c Config
	c.Store.Root = "data"
	c.Store.Encoding = "euc-kr"
	c.Store.Delimiter = ","
	c.Log.Level = "info"
	c.Log.Format = "json"
	return c
}

// Load reads path over the defaults; the format follows the extension
// (.yaml, .yml, .toml or .json).
func Load(path string) (Config, error) {
	c := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := Parse(b, strings.TrimPrefix(filepath.Ext(path), "."), &c); err != nil {
		return c, fmt.Errorf("%s: %w", path, err)
	}
	return c, c.Validate()
}

// Parse decodes b into c, leaving fields absent from the document untouched.
func Parse(b []byte, format string, c *Config) error {
	switch strings.ToLower(format) {
	case "yaml", "yml":
		return yaml.Unmarshal(b, c)
	case "toml":
		return toml.Unmarshal(b, c)
	case "json":
		return json.Unmarshal(b, c)
	}
	return fmt.Errorf("unsupported config format %q", format)
}

// Delimiter returns the configured CSV delimiter; 0 asks the reader to sniff.
func (c Config) Delimiter() rune {
	if c.Store.Delimiter == "" {
		return 0
	}
	return []rune(c.Store.Delimiter)[0]
}

func (c Config) Validate() error {
	if c.Store.Root == "" {
		return fmt.Errorf("store.root is required")
	}
	if n := len([]rune(c.Store.Delimiter)); n > 1 {
		return fmt.Errorf("store.delimiter must be a single character, got %q", c.Store.Delimiter)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("log.format must be json or console, got %q", c.Log.Format)
	}
	if c.Parallel < 0 {
		return fmt.Errorf("parallel must not be negative")
	}
	return nil
}
