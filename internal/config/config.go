// Package config loads settings for the jedit command-line tool from a TOML
// file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileName is the name of the file searched for by Find.
const FileName = ".jedit.toml"

// Config holds settings for the jedit tool. Each field may be overridden by
// a command-line flag.
type Config struct {
	// Write documents in pretty form rather than plain form.
	Pretty bool `toml:"pretty"`

	// Accept input with comments and trailing commas.
	JWCC bool `toml:"jwcc"`

	// Tokenize with the two-pass fixed-capacity strategy.
	Bounded bool `toml:"bounded"`

	// Logging verbosity: 0 logs notices and errors, 1 adds progress, 2 adds
	// debugging detail.
	Verbosity int `toml:"verbosity"`

	// Path is the file the settings were read from (set at load time).
	Path string `toml:"-"`
}

// Load reads settings from the TOML file at path. Unknown keys are reported
// as an error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	var c Config
	md, err := toml.Decode(string(data), &c)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if extra := md.Undecoded(); len(extra) != 0 {
		keys := make([]string, len(extra))
		for i, k := range extra {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown settings in %s: %s", path, strings.Join(keys, ", "))
	}
	if c.Verbosity < 0 {
		return nil, fmt.Errorf("invalid verbosity %d in %s", c.Verbosity, path)
	}
	c.Path = path
	return &c, nil
}

// Find walks up from startDir looking for a settings file, and loads the
// first one found. It returns an empty Config if there is none.
func Find(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}
	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return new(Config), nil
		}
		dir = parent
	}
}
