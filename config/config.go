// Package config handles stuffbox.toml configuration for the stuffbox
// inspector.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the configuration file looked up by Load and FindAndLoad.
const FileName = "stuffbox.toml"

// Strategy names understood by stuffbox.
const (
	StrategyNaNBox    = "nanbox"
	StrategyImmediate = "immediate"
)

// Output formats understood by stuffbox.
const (
	FormatText = "text"
	FormatCBOR = "cbor"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid configuration")

// Config represents a stuffbox.toml file.
type Config struct {
	Box Box `toml:"box"`
	Log Log `toml:"log"`

	// Path is the file the configuration was read from (set at load time).
	Path string `toml:"-"`
}

// Box selects how values are boxed and printed.
type Box struct {
	Strategy string `toml:"strategy"`
	Format   string `toml:"format"`

	// Compress zstd-compresses cbor output.
	Compress bool `toml:"compress"`
}

// Log configures commonlog.
type Log struct {
	Verbosity int    `toml:"verbosity"`
	File      string `toml:"file"`
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load parses stuffbox.toml from the given directory.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var c Config
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	c.Path, err = filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", path, err)
	}

	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &c, nil
}

// FindAndLoad walks up from startDir to find a stuffbox.toml file and loads
// it. Returns Default() if no file is found.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, FileName)); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return Default(), nil
		}
		dir = parent
	}
}

func (c *Config) applyDefaults() {
	if c.Box.Strategy == "" {
		c.Box.Strategy = StrategyNaNBox
	}
	if c.Box.Format == "" {
		c.Box.Format = FormatText
	}
}

// Validate checks the strategy and format names and the log settings.
func (c *Config) Validate() error {
	switch c.Box.Strategy {
	case StrategyNaNBox, StrategyImmediate:
	default:
		return fmt.Errorf("%w: unknown strategy %q", ErrInvalid, c.Box.Strategy)
	}
	switch c.Box.Format {
	case FormatText, FormatCBOR:
	default:
		return fmt.Errorf("%w: unknown format %q", ErrInvalid, c.Box.Format)
	}
	if c.Box.Compress && c.Box.Format != FormatCBOR {
		return fmt.Errorf("%w: compress requires format %q", ErrInvalid, FormatCBOR)
	}
	if c.Log.Verbosity < 0 {
		return fmt.Errorf("%w: negative log verbosity", ErrInvalid)
	}
	return nil
}
