package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0644))
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
[box]
strategy = "immediate"
format = "cbor"
compress = true

[log]
verbosity = 2
file = "stuffbox.log"
`)

	c, err := Load(dir)
	require.NoError(t, err)
	require.Equal(t, StrategyImmediate, c.Box.Strategy)
	require.Equal(t, FormatCBOR, c.Box.Format)
	require.True(t, c.Box.Compress)
	require.Equal(t, 2, c.Log.Verbosity)
	require.Equal(t, "stuffbox.log", c.Log.File)
	require.True(t, filepath.IsAbs(c.Path))
}

func TestLoadConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
[log]
verbosity = 1
`)

	c, err := Load(dir)
	require.NoError(t, err)
	require.Equal(t, StrategyNaNBox, c.Box.Strategy)
	require.Equal(t, FormatText, c.Box.Format)
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"strategy", "[box]\nstrategy = \"morton\"\n"},
		{"format", "[box]\nformat = \"xml\"\n"},
		{"verbosity", "[log]\nverbosity = -1\n"},
		{"compress", "[box]\ncompress = true\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, tt.content)
			_, err := Load(dir)
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrInvalid))
		})
	}
}

func TestLoadConfigParseError(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "[box\nstrategy = ")
	_, err := Load(dir)
	require.Error(t, err)
	require.Contains(t, err.Error(), "parse error")
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(t.TempDir())
	require.Error(t, err)
	require.True(t, errors.Is(err, os.ErrNotExist))
}

func TestFindAndLoad(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "[box]\nstrategy = \"immediate\"\n")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))

	c, err := FindAndLoad(nested)
	require.NoError(t, err)
	require.Equal(t, StrategyImmediate, c.Box.Strategy)
	require.Equal(t, filepath.Join(root, FileName), c.Path)
}

func TestFindAndLoadFallsBackToDefault(t *testing.T) {
	// A temp dir normally has no stuffbox.toml above it.
	c, err := FindAndLoad(t.TempDir())
	require.NoError(t, err)
	require.Equal(t, Default().Box, c.Box)
}
