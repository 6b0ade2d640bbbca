package tagger

import (
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, DefaultCacheSize, cfg.Cache.Size)
	assert.Equal(t, runtime.GOMAXPROCS(0), cfg.workers())

	opts, err := cfg.Lexicon.Options()
	require.NoError(t, err)
	assert.Equal(t, LexiconOptions{Format: FormatAuto, Encoding: "utf-8"}, opts)
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig("testdata/config.yaml")
	require.NoError(t, err)

	assert.Equal(t, "testdata/lexicon_tab.txt", cfg.Lexicon.Path)
	assert.Equal(t, "tab", cfg.Lexicon.Format)
	assert.Equal(t, "utf-8", cfg.Lexicon.Encoding, "unset keys keep their defaults")
	assert.Equal(t, "testdata/rules.yaml", cfg.Rules)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, DefaultCacheSize, cfg.Cache.Size)
	assert.True(t, cfg.Stem)
	assert.Equal(t, 2, cfg.workers())
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig("testdata/missing.yaml")
	assert.ErrorIs(t, err, fs.ErrNotExist)

	dir := t.TempDir()
	write := func(name, body string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
		return path
	}

	_, err = LoadConfig(write("broken.yaml", "lexicon: [unclosed\n"))
	assert.Error(t, err)

	_, err = LoadConfig(write("format.yaml", "lexicon:\n  format: xml\n"))
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = LoadConfig(write("encoding.yaml", "lexicon:\n  encoding: klingon\n"))
	assert.ErrorIs(t, err, ErrUnknownEncoding)
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Cache.Size = -1
	cfg.Workers = -2
	cfg.Lexicon.Format = "xml"

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownFormat)
	assert.Contains(t, err.Error(), "cache size")
	assert.Contains(t, err.Error(), "workers")
}
