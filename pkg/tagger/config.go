package tagger

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"golang.org/x/text/encoding/htmlindex"
	"gopkg.in/yaml.v3"
)

// DefaultCacheSize is the default number of cached token resolutions.
// At ~100 bytes per entry, 100k entries uses approximately 10MB of memory.
const DefaultCacheSize = 100_000

// Config holds tagger settings. It maps onto a YAML file:
//
//	lexicon:
//	  path: dict.opcorpora.txt.bz2
//	  format: auto
//	  encoding: utf-8
//	rules: extra-rules.yaml
//	cache:
//	  enabled: true
//	  size: 100000
//	stem: false
//	workers: 4
type Config struct {
	Lexicon LexiconConfig `yaml:"lexicon"`
	// Rules is an optional YAML rule file merged ahead of the built-in tables.
	Rules string      `yaml:"rules,omitempty"`
	Cache CacheConfig `yaml:"cache"`
	// Stem attaches a Snowball stem to every annotation.
	Stem bool `yaml:"stem"`
	// Workers bounds parallel sentence analysis in TagLines. Zero means
	// GOMAXPROCS.
	Workers int `yaml:"workers"`
}

// LexiconConfig locates and describes the lexicon resource.
type LexiconConfig struct {
	Path     string `yaml:"path"`
	Format   string `yaml:"format,omitempty"`
	Encoding string `yaml:"encoding,omitempty"`
}

// CacheConfig controls the resolution cache.
type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
}

// DefaultConfig returns the settings used when no file is given.
func DefaultConfig() Config {
	return Config{
		Lexicon: LexiconConfig{Format: "auto", Encoding: "utf-8"},
		Cache:   CacheConfig{Enabled: true, Size: DefaultCacheSize},
	}
}

// LoadConfig reads a YAML config file on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the settings without touching the filesystem.
func (c Config) Validate() error {
	var errs []error
	if _, err := c.Lexicon.Options(); err != nil {
		errs = append(errs, err)
	}
	if c.Cache.Size < 0 {
		errs = append(errs, fmt.Errorf("cache size must not be negative, got %d", c.Cache.Size))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, got %d", c.Workers))
	}
	return errors.Join(errs...)
}

// Options converts the lexicon settings into LexiconOptions.
func (c LexiconConfig) Options() (LexiconOptions, error) {
	format, err := ParseFormat(c.Format)
	if err != nil {
		return LexiconOptions{}, err
	}
	if c.Encoding != "" {
		if _, err := htmlindex.Get(c.Encoding); err != nil {
			return LexiconOptions{}, fmt.Errorf("%w: %q", ErrUnknownEncoding, c.Encoding)
		}
	}
	return LexiconOptions{Format: format, Encoding: c.Encoding}, nil
}

func (c Config) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}
