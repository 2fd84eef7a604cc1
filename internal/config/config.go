// Package config holds the project layout and rename table settings, with
// optional YAML overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sokinpui/dsrename/internal/mapping"
)

// Layout locates the parts of a Flutter project the tool touches. Paths are
// relative to the project root.
type Layout struct {
	SourceDir     string `yaml:"source_dir"`
	ComponentsDir string `yaml:"components_dir"`
	Aggregator    string `yaml:"aggregator"`
	Pattern       string `yaml:"pattern"`
	DocsPattern   string `yaml:"docs_pattern"`
}

// Config is the full run configuration apart from command-line flags.
type Config struct {
	Layout         Layout        `yaml:"layout"`
	Table          mapping.Table `yaml:"table"`
	Analyzer       []string      `yaml:"analyzer"`
	AnalyzeTimeout time.Duration `yaml:"analyze_timeout"`
}

// DefaultLayout is the layout of the design system this tool was written for.
func DefaultLayout() Layout {
	return Layout{
		SourceDir:     "lib",
		ComponentsDir: "lib/design_system/components",
		Aggregator:    "lib/design_system/design_system.dart",
		Pattern:       "**/*.dart",
		DocsPattern:   "*.md",
	}
}

// Default returns the built-in configuration with the given table.
func Default(table mapping.Table) Config {
	return Config{
		Layout:         DefaultLayout(),
		Table:          table,
		Analyzer:       []string{"flutter", "analyze"},
		AnalyzeTimeout: 60 * time.Second,
	}
}

// Load reads a YAML file over cfg. Keys missing from the file keep their
// current values.
func Load(path string, cfg Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := decodeStrict(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.AnalyzeTimeout < 0 {
		return cfg, fmt.Errorf("parsing config %s: analyze_timeout must not be negative", path)
	}
	return cfg, nil
}

// LoadTable reads a rename table from a YAML file. The prefix and extension
// default to the built-in ones when omitted.
func LoadTable(path string) (mapping.Table, error) {
	t := mapping.Table{
		Prefix:    mapping.DefaultPrefix,
		Extension: mapping.DefaultExtension,
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("reading rename table: %w", err)
	}
	if err := decodeStrict(data, &t); err != nil {
		return t, fmt.Errorf("parsing rename table %s: %w", path, err)
	}
	if len(t.Overrides) == 0 && len(t.Standard) == 0 {
		return t, fmt.Errorf("%w: %s defines no renames", mapping.ErrInvalidTable, path)
	}
	return t, nil
}

func decodeStrict(data []byte, v any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
