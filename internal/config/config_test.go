package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sokinpui/dsrename/internal/mapping"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeFile(t, `
layout:
  source_dir: src
  aggregator: src/ui/ui.dart
analyzer: [dart, analyze, --fatal-infos]
analyze_timeout: 2m
`)

	cfg, err := Load(path, Default(mapping.DefaultTable()))
	require.NoError(t, err)

	assert.Equal(t, "src", cfg.Layout.SourceDir)
	assert.Equal(t, "src/ui/ui.dart", cfg.Layout.Aggregator)
	assert.Equal(t, "lib/design_system/components", cfg.Layout.ComponentsDir)
	assert.Equal(t, "**/*.dart", cfg.Layout.Pattern)
	assert.Equal(t, []string{"dart", "analyze", "--fatal-infos"}, cfg.Analyzer)
	assert.Equal(t, 2*time.Minute, cfg.AnalyzeTimeout)
	assert.Equal(t, mapping.DefaultTable(), cfg.Table)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeFile(t, "layout:\n  sauce_dir: src\n")

	_, err := Load(path, Default(mapping.DefaultTable()))
	assert.Error(t, err)
}

func TestLoadEmptyFile(t *testing.T) {
	path := writeFile(t, "")

	cfg, err := Load(path, Default(mapping.DefaultTable()))
	require.NoError(t, err)
	assert.Equal(t, Default(mapping.DefaultTable()), cfg)
}

func TestLoadTable(t *testing.T) {
	path := writeFile(t, `
prefix: XY
overrides:
  - from: XYCard
    to: Surface
standard: [XYChip, XYBadge]
`)

	table, err := LoadTable(path)
	require.NoError(t, err)
	assert.Equal(t, "XY", table.Prefix)
	assert.Equal(t, mapping.DefaultExtension, table.Extension)

	m, err := mapping.Build(table)
	require.NoError(t, err)
	assert.Equal(t, mapping.Mapping{
		{Old: "XYCard", New: "Surface"},
		{Old: "XYChip", New: "Chip"},
		{Old: "XYBadge", New: "Badge"},
	}, m.Symbols)
	assert.Equal(t, mapping.Mapping{
		{Old: "xy_card.dart", New: "surface.dart"},
		{Old: "xy_chip.dart", New: "chip.dart"},
		{Old: "xy_badge.dart", New: "badge.dart"},
	}, m.Files)
}

func TestLoadTableRequiresRenames(t *testing.T) {
	path := writeFile(t, "prefix: XY\n")

	_, err := LoadTable(path)
	assert.ErrorIs(t, err, mapping.ErrInvalidTable)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := LoadTable(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
