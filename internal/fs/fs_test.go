package fs

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sokinpui/dsrename/internal/mapping"
	"github.com/sokinpui/dsrename/internal/ui"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func quiet(t *testing.T) {
	t.Helper()
	prev := ui.SetOutput(io.Discard)
	t.Cleanup(func() { ui.SetOutput(prev) })
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"main.dart":                    "",
		"a/b/widget.dart":              "",
		"a/readme.md":                  "",
		".dart_tool/gen.dart":          "",
		"a/.hidden.dart":               "",
		"a/.cache/deep/x.dart":         "",
		"design_system/design.dart":    "",
		"design_system/not_dart.dartx": "",
	})
	require.NoError(t, os.MkdirAll(filepath.Join(root, "dir.dart"), 0o755))

	files, err := Discover(root, "**/*.dart")
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(root, "a", "b", "widget.dart"),
		filepath.Join(root, "design_system", "design.dart"),
		filepath.Join(root, "main.dart"),
	}, files)
}

func TestDiscoverMissingDir(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "lib"), "**/*.dart")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRelocate(t *testing.T) {
	quiet(t)
	root := t.TempDir()
	dir := filepath.Join(root, "components")
	writeFiles(t, root, map[string]string{
		"components/cards/fm_card.dart":        "card",
		"components/chips/fm_chip.dart":        "chip",
		"components/legacy/chips/fm_chip.dart": "old chip",
		"components/other.dart":                "other",
		"outside/fm_card.dart":                 "outside",
	})
	files := mapping.Mapping{
		{Old: "fm_card.dart", New: "surface.dart"},
		{Old: "fm_chip.dart", New: "chip.dart"},
	}

	r := &Relocator{Root: root, Dir: dir}
	res, err := r.Relocate(files)
	require.NoError(t, err)

	assert.Len(t, res.Renamed, 3)
	assert.Empty(t, res.Failed)
	assert.FileExists(t, filepath.Join(dir, "cards", "surface.dart"))
	assert.FileExists(t, filepath.Join(dir, "chips", "chip.dart"))
	assert.FileExists(t, filepath.Join(dir, "legacy", "chips", "chip.dart"))
	assert.NoFileExists(t, filepath.Join(dir, "cards", "fm_card.dart"))
	assert.FileExists(t, filepath.Join(root, "outside", "fm_card.dart"))

	data, err := os.ReadFile(filepath.Join(dir, "cards", "surface.dart"))
	require.NoError(t, err)
	assert.Equal(t, "card", string(data))

	// Everything is in its final place already.
	res, err = r.Relocate(files)
	require.NoError(t, err)
	assert.Empty(t, res.Renamed)
}

func TestRelocateDryRun(t *testing.T) {
	quiet(t)
	root := t.TempDir()
	dir := filepath.Join(root, "components")
	writeFiles(t, root, map[string]string{"components/cards/fm_card.dart": "card"})

	r := &Relocator{Root: root, Dir: dir, DryRun: true}
	res, err := r.Relocate(mapping.Mapping{{Old: "fm_card.dart", New: "surface.dart"}})
	require.NoError(t, err)

	require.Len(t, res.Renamed, 1)
	assert.Equal(t, filepath.Join(dir, "cards", "surface.dart"), res.Renamed[0].NewPath)
	assert.FileExists(t, filepath.Join(dir, "cards", "fm_card.dart"))
	assert.NoFileExists(t, filepath.Join(dir, "cards", "surface.dart"))
}

func TestRelocateDryRunFollowsEarlierMoves(t *testing.T) {
	quiet(t)
	root := t.TempDir()
	dir := filepath.Join(root, "components")
	writeFiles(t, root, map[string]string{
		"components/beta.dart":  "beta",
		"components/alpha.dart": "alpha",
		"components/delta.dart": "delta",
	})

	files := mapping.Mapping{
		{Old: "beta.dart", New: "gamma.dart"},
		{Old: "alpha.dart", New: "beta.dart"},
		{Old: "delta.dart", New: "gamma.dart"},
	}
	dry, err := (&Relocator{Root: root, Dir: dir, DryRun: true}).Relocate(files)
	require.NoError(t, err)
	applied, err := (&Relocator{Root: root, Dir: dir}).Relocate(files)
	require.NoError(t, err)

	assert.Equal(t, applied.Renamed, dry.Renamed)
	require.Len(t, dry.Failed, 1)
	require.Len(t, applied.Failed, 1)
	assert.Equal(t, filepath.Join(dir, "delta.dart"), dry.Failed[0].OldPath)
	assert.ErrorIs(t, dry.Failed[0].Err, ErrTargetExists)
	assert.Equal(t, []string{"delta.dart"}, dry.Unmoved())
	assert.Equal(t, applied.Unmoved(), dry.Unmoved())
}

func TestRelocateExistingTarget(t *testing.T) {
	quiet(t)
	root := t.TempDir()
	dir := filepath.Join(root, "components")
	writeFiles(t, root, map[string]string{
		"components/cards/fm_card.dart": "card",
		"components/cards/surface.dart": "already here",
		"components/chips/fm_chip.dart": "chip",
	})

	r := &Relocator{Root: root, Dir: dir}
	res, err := r.Relocate(mapping.Mapping{
		{Old: "fm_card.dart", New: "surface.dart"},
		{Old: "fm_chip.dart", New: "chip.dart"},
	})
	require.NoError(t, err)

	require.Len(t, res.Failed, 1)
	assert.ErrorIs(t, res.Failed[0].Err, ErrTargetExists)
	assert.Len(t, res.Renamed, 1)
	assert.Equal(t, []string{"fm_card.dart"}, res.Unmoved())

	data, err := os.ReadFile(filepath.Join(dir, "cards", "surface.dart"))
	require.NoError(t, err)
	assert.Equal(t, "already here", string(data))
	assert.FileExists(t, filepath.Join(dir, "chips", "chip.dart"))
}

func TestRelocateMissingDir(t *testing.T) {
	quiet(t)
	r := &Relocator{Dir: filepath.Join(t.TempDir(), "components")}
	res, err := r.Relocate(mapping.Mapping{{Old: "fm_card.dart", New: "surface.dart"}})
	require.NoError(t, err)
	assert.True(t, res.Missing)
	assert.Empty(t, res.Renamed)
}

func TestEscapeMeta(t *testing.T) {
	assert.Equal(t, `a\[1\]\*.dart`, escapeMeta("a[1]*.dart"))
	assert.Equal(t, "fm_card.dart", escapeMeta("fm_card.dart"))
}
