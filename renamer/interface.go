package renamer

import (
	"context"
	"fmt"

	"github.com/sokinpui/dsrename/internal/config"
	"github.com/sokinpui/dsrename/internal/mapping"
	"github.com/sokinpui/dsrename/model"
)

// Config for using the renamer as a library. Verification and commits are
// never run from the library entry points.
type Config struct {
	// Compute and report changes without touching any file.
	DryRun bool
	// Table replaces the built-in FM rename table when set.
	Table *mapping.Table
}

// Rename applies the semantic widget rename to the project at root.
func Rename(ctx context.Context, root string, cfg Config) (model.Summary, error) {
	table := mapping.DefaultTable()
	if cfg.Table != nil {
		table = *cfg.Table
	}
	return run(ctx, root, cfg.DryRun, table)
}

// FixConflicts applies the CloseButton and Chip conflict renames to the
// project at root.
func FixConflicts(ctx context.Context, root string, dryRun bool) (model.Summary, error) {
	return run(ctx, root, dryRun, mapping.ConflictTable())
}

func run(ctx context.Context, root string, dryRun bool, table mapping.Table) (model.Summary, error) {
	abs, err := ResolveRoot(root)
	if err != nil {
		return model.Summary{}, err
	}
	app, err := NewWithOptions(Options{
		Root:        abs,
		DryRun:      dryRun,
		SkipAnalyze: true,
		Config:      config.Default(table),
	})
	if err != nil {
		return model.Summary{}, fmt.Errorf("failed to initialize renamer: %w", err)
	}
	return app.Execute(ctx)
}
