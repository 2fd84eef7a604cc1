package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/sokinpui/dsrename/internal/mapping"
	"github.com/sokinpui/dsrename/internal/ui"
	"github.com/sokinpui/dsrename/model"
)

// ErrTargetExists is returned when a rename would overwrite an existing file.
var ErrTargetExists = errors.New("target already exists")

// FailedMove is a rename that could not be performed.
type FailedMove struct {
	model.FileRename
	Err error
}

// RelocationResult lists the moves performed (or planned in dry-run mode)
// and the ones that failed.
type RelocationResult struct {
	Renamed []model.FileRename
	Failed  []FailedMove
	// Missing is set when the components directory does not exist.
	Missing bool
}

// Unmoved returns the old file names that failed to move everywhere they
// were found. Import paths for these names must not be rewritten, or they
// would point at files that do not exist.
func (r RelocationResult) Unmoved() []string {
	moved := make(map[string]bool)
	for _, m := range r.Renamed {
		moved[filepath.Base(m.OldPath)] = true
	}
	var names []string
	seen := make(map[string]bool)
	for _, f := range r.Failed {
		name := filepath.Base(f.OldPath)
		if moved[name] || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

// Relocator renames files in place under a components directory.
type Relocator struct {
	// Root is only used to shorten paths in messages.
	Root   string
	Dir    string
	DryRun bool
}

// Relocate moves every file under r.Dir whose name is a key of files to the
// same directory under its new name. Failures are reported and skipped.
func (r *Relocator) Relocate(files mapping.Mapping) (RelocationResult, error) {
	var res RelocationResult

	info, err := os.Stat(r.Dir)
	if err != nil || !info.IsDir() {
		ui.Warning("  Components directory not found: %s", r.Dir)
		res.Missing = true
		return res, nil
	}

	// Paths freed or taken by earlier moves of this call. Dry-run never
	// touches the disk, so target checks consult these first.
	plan := movePlan{vacated: make(map[string]bool), occupied: make(map[string]bool)}

	fsys := os.DirFS(r.Dir)
	for _, p := range files {
		matches, err := doublestar.Glob(fsys, "**/"+escapeMeta(p.Old), doublestar.WithFilesOnly())
		if err != nil {
			return res, fmt.Errorf("searching for %s: %w", p.Old, err)
		}

		for _, m := range matches {
			oldPath := filepath.Join(r.Dir, filepath.FromSlash(m))
			move := model.FileRename{
				OldPath: oldPath,
				NewPath: filepath.Join(filepath.Dir(oldPath), p.New),
			}

			if err := r.move(move, plan); err != nil {
				ui.Warning("  Error renaming %s: %v", Rel(r.Root, oldPath), err)
				res.Failed = append(res.Failed, FailedMove{FileRename: move, Err: err})
				continue
			}

			if r.DryRun {
				ui.Info("  Would rename: %s", Rel(r.Root, move.OldPath))
				ui.Info("            to: %s", Rel(r.Root, move.NewPath))
			} else {
				ui.Success("  Renamed: %s → %s", Rel(r.Root, move.OldPath), p.New)
			}
			res.Renamed = append(res.Renamed, move)
		}
	}
	return res, nil
}

type movePlan struct {
	vacated  map[string]bool
	occupied map[string]bool
}

func (p movePlan) record(m model.FileRename) {
	p.vacated[m.OldPath] = true
	delete(p.vacated, m.NewPath)
	p.occupied[m.NewPath] = true
	delete(p.occupied, m.OldPath)
}

func (r *Relocator) move(m model.FileRename, plan movePlan) error {
	exists := plan.occupied[m.NewPath]
	if !exists && !plan.vacated[m.NewPath] {
		if _, err := os.Lstat(m.NewPath); err == nil {
			exists = true
		} else if !os.IsNotExist(err) {
			return err
		}
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrTargetExists, Rel(r.Root, m.NewPath))
	}
	if !r.DryRun {
		if err := os.Rename(m.OldPath, m.NewPath); err != nil {
			return err
		}
	}
	plan.record(m)
	return nil
}
