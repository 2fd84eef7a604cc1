// Package mapping builds the old→new symbol and file name tables used by the
// rewriter and the relocator.
package mapping

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrInvalidTable is returned when a table entry cannot produce a mapping.
	ErrInvalidTable = errors.New("invalid rename table")
	// ErrMappingCollision is returned when two distinct keys map to the same
	// target, or a replacement would be rewritten again by a later entry.
	ErrMappingCollision = errors.New("rename mapping collision")
)

var identRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Pair is a single old→new rename.
type Pair struct {
	Old string
	New string
}

// Mapping is an ordered list of renames with unique keys. Substitutions are
// applied in slice order.
type Mapping []Pair

// Lookup returns the replacement for old.
func (m Mapping) Lookup(old string) (string, bool) {
	for _, p := range m {
		if p.Old == old {
			return p.New, true
		}
	}
	return "", false
}

// Without returns a copy of m with the given keys removed.
func (m Mapping) Without(olds ...string) Mapping {
	if len(olds) == 0 {
		return m
	}
	drop := make(map[string]struct{}, len(olds))
	for _, o := range olds {
		drop[o] = struct{}{}
	}
	out := make(Mapping, 0, len(m))
	for _, p := range m {
		if _, ok := drop[p.Old]; !ok {
			out = append(out, p)
		}
	}
	return out
}

// Mappings bundles the two tables consumed by the rest of the tool.
type Mappings struct {
	Symbols Mapping
	Files   Mapping
}

// Build derives the symbol and file mappings from a table. It has no side
// effects and returns identical results for identical input.
func Build(t Table) (*Mappings, error) {
	ext := t.extension()

	var symbols, files Mapping
	symbolKeys := make(map[string]struct{})
	fileKeys := make(map[string]struct{})

	for _, o := range t.Overrides {
		if !identRegex.MatchString(o.From) || !identRegex.MatchString(o.To) {
			return nil, fmt.Errorf("%w: override %q → %q is not a valid identifier pair", ErrInvalidTable, o.From, o.To)
		}
		if _, dup := symbolKeys[o.From]; dup {
			return nil, fmt.Errorf("%w: duplicate override for %q", ErrInvalidTable, o.From)
		}
		symbolKeys[o.From] = struct{}{}
		symbols = append(symbols, Pair{Old: o.From, New: o.To})

		oldFile, newFile := o.FileFrom, o.FileTo
		if oldFile == "" {
			oldFile = CamelToSnake(o.From) + ext
		}
		if newFile == "" {
			newFile = CamelToSnake(o.To) + ext
		}
		if _, dup := fileKeys[oldFile]; dup {
			return nil, fmt.Errorf("%w: duplicate file override for %q", ErrInvalidTable, oldFile)
		}
		fileKeys[oldFile] = struct{}{}
		files = append(files, Pair{Old: oldFile, New: newFile})
	}

	for _, widget := range t.Standard {
		newName, err := t.StripPrefix(widget)
		if err != nil {
			return nil, err
		}
		if _, overridden := symbolKeys[widget]; !overridden {
			symbolKeys[widget] = struct{}{}
			symbols = append(symbols, Pair{Old: widget, New: newName})
		}

		oldFile := CamelToSnake(widget) + ext
		if _, overridden := fileKeys[oldFile]; !overridden {
			fileKeys[oldFile] = struct{}{}
			files = append(files, Pair{Old: oldFile, New: CamelToSnake(newName) + ext})
		}
	}

	m := &Mappings{Symbols: symbols, Files: files}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Validate checks the invariants the rewriter relies on: file names carry no
// directory component, no two old file names share a target, and no
// replacement is matched again by a later entry.
func (m *Mappings) Validate() error {
	targets := make(map[string]string, len(m.Files))
	for _, p := range m.Files {
		if p.Old == "" || p.New == "" || strings.ContainsAny(p.Old+p.New, `/\`) {
			return fmt.Errorf("%w: file pair %q → %q must be bare file names", ErrInvalidTable, p.Old, p.New)
		}
		if prev, ok := targets[p.New]; ok {
			return fmt.Errorf("%w: %q and %q both rename to %q", ErrMappingCollision, prev, p.Old, p.New)
		}
		targets[p.New] = p.Old
	}

	for i, p := range m.Symbols {
		for _, later := range m.Symbols[i+1:] {
			if wholeWord(later.Old).MatchString(p.New) {
				return fmt.Errorf("%w: %q → %q would be rewritten again by %q", ErrMappingCollision, p.Old, p.New, later.Old)
			}
		}
	}
	for i, p := range m.Files {
		for _, later := range m.Files[i+1:] {
			if p.New == later.Old {
				return fmt.Errorf("%w: %q → %q would be rewritten again by %q", ErrMappingCollision, p.Old, p.New, later.Old)
			}
		}
	}
	return nil
}

func wholeWord(s string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(s) + `\b`)
}
