package rewrite

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/sokinpui/dsrename/internal/mapping"
)

var (
	// ErrDecode is returned for files that are not valid UTF-8.
	ErrDecode = errors.New("file is not valid UTF-8")
	// ErrWrite is returned when the rewritten content could not be stored.
	ErrWrite = errors.New("write failed")
)

// FileResult describes one rewritten file.
type FileResult struct {
	Path     string
	Original string
	Updated  string
	Result
}

// Changed reports whether the content differs from what was on disk.
func (f FileResult) Changed() bool {
	return f.Original != f.Updated
}

// FileRewriter applies a Rewriter to files on disk.
type FileRewriter struct {
	Rewriter Rewriter
	Mappings *mapping.Mappings
	// DryRun computes results without writing anything.
	DryRun bool
}

// NewFileRewriter creates a FileRewriter backed by a RegexRewriter.
func NewFileRewriter(m *mapping.Mappings, dryRun bool) *FileRewriter {
	return &FileRewriter{
		Rewriter: NewRegexRewriter(),
		Mappings: m,
		DryRun:   dryRun,
	}
}

// RewriteFile rewrites path in place. The file is written only when its
// content changed and the rewriter is not in dry-run mode. On error the
// returned result carries zero changes and the file is left as it was.
func (f *FileRewriter) RewriteFile(path string) (FileResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FileResult{Path: path}, fmt.Errorf("reading %s: %w", path, err)
	}
	if !utf8.Valid(data) {
		return FileResult{Path: path}, fmt.Errorf("reading %s: %w", path, ErrDecode)
	}

	original := string(data)
	res := Rewrite(f.Rewriter, original, f.Mappings)
	out := FileResult{
		Path:     path,
		Original: original,
		Updated:  res.Content,
		Result:   res,
	}

	if !out.Changed() || f.DryRun {
		return out, nil
	}
	if err := WriteFileAtomic(path, []byte(out.Updated)); err != nil {
		return FileResult{Path: path}, fmt.Errorf("%w: %s: %v", ErrWrite, path, err)
	}
	return out, nil
}

// WriteFileAtomic replaces path through a temporary file in the same
// directory so readers never observe a partial write. A symlink is written
// through: its target is replaced and the link is kept.
func WriteFileAtomic(path string, data []byte) error {
	linfo, err := os.Lstat(path)
	if err != nil {
		return err
	}
	if linfo.Mode()&os.ModeSymlink != 0 {
		if path, err = filepath.EvalSymlinks(path); err != nil {
			return err
		}
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, info.Mode().Perm()); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
