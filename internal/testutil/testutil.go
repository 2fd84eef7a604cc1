// Package testutil provides fixtures shared by the package tests.
package testutil

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sokinpui/dsrename/internal/hooks"
	"github.com/sokinpui/dsrename/internal/ui"
)

// Call is one recorded Runner invocation.
type Call struct {
	Dir  string
	Name string
	Args []string
}

// Line is the call as a shell-style command line.
func (c Call) Line() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// FakeRunner records calls and answers from Results keyed by command line
// prefix ("flutter analyze", "git commit"). The longest matching prefix
// wins. Unknown commands succeed.
type FakeRunner struct {
	Calls   []Call
	Results map[string]FakeResult
}

// FakeResult is the canned answer for a command.
type FakeResult struct {
	Result hooks.CommandResult
	Err    error
}

var _ hooks.Runner = (*FakeRunner)(nil)

func (f *FakeRunner) Run(ctx context.Context, dir, name string, args ...string) (hooks.CommandResult, error) {
	call := Call{Dir: dir, Name: name, Args: args}
	f.Calls = append(f.Calls, call)
	best, found := "", false
	for prefix := range f.Results {
		if strings.HasPrefix(call.Line(), prefix) && (!found || len(prefix) > len(best)) {
			best, found = prefix, true
		}
	}
	if !found {
		return hooks.CommandResult{}, nil
	}
	res := f.Results[best]
	return res.Result, res.Err
}

// Lines returns the command lines of all recorded calls.
func (f *FakeRunner) Lines() []string {
	lines := make([]string, len(f.Calls))
	for i, c := range f.Calls {
		lines[i] = c.Line()
	}
	return lines
}

// WriteTree creates files under root from a map of slash-separated relative
// paths to contents.
func WriteTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("creating %s: %v", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("writing %s: %v", path, err)
		}
	}
}

// ReadTree returns every regular file under root keyed by slash-separated
// relative path.
func ReadTree(t *testing.T, root string) map[string]string {
	t.Helper()
	tree := make(map[string]string)
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		tree[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	if err != nil {
		t.Fatalf("reading tree %s: %v", root, err)
	}
	return tree
}

// Quiet discards console output for the duration of the test.
func Quiet(t *testing.T) {
	t.Helper()
	prev := ui.SetOutput(io.Discard)
	t.Cleanup(func() { ui.SetOutput(prev) })
}
