// Package docs renames widget identifiers inside the code of markdown
// documents. Prose is left alone: only inline code spans and code blocks are
// rewritten.
package docs

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/sokinpui/dsrename/internal/mapping"
	"github.com/sokinpui/dsrename/internal/rewrite"
)

// Rewriter applies a rewrite.Rewriter to the code segments of markdown files.
type Rewriter struct {
	Rewriter rewrite.Rewriter
	Mappings *mapping.Mappings
	DryRun   bool
}

// New creates a markdown Rewriter backed by a RegexRewriter.
func New(m *mapping.Mappings, dryRun bool) *Rewriter {
	return &Rewriter{
		Rewriter: rewrite.NewRegexRewriter(),
		Mappings: m,
		DryRun:   dryRun,
	}
}

// Rewrite returns source with every code segment rewritten, and the summed
// change count of the segments.
func (r *Rewriter) Rewrite(source []byte) (string, int, error) {
	segments, err := codeSegments(source)
	if err != nil {
		return "", 0, err
	}

	var b strings.Builder
	b.Grow(len(source))
	changes, last := 0, 0
	for _, seg := range segments {
		if seg.Start < last {
			continue
		}
		b.Write(source[last:seg.Start])
		res := rewrite.Rewrite(r.Rewriter, string(source[seg.Start:seg.Stop]), r.Mappings)
		b.WriteString(res.Content)
		changes += res.Changes()
		last = seg.Stop
	}
	b.Write(source[last:])
	return b.String(), changes, nil
}

// RewriteFile rewrites the markdown file at path, writing it back only when
// something changed and DryRun is off.
func (r *Rewriter) RewriteFile(path string) (rewrite.FileResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return rewrite.FileResult{Path: path}, fmt.Errorf("reading %s: %w", path, err)
	}
	if !utf8.Valid(data) {
		return rewrite.FileResult{Path: path}, fmt.Errorf("reading %s: %w", path, rewrite.ErrDecode)
	}

	updated, changes, err := r.Rewrite(data)
	if err != nil {
		return rewrite.FileResult{Path: path}, fmt.Errorf("parsing %s: %w", path, err)
	}
	res := rewrite.FileResult{
		Path:     path,
		Original: string(data),
		Updated:  updated,
		Result:   rewrite.Result{Content: updated, Symbols: changes},
	}
	if !res.Changed() || r.DryRun {
		return res, nil
	}
	if err := rewrite.WriteFileAtomic(path, []byte(updated)); err != nil {
		return rewrite.FileResult{Path: path}, fmt.Errorf("%w: %s: %v", rewrite.ErrWrite, path, err)
	}
	return res, nil
}

// codeSegments returns the byte ranges of inline code and code block lines
// in source, ordered and non-overlapping.
func codeSegments(source []byte) ([]text.Segment, error) {
	var segments []text.Segment
	root := goldmark.DefaultParser().Parse(text.NewReader(source))

	walker := func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n := node.(type) {
		case *ast.CodeSpan:
			for c := n.FirstChild(); c != nil; c = c.NextSibling() {
				if t, ok := c.(*ast.Text); ok {
					segments = append(segments, t.Segment)
				}
			}
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				segments = append(segments, lines.At(i))
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	}

	if err := ast.Walk(root, walker); err != nil {
		return nil, err
	}

	sort.Slice(segments, func(i, j int) bool {
		return segments[i].Start < segments[j].Start
	})
	return segments, nil
}
