// Package rewrite substitutes renamed identifiers and import paths in source
// text using word-boundary and quoted-literal regular expressions.
package rewrite

import (
	"regexp"
	"strings"

	"github.com/sokinpui/dsrename/internal/mapping"
)

// Rewriter is the pattern backend used for a single file's text. Both methods
// return the updated text and the number of changes they counted.
type Rewriter interface {
	RewriteSymbols(content string, symbols mapping.Mapping) (string, int)
	RewriteImportPaths(content string, files mapping.Mapping) (string, int)
}

// Result is the outcome of rewriting one piece of text.
type Result struct {
	Content string
	Symbols int
	Imports int
}

// Changes is the total count reported for the text.
func (r Result) Changes() int {
	return r.Symbols + r.Imports
}

// Rewrite applies symbol substitution followed by import path substitution.
func Rewrite(rw Rewriter, content string, m *mapping.Mappings) Result {
	content, symbols := rw.RewriteSymbols(content, m.Symbols)
	content, imports := rw.RewriteImportPaths(content, m.Files)
	return Result{Content: content, Symbols: symbols, Imports: imports}
}

// RegexRewriter implements Rewriter with compiled regular expressions, cached
// per key for the lifetime of the rewriter.
type RegexRewriter struct {
	words map[string]*regexp.Regexp
	paths map[string]*regexp.Regexp
}

// NewRegexRewriter creates a RegexRewriter.
func NewRegexRewriter() *RegexRewriter {
	return &RegexRewriter{
		words: make(map[string]*regexp.Regexp),
		paths: make(map[string]*regexp.Regexp),
	}
}

// RewriteSymbols replaces whole-word occurrences of each old identifier in
// mapping order. Every occurrence counts once.
func (r *RegexRewriter) RewriteSymbols(content string, symbols mapping.Mapping) (string, int) {
	changes := 0
	for _, p := range symbols {
		re := r.wordRegex(p.Old)
		matches := re.FindAllStringIndex(content, -1)
		if len(matches) == 0 {
			continue
		}
		content = re.ReplaceAllLiteralString(content, p.New)
		changes += len(matches)
	}
	return content, changes
}

// RewriteImportPaths replaces quoted file names, both bare ('old.dart' or
// "old.dart") and as the last segment of a quoted relative path. Each quote
// style and the path form add one change per file, however many
// occurrences were replaced.
func (r *RegexRewriter) RewriteImportPaths(content string, files mapping.Mapping) (string, int) {
	changes := 0
	for _, p := range files {
		for _, quote := range []string{"'", `"`} {
			oldImport := quote + p.Old + quote
			if strings.Contains(content, oldImport) {
				content = strings.ReplaceAll(content, oldImport, quote+p.New+quote)
				changes++
			}
		}

		replacement := "${1}" + strings.ReplaceAll(p.New, "$", "$$") + "${2}"
		updated := r.pathRegex(p.Old).ReplaceAllString(content, replacement)
		if updated != content {
			content = updated
			changes++
		}
	}
	return content, changes
}

func (r *RegexRewriter) wordRegex(old string) *regexp.Regexp {
	re, ok := r.words[old]
	if !ok {
		re = regexp.MustCompile(`\b` + regexp.QuoteMeta(old) + `\b`)
		r.words[old] = re
	}
	return re
}

func (r *RegexRewriter) pathRegex(old string) *regexp.Regexp {
	re, ok := r.paths[old]
	if !ok {
		re = regexp.MustCompile(`(['"].*?/)` + regexp.QuoteMeta(old) + `(['"])`)
		r.paths[old] = re
	}
	return re
}
