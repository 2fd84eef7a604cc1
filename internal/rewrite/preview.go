package rewrite

import (
	"github.com/pmezard/go-difflib/difflib"
)

// Preview renders a unified diff between the original and updated content,
// labelled with name. It returns an empty string when nothing changed.
func Preview(name string, res FileResult) (string, error) {
	if !res.Changed() {
		return "", nil
	}
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(res.Original),
		B:        difflib.SplitLines(res.Updated),
		FromFile: "a/" + name,
		ToFile:   "b/" + name,
		Context:  3,
	})
}
