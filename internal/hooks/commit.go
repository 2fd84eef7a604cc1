package hooks

import (
	"context"
	"fmt"
	"strings"
)

// CommitStats feeds the generated commit message.
type CommitStats struct {
	Prefix         string
	Classes        int
	Files          int
	FilesModified  int
	Replacements   int
	SpecialRenames []string
}

// CommitMessage builds the multi-line message for the rename commit.
func CommitMessage(s CommitStats) string {
	title := "refactor: rename widgets to semantic names"
	if s.Prefix != "" {
		title = fmt.Sprintf("refactor: rename %s-prefixed widgets to semantic names", s.Prefix)
	}

	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "- Renamed %d widget classes\n", s.Classes)
	fmt.Fprintf(&b, "- Renamed %d component files\n", s.Files)
	fmt.Fprintf(&b, "- Updated %d files with %d replacements", s.FilesModified, s.Replacements)
	if len(s.SpecialRenames) > 0 {
		fmt.Fprintf(&b, "\n- Special renames: %s", strings.Join(s.SpecialRenames, ", "))
	}
	return b.String()
}

// Committer stages every change and records a commit with git.
type Committer struct {
	Runner Runner
}

// Commit runs `git add .` followed by `git commit -m message` in dir.
func (c *Committer) Commit(ctx context.Context, dir, message string) error {
	steps := [][]string{
		{"add", "."},
		{"commit", "-m", message},
	}
	for _, args := range steps {
		res, err := c.Runner.Run(ctx, dir, "git", args...)
		if err != nil {
			return fmt.Errorf("git %s: %w", args[0], err)
		}
		if res.ExitCode != 0 {
			return fmt.Errorf("git %s exited with status %d: %s", args[0], res.ExitCode, strings.TrimSpace(res.Output()))
		}
	}
	return nil
}
