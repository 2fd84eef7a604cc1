package model

// FileRename records a single file move performed (or planned) by the relocator.
type FileRename struct {
	OldPath string
	NewPath string
}

// FileChange represents the rewrite outcome for a single file.
type FileChange struct {
	Path    string
	Changes int
}

// Outcome is the result of the verification step.
type Outcome int

const (
	// OutcomeNotRun means verification was skipped by flag or dry-run.
	OutcomeNotRun Outcome = iota
	OutcomePassed
	OutcomeFailed
	OutcomeTimedOut
	// OutcomeUnavailable means the analyzer binary could not be found.
	OutcomeUnavailable
)

func (o Outcome) String() string {
	switch o {
	case OutcomePassed:
		return "passed"
	case OutcomeFailed:
		return "failed"
	case OutcomeTimedOut:
		return "timed out"
	case OutcomeUnavailable:
		return "unavailable"
	default:
		return "not run"
	}
}

// Summary holds the results of a run for display.
type Summary struct {
	DryRun            bool
	Renamed           []FileRename
	Modified          []FileChange
	Failed            []string
	Replacements      int
	AggregatorChanges int
	AggregatorFound   bool
	DocsModified      []FileChange
	Verification      Outcome
	Committed         bool
	SpecialRenames    []string
	Message           string
}

// FilesRenamed is the number of relocated files.
func (s Summary) FilesRenamed() int {
	return len(s.Renamed)
}

// FilesModified is the number of files whose change count was positive.
func (s Summary) FilesModified() int {
	return len(s.Modified)
}
