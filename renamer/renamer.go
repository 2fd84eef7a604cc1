package renamer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/atotto/clipboard"

	"github.com/sokinpui/dsrename/cli"
	"github.com/sokinpui/dsrename/internal/config"
	"github.com/sokinpui/dsrename/internal/docs"
	"github.com/sokinpui/dsrename/internal/fs"
	"github.com/sokinpui/dsrename/internal/hooks"
	"github.com/sokinpui/dsrename/internal/mapping"
	"github.com/sokinpui/dsrename/internal/nvim"
	"github.com/sokinpui/dsrename/internal/rewrite"
	"github.com/sokinpui/dsrename/internal/ui"
	"github.com/sokinpui/dsrename/model"
)

// ErrVerificationFailed is returned when the analyzer reports issues or
// times out. The run's changes stay on disk.
var ErrVerificationFailed = errors.New("verification failed")

// ProgressUpdate is a callback function to report progress.
type ProgressUpdate func(current, total int)

// Options configures a run. The zero value of every flag means the default
// behaviour: write changes, verify, do not commit.
type Options struct {
	Root        string
	DryRun      bool
	SkipAnalyze bool
	Commit      bool
	Diff        bool
	Docs        bool
	Nvim        bool
	CopyMessage bool
	Config      config.Config
	// Runner executes the analyzer and git. Defaults to hooks.ExecRunner.
	Runner hooks.Runner
	// Clipboard stores the commit message. Defaults to the system clipboard.
	Clipboard func(string) error
}

// App orchestrates a rename over one project tree.
type App struct {
	opts             Options
	mappings         *mapping.Mappings
	analyzer         *hooks.Analyzer
	committer        *hooks.Committer
	progressCallback ProgressUpdate
}

// DetailedError enhances a standard error with a stack trace.
type DetailedError struct {
	Err   error
	Stack []byte
}

func (e *DetailedError) Error() string {
	return e.Err.Error()
}

func (e *DetailedError) Unwrap() error {
	return e.Err
}

// New creates an App from parsed command-line flags.
func New(cfg *cli.Config) (*App, error) {
	root, err := ResolveRoot(cfg.Root)
	if err != nil {
		return nil, err
	}

	table := mapping.DefaultTable()
	if cfg.TablePath != "" {
		if table, err = config.LoadTable(cfg.TablePath); err != nil {
			return nil, err
		}
	}
	conf := config.Default(table)
	if cfg.ConfigPath != "" {
		if conf, err = config.Load(cfg.ConfigPath, conf); err != nil {
			return nil, err
		}
	}
	if cfg.AnalyzeTimeout > 0 {
		conf.AnalyzeTimeout = cfg.AnalyzeTimeout
	}

	return NewWithOptions(Options{
		Root:        root,
		DryRun:      cfg.DryRun,
		SkipAnalyze: cfg.SkipAnalyze,
		Commit:      cfg.Commit,
		Diff:        cfg.Diff,
		Docs:        cfg.Docs,
		Nvim:        cfg.Nvim,
		CopyMessage: cfg.CopyMessage,
		Config:      conf,
	})
}

// NewWithOptions creates an App, building and validating the rename
// mappings up front so a bad table fails before anything is touched.
func NewWithOptions(opts Options) (*App, error) {
	if opts.Root == "" {
		return nil, fmt.Errorf("project root is required")
	}
	if opts.Runner == nil {
		opts.Runner = hooks.ExecRunner{}
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}

	m, err := mapping.Build(opts.Config.Table)
	if err != nil {
		return nil, fmt.Errorf("failed to build rename mappings: %w", err)
	}

	return &App{
		opts:      opts,
		mappings:  m,
		analyzer:  hooks.NewAnalyzer(opts.Runner, opts.Config.Analyzer, opts.Config.AnalyzeTimeout),
		committer: &hooks.Committer{Runner: opts.Runner},
	}, nil
}

// ResolveRoot returns the absolute project root, defaulting to the current
// working directory.
func ResolveRoot(root string) (string, error) {
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("could not get current working directory: %w", err)
		}
		root = wd
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("invalid project root %q: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("project root: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("project root %s is not a directory", abs)
	}
	return abs, nil
}

// SetProgressCallback sets a function to be called for progress updates.
func (a *App) SetProgressCallback(cb ProgressUpdate) {
	a.progressCallback = cb
}

// Mappings exposes the tables the run will apply.
func (a *App) Mappings() *mapping.Mappings {
	return a.mappings
}

// Execute runs the rename with panic recovery.
func (a *App) Execute(ctx context.Context) (summary model.Summary, err error) {
	// Centralized panic recovery.
	defer func() {
		if r := recover(); r != nil {
			err = &DetailedError{
				Err:   fmt.Errorf("internal panic: %v", r),
				Stack: debug.Stack(),
			}
		}
	}()

	return a.Run(ctx)
}

// Run performs the full rename: relocate component files, rewrite every
// source file, rewrite the aggregator, then verify and commit when asked.
func (a *App) Run(ctx context.Context) (model.Summary, error) {
	opts := a.opts
	layout := opts.Config.Layout
	summary := model.Summary{
		DryRun:         opts.DryRun,
		SpecialRenames: opts.Config.Table.SpecialRenames(),
	}

	ui.Header("Project root: %s", opts.Root)
	ui.Info("Renaming %d widget classes", len(a.mappings.Symbols))
	ui.Info("Renaming %d component files", len(a.mappings.Files))
	if opts.DryRun {
		ui.Warning("\nDRY RUN MODE - No changes will be made\n")
	} else {
		ui.Info("\nStarting renaming process...\n")
	}

	ui.Header("Step 1: Renaming component files...")
	relocator := &fs.Relocator{
		Root:   opts.Root,
		Dir:    filepath.Join(opts.Root, filepath.FromSlash(layout.ComponentsDir)),
		DryRun: opts.DryRun,
	}
	relocated, err := relocator.Relocate(a.mappings.Files)
	if err != nil {
		return summary, err
	}
	summary.Renamed = relocated.Renamed
	for _, f := range relocated.Failed {
		summary.Failed = append(summary.Failed, f.OldPath)
	}
	ui.Info("   Renamed %d files\n", len(relocated.Renamed))

	// Imports of a file that could not be moved must keep pointing at it.
	rewriteMappings := &mapping.Mappings{
		Symbols: a.mappings.Symbols,
		Files:   a.mappings.Files.Without(relocated.Unmoved()...),
	}
	for _, name := range relocated.Unmoved() {
		ui.Warning("  Keeping imports of %s: the file was not renamed. Run again once the conflict is resolved.", name)
	}
	rewriter := rewrite.NewFileRewriter(rewriteMappings, opts.DryRun)

	ui.Header("Step 2: Updating class names and imports in all source files...")
	files, err := fs.Discover(filepath.Join(opts.Root, filepath.FromSlash(layout.SourceDir)), layout.Pattern)
	if err != nil {
		ui.Warning("  %v", err)
	}
	for i, path := range files {
		change, ok := a.rewriteFile(rewriter, path)
		if !ok {
			summary.Failed = append(summary.Failed, path)
		} else if change.Changes > 0 {
			summary.Modified = append(summary.Modified, change)
			summary.Replacements += change.Changes
		}
		if a.progressCallback != nil {
			a.progressCallback(i+1, len(files))
		}
	}
	ui.Info("   %d replacements in %d files\n", summary.Replacements, len(summary.Modified))

	ui.Header("Step 3: Updating barrel export file...")
	a.updateAggregator(rewriter, &summary)

	if opts.Docs {
		ui.Header("\nUpdating documentation...")
		a.updateDocs(rewriteMappings, &summary)
	}

	message := hooks.CommitMessage(hooks.CommitStats{
		Prefix:         opts.Config.Table.Prefix,
		Classes:        len(a.mappings.Symbols),
		Files:          len(a.mappings.Files),
		FilesModified:  len(summary.Modified),
		Replacements:   summary.Replacements,
		SpecialRenames: summary.SpecialRenames,
	})
	if opts.CopyMessage {
		if err := opts.Clipboard(message); err != nil {
			ui.Warning("  Could not copy commit message: %v", err)
		} else {
			ui.Success("  Copied commit message to clipboard")
		}
	}

	if opts.DryRun {
		summary.Message = "Dry run complete. Review the changes above, then run without --dry-run to apply them."
		a.relativizeSummaryPaths(&summary)
		return summary, nil
	}

	if opts.Nvim {
		a.syncEditor(summary.Renamed)
	}

	if !opts.SkipAnalyze {
		ui.Header("\nStep 4: Verifying with %s...", a.analyzer.Name())
		v := a.analyzer.Verify(ctx, opts.Root)
		summary.Verification = v.Outcome
		switch v.Outcome {
		case model.OutcomePassed:
			ui.Success("%s passed with no errors", a.analyzer.Name())
		case model.OutcomeUnavailable:
			ui.Warning("%s not found. Skipping analyze.", a.analyzer.Command[0])
		case model.OutcomeTimedOut:
			ui.Warning("%v", v.Err)
		default:
			ui.Error("%s found issues:", a.analyzer.Name())
			if v.Output != "" {
				ui.Plain("%s", v.Output)
			} else if v.Err != nil {
				ui.Plain("%v", v.Err)
			}
		}
		if v.Failed() {
			ui.Warning("\nWarning: %s found issues.", a.analyzer.Name())
			ui.Warning("   Please review and fix any errors.")
			summary.Message = "Renaming applied, but verification failed."
			a.relativizeSummaryPaths(&summary)
			return summary, fmt.Errorf("%w: %s", ErrVerificationFailed, v.Outcome)
		}
	}

	if opts.Commit {
		ui.Header("\nStep 5: Creating git commit...")
		if err := a.committer.Commit(ctx, opts.Root, message); err != nil {
			ui.Warning("   Error creating git commit: %v", err)
		} else {
			summary.Committed = true
			ui.Success("   Git commit created")
		}
	}

	summary.Message = "Renaming complete!"
	a.relativizeSummaryPaths(&summary)
	return summary, nil
}

// rewriteFile rewrites one file, reporting it. ok is false when the file
// could not be read or written.
func (a *App) rewriteFile(rewriter *rewrite.FileRewriter, path string) (model.FileChange, bool) {
	rel := fs.Rel(a.opts.Root, path)
	res, err := rewriter.RewriteFile(path)
	if err != nil {
		ui.Warning("  Error processing %s: %v", rel, err)
		return model.FileChange{Path: path}, false
	}
	change := model.FileChange{Path: path, Changes: res.Changes()}
	if change.Changes == 0 {
		return change, true
	}

	if a.opts.DryRun {
		ui.Info("  Would update: %s (%d changes)", rel, change.Changes)
	} else {
		ui.Success("  Updated: %s (%d changes)", rel, change.Changes)
	}
	if a.opts.Diff {
		a.printDiff(rel, res)
	}
	return change, true
}

func (a *App) printDiff(rel string, res rewrite.FileResult) {
	diff, err := rewrite.Preview(rel, res)
	if err != nil {
		ui.Warning("  Could not render diff for %s: %v", rel, err)
		return
	}
	if diff != "" {
		ui.Plain("%s", diff)
	}
}

// updateAggregator runs the rewriter over the barrel export once more. A
// missing file is reported and skipped.
func (a *App) updateAggregator(rewriter *rewrite.FileRewriter, summary *model.Summary) {
	path := filepath.Join(a.opts.Root, filepath.FromSlash(a.opts.Config.Layout.Aggregator))
	if _, err := os.Stat(path); err != nil {
		ui.Warning("  Barrel file not found: %s", fs.Rel(a.opts.Root, path))
		return
	}
	summary.AggregatorFound = true

	res, err := rewriter.RewriteFile(path)
	if err != nil {
		ui.Warning("  Error processing barrel file: %v", err)
		return
	}
	summary.AggregatorChanges = res.Changes()
	switch {
	case res.Changes() == 0:
		ui.Info("  Barrel export already up to date")
	case a.opts.DryRun:
		ui.Info("  Would update barrel export: %d changes", res.Changes())
	default:
		ui.Success("  Updated barrel export: %d changes", res.Changes())
	}
}

func (a *App) updateDocs(m *mapping.Mappings, summary *model.Summary) {
	files, err := fs.Discover(a.opts.Root, a.opts.Config.Layout.DocsPattern)
	if err != nil {
		ui.Warning("  %v", err)
		return
	}
	rw := docs.New(m, a.opts.DryRun)
	for _, path := range files {
		rel := fs.Rel(a.opts.Root, path)
		res, err := rw.RewriteFile(path)
		if err != nil {
			ui.Warning("  Error processing %s: %v", rel, err)
			summary.Failed = append(summary.Failed, path)
			continue
		}
		if res.Changes() == 0 {
			continue
		}
		summary.DocsModified = append(summary.DocsModified, model.FileChange{Path: path, Changes: res.Changes()})
		if a.opts.DryRun {
			ui.Info("  Would update: %s (%d changes)", rel, res.Changes())
		} else {
			ui.Success("  Updated: %s (%d changes)", rel, res.Changes())
		}
		if a.opts.Diff {
			a.printDiff(rel, res)
		}
	}
}

func (a *App) syncEditor(renamed []model.FileRename) {
	manager, err := nvim.New()
	if err != nil {
		ui.Warning("  Skipping Neovim sync: %v", err)
		return
	}
	defer manager.Close()

	updated, failed := manager.RenameBuffers(renamed)
	for _, p := range failed {
		ui.Warning("  Could not retarget Neovim buffer for %s", fs.Rel(a.opts.Root, p))
	}
	if err := manager.Reload(); err != nil {
		ui.Warning("  Neovim checktime failed: %v", err)
		return
	}
	ui.Success("  Synced %d Neovim buffer(s)", len(updated))
}

// relativizeSummaryPaths converts absolute file paths in a summary to be
// relative to the project root for cleaner display.
func (a *App) relativizeSummaryPaths(summary *model.Summary) {
	rel := func(p string) string { return fs.Rel(a.opts.Root, p) }

	for i := range summary.Renamed {
		summary.Renamed[i].OldPath = rel(summary.Renamed[i].OldPath)
		summary.Renamed[i].NewPath = rel(summary.Renamed[i].NewPath)
	}
	for i := range summary.Modified {
		summary.Modified[i].Path = rel(summary.Modified[i].Path)
	}
	for i := range summary.DocsModified {
		summary.DocsModified[i].Path = rel(summary.DocsModified[i].Path)
	}
	for i := range summary.Failed {
		summary.Failed[i] = rel(summary.Failed[i])
	}
}
