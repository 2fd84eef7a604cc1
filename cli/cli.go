package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"
)

// Config holds all the command-line flag values.
type Config struct {
	DryRun         bool
	SkipAnalyze    bool
	Commit         bool
	Diff           bool
	Docs           bool
	Nvim           bool
	CopyMessage    bool
	NoAnimation    bool
	Root           string
	TablePath      string
	ConfigPath     string
	AnalyzeTimeout time.Duration
}

// ParseFlags parses the dsrename command line.
func ParseFlags() (*Config, error) {
	return Parse(os.Args[0], os.Args[1:])
}

// Parse defines and parses the dsrename flags from args.
func Parse(name string, args []string) (*Config, error) {
	cfg := &Config{}
	flags := pflag.NewFlagSet(name, pflag.ContinueOnError)

	flags.BoolVarP(&cfg.DryRun, "dry-run", "n", false, "Preview changes without applying them.")
	flags.BoolVar(&cfg.SkipAnalyze, "skip-analyze", false, "Skip running the analyzer after renaming.")
	flags.BoolVar(&cfg.Commit, "commit", false, "Create a git commit after successful renaming.")
	flags.BoolVarP(&cfg.Diff, "diff", "d", false, "Print a unified diff of every rewritten file (dry run only).")
	flags.BoolVar(&cfg.Docs, "docs", false, "Also rename identifiers in code spans of markdown files at the project root.")
	flags.BoolVar(&cfg.Nvim, "nvim", false, "Point open Neovim buffers at renamed files and reload them.")
	flags.BoolVar(&cfg.CopyMessage, "copy-message", false, "Copy the generated commit message to the clipboard.")
	flags.BoolVar(&cfg.NoAnimation, "no-animation", false, "Disable the progress spinner.")
	flags.StringVarP(&cfg.Root, "root", "C", "", "Project root (default: current directory).")
	flags.StringVarP(&cfg.TablePath, "table", "t", "", "YAML rename table to use instead of the built-in one.")
	flags.StringVarP(&cfg.ConfigPath, "config", "c", "", "YAML file overriding the project layout and analyzer.")
	flags.DurationVar(&cfg.AnalyzeTimeout, "analyze-timeout", 0, "Time limit for the analyzer (default 60s).")

	flags.Usage = func() {
		fmt.Println("Usage: dsrename [flags]")
		fmt.Println("\nRename FM-prefixed design system widgets and their files to semantic names.")
		fmt.Println("\nExample: dsrename --dry-run --diff")
		fmt.Println("\nFlags:")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	if cfg.Diff && !cfg.DryRun {
		return nil, fmt.Errorf("error: --diff requires --dry-run")
	}
	if cfg.AnalyzeTimeout < 0 {
		return nil, fmt.Errorf("error: --analyze-timeout must not be negative")
	}
	if flags.NArg() > 0 {
		return nil, fmt.Errorf("error: unexpected arguments: %v", flags.Args())
	}

	return cfg, nil
}

// ConflictConfig holds the dsconflicts flag values.
type ConflictConfig struct {
	DryRun bool
	Diff   bool
	Root   string
}

// ParseConflictFlags parses the dsconflicts command line.
func ParseConflictFlags() (*ConflictConfig, error) {
	return ParseConflict(os.Args[0], os.Args[1:])
}

// ParseConflict defines and parses the dsconflicts flags from args.
func ParseConflict(name string, args []string) (*ConflictConfig, error) {
	cfg := &ConflictConfig{}
	flags := pflag.NewFlagSet(name, pflag.ContinueOnError)

	flags.BoolVarP(&cfg.DryRun, "dry-run", "n", false, "Preview changes without applying them.")
	flags.BoolVarP(&cfg.Diff, "diff", "d", false, "Print a unified diff of every rewritten file (dry run only).")
	flags.StringVarP(&cfg.Root, "root", "C", "", "Project root (default: current directory).")

	flags.Usage = func() {
		fmt.Println("Usage: dsconflicts [flags]")
		fmt.Println("\nRename CloseButton → CircularButton and Chip → SelectionChip.")
		fmt.Println("\nFlags:")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	if cfg.Diff && !cfg.DryRun {
		return nil, fmt.Errorf("error: --diff requires --dry-run")
	}
	return cfg, nil
}
