package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/pflag"

	"github.com/sokinpui/dsrename/cli"
	"github.com/sokinpui/dsrename/internal/config"
	"github.com/sokinpui/dsrename/internal/mapping"
	"github.com/sokinpui/dsrename/internal/tui"
	"github.com/sokinpui/dsrename/renamer"
)

func main() {
	cfg, err := cli.ParseConflictFlags()
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	root, err := renamer.ResolveRoot(cfg.Root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	app, err := renamer.NewWithOptions(renamer.Options{
		Root:        root,
		DryRun:      cfg.DryRun,
		Diff:        cfg.Diff,
		SkipAnalyze: true,
		Config:      config.Default(mapping.ConflictTable()),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize application: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	summary, err := app.Execute(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(tui.RenderSummary(summary))
}
