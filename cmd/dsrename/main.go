package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"

	"github.com/sokinpui/dsrename/cli"
	"github.com/sokinpui/dsrename/internal/tui"
	"github.com/sokinpui/dsrename/internal/ui"
	"github.com/sokinpui/dsrename/model"
	"github.com/sokinpui/dsrename/renamer"
)

func main() {
	cfg, err := cli.ParseFlags()
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	app, err := renamer.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize application: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var summary model.Summary
	if cfg.NoAnimation || !isatty.IsTerminal(os.Stdout.Fd()) {
		summary, err = app.Execute(ctx)
	} else {
		summary, err = runWithSpinner(ctx, app)
	}

	var detailed *renamer.DetailedError
	switch {
	case errors.As(err, &detailed):
		fmt.Fprintf(os.Stderr, "Error: %v\n\n--- Stack Trace ---\n%s\n", err, detailed.Stack)
		os.Exit(1)
	case err != nil && !errors.Is(err, renamer.ErrVerificationFailed):
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(tui.RenderSummary(summary))
	if err != nil {
		os.Exit(1)
	}
}

// runWithSpinner runs the app under the bubbletea spinner. Console messages
// are held back while the program owns the terminal and flushed afterwards.
func runWithSpinner(ctx context.Context, app *renamer.App) (model.Summary, error) {
	var log bytes.Buffer
	prev := ui.SetOutput(&log)

	m := tui.New(ctx, app)
	p := tea.NewProgram(m)
	m.SetProgram(p)
	final, err := p.Run()

	ui.SetOutput(prev)
	if err != nil {
		return model.Summary{}, fmt.Errorf("running progress display: %w", err)
	}

	// The program only exits once the run has returned, so the log is complete.
	summary, runErr := final.(tui.Model).Result()
	io.Copy(prev, &log)
	return summary, runErr
}
