package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sokinpui/dsrename/model"
	"github.com/sokinpui/dsrename/renamer"
)

// --- Styles ---
var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("197"))
	pathStyle    = lipgloss.NewStyle()
	faintStyle   = lipgloss.NewStyle().Faint(true)
)

// --- Messages ---
type resultMsg struct {
	summary model.Summary
	err     error
}

type progressMsg struct {
	current, total int
}

// --- Model ---
type Model struct {
	ctx     context.Context
	app     *renamer.App
	spinner spinner.Model
	state   state
	current int
	total   int
	summary model.Summary
	err     error
	// quitRequested is set when a quit key arrives mid-run.
	quitRequested bool
}

type state int

const (
	stateProcessing state = iota
	stateSummary
	stateError
)

func New(ctx context.Context, app *renamer.App) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return Model{
		ctx:     ctx,
		app:     app,
		spinner: s,
		state:   stateProcessing,
	}
}

// SetProgram routes the app's progress updates into the running program.
func (m Model) SetProgram(p *tea.Program) {
	m.app.SetProgressCallback(func(current, total int) {
		p.Send(progressMsg{current: current, total: total})
	})
}

// Result returns the run's summary and error once the program has exited.
func (m Model) Result() (model.Summary, error) {
	return m.summary, m.err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.runApp)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			// A run is never stopped partway through the tree.
			if m.state == stateProcessing {
				m.quitRequested = true
				return m, nil
			}
			return m, tea.Quit
		}

	case progressMsg:
		m.current, m.total = msg.current, msg.total
		return m, nil

	case resultMsg:
		m.summary, m.err = msg.summary, msg.err
		m.state = stateSummary
		if msg.err != nil && !errors.Is(msg.err, renamer.ErrVerificationFailed) {
			m.state = stateError
		}
		return m, tea.Quit

	default:
		var cmd tea.Cmd
		if m.state == stateProcessing {
			m.spinner, cmd = m.spinner.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

// View shows progress only. The caller prints the summary below the run log
// once the program exits.
func (m Model) View() string {
	switch m.state {
	case stateProcessing:
		status := "Renaming..."
		if m.total > 0 {
			status = fmt.Sprintf("Rewriting files... %d/%d", m.current, m.total)
		}
		if m.quitRequested {
			status += faintStyle.Render(" (finishing the run before exiting)")
		}
		return fmt.Sprintf("%s %s", m.spinner.View(), status)
	case stateError:
		return errorStyle.Render("Error: "+m.err.Error()) + "\n"
	default:
		return ""
	}
}

func (m Model) runApp() tea.Msg {
	// Stack traces of a DetailedError are printed by the caller.
	summary, err := m.app.Execute(m.ctx)
	return resultMsg{summary: summary, err: err}
}

// RenderSummary formats the end-of-run report.
func RenderSummary(s model.Summary) string {
	var b strings.Builder

	title := "SUMMARY"
	if s.DryRun {
		title = "SUMMARY (dry run)"
	}
	b.WriteString(headerStyle.Render(title))
	b.WriteString("\n")

	verb := "renamed"
	if s.DryRun {
		verb = "to rename"
	}
	fmt.Fprintf(&b, "  Files %s: %d\n", verb, s.FilesRenamed())
	fmt.Fprintf(&b, "  Files modified: %d\n", s.FilesModified())
	fmt.Fprintf(&b, "  Total replacements: %d\n", s.Replacements)
	if s.AggregatorChanges > 0 {
		fmt.Fprintf(&b, "  Barrel export changes: %d\n", s.AggregatorChanges)
	}
	if len(s.DocsModified) > 0 {
		fmt.Fprintf(&b, "  Docs modified: %d\n", len(s.DocsModified))
	}
	if s.Verification != model.OutcomeNotRun {
		line := fmt.Sprintf("  Verification: %s", s.Verification)
		switch s.Verification {
		case model.OutcomePassed:
			line = successStyle.Render(line)
		case model.OutcomeUnavailable:
			line = warningStyle.Render(line)
		default:
			line = errorStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	if s.Committed {
		b.WriteString(successStyle.Render("  Git commit created") + "\n")
	}

	if len(s.SpecialRenames) > 0 {
		b.WriteString("\n")
		b.WriteString(headerStyle.Render("Special renames:"))
		b.WriteString("\n")
		for _, r := range s.SpecialRenames {
			fmt.Fprintf(&b, "  %s\n", r)
		}
	}

	if len(s.Failed) > 0 {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Failed:"))
		b.WriteString("\n")
		for _, f := range s.Failed {
			fmt.Fprintf(&b, "  %s\n", pathStyle.Render(f))
		}
	}

	if s.Message != "" {
		b.WriteString("\n")
		b.WriteString(headerStyle.Render(s.Message))
		b.WriteString("\n")
	}

	if !s.DryRun && s.Verification != model.OutcomeFailed && s.Verification != model.OutcomeTimedOut {
		b.WriteString("\n")
		b.WriteString(faintStyle.Render("Next steps:\n" +
			"  1. Run: flutter pub get\n" +
			"  2. Run: flutter analyze\n" +
			"  3. Test the app: flutter run\n" +
			"  4. Review the changes: git diff"))
		b.WriteString("\n")
	}

	return b.String()
}
