package tui

import (
	"errors"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/sokinpui/dsrename/model"
	"github.com/sokinpui/dsrename/renamer"
)

func TestRenderSummary(t *testing.T) {
	out := RenderSummary(model.Summary{
		Renamed:        []model.FileRename{{OldPath: "a/fm_card.dart", NewPath: "a/surface.dart"}},
		Modified:       []model.FileChange{{Path: "lib/main.dart", Changes: 3}},
		Replacements:   3,
		Failed:         []string{"lib/broken.dart"},
		Verification:   model.OutcomePassed,
		SpecialRenames: []string{"Card→Surface"},
		Message:        "Renaming complete!",
	})

	assert.Contains(t, out, "Files renamed: 1")
	assert.Contains(t, out, "Files modified: 1")
	assert.Contains(t, out, "Total replacements: 3")
	assert.Contains(t, out, "Verification: passed")
	assert.Contains(t, out, "Card→Surface")
	assert.Contains(t, out, "lib/broken.dart")
	assert.Contains(t, out, "Renaming complete!")
	assert.Contains(t, out, "flutter pub get")
}

func TestRenderSummaryDryRun(t *testing.T) {
	out := RenderSummary(model.Summary{DryRun: true, AggregatorChanges: 2})

	assert.Contains(t, out, "SUMMARY (dry run)")
	assert.Contains(t, out, "Files to rename: 0")
	assert.Contains(t, out, "Barrel export changes: 2")
	assert.NotContains(t, out, "Verification")
	assert.NotContains(t, out, "Next steps")
}

func TestRenderSummaryFailedVerification(t *testing.T) {
	out := RenderSummary(model.Summary{Verification: model.OutcomeTimedOut})

	assert.Contains(t, out, "Verification: timed out")
	assert.NotContains(t, out, "Next steps")
}

func TestUpdateResult(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		state state
	}{
		{"success", nil, stateSummary},
		{"verification failed", fmt.Errorf("%w: failed", renamer.ErrVerificationFailed), stateSummary},
		{"other error", errors.New("boom"), stateError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary := model.Summary{Replacements: 4}
			next, cmd := Model{}.Update(resultMsg{summary: summary, err: tt.err})
			m := next.(Model)

			assert.Equal(t, tt.state, m.state)
			assert.NotNil(t, cmd)
			got, err := m.Result()
			assert.Equal(t, summary, got)
			assert.Equal(t, tt.err, err)
		})
	}
}

func TestQuitKeyWaitsForRun(t *testing.T) {
	next, cmd := Model{state: stateProcessing}.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	m := next.(Model)

	assert.Nil(t, cmd)
	assert.Equal(t, stateProcessing, m.state)
	assert.Contains(t, m.View(), "finishing the run")

	next, cmd = m.Update(resultMsg{summary: model.Summary{Replacements: 1}})
	assert.NotNil(t, cmd)
	summary, err := next.(Model).Result()
	assert.NoError(t, err)
	assert.Equal(t, 1, summary.Replacements)
}

func TestViewShowsProgress(t *testing.T) {
	next, _ := Model{}.Update(progressMsg{current: 2, total: 5})
	assert.Contains(t, next.View(), "2/5")
}
