package hooks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sokinpui/dsrename/model"
)

const DefaultAnalyzeTimeout = 60 * time.Second

// Verification is the classified result of running the analyzer.
type Verification struct {
	Outcome model.Outcome
	// Output holds the analyzer's captured stdout and stderr on failure.
	Output string
	Err    error
}

// Failed reports whether the run must exit non-zero.
func (v Verification) Failed() bool {
	return v.Outcome == model.OutcomeFailed || v.Outcome == model.OutcomeTimedOut
}

// Analyzer runs a static analysis command against the project root.
type Analyzer struct {
	Runner  Runner
	Command []string
	Timeout time.Duration
}

// NewAnalyzer creates an Analyzer for `flutter analyze` unless another
// command is given.
func NewAnalyzer(runner Runner, command []string, timeout time.Duration) *Analyzer {
	if len(command) == 0 {
		command = []string{"flutter", "analyze"}
	}
	if timeout <= 0 {
		timeout = DefaultAnalyzeTimeout
	}
	return &Analyzer{Runner: runner, Command: command, Timeout: timeout}
}

// Name is the command line shown to the user.
func (a *Analyzer) Name() string {
	return strings.Join(a.Command, " ")
}

// Verify runs the analyzer in dir. A missing analyzer is reported as
// unavailable rather than failed.
func (a *Analyzer) Verify(ctx context.Context, dir string) Verification {
	ctx, cancel := context.WithTimeout(ctx, a.Timeout)
	defer cancel()

	res, err := a.Runner.Run(ctx, dir, a.Command[0], a.Command[1:]...)
	switch {
	case errors.Is(err, ErrNotFound):
		return Verification{Outcome: model.OutcomeUnavailable, Err: err}
	case errors.Is(err, context.DeadlineExceeded):
		return Verification{
			Outcome: model.OutcomeTimedOut,
			Output:  res.Output(),
			Err:     fmt.Errorf("%s timed out after %s", a.Name(), a.Timeout),
		}
	case err != nil:
		return Verification{Outcome: model.OutcomeFailed, Output: res.Output(), Err: err}
	case res.ExitCode != 0:
		return Verification{
			Outcome: model.OutcomeFailed,
			Output:  res.Output(),
			Err:     fmt.Errorf("%s exited with status %d", a.Name(), res.ExitCode),
		}
	default:
		return Verification{Outcome: model.OutcomePassed}
	}
}
