package lro

import (
	"fmt"

	"github.com/dictl-dev/dictl/internal/responses"
)

// Process exit codes.
const (
	ExitOK       = 0
	ExitError    = 1
	ExitTimedOut = 2
)

// Renderer prints a response snapshot.
type Renderer interface {
	Render(e responses.Envelope) error
}

// ExitCode maps an outcome to the process exit code.
func ExitCode(o Outcome) int {
	switch o.Kind {
	case Reached, Unsupported:
		return ExitOK
	case TimedOut:
		return ExitTimedOut
	}
	return ExitError
}

// Reporter owns the final snapshot of a command and renders it at most once.
type Reporter struct {
	renderer Renderer
	rendered bool
}

// NewReporter creates a Reporter printing through r.
func NewReporter(r Renderer) *Reporter {
	return &Reporter{renderer: r}
}

// Report renders snapshot and returns the exit code for o. For FetchFailed the
// snapshot is rendered first and the cause is returned so the caller can
// surface it.
func (r *Reporter) Report(o Outcome, snapshot responses.Envelope) (int, error) {
	renderErr := r.render(snapshot)

	if o.Kind == FetchFailed {
		if renderErr != nil {
			return ExitError, fmt.Errorf("%w (unable to render last known state: %v)", o.Cause, renderErr)
		}
		return ExitError, o.Cause
	}

	if renderErr != nil {
		return ExitError, fmt.Errorf("unable to render output: %w", renderErr)
	}
	return ExitCode(o), nil
}

func (r *Reporter) render(snapshot responses.Envelope) error {
	if r.rendered {
		return nil
	}
	r.rendered = true
	return r.renderer.Render(snapshot)
}
