package overture

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
var (
	// ErrInvalidConfig indicates the resolved configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrDependencyUnavailable indicates the database never accepted a
	// connection within the bounded retry budget.
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// ErrHandoffFailed indicates the hand-off command could not replace
	// the current process image.
	ErrHandoffFailed = errors.New("hand-off failed")

	// ErrUsage indicates the command line itself was wrong.
	ErrUsage = errors.New("usage error")
)

// StepError reports a failed maintenance step, preserving the child
// process's exit status when one is available.
type StepError struct {
	Step     string
	ExitCode int // -1 when the step never produced a status (spawn failure, signal)
	Err      error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %q failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// ExitCodeForError returns the process exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitStepFailed for step failures without a usable child status.
// Failed steps with a known child status pass that status through.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var stepErr *StepError
	if errors.As(err, &stepErr) {
		if stepErr.ExitCode > 0 {
			return stepErr.ExitCode
		}
		return ExitStepFailed
	}

	switch {
	case errors.Is(err, ErrDependencyUnavailable):
		return ExitGeneralError
	case errors.Is(err, ErrUsage):
		return ExitUsageError
	case errors.Is(err, ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, ErrHandoffFailed):
		return ExitHandoffFailed
	}

	return ExitGeneralError
}
