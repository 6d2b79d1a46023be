// Package steps runs the external maintenance commands between the health
// check and the hand-off: schema migration, cache invalidation and rebuild,
// static-asset installation.
package steps

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"

	"overture/pkg/overture"
)

// ExecRunner implements overture.StepRunner by spawning the step's command.
// Child stdout/stderr are streamed to the runner's writers so maintenance
// output lands in the container log like any other entrypoint output.
type ExecRunner struct {
	stdout io.Writer
	stderr io.Writer
	env    []string
}

// NewExecRunner creates a runner wired to the process's own streams and
// environment.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{
		stdout: os.Stdout,
		stderr: os.Stderr,
		env:    os.Environ(),
	}
}

// WithStreams returns a copy of the runner writing child output to the
// given writers. Used by tests.
func (r *ExecRunner) WithStreams(stdout, stderr io.Writer) *ExecRunner {
	clone := *r
	clone.stdout = stdout
	clone.stderr = stderr
	return &clone
}

// WithEnv returns a copy of the runner passing env to child processes.
func (r *ExecRunner) WithEnv(env []string) *ExecRunner {
	clone := *r
	clone.env = env
	return &clone
}

// Run executes the step and waits for it to finish. Failures come back as
// *overture.StepError carrying the child's exit status when there is one.
func (r *ExecRunner) Run(ctx context.Context, step overture.Step) error {
	cmd := exec.CommandContext(ctx, step.Command, step.Args...)
	cmd.Stdout = r.stdout
	cmd.Stderr = r.stderr
	cmd.Env = r.env

	if err := cmd.Run(); err != nil {
		code := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		}
		return &overture.StepError{Step: step.Name, ExitCode: code, Err: err}
	}
	return nil
}

// Sequence runs steps in order. A failed step marked TolerateFailure is
// logged and skipped; any other failure aborts the sequence and is
// returned to the caller unchanged.
func Sequence(ctx context.Context, runner overture.StepRunner, steps []overture.Step, logger overture.Logger) error {
	for _, step := range steps {
		logger.Info("running step %s", step.Name)
		logger.Verbose("step %s: %s", step.Name, step)

		if err := runner.Run(ctx, step); err != nil {
			if step.TolerateFailure {
				logger.Error("step %s failed (ignored): %v", step.Name, err)
				continue
			}
			return err
		}
	}
	return nil
}
