// Package boot sequences container startup: wait for the database, run the
// maintenance steps, prepare working directories, then hand the process
// over to the supervised runtime.
package boot

import (
	"context"
	"errors"
	"time"

	"overture/internal/db"
	"overture/internal/handoff"
	"overture/internal/retry"
	"overture/internal/steps"
	"overture/internal/workdir"
	"overture/pkg/overture"
)

// PingerFactory builds the health-check pinger from the raw connection
// descriptor. The production factory is db.NewPoolPinger.
type PingerFactory func(ctx context.Context, connString string) (overture.Pinger, error)

// Orchestrator runs the startup sequence. All external effects are behind
// injected dependencies so the sequencing itself is testable.
//
// Not safe for concurrent Run() calls on the same instance; an entrypoint
// never needs that.
type Orchestrator struct {
	cfg    *overture.RunConfig
	logger overture.Logger

	newPinger  PingerFactory
	stepRunner overture.StepRunner
	sleep      func(ctx context.Context, d time.Duration) error
	ensureDirs func(dirs []string) error
	environ    func() []string
	execFn     func(argv, env []string) error
}

// Option overrides one of the orchestrator's effect hooks. Production code
// uses none; tests use them to observe the sequence.
type Option func(*Orchestrator)

// WithPingerFactory overrides how the health-check pinger is built.
func WithPingerFactory(f PingerFactory) Option {
	return func(o *Orchestrator) { o.newPinger = f }
}

// WithStepRunner overrides the maintenance step runner.
func WithStepRunner(r overture.StepRunner) Option {
	return func(o *Orchestrator) { o.stepRunner = r }
}

// WithSleep overrides the warm-up sleep.
func WithSleep(f func(ctx context.Context, d time.Duration) error) Option {
	return func(o *Orchestrator) { o.sleep = f }
}

// WithEnsureDirs overrides working-directory preparation.
func WithEnsureDirs(f func(dirs []string) error) Option {
	return func(o *Orchestrator) { o.ensureDirs = f }
}

// WithExec overrides the process hand-off.
func WithExec(f func(argv, env []string) error) Option {
	return func(o *Orchestrator) { o.execFn = f }
}

// WithEnviron overrides the environment source for the hand-off.
func WithEnviron(f func() []string) Option {
	return func(o *Orchestrator) { o.environ = f }
}

// NewOrchestrator creates an orchestrator for the given run configuration.
// Panics on nil cfg or logger: those are wiring mistakes.
func NewOrchestrator(cfg *overture.RunConfig, logger overture.Logger, opts ...Option) *Orchestrator {
	if cfg == nil {
		panic("cfg cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}

	o := &Orchestrator{
		cfg:    cfg,
		logger: logger,
		newPinger: func(ctx context.Context, connString string) (overture.Pinger, error) {
			return db.NewPoolPinger(ctx, connString)
		},
		stepRunner: steps.NewExecRunner(),
		sleep:      sleepCtx,
		ensureDirs: workdir.Ensure,
		environ:    handoff.Environ,
		execFn:     handoff.Exec,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run executes the startup sequence. On success it does not return: the
// process image has been replaced by the hand-off command. Every returned
// error is a failure.
func (o *Orchestrator) Run(ctx context.Context) error {
	o.logConnection()

	if o.cfg.Warmup > 0 {
		o.logger.Verbose("warm-up pause %s", o.cfg.Warmup)
		if err := o.sleep(ctx, o.cfg.Warmup); err != nil {
			return err
		}
	}

	if err := o.waitForDatabase(ctx); err != nil {
		return err
	}

	if err := steps.Sequence(ctx, o.stepRunner, o.cfg.Steps, o.logger); err != nil {
		return err
	}

	if err := o.ensureDirs(o.cfg.Directories); err != nil {
		return err
	}

	o.logger.Info("handing off to %v", o.cfg.Argv)
	env := handoff.BuildEnv(o.environ(), o.cfg.EnvDefaults)
	return o.execFn(o.cfg.Argv, env)
}

// logConnection logs the redacted descriptor, or a warning when none was
// supplied. The raw descriptor never reaches the log.
func (o *Orchestrator) logConnection() {
	if o.cfg.ConnString == "" {
		o.logger.Info("warning: DATABASE_URL is not set; using driver defaults for the health check")
		return
	}
	parsed, err := db.ParseConnString(o.cfg.ConnString)
	if err != nil {
		o.logger.Info("warning: connection descriptor not in a recognized format; passing it to the driver as-is")
		return
	}
	o.logger.Info("database %s", parsed.Redacted())
}

func (o *Orchestrator) strategy() overture.BackoffStrategy {
	if o.cfg.Backoff == overture.BackoffExponential {
		return retry.NewExponentialBackoff(o.cfg.MaxAttempts, retry.WithInitialDelay(o.cfg.Interval))
	}
	return retry.NewConstantBackoff(o.cfg.MaxAttempts, o.cfg.Interval)
}

func (o *Orchestrator) waitForDatabase(ctx context.Context) error {
	pinger, err := o.newPinger(ctx, o.cfg.ConnString)
	if err != nil {
		// The driver rejected the descriptor outright. The descriptor is
		// external input, so surface this as a failed wait, not a crash.
		o.logger.Error("cannot build health-check connection: %v", err)
		return errors.Join(overture.ErrDependencyUnavailable, err)
	}
	defer pinger.Close()

	o.logger.Info("waiting for database (max %d attempts, %s interval)", o.cfg.MaxAttempts, o.cfg.Interval)

	waiter := db.NewWaiter(pinger, o.strategy(), o.logger)
	if err := waiter.Wait(ctx); err != nil {
		if errors.Is(err, overture.ErrDependencyUnavailable) {
			o.surfaceProbeError(ctx, pinger)
		}
		return err
	}

	o.logger.Info("database is up")
	return nil
}

// surfaceProbeError runs one final probe after the budget is spent so the
// underlying error lands in the log next to the give-up message.
func (o *Orchestrator) surfaceProbeError(ctx context.Context, pinger overture.Pinger) {
	o.logger.Error("database never became reachable; final probe for diagnostics")
	if err := pinger.Ping(ctx); err != nil {
		o.logger.Error("final probe: %v", err)
	} else {
		o.logger.Error("final probe unexpectedly succeeded; the database came up after the retry budget was spent")
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
