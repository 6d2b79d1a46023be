package retry

import (
	"context"
	"time"

	"overture/pkg/overture"
)

// Executor drives a bounded probe loop: exactly MaxAttempts invocations of
// the operation against an unreachable dependency, spaced by the strategy.
//
// The zero attempt budget is not special-cased; a strategy with
// MaxAttempts <= 0 means the operation is never invoked and Execute
// returns ctx.Err() or nil.
type Executor struct {
	classifier overture.ErrorClassifier
	strategy   overture.BackoffStrategy
	onAttempt  func(attempt int, err error)
}

// NewExecutor creates a retry executor. Panics on nil dependencies: these
// are wiring mistakes that should fail at startup, not mid-probe.
func NewExecutor(classifier overture.ErrorClassifier, strategy overture.BackoffStrategy) *Executor {
	if classifier == nil {
		panic("classifier cannot be nil")
	}
	if strategy == nil {
		panic("strategy cannot be nil")
	}
	return &Executor{
		classifier: classifier,
		strategy:   strategy,
	}
}

// WithOnAttempt returns a copy of the executor that invokes callback after
// every failed attempt, before any wait. The receiver is not modified.
func (e *Executor) WithOnAttempt(callback func(attempt int, err error)) *Executor {
	clone := *e
	clone.onAttempt = callback
	return &clone
}

// Execute runs the operation until it succeeds, fails fatally, the attempt
// budget is spent, or the context is cancelled. The returned error is the
// last attempt's error (or ctx.Err() on cancellation).
func (e *Executor) Execute(ctx context.Context, operation func(ctx context.Context) error) error {
	maxAttempts := e.strategy.MaxAttempts()

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = operation(ctx)
		if lastErr == nil {
			return nil
		}

		if e.onAttempt != nil {
			e.onAttempt(attempt, lastErr)
		}

		if !e.classifier.IsTransient(lastErr) {
			return lastErr
		}

		// No wait after the final attempt; the caller decides what
		// happens next.
		if attempt == maxAttempts {
			break
		}

		timer := time.NewTimer(e.strategy.NextDelay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return lastErr
}
