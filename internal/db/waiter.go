package db

import (
	"context"
	"fmt"

	"overture/internal/retry"
	"overture/pkg/overture"
)

// Waiter blocks until the database answers the health query, retrying on a
// bounded budget. It owns the attempt-by-attempt logging; the caller only
// sees success or the final ErrDependencyUnavailable.
type Waiter struct {
	pinger   overture.Pinger
	strategy overture.BackoffStrategy
	logger   overture.Logger
}

// NewWaiter creates a Waiter. Panics on nil dependencies.
func NewWaiter(pinger overture.Pinger, strategy overture.BackoffStrategy, logger overture.Logger) *Waiter {
	if pinger == nil {
		panic("pinger cannot be nil")
	}
	if strategy == nil {
		panic("strategy cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Waiter{pinger: pinger, strategy: strategy, logger: logger}
}

// Wait probes until success or budget exhaustion. The returned error wraps
// overture.ErrDependencyUnavailable together with the last probe error.
func (w *Waiter) Wait(ctx context.Context) error {
	maxAttempts := w.strategy.MaxAttempts()

	attempts := 0
	executor := retry.NewExecutor(retry.NewPostgresClassifier(), w.strategy).
		WithOnAttempt(func(attempt int, err error) {
			attempts = attempt
			w.logger.Info("database not ready (attempt %d/%d)", attempt, maxAttempts)
			w.logger.Verbose("probe %d failed: %v", attempt, err)
		})

	err := executor.Execute(ctx, w.pinger.Ping)
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return fmt.Errorf("%w after %d attempts: %v", overture.ErrDependencyUnavailable, attempts, err)
}
