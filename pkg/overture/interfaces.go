package overture

import (
	"context"
	"time"
)

// Pinger performs the database health check: a trivial round-trip query
// confirming the server accepts connections and answers.
type Pinger interface {
	Ping(ctx context.Context) error
	Close()
}

// BackoffStrategy determines the delay between health probe attempts.
type BackoffStrategy interface {
	// NextDelay returns the delay before the given 1-based attempt.
	NextDelay(attempt int) time.Duration

	// MaxAttempts returns the total probe budget.
	MaxAttempts() int
}

// ErrorClassifier determines whether an error is transient (worth another
// probe) or fatal.
type ErrorClassifier interface {
	IsTransient(err error) bool
}

// StepRunner executes a single maintenance step to completion.
type StepRunner interface {
	Run(ctx context.Context, step Step) error
}
