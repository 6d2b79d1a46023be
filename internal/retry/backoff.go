package retry

import (
	"math"
	"time"
)

// ConstantBackoff waits the same interval before every attempt.
// This is the startup-wait default: probes land on a fixed cadence and the
// total wait is simply interval * attempts.
type ConstantBackoff struct {
	interval    time.Duration
	maxAttempts int
}

// NewConstantBackoff creates a fixed-interval strategy with the given
// probe budget.
func NewConstantBackoff(maxAttempts int, interval time.Duration) *ConstantBackoff {
	return &ConstantBackoff{
		interval:    interval,
		maxAttempts: maxAttempts,
	}
}

// NextDelay returns the fixed interval regardless of attempt number.
func (b *ConstantBackoff) NextDelay(int) time.Duration {
	return b.interval
}

// MaxAttempts returns the total probe budget.
func (b *ConstantBackoff) MaxAttempts() int {
	return b.maxAttempts
}

// ExponentialBackoff doubles the delay between attempts up to a cap.
// Opt-in via the `backoff: exponential` configuration key for deployments
// where the database restore takes minutes and a fixed cadence just fills
// the logs.
type ExponentialBackoff struct {
	initial     time.Duration
	max         time.Duration
	multiplier  float64
	maxAttempts int
}

// ExponentialOption configures an ExponentialBackoff.
type ExponentialOption func(*ExponentialBackoff)

// WithInitialDelay sets the delay before the second attempt.
func WithInitialDelay(d time.Duration) ExponentialOption {
	return func(b *ExponentialBackoff) {
		b.initial = d
	}
}

// WithMaxDelay caps the delay between attempts.
func WithMaxDelay(d time.Duration) ExponentialOption {
	return func(b *ExponentialBackoff) {
		b.max = d
	}
}

// WithMultiplier sets the growth factor between attempts.
func WithMultiplier(m float64) ExponentialOption {
	return func(b *ExponentialBackoff) {
		b.multiplier = m
	}
}

// NewExponentialBackoff creates an exponential strategy with the given
// probe budget. Defaults: 1s initial delay, 30s cap, factor 2.
func NewExponentialBackoff(maxAttempts int, opts ...ExponentialOption) *ExponentialBackoff {
	b := &ExponentialBackoff{
		initial:     time.Second,
		max:         30 * time.Second,
		multiplier:  2.0,
		maxAttempts: maxAttempts,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NextDelay returns initial * multiplier^(attempt-1), capped at the
// configured maximum. Attempt numbers below 1 are treated as 1.
func (b *ExponentialBackoff) NextDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := float64(b.initial) * math.Pow(b.multiplier, float64(attempt-1))
	if d > float64(b.max) {
		return b.max
	}
	return time.Duration(d)
}

// MaxAttempts returns the total probe budget.
func (b *ExponentialBackoff) MaxAttempts() int {
	return b.maxAttempts
}
