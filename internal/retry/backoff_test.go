package retry

import (
	"testing"
	"time"
)

func TestConstantBackoff_FixedSpacing(t *testing.T) {
	b := NewConstantBackoff(30, 2*time.Second)

	for _, attempt := range []int{1, 2, 15, 30} {
		if got := b.NextDelay(attempt); got != 2*time.Second {
			t.Errorf("NextDelay(%d) = %s, want 2s", attempt, got)
		}
	}
	if b.MaxAttempts() != 30 {
		t.Errorf("MaxAttempts() = %d, want 30", b.MaxAttempts())
	}
}

func TestExponentialBackoff_Growth(t *testing.T) {
	b := NewExponentialBackoff(10,
		WithInitialDelay(100*time.Millisecond),
		WithMaxDelay(time.Second),
		WithMultiplier(2.0),
	)

	cases := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 100 * time.Millisecond},
		{2, 200 * time.Millisecond},
		{3, 400 * time.Millisecond},
		{4, 800 * time.Millisecond},
		{5, time.Second}, // capped
		{9, time.Second}, // still capped
	}
	for _, tc := range cases {
		if got := b.NextDelay(tc.attempt); got != tc.want {
			t.Errorf("NextDelay(%d) = %s, want %s", tc.attempt, got, tc.want)
		}
	}
}

func TestExponentialBackoff_Defaults(t *testing.T) {
	b := NewExponentialBackoff(5)

	if got := b.NextDelay(1); got != time.Second {
		t.Errorf("NextDelay(1) = %s, want 1s", got)
	}
	if got := b.NextDelay(0); got != time.Second {
		t.Errorf("NextDelay(0) = %s, want clamp to first attempt", got)
	}
	if b.MaxAttempts() != 5 {
		t.Errorf("MaxAttempts() = %d, want 5", b.MaxAttempts())
	}
}
