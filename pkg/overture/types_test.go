package overture

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validRunConfig() *RunConfig {
	return &RunConfig{
		Warmup:      DefaultWarmupDelay,
		Interval:    DefaultProbeInterval,
		MaxAttempts: DefaultMaxAttempts,
		Backoff:     BackoffConstant,
		Steps:       DefaultSteps(),
		Argv:        []string{"supervisord"},
	}
}

func TestRunConfig_Validate(t *testing.T) {
	assert.NoError(t, validRunConfig().Validate())
}

func TestRunConfig_ValidateRejections(t *testing.T) {
	mutations := map[string]func(*RunConfig){
		"negative warmup":   func(c *RunConfig) { c.Warmup = -time.Second },
		"zero interval":     func(c *RunConfig) { c.Interval = 0 },
		"zero attempts":     func(c *RunConfig) { c.MaxAttempts = 0 },
		"unknown backoff":   func(c *RunConfig) { c.Backoff = "linear" },
		"missing argv":      func(c *RunConfig) { c.Argv = nil },
		"step sans command": func(c *RunConfig) { c.Steps = []Step{{Name: "x"}} },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			cfg := validRunConfig()
			mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestDefaultSteps_OrderAndTolerance(t *testing.T) {
	steps := DefaultSteps()

	names := make([]string, len(steps))
	for i, s := range steps {
		names[i] = s.Name
	}
	assert.Equal(t, []string{"migrate", "cache-clear", "cache-warmup", "assets-install"}, names)

	assert.True(t, steps[0].TolerateFailure, "only the migration step is best-effort")
	for _, s := range steps[1:] {
		assert.False(t, s.TolerateFailure, "step %s must be fatal on failure", s.Name)
	}
}

func TestStep_String(t *testing.T) {
	s := Step{Name: "cache-clear", Command: "php", Args: []string{"bin/console", "cache:clear"}}
	assert.Equal(t, "php bin/console cache:clear", s.String())
}

func TestConnectionConfig_Redacted(t *testing.T) {
	cfg := &ConnectionConfig{
		Host:     "db",
		Port:     5432,
		Database: "app",
		Username: "app",
		Password: "super-secret",
		SSLMode:  "disable",
	}

	out := cfg.Redacted()
	assert.NotContains(t, out, "super-secret")
	assert.Contains(t, out, "app:***@db:5432")
	assert.Contains(t, out, "sslmode=disable")
}
