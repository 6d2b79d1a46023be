package overture

import (
	"fmt"
	"net/url"
	"time"
)

// ConnectionConfig holds the parsed form of a database connection descriptor.
type ConnectionConfig struct {
	Host           string
	Port           int
	Database       string
	Username       string
	Password       string
	SSLMode        string
	ConnectTimeout time.Duration

	// Params carries driver parameters not modeled above, verbatim.
	Params map[string]string
}

// Redacted renders the configuration as a PostgreSQL URI with the password
// masked. This is the only form that may appear in logs.
func (c *ConnectionConfig) Redacted() string {
	u := &url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   "/" + c.Database,
	}
	if c.Username != "" {
		if c.Password != "" {
			u.User = url.UserPassword(c.Username, "***")
		} else {
			u.User = url.User(c.Username)
		}
	}
	q := url.Values{}
	if c.SSLMode != "" {
		q.Set("sslmode", c.SSLMode)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// Step is one external maintenance command in the startup sequence.
type Step struct {
	Name            string
	Command         string
	Args            []string
	TolerateFailure bool
}

// String renders the step's command line for log output.
func (s Step) String() string {
	line := s.Command
	for _, a := range s.Args {
		line += " " + a
	}
	return line
}

// RunConfig is the fully resolved configuration for a single `overture run`
// invocation. It is assembled by internal/config from flags, environment,
// the project file, and defaults.
type RunConfig struct {
	// ConnString is the raw connection descriptor. Empty when the
	// environment supplied none; startup proceeds regardless.
	ConnString string

	Warmup      time.Duration
	Interval    time.Duration
	MaxAttempts int

	// Backoff selects the probe spacing policy: BackoffConstant (default,
	// fixed spacing) or BackoffExponential.
	Backoff string

	Steps       []Step
	Directories []string

	// EnvDefaults are injected into the hand-off environment for keys the
	// container did not set.
	EnvDefaults map[string]string

	// Argv is the hand-off command line. Argv[0] is resolved via PATH.
	Argv []string
}

// Validate checks the invariants a run depends on. It does not touch the
// network or filesystem.
func (c *RunConfig) Validate() error {
	if c.Warmup < 0 {
		return fmt.Errorf("%w: warmup must not be negative, got %s", ErrInvalidConfig, c.Warmup)
	}
	if c.Interval <= 0 {
		return fmt.Errorf("%w: probe interval must be positive, got %s", ErrInvalidConfig, c.Interval)
	}
	if c.MaxAttempts <= 0 {
		return fmt.Errorf("%w: max attempts must be positive, got %d", ErrInvalidConfig, c.MaxAttempts)
	}
	if c.Backoff != BackoffConstant && c.Backoff != BackoffExponential {
		return fmt.Errorf("%w: unknown backoff policy %q", ErrInvalidConfig, c.Backoff)
	}
	for _, step := range c.Steps {
		if step.Command == "" {
			return fmt.Errorf("%w: step %q has no command", ErrInvalidConfig, step.Name)
		}
	}
	if len(c.Argv) == 0 {
		return fmt.Errorf("%w: no hand-off command given", ErrInvalidConfig)
	}
	return nil
}
