package overture

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
//
// A failed maintenance step is the exception: overture mirrors the child
// process's own exit status so supervisors and CI see the original code.
const (
	ExitSuccess       = 0  // Hand-off completed (or check succeeded)
	ExitGeneralError  = 1  // Database never reachable within the retry budget, or unclassified error
	ExitUsageError    = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic         = 3  // Internal panic (unexpected crash)
	ExitConfigError   = 10 // Invalid configuration or parameters
	ExitStepFailed    = 12 // Maintenance step failed without a known child status
	ExitHandoffFailed = 13 // Hand-off command could not be executed
)

const (
	// DefaultWarmupDelay is the fixed pause before the first health probe,
	// giving sibling containers a head start after a cold deploy.
	DefaultWarmupDelay = 5 * time.Second

	// DefaultProbeInterval is the spacing between health probes.
	DefaultProbeInterval = 2 * time.Second

	// DefaultMaxAttempts bounds the health probe loop. With the default
	// interval this gives the database roughly a minute to come up.
	DefaultMaxAttempts = 30

	// DefaultCheckTimeout bounds the one-shot `overture check` probe.
	DefaultCheckTimeout = 2 * time.Second

	// ConfigFileName is the project configuration file read from the
	// working directory (or --config).
	ConfigFileName = "overture.yaml"
)

// Backoff policy names accepted in configuration.
const (
	BackoffConstant    = "constant"
	BackoffExponential = "exponential"
)

// DefaultEnv holds runtime-mode variables injected into the hand-off
// environment when the container does not set them itself.
var DefaultEnv = map[string]string{
	"APP_ENV":   "prod",
	"APP_DEBUG": "0",
}

// DefaultDirectories are the writable working directories the application
// runtime expects underneath its working directory.
var DefaultDirectories = []string{"var/cache", "var/log", "var/sessions"}

// DefaultSteps is the maintenance sequence run between the health check and
// the hand-off. Order matters: schema first, then derived caches, then
// published assets. Only the migration step tolerates failure.
func DefaultSteps() []Step {
	return []Step{
		{
			Name:            "migrate",
			Command:         "php",
			Args:            []string{"bin/console", "doctrine:migrations:migrate", "--no-interaction", "--allow-no-migration"},
			TolerateFailure: true,
		},
		{
			Name:    "cache-clear",
			Command: "php",
			Args:    []string{"bin/console", "cache:clear", "--no-warmup"},
		},
		{
			Name:    "cache-warmup",
			Command: "php",
			Args:    []string{"bin/console", "cache:warmup"},
		},
		{
			Name:    "assets-install",
			Command: "php",
			Args:    []string{"bin/console", "assets:install", "public"},
		},
	}
}
