// Package config assembles the RunConfig for an overture invocation.
//
// Resolution precedence per setting: CLI flag > environment variable >
// overture.yaml > built-in default. The .env file (godotenv) is loaded by
// the CLI before resolution and therefore participates as environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"overture/pkg/overture"
)

// ErrConfigNotFound is returned by Load when the project file does not
// exist. Callers treat this as "use defaults", not as a failure.
var ErrConfigNotFound = errors.New("config file not found")

// Environment variables consumed during resolution.
const (
	EnvConnString  = "DATABASE_URL"
	EnvWarmup      = "OVERTURE_WARMUP"
	EnvInterval    = "OVERTURE_INTERVAL"
	EnvMaxAttempts = "OVERTURE_MAX_ATTEMPTS"
	EnvBackoff     = "OVERTURE_BACKOFF"
)

// StepConfig is the YAML form of a maintenance step.
type StepConfig struct {
	Name            string   `yaml:"name"`
	Command         string   `yaml:"command"`
	Args            []string `yaml:"args,omitempty"`
	TolerateFailure bool     `yaml:"tolerate_failure,omitempty"`
}

// FileConfig is the schema of overture.yaml. Durations are strings in
// Go duration syntax ("5s", "1m30s").
type FileConfig struct {
	Connection  string            `yaml:"connection,omitempty"`
	Warmup      string            `yaml:"warmup,omitempty"`
	Interval    string            `yaml:"interval,omitempty"`
	MaxAttempts int               `yaml:"max_attempts,omitempty"`
	Backoff     string            `yaml:"backoff,omitempty"`
	Steps       []StepConfig      `yaml:"steps,omitempty"`
	Directories []string          `yaml:"directories,omitempty"`
	Env         map[string]string `yaml:"env,omitempty"`
}

// Load reads overture.yaml from dir. Returns ErrConfigNotFound when the
// file is absent.
func Load(dir string) (*FileConfig, error) {
	path := filepath.Join(dir, overture.ConfigFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", overture.ErrInvalidConfig, overture.ConfigFileName, err)
	}
	return &cfg, nil
}

// Flags carries the CLI flag values that were explicitly set. Unset flags
// stay at their zero value and do not participate in resolution; the CLI
// only fills fields whose flag was changed.
type Flags struct {
	Connection  string
	Warmup      time.Duration
	WarmupSet   bool
	Interval    time.Duration
	IntervalSet bool
	MaxAttempts int
	Backoff     string
}

// Resolve builds the validated RunConfig from flags, environment, the
// project file (may be nil), and defaults. argv is the hand-off command.
func Resolve(flags Flags, file *FileConfig, argv []string) (*overture.RunConfig, error) {
	if file == nil {
		file = &FileConfig{}
	}

	cfg := &overture.RunConfig{
		Warmup:      overture.DefaultWarmupDelay,
		Interval:    overture.DefaultProbeInterval,
		MaxAttempts: overture.DefaultMaxAttempts,
		Backoff:     overture.BackoffConstant,
		Steps:       overture.DefaultSteps(),
		Directories: overture.DefaultDirectories,
		EnvDefaults: overture.DefaultEnv,
		Argv:        argv,
	}

	cfg.ConnString = firstNonEmpty(flags.Connection, os.Getenv(EnvConnString), file.Connection)

	if err := resolveDuration(&cfg.Warmup, flags.Warmup, flags.WarmupSet, EnvWarmup, file.Warmup); err != nil {
		return nil, err
	}
	if err := resolveDuration(&cfg.Interval, flags.Interval, flags.IntervalSet, EnvInterval, file.Interval); err != nil {
		return nil, err
	}
	if err := resolveAttempts(&cfg.MaxAttempts, flags.MaxAttempts, file.MaxAttempts); err != nil {
		return nil, err
	}
	cfg.Backoff = firstNonEmpty(flags.Backoff, os.Getenv(EnvBackoff), file.Backoff, overture.BackoffConstant)

	if len(file.Steps) > 0 {
		cfg.Steps = make([]overture.Step, 0, len(file.Steps))
		for _, s := range file.Steps {
			cfg.Steps = append(cfg.Steps, overture.Step{
				Name:            s.Name,
				Command:         s.Command,
				Args:            s.Args,
				TolerateFailure: s.TolerateFailure,
			})
		}
	}
	if len(file.Directories) > 0 {
		cfg.Directories = file.Directories
	}
	if len(file.Env) > 0 {
		merged := make(map[string]string, len(overture.DefaultEnv)+len(file.Env))
		for k, v := range overture.DefaultEnv {
			merged[k] = v
		}
		for k, v := range file.Env {
			merged[k] = v
		}
		cfg.EnvDefaults = merged
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func resolveDuration(dst *time.Duration, flagValue time.Duration, flagSet bool, envKey, fileValue string) error {
	if flagSet {
		*dst = flagValue
		return nil
	}
	if raw := os.Getenv(envKey); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a duration: %v", overture.ErrInvalidConfig, envKey, raw, err)
		}
		*dst = d
		return nil
	}
	if fileValue != "" {
		d, err := time.ParseDuration(fileValue)
		if err != nil {
			return fmt.Errorf("%w: %s: %q is not a duration: %v", overture.ErrInvalidConfig, overture.ConfigFileName, fileValue, err)
		}
		*dst = d
	}
	return nil
}

func resolveAttempts(dst *int, flagValue, fileValue int) error {
	if flagValue > 0 {
		*dst = flagValue
		return nil
	}
	if raw := os.Getenv(EnvMaxAttempts); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not an integer: %v", overture.ErrInvalidConfig, EnvMaxAttempts, raw, err)
		}
		*dst = n
		return nil
	}
	if fileValue != 0 {
		*dst = fileValue
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
