package boot

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"overture/pkg/overture"
)

type mockPinger struct {
	calls     int
	succeedOn int // 0 = never
	err       error
	closed    bool
}

func (p *mockPinger) Ping(context.Context) error {
	p.calls++
	if p.succeedOn > 0 && p.calls >= p.succeedOn {
		return nil
	}
	if p.err != nil {
		return p.err
	}
	return errors.New("dial tcp 10.0.0.5:5432: connect: connection refused")
}

func (p *mockPinger) Close() { p.closed = true }

type mockStepRunner struct {
	ran     []string
	failing map[string]error
}

func (r *mockStepRunner) Run(_ context.Context, step overture.Step) error {
	r.ran = append(r.ran, step.Name)
	if err, ok := r.failing[step.Name]; ok {
		return err
	}
	return nil
}

type memoryLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *memoryLogger) logf(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func (l *memoryLogger) Verbose(format string, args ...interface{}) { l.logf(format, args...) }
func (l *memoryLogger) Info(format string, args ...interface{})    { l.logf(format, args...) }
func (l *memoryLogger) Error(format string, args ...interface{})   { l.logf(format, args...) }

func (l *memoryLogger) dump() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := ""
	for _, line := range l.lines {
		out += line + "\n"
	}
	return out
}

// harness wires an orchestrator with every external effect recorded.
type harness struct {
	pinger   *mockPinger
	runner   *mockStepRunner
	logger   *memoryLogger
	slept    []time.Duration
	dirs     [][]string
	execArgv []string
	execEnv  []string
	execErr  error
	environ  []string
}

func newHarness() *harness {
	return &harness{
		pinger:  &mockPinger{succeedOn: 1},
		runner:  &mockStepRunner{},
		logger:  &memoryLogger{},
		environ: []string{"PATH=/usr/bin"},
	}
}

func (h *harness) orchestrator(cfg *overture.RunConfig) *Orchestrator {
	return NewOrchestrator(cfg, h.logger,
		WithPingerFactory(func(ctx context.Context, connString string) (overture.Pinger, error) {
			return h.pinger, nil
		}),
		WithStepRunner(h.runner),
		WithSleep(func(_ context.Context, d time.Duration) error {
			h.slept = append(h.slept, d)
			return nil
		}),
		WithEnsureDirs(func(dirs []string) error {
			h.dirs = append(h.dirs, dirs)
			return nil
		}),
		WithEnviron(func() []string { return h.environ }),
		WithExec(func(argv, env []string) error {
			h.execArgv = argv
			h.execEnv = env
			return h.execErr
		}),
	)
}

func testConfig() *overture.RunConfig {
	return &overture.RunConfig{
		ConnString:  "postgres://app:s3cret@db:5432/app",
		Warmup:      5 * time.Second,
		Interval:    time.Millisecond,
		MaxAttempts: 30,
		Backoff:     overture.BackoffConstant,
		Steps: []overture.Step{
			{Name: "migrate", Command: "php", TolerateFailure: true},
			{Name: "cache-clear", Command: "php"},
			{Name: "cache-warmup", Command: "php"},
			{Name: "assets-install", Command: "php"},
		},
		Directories: []string{"var/cache", "var/log", "var/sessions"},
		EnvDefaults: map[string]string{"APP_ENV": "prod", "APP_DEBUG": "0"},
		Argv:        []string{"supervisord", "-c", "/etc/supervisord.conf"},
	}
}
