// Package logging provides the overture.Logger implementations used by the
// CLI. Entrypoint output goes to stderr so the supervised services keep
// stdout to themselves.
package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// ConsoleLogger writes log lines to a single writer, stderr by default.
// Safe for concurrent use.
type ConsoleLogger struct {
	mu      sync.Mutex
	w       io.Writer
	verbose bool
}

// NewConsoleLogger creates a ConsoleLogger writing to stderr.
// When verbose is false, Verbose() calls are no-ops.
func NewConsoleLogger(verbose bool) *ConsoleLogger {
	return &ConsoleLogger{w: os.Stderr, verbose: verbose}
}

// NewConsoleLoggerTo creates a ConsoleLogger writing to w. Used by tests
// to capture output without swapping os.Stderr.
func NewConsoleLoggerTo(w io.Writer, verbose bool) *ConsoleLogger {
	return &ConsoleLogger{w: w, verbose: verbose}
}

func (l *ConsoleLogger) write(prefix, format string, args []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.w, prefix+format+"\n", args...)
}

// Verbose logs diagnostic detail when verbose mode is enabled.
func (l *ConsoleLogger) Verbose(format string, args ...interface{}) {
	if !l.verbose {
		return
	}
	l.write("overture: [debug] ", format, args)
}

// Info logs normal operational messages.
func (l *ConsoleLogger) Info(format string, args ...interface{}) {
	l.write("overture: ", format, args)
}

// Error logs error messages.
func (l *ConsoleLogger) Error(format string, args ...interface{}) {
	l.write("overture: [error] ", format, args)
}

// NullLogger discards everything. Useful in tests.
type NullLogger struct{}

// NewNullLogger creates a NullLogger.
func NewNullLogger() *NullLogger { return &NullLogger{} }

// Verbose is a no-op.
func (*NullLogger) Verbose(string, ...interface{}) {}

// Info is a no-op.
func (*NullLogger) Info(string, ...interface{}) {}

// Error is a no-op.
func (*NullLogger) Error(string, ...interface{}) {}
