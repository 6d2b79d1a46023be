package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"overture/internal/cli"
	"overture/pkg/overture"
)

func main() {
	// Recover from panics to ensure graceful exits with stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic: %v\n%s\n", r, debug.Stack())
			os.Exit(overture.ExitPanic)
		}
	}()

	if err := cli.Execute(); err != nil {
		os.Exit(overture.ExitCodeForError(err))
	}
}
