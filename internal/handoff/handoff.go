// Package handoff replaces the entrypoint process with the supervised
// runtime. After Exec succeeds, overture no longer exists: the hand-off
// command inherits PID 1, the environment, and signal delivery.
package handoff

import (
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"
	"syscall"

	"overture/pkg/overture"
)

// BuildEnv returns base extended with defaults for any key base does not
// already define. Output order is base order followed by the missing
// defaults in sorted key order, so repeated runs produce identical
// environments.
func BuildEnv(base []string, defaults map[string]string) []string {
	present := make(map[string]bool, len(base))
	for _, kv := range base {
		if i := strings.IndexByte(kv, '='); i > 0 {
			present[kv[:i]] = true
		}
	}

	env := append([]string(nil), base...)

	missing := make([]string, 0, len(defaults))
	for key := range defaults {
		if !present[key] {
			missing = append(missing, key)
		}
	}
	sort.Strings(missing)
	for _, key := range missing {
		env = append(env, key+"="+defaults[key])
	}
	return env
}

// Exec replaces the current process image with argv, passing env through.
// It only returns on failure.
func Exec(argv []string, env []string) error {
	if len(argv) == 0 {
		return fmt.Errorf("%w: empty command", overture.ErrHandoffFailed)
	}

	path, err := exec.LookPath(argv[0])
	if err != nil {
		return fmt.Errorf("%w: %v", overture.ErrHandoffFailed, err)
	}

	if err := syscall.Exec(path, argv, env); err != nil {
		return fmt.Errorf("%w: exec %s: %v", overture.ErrHandoffFailed, path, err)
	}
	return nil
}

// Environ is the default environment source for Exec callers.
func Environ() []string {
	return os.Environ()
}
