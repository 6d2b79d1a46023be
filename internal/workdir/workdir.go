// Package workdir prepares the writable directories the application
// runtime expects before it starts serving.
package workdir

import (
	"fmt"
	"os"
	"path/filepath"
)

// Ensure creates each directory (with parents) and verifies it is
// writable by creating and removing a probe file. A read-only volume
// mount surfaces here, before the runtime starts, instead of as a 500
// on the first request.
func Ensure(dirs []string) error {
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
		if err := probeWritable(dir); err != nil {
			return fmt.Errorf("directory %s is not writable: %w", dir, err)
		}
	}
	return nil
}

func probeWritable(dir string) error {
	f, err := os.CreateTemp(dir, ".overture-probe-*")
	if err != nil {
		return err
	}
	name := f.Name()
	if err := f.Close(); err != nil {
		return err
	}
	return os.Remove(filepath.Clean(name))
}
