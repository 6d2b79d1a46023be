// Package scaffold writes the static deployment artifacts for a project:
// the image build recipe, the reverse-proxy and supervisor configuration,
// and a starter overture.yaml. The files are embedded in the binary so
// `overture init` works offline.
package scaffold

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"overture/pkg/overture"
)

//go:embed all:templates
var templatesFS embed.FS

const templatesRoot = "templates"

// Scaffolder writes the embedded deployment files into a target directory.
type Scaffolder struct {
	logger overture.Logger
}

// NewScaffolder creates a Scaffolder.
func NewScaffolder(logger overture.Logger) *Scaffolder {
	return &Scaffolder{logger: logger}
}

// Files lists the relative paths the scaffold would write.
func Files() ([]string, error) {
	var files []string
	err := fs.WalkDir(templatesFS, templatesRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(templatesRoot, path)
		if err != nil {
			return err
		}
		files = append(files, rel)
		return nil
	})
	return files, err
}

// Write copies every template into targetDir, creating directories as
// needed. It refuses to overwrite: if any destination already exists, no
// file is written and the conflict is reported.
func (s *Scaffolder) Write(targetDir string) error {
	files, err := Files()
	if err != nil {
		return fmt.Errorf("list templates: %w", err)
	}

	for _, rel := range files {
		dest := filepath.Join(targetDir, rel)
		if _, err := os.Stat(dest); err == nil {
			return fmt.Errorf("refusing to overwrite existing file %s", dest)
		}
	}

	for _, rel := range files {
		src := filepath.Join(templatesRoot, rel)
		data, err := templatesFS.ReadFile(filepath.ToSlash(src))
		if err != nil {
			return fmt.Errorf("read template %s: %w", rel, err)
		}

		dest := filepath.Join(targetDir, rel)
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return fmt.Errorf("create directory for %s: %w", rel, err)
		}
		if err := os.WriteFile(dest, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", rel, err)
		}
		s.logger.Info("wrote %s", dest)
	}
	return nil
}
