package workspace

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/MarcoChavezB/pybundle/internal/logfields"
)

// Manager handles the artifact staging directory for a build.
type Manager struct {
	dir string
}

// NewManager creates a manager for the given artifact directory.
func NewManager(dir string) *Manager {
	return &Manager{dir: dir}
}

// Path returns the artifact directory path.
func (m *Manager) Path() string { return m.dir }

// Recreate removes any prior contents and creates the directory fresh, so
// stale files from an earlier run never leak into a new archive.
func (m *Manager) Recreate() error {
	if m.dir == "" {
		return fmt.Errorf("artifact directory not configured")
	}
	if err := os.RemoveAll(m.dir); err != nil {
		return fmt.Errorf("failed to remove prior artifact directory: %w", err)
	}
	if err := os.MkdirAll(m.dir, 0o750); err != nil {
		return fmt.Errorf("failed to create artifact directory: %w", err)
	}
	slog.Info("Recreated artifact directory", logfields.Path(m.dir))
	return nil
}

// Stage copies a file into the artifact directory, preserving its mode so a
// frozen executable keeps its execute bit.
func (m *Manager) Stage(src string) (string, error) {
	info, err := os.Stat(src)
	if err != nil {
		return "", fmt.Errorf("missing source file %s: %w", src, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("source %s is a directory, expected a file", src)
	}

	dst := filepath.Join(m.dir, filepath.Base(src))
	if err := copyFile(src, dst, info.Mode()); err != nil {
		return "", fmt.Errorf("failed to stage %s: %w", src, err)
	}
	slog.Debug("Staged artifact", logfields.Path(dst))
	return dst, nil
}

// copyFile copies a single file from src to dst with the given mode.
func copyFile(src, dst string, mode os.FileMode) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		_ = srcFile.Close()
	}()

	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode.Perm())
	if err != nil {
		return err
	}
	defer func() {
		_ = dstFile.Close()
	}()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return err
	}
	return dstFile.Sync()
}
