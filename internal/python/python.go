// Package python locates a base Python interpreter and models the layout of a
// virtual environment so pipeline stages can run tools inside it.
package python

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/MarcoChavezB/pybundle/internal/logfields"
)

// FindInterpreter resolves the base interpreter binary on PATH. When preferred
// is non-empty only that binary is considered; otherwise python3 then python.
func FindInterpreter(preferred string) (string, error) {
	candidates := []string{"python3", "python"}
	if preferred != "" {
		candidates = []string{preferred}
	}
	for _, name := range candidates {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("no python interpreter found on PATH (tried %s)", strings.Join(candidates, ", "))
}

// Env is a virtual environment rooted at Dir.
type Env struct {
	Dir string
}

// NewEnv returns an Env for the given directory. The directory need not exist
// yet; stage one creates it.
func NewEnv(dir string) *Env { return &Env{Dir: dir} }

// binDir returns the directory holding the environment's executables.
func (e *Env) binDir() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(e.Dir, "Scripts")
	}
	return filepath.Join(e.Dir, "bin")
}

// Python returns the path of the environment's interpreter.
func (e *Env) Python() string {
	name := "python"
	if runtime.GOOS == "windows" {
		name = "python.exe"
	}
	return filepath.Join(e.binDir(), name)
}

// Tool returns the path of a console script installed into the environment
// (e.g. pyinstaller).
func (e *Env) Tool(name string) string {
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	return filepath.Join(e.binDir(), name)
}

// Exists reports whether the environment's interpreter is present.
func (e *Env) Exists() bool {
	_, err := os.Stat(e.Python())
	return err == nil
}

// Run executes a command, streaming the tool's stdout/stderr through
// unchanged so its diagnostics reach the user verbatim.
func Run(ctx context.Context, dir string, bin string, args ...string) error {
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	slog.Debug("Running command", logfields.Command(bin+" "+strings.Join(args, " ")))
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%s: %w", filepath.Base(bin), err)
	}
	return nil
}
