package pipeline

import (
	"path/filepath"
	"runtime"

	"github.com/MarcoChavezB/pybundle/internal/config"
	"github.com/MarcoChavezB/pybundle/internal/python"
)

// BuildState carries mutable state across stages of one run.
type BuildState struct {
	Config *config.Config

	// Interpreter is the resolved base interpreter path; set by the
	// create-environment stage.
	Interpreter string

	// Env is the virtual environment the build runs inside.
	Env *python.Env

	// FrozenBinary is the path of the standalone executable produced by the
	// freeze stage.
	FrozenBinary string

	// Report accumulates per-stage results for this run.
	Report *Report
}

func newBuildState(cfg *config.Config, report *Report) *BuildState {
	return &BuildState{
		Config: cfg,
		Env:    python.NewEnv(cfg.VenvDir),
		Report: report,
	}
}

// distDir is where PyInstaller places the standalone executable.
func (bs *BuildState) distDir() string { return "dist" }

// frozenName is the expected name of the frozen executable.
func (bs *BuildState) frozenName() string {
	if runtime.GOOS == "windows" {
		return bs.Config.Project + ".exe"
	}
	return bs.Config.Project
}

// frozenPath is the expected location of the frozen executable.
func (bs *BuildState) frozenPath() string {
	return filepath.Join(bs.distDir(), bs.frozenName())
}
