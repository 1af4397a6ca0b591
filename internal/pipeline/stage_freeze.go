package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/MarcoChavezB/pybundle/internal/python"
)

// stageFreezeExecutable installs PyInstaller into the environment and bundles
// the entry script into a single standalone executable named after the
// project, under dist/.
func stageFreezeExecutable(ctx context.Context, bs *BuildState) error {
	py := bs.Env.Python()
	if err := python.Run(ctx, "", py, "-m", "pip", "install", "pyinstaller"); err != nil {
		return newFatalStageError(StageFreezeExecutable, fmt.Errorf("%w: install pyinstaller: %v", ErrFreeze, err))
	}

	args := []string{
		"-m", "PyInstaller",
		"--onefile",
		"--name", bs.Config.Project,
		"--distpath", bs.distDir(),
		"--noconfirm",
		bs.Config.EntryScript,
	}
	if err := python.Run(ctx, "", py, args...); err != nil {
		return newFatalStageError(StageFreezeExecutable, fmt.Errorf("%w: %v", ErrFreeze, err))
	}

	frozen := bs.frozenPath()
	if _, err := os.Stat(frozen); err != nil {
		return newFatalStageError(StageFreezeExecutable,
			fmt.Errorf("%w: expected executable %s was not produced: %v", ErrFreeze, frozen, err))
	}
	bs.FrozenBinary = frozen
	return nil
}
