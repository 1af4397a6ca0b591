package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/MarcoChavezB/pybundle/internal/python"
)

// stageInstallDependencies upgrades pip and installs every dependency listed
// in the requirements file into the isolated environment.
func stageInstallDependencies(ctx context.Context, bs *BuildState) error {
	if _, err := os.Stat(bs.Config.Requirements); err != nil {
		return newFatalStageError(StageInstallDependencies,
			fmt.Errorf("%w: requirements file %s: %v", ErrInstall, bs.Config.Requirements, err))
	}

	py := bs.Env.Python()
	if err := python.Run(ctx, "", py, "-m", "pip", "install", "--upgrade", "pip"); err != nil {
		return newFatalStageError(StageInstallDependencies, fmt.Errorf("%w: upgrade pip: %v", ErrInstall, err))
	}
	if err := python.Run(ctx, "", py, "-m", "pip", "install", "-r", bs.Config.Requirements); err != nil {
		return newFatalStageError(StageInstallDependencies, fmt.Errorf("%w: %v", ErrInstall, err))
	}
	return nil
}
