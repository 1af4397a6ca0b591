package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MarcoChavezB/pybundle/internal/logfields"
	"github.com/MarcoChavezB/pybundle/internal/python"
)

// stageCreateEnvironment constructs the isolated package-install environment.
// An existing environment is reused; venv creation is idempotent either way,
// but skipping the subprocess keeps repeat builds fast.
func stageCreateEnvironment(ctx context.Context, bs *BuildState) error {
	interpreter, err := python.FindInterpreter(bs.Config.Python.Interpreter)
	if err != nil {
		return newFatalStageError(StageCreateEnvironment, fmt.Errorf("%w: %v", ErrEnvironment, err))
	}
	bs.Interpreter = interpreter

	if bs.Env.Exists() {
		slog.Info("Reusing existing virtual environment", logfields.Path(bs.Env.Dir))
		return nil
	}

	if err := python.Run(ctx, "", interpreter, "-m", "venv", bs.Env.Dir); err != nil {
		return newFatalStageError(StageCreateEnvironment, fmt.Errorf("%w: %v", ErrEnvironment, err))
	}
	slog.Info("Created virtual environment", logfields.Path(bs.Env.Dir))
	return nil
}
