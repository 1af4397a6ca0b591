package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/MarcoChavezB/pybundle/internal/python"
)

// importCheckSnippet loads the entry script as a module without running its
// __main__ guard. Module-level code executes, so a top-level raise fails the
// check exactly as it would on real import.
const importCheckSnippet = `import importlib.util, sys
spec = importlib.util.spec_from_file_location("__pybundle_check__", sys.argv[1])
mod = importlib.util.module_from_spec(spec)
spec.loader.exec_module(mod)`

// stageSyntaxCheck verifies the entry script is loadable: first the
// toolchain's compile check, then an import smoke load inside the venv so
// missing imports and top-level exceptions are caught before freezing.
func stageSyntaxCheck(ctx context.Context, bs *BuildState) error {
	entry := bs.Config.EntryScript
	if _, err := os.Stat(entry); err != nil {
		return newFatalStageError(StageSyntaxCheck,
			fmt.Errorf("%w: entry script %s: %v", ErrModuleLoad, entry, err))
	}

	py := bs.Env.Python()
	if err := python.Run(ctx, "", py, "-m", "py_compile", entry); err != nil {
		return newFatalStageError(StageSyntaxCheck, fmt.Errorf("%w: compile check: %v", ErrModuleLoad, err))
	}
	if err := python.Run(ctx, "", py, "-c", importCheckSnippet, entry); err != nil {
		return newFatalStageError(StageSyntaxCheck, fmt.Errorf("%w: import check: %v", ErrModuleLoad, err))
	}
	return nil
}
