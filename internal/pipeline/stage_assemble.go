package pipeline

import (
	"context"
	"fmt"

	"github.com/MarcoChavezB/pybundle/internal/workspace"
)

// stageAssembleArtifacts recreates a clean artifact directory and copies into
// it the frozen executable, the original entry script, and the requirements
// file.
func stageAssembleArtifacts(ctx context.Context, bs *BuildState) error {
	mgr := workspace.NewManager(bs.Config.ArtifactDir)
	if err := mgr.Recreate(); err != nil {
		return newFatalStageError(StageAssembleArtifacts, fmt.Errorf("%w: %v", ErrFilesystem, err))
	}

	frozen := bs.FrozenBinary
	if frozen == "" {
		frozen = bs.frozenPath()
	}
	for _, src := range []string{frozen, bs.Config.EntryScript, bs.Config.Requirements} {
		if _, err := mgr.Stage(src); err != nil {
			return newFatalStageError(StageAssembleArtifacts, fmt.Errorf("%w: %v", ErrFilesystem, err))
		}
	}

	bs.Report.ArtifactDir = mgr.Path()
	return nil
}
