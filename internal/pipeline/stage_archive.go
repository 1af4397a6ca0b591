package pipeline

import (
	"context"
	"fmt"

	"github.com/MarcoChavezB/pybundle/internal/archive"
)

// stagePackageArchive compresses the artifact directory's contents into a
// single named archive file.
func stagePackageArchive(ctx context.Context, bs *BuildState) error {
	format, err := archive.ParseFormat(bs.Config.Archive.Format)
	if err != nil {
		return newFatalStageError(StagePackageArchive, fmt.Errorf("%w: %v", ErrArchive, err))
	}

	dst := bs.Config.ArchivePath()
	if err := archive.WriteDir(dst, bs.Config.ArtifactDir, format); err != nil {
		return newFatalStageError(StagePackageArchive, fmt.Errorf("%w: %v", ErrArchive, err))
	}

	bs.Report.ArchivePath = dst
	return nil
}
