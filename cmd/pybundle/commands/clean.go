package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/MarcoChavezB/pybundle/internal/logfields"
)

// CleanCmd implements the 'clean' command. It removes everything previous
// runs left behind: the virtual environment, the PyInstaller dist, build and
// spec outputs, the artifact directory and the packaged archive.
type CleanCmd struct {
	KeepVenv bool `help:"Keep the virtual environment"`
}

func (c *CleanCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	targets := []string{
		cfg.ArtifactDir,
		"dist",
		"build",
		cfg.Project + ".spec",
		cfg.ArchivePath(),
	}
	if !c.KeepVenv {
		targets = append([]string{cfg.VenvDir}, targets...)
	}

	removed := 0
	for _, target := range targets {
		if _, err := os.Stat(target); err != nil {
			continue
		}
		if err := os.RemoveAll(target); err != nil {
			return fmt.Errorf("failed to remove %s: %w", target, err)
		}
		slog.Debug("Removed build output", logfields.Path(target))
		removed++
	}
	fmt.Printf("Removed %d build outputs\n", removed)
	return nil
}
