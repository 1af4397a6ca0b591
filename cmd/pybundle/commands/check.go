package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/MarcoChavezB/pybundle/internal/pipeline"
)

// CheckCmd implements the 'check' command: run the environment, dependency
// and syntax stages as a pre-flight, without freezing or packaging.
type CheckCmd struct{}

func (c *CheckCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	runner := pipeline.New(cfg, pipeline.WithStages(pipeline.PreflightStages()))
	if _, err := runner.Run(ctx); err != nil {
		return err
	}
	fmt.Printf("%s passed all pre-flight checks\n", cfg.EntryScript)
	return nil
}
