package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/MarcoChavezB/pybundle/internal/config"
	"github.com/MarcoChavezB/pybundle/internal/history"
	"github.com/MarcoChavezB/pybundle/internal/logfields"
	"github.com/MarcoChavezB/pybundle/internal/notify"
	"github.com/MarcoChavezB/pybundle/internal/pipeline"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Format string `help:"Archive format override (gz or xz)"`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	if b.Format != "" {
		cfg.Archive.Format = b.Format
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	fmt.Printf("Building %s\n", cfg.Project)

	runner := pipeline.New(cfg)
	report, runErr := runner.Run(ctx)
	// Record with a fresh context so an interrupted run still lands in history.
	recordRun(context.Background(), cfg, report)
	publishRun(cfg, report)

	if runErr != nil {
		return runErr
	}
	fmt.Printf("Build complete: %s\n", report.ArchivePath)
	return nil
}

// recordRun persists the run to the history store. History is bookkeeping;
// a store failure is logged but never changes the build outcome.
func recordRun(ctx context.Context, cfg *config.Config, report *pipeline.Report) {
	if !cfg.HistoryEnabled() || report == nil {
		return
	}
	store, err := history.NewSQLiteStore(cfg.History.Path)
	if err != nil {
		slog.Warn("Could not open history store", logfields.Error(err))
		return
	}
	defer func() {
		_ = store.Close()
	}()
	if err := store.Record(ctx, history.FromReport(report)); err != nil {
		slog.Warn("Could not record run", logfields.RunID(report.RunID), logfields.Error(err))
	}
}

// publishRun sends the report to NATS when notifications are enabled. Like
// history, a publish failure is logged and otherwise ignored.
func publishRun(cfg *config.Config, report *pipeline.Report) {
	if !cfg.Notify.Enabled || report == nil {
		return
	}
	pub, err := notify.NewPublisher(cfg.Notify)
	if err != nil {
		slog.Warn("Could not connect build notifier", logfields.Error(err))
		return
	}
	defer pub.Close()
	if err := pub.PublishReport(report); err != nil {
		slog.Warn("Could not publish run report", logfields.RunID(report.RunID), logfields.Error(err))
	}
}
