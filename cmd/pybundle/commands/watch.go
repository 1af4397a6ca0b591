package commands

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MarcoChavezB/pybundle/internal/metrics"
	"github.com/MarcoChavezB/pybundle/internal/pipeline"
	"github.com/MarcoChavezB/pybundle/internal/watch"
)

// WatchCmd implements the 'watch' command: rebuild whenever the entry script
// or requirements file changes, with an optional fixed-interval schedule and
// an optional admin HTTP listener.
type WatchCmd struct {
	Listen   string        `help:"Admin HTTP address for /healthz, /status and /metrics (overrides config)"`
	Interval time.Duration `help:"Also rebuild on a fixed interval (overrides config)"`
}

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	if w.Listen != "" {
		cfg.Watch.Listen = w.Listen
	}
	if w.Interval > 0 {
		cfg.Watch.Interval = w.Interval
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	var metricsHandler http.Handler
	if cfg.Watch.Listen != "" {
		prom := metrics.NewPrometheusRecorder(nil)
		recorder = prom
		metricsHandler = prom.Handler()
	}

	// Changing the config file also triggers a rebuild; the build closure
	// reloads it so edits take effect without restarting watch mode.
	var extra []string
	if _, err := os.Stat(root.Config); err == nil {
		extra = append(extra, root.Config)
	}

	svc := watch.NewService(cfg, func(ctx context.Context) (*pipeline.Report, error) {
		buildCfg, err := loadConfig(root)
		if err != nil {
			return nil, err
		}
		runner := pipeline.New(buildCfg, pipeline.WithRecorder(recorder))
		report, err := runner.Run(ctx)
		recordRun(context.Background(), buildCfg, report)
		publishRun(buildCfg, report)
		return report, err
	}, extra...)

	if cfg.Watch.Listen != "" {
		admin := watch.NewAdminServer(cfg.Watch.Listen, metricsHandler, svc.Status)
		admin.Start()
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			_ = admin.Shutdown(shutdownCtx)
		}()
	}

	return svc.Run(ctx)
}
