package watch

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/MarcoChavezB/pybundle/internal/config"
	"github.com/MarcoChavezB/pybundle/internal/logfields"
	"github.com/MarcoChavezB/pybundle/internal/pipeline"
)

// BuildFunc executes one pipeline run.
type BuildFunc func(ctx context.Context) (*pipeline.Report, error)

// Service runs the pipeline continuously: once at startup, then again
// whenever a watched source file changes or the optional interval elapses.
// At most one pipeline runs at a time; triggers arriving during a build
// collapse into a single follow-up run.
type Service struct {
	cfg   *config.Config
	build BuildFunc
	extra []string

	builds      atomic.Int64
	failures    atomic.Int64
	lastRunID   atomic.Value // string
	lastOutcome atomic.Value // string
}

// NewService creates a watch service around a build function. extraFiles are
// watched in addition to the entry script and requirements file, typically
// the configuration file itself.
func NewService(cfg *config.Config, build BuildFunc, extraFiles ...string) *Service {
	return &Service{cfg: cfg, build: build, extra: extraFiles}
}

// Status returns a snapshot for the admin endpoint.
func (s *Service) Status() Status {
	st := Status{
		Project:  s.cfg.Project,
		Builds:   s.builds.Load(),
		Failures: s.failures.Load(),
	}
	if v, ok := s.lastRunID.Load().(string); ok {
		st.LastRunID = v
	}
	if v, ok := s.lastOutcome.Load().(string); ok {
		st.LastOutcome = v
	}
	return st
}

// Run blocks until the context is canceled. Build failures do not stop the
// service; watch mode exists to try again on the next change.
func (s *Service) Run(ctx context.Context) error {
	watched := append([]string{s.cfg.EntryScript, s.cfg.Requirements}, s.extra...)
	watcher, err := NewWatcher(watched, s.cfg.Watch.Debounce)
	if err != nil {
		return err
	}
	defer func() {
		_ = watcher.Close()
	}()
	watcher.Start(ctx)

	ticks := make(chan struct{}, 1)
	if s.cfg.Watch.Interval > 0 {
		scheduler, err := NewScheduler()
		if err != nil {
			return err
		}
		if _, err := scheduler.ScheduleInterval(s.cfg.Watch.Interval, func() {
			select {
			case ticks <- struct{}{}:
			default:
			}
		}); err != nil {
			return err
		}
		scheduler.Start()
		defer func() {
			_ = scheduler.Stop()
		}()
	}

	slog.Info("Watch mode started",
		logfields.Project(s.cfg.Project),
		slog.Any("files", watched),
		slog.Duration("debounce", s.cfg.Watch.Debounce))

	// Initial build so the watch session starts from a known state.
	s.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Watch mode stopping")
			return nil
		case path := <-watcher.Triggers:
			slog.Info("Rebuilding after source change", logfields.Path(path))
			s.runOnce(ctx)
		case <-ticks:
			slog.Info("Rebuilding on schedule")
			s.runOnce(ctx)
		}
	}
}

func (s *Service) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	start := time.Now()
	report, err := s.build(ctx)
	s.builds.Add(1)
	if report != nil {
		s.lastRunID.Store(report.RunID)
		s.lastOutcome.Store(string(report.Outcome))
	}
	if err != nil {
		s.failures.Add(1)
		slog.Error("Watched build failed", logfields.Error(err))
		return
	}
	slog.Info("Watched build succeeded",
		logfields.DurationMS(float64(time.Since(start).Milliseconds())))
}
