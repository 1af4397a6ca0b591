package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/MarcoChavezB/pybundle/internal/buildinfo"
	"github.com/MarcoChavezB/pybundle/internal/config"
	"github.com/MarcoChavezB/pybundle/internal/logfields"
	"github.com/MarcoChavezB/pybundle/internal/metrics"
)

// Runner executes the fixed six-stage build pipeline for one configuration.
type Runner struct {
	cfg      *config.Config
	recorder metrics.Recorder
	observer Observer
	stages   []StageDef
}

// Option configures a Runner.
type Option func(*Runner)

// WithRecorder injects a metrics recorder.
func WithRecorder(rec metrics.Recorder) Option {
	return func(r *Runner) { r.recorder = rec }
}

// WithObserver injects a lifecycle observer.
func WithObserver(obs Observer) Option {
	return func(r *Runner) { r.observer = obs }
}

// WithStages overrides the stage list, for callers that only want a prefix
// of the pipeline such as a pre-flight check.
func WithStages(stages []StageDef) Option {
	return func(r *Runner) { r.stages = stages }
}

// New creates a Runner for the given configuration.
func New(cfg *config.Config, opts ...Option) *Runner {
	r := &Runner{
		cfg:      cfg,
		recorder: metrics.NoopRecorder{},
		observer: NoopObserver{},
		stages:   defaultStages(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if _, noop := r.recorder.(metrics.NoopRecorder); !noop {
		r.observer = multiObserver{r.observer, recorderObserver{rec: r.recorder}}
	}
	return r
}

// Run executes the pipeline. The returned report is always non-nil; on
// failure it carries the failing stage and the error that is also returned.
// No cleanup of partially created state is performed on failure.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	report := &Report{
		RunID:   uuid.NewString(),
		Project: r.cfg.Project,
		Start:   time.Now(),
	}

	if rev, err := buildinfo.Describe("."); err != nil {
		slog.Warn("Could not determine source revision", logfields.Error(err))
	} else if rev != nil {
		report.Revision = rev
		slog.Debug("Resolved source revision", slog.String("commit", rev.Short()), slog.Bool("dirty", rev.Dirty))
	}

	slog.Info("Starting build pipeline",
		logfields.RunID(report.RunID),
		logfields.Project(r.cfg.Project))

	bs := newBuildState(r.cfg, report)
	err := r.runStages(ctx, bs)
	report.finish()
	r.observer.OnRunComplete(report)

	if err != nil {
		slog.Error("Pipeline failed",
			logfields.RunID(report.RunID),
			logfields.Stage(string(report.FailedStage)),
			logfields.Error(err))
		return report, err
	}

	slog.Info("Pipeline completed",
		logfields.RunID(report.RunID),
		logfields.Path(report.ArchivePath),
		logfields.DurationMS(float64(report.Duration().Milliseconds())))
	return report, nil
}

// runStages executes stages in declaration order, recording timing and
// stopping on the first error. There is no retry and no partial success: a
// failing stage fails the whole run.
func (r *Runner) runStages(ctx context.Context, bs *BuildState) error {
	for i, st := range r.stages {
		select {
		case <-ctx.Done():
			se := newCanceledStageError(st.Name, ctx.Err())
			bs.Report.recordStage(st.Name, 0, string(StageErrorCanceled))
			bs.Report.fail(se)
			r.observer.OnStageComplete(st.Name, 0, string(StageErrorCanceled))
			return se
		default:
		}

		slog.Info("Running stage",
			logfields.Stage(string(st.Name)),
			slog.Int("step", i+1),
			slog.Int("total", len(r.stages)))
		r.observer.OnStageStart(st.Name)

		t0 := time.Now()
		err := st.Fn(ctx, bs)
		dur := time.Since(t0)

		if err != nil {
			var se *StageError
			if !errors.As(err, &se) {
				// Wrap unknown errors as fatal by default.
				se = newFatalStageError(st.Name, err)
			}
			bs.Report.recordStage(st.Name, dur, string(se.Kind))
			bs.Report.fail(se)
			r.observer.OnStageComplete(st.Name, dur, string(se.Kind))
			return se
		}

		bs.Report.recordStage(st.Name, dur, "success")
		r.observer.OnStageComplete(st.Name, dur, "success")
	}
	return nil
}
