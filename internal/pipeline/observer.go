package pipeline

import (
	"time"

	"github.com/MarcoChavezB/pybundle/internal/metrics"
)

// Observer receives callbacks around stage execution and run lifecycle.
// It abstracts away the metrics.Recorder so future observers (logging,
// tracing, notifications) can hook in without changing stage code.
type Observer interface {
	OnStageStart(stage StageName)
	OnStageComplete(stage StageName, duration time.Duration, result string)
	OnRunComplete(report *Report)
}

// NoopObserver is a no-op implementation.
type NoopObserver struct{}

func (NoopObserver) OnStageStart(StageName)                        {}
func (NoopObserver) OnStageComplete(StageName, time.Duration, string) {}
func (NoopObserver) OnRunComplete(*Report)                         {}

// multiObserver fans callbacks out to several observers.
type multiObserver []Observer

func (m multiObserver) OnStageStart(stage StageName) {
	for _, o := range m {
		o.OnStageStart(stage)
	}
}

func (m multiObserver) OnStageComplete(stage StageName, d time.Duration, result string) {
	for _, o := range m {
		o.OnStageComplete(stage, d, result)
	}
}

func (m multiObserver) OnRunComplete(report *Report) {
	for _, o := range m {
		o.OnRunComplete(report)
	}
}

// recorderObserver adapts metrics.Recorder into an Observer.
type recorderObserver struct{ rec metrics.Recorder }

func (r recorderObserver) OnStageStart(StageName) {}

func (r recorderObserver) OnStageComplete(stage StageName, d time.Duration, result string) {
	if r.rec == nil {
		return
	}
	r.rec.ObserveStageDuration(string(stage), d)
	r.rec.IncStageResult(string(stage), metrics.ResultLabel(result))
}

func (r recorderObserver) OnRunComplete(report *Report) {
	if r.rec == nil {
		return
	}
	r.rec.ObserveBuildDuration(report.Duration())
	r.rec.IncBuildOutcome(string(report.Outcome))
}
