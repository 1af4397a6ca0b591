package pipeline

import (
	"time"

	"github.com/MarcoChavezB/pybundle/internal/buildinfo"
)

// Outcome is the typed enumeration of final pipeline result states.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeFailed   Outcome = "failed"
	OutcomeCanceled Outcome = "canceled"
)

// StageResult records how a single stage finished.
type StageResult struct {
	Name     StageName     `json:"name"`
	Duration time.Duration `json:"duration"`
	Result   string        `json:"result"` // success|fatal|canceled
}

// Report captures the outcome of one pipeline run. It is produced once per
// invocation and not mutated afterwards.
type Report struct {
	RunID       string              `json:"run_id"`
	Project     string              `json:"project"`
	Start       time.Time           `json:"start"`
	End         time.Time           `json:"end"`
	Outcome     Outcome             `json:"outcome"`
	Stages      []StageResult       `json:"stages"`
	FailedStage StageName           `json:"failed_stage,omitempty"`
	Err         error               `json:"-"`
	Error       string              `json:"error,omitempty"` // string mirror of Err for serialization
	ArtifactDir string              `json:"artifact_dir,omitempty"`
	ArchivePath string              `json:"archive_path,omitempty"`
	Revision    *buildinfo.Revision `json:"revision,omitempty"`
}

// recordStage appends a stage result entry.
func (r *Report) recordStage(name StageName, d time.Duration, result string) {
	r.Stages = append(r.Stages, StageResult{Name: name, Duration: d, Result: result})
}

// fail marks the report as failed (or canceled) at the given stage.
func (r *Report) fail(se *StageError) {
	r.FailedStage = se.Stage
	r.Err = se
	r.Error = se.Error()
	if se.Kind == StageErrorCanceled {
		r.Outcome = OutcomeCanceled
		return
	}
	r.Outcome = OutcomeFailed
}

// finish stamps the end time and derives the outcome if still unset.
func (r *Report) finish() {
	r.End = time.Now()
	if r.Outcome == "" {
		r.Outcome = OutcomeSuccess
	}
}

// Duration returns the total wall-clock time of the run.
func (r *Report) Duration() time.Duration { return r.End.Sub(r.Start) }
