package history

import (
	"context"
	"time"

	"github.com/MarcoChavezB/pybundle/internal/pipeline"
)

// Run is one recorded pipeline invocation.
type Run struct {
	ID          string
	Project     string
	Started     time.Time
	Finished    time.Time
	Outcome     string
	FailedStage string
	Error       string
	ArchivePath string
	Commit      string
	Dirty       bool
}

// Duration returns the recorded wall-clock duration of the run.
func (r Run) Duration() time.Duration { return r.Finished.Sub(r.Started) }

// FromReport converts a pipeline report into its storable form.
func FromReport(report *pipeline.Report) Run {
	run := Run{
		ID:          report.RunID,
		Project:     report.Project,
		Started:     report.Start,
		Finished:    report.End,
		Outcome:     string(report.Outcome),
		FailedStage: string(report.FailedStage),
		Error:       report.Error,
		ArchivePath: report.ArchivePath,
	}
	if report.Revision != nil {
		run.Commit = report.Revision.Commit
		run.Dirty = report.Revision.Dirty
	}
	return run
}

// Store defines the interface for persisting and retrieving build runs.
type Store interface {
	// Record persists a completed run.
	Record(ctx context.Context, run Run) error

	// Recent retrieves up to limit runs, newest first.
	Recent(ctx context.Context, limit int) ([]Run, error)

	// ByID retrieves a single run.
	ByID(ctx context.Context, id string) (*Run, error)

	// Close closes the store and releases resources.
	Close() error
}
