package pipeline

import (
	"errors"
	"fmt"
)

// Sentinel domain errors used to classify pipeline failures. They should
// always be wrapped with contextual information at the call site.
var (
	ErrEnvironment = errors.New("pybundle: environment creation error")
	ErrInstall     = errors.New("pybundle: dependency install error")
	ErrModuleLoad  = errors.New("pybundle: module load error")
	ErrFreeze      = errors.New("pybundle: freeze error")
	ErrFilesystem  = errors.New("pybundle: filesystem error")
	ErrArchive     = errors.New("pybundle: archive error")
)

// StageErrorKind enumerates structured stage error categories.
type StageErrorKind string

const (
	StageErrorFatal    StageErrorKind = "fatal"    // Build must abort.
	StageErrorCanceled StageErrorKind = "canceled" // Context cancellation.
)

// StageError is a structured error carrying category and underlying cause.
// Every stage failure aborts the pipeline; the kind only distinguishes a
// tool/filesystem failure from an interrupt.
type StageError struct {
	Kind  StageErrorKind
	Stage StageName
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage %s: %v", e.Kind, e.Stage, e.Err)
}
func (e *StageError) Unwrap() error { return e.Err }

func newFatalStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorFatal, Stage: stage, Err: err}
}
func newCanceledStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorCanceled, Stage: stage, Err: err}
}
