// Package metrics provides observability hooks for pipeline runs.
//
// The Recorder interface follows the Null Object pattern: components receive
// a Recorder through dependency injection and default to NoopRecorder, so no
// nil checks are needed and metrics impose zero overhead unless a real
// implementation (PrometheusRecorder) is wired in, as watch mode does when an
// admin listen address is configured.
package metrics
