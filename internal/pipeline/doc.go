// Package pipeline implements the six-stage build pipeline: create the
// virtual environment, install dependencies, check the entry script loads,
// freeze it into a standalone executable, assemble the artifact directory,
// and package the distribution archive.
//
// Execution is strictly sequential and fail-fast: stages run in declaration
// order, the first failing stage aborts the run, and no rollback of partially
// created state is attempted. The failing tool's own diagnostics pass through
// to the user unmodified.
package pipeline
