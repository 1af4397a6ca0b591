package pipeline

import "context"

// StageName is a strongly-typed identifier for a pipeline stage. All
// canonical stages are declared as constants here for compile-time safety.
type StageName string

// Canonical stage names, in execution order.
const (
	StageCreateEnvironment   StageName = "create_environment"
	StageInstallDependencies StageName = "install_dependencies"
	StageSyntaxCheck         StageName = "syntax_check"
	StageFreezeExecutable    StageName = "freeze_executable"
	StageAssembleArtifacts   StageName = "assemble_artifacts"
	StagePackageArchive      StageName = "package_archive"
)

// Stage is a discrete unit of work in the build.
type Stage func(ctx context.Context, bs *BuildState) error

// StageDef pairs a stage name with its executing function.
type StageDef struct {
	Name StageName
	Fn   Stage
}

// PreflightStages returns the stages that validate a project without
// producing any distributable output: environment creation, dependency
// installation and the syntax check.
func PreflightStages() []StageDef {
	return defaultStages()[:3]
}

// defaultStages returns the fixed, ordered stage list. Order is the contract:
// stage N+1 never begins unless stage N completed without error.
func defaultStages() []StageDef {
	return []StageDef{
		{StageCreateEnvironment, stageCreateEnvironment},
		{StageInstallDependencies, stageInstallDependencies},
		{StageSyntaxCheck, stageSyntaxCheck},
		{StageFreezeExecutable, stageFreezeExecutable},
		{StageAssembleArtifacts, stageAssembleArtifacts},
		{StagePackageArchive, stagePackageArchive},
	}
}
