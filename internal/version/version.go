// Package version holds build-time version metadata.
package version

import "fmt"

// Version is the release version. Set via build-time ldflags:
// go build -ldflags "-X github.com/MarcoChavezB/pybundle/internal/version.Version=v1.0.0".
var Version = "dev"

// Additional build metadata, also set via ldflags.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String renders the version line shown by --version.
func String() string {
	if GitCommit == "unknown" {
		return Version
	}
	return fmt.Sprintf("%s (%s)", Version, GitCommit)
}
