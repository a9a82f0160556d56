// Package version exposes build information stamped via -ldflags.
package version

var (
	// Version is the semantic version of the service.
	Version = "0.1.0"

	// GitCommit is the git commit hash of the build.
	GitCommit = "unknown"
)
