// Package version carries build information stamped in via -ldflags.
package version

var (
	// Version is the release version.
	Version = "0.1.0"

	// GitCommit is the git commit hash of the build.
	GitCommit = "unknown"
)

// Full returns the version with the commit hash when one was stamped in.
func Full() string {
	if GitCommit == "unknown" {
		return Version
	}
	return Version + " (" + GitCommit + ")"
}
