// FILE: src/internal/version/version.go
package version

import "fmt"

const Name = "Instaroid"

var (
	// Version is set at compile time via -ldflags
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// Returns a formatted version string
func String() string {
	return fmt.Sprintf("%s %s (commit: %s, built: %s)", Name, Version, GitCommit, BuildTime)
}

// Returns just the version tag
func Short() string {
	return Version
}

// UserAgent identifies telemetry clients to the ingress
func UserAgent() string {
	return fmt.Sprintf("%s/%s", Name, Version)
}
