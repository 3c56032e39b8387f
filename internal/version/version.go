package version

import (
	"fmt"
	"runtime"
)

// Name is the product name printed by every binary.
const Name = "safety-checkin"

var (
	// Version is the semantic version of the build. It can be overridden via ldflags.
	Version = "0.1.0"
	// Commit is the short git SHA embedded at build time (or "none").
	Commit = "none"
	// BuildTime is the UTC build timestamp embedded at build time.
	BuildTime = "unknown"
)

// Short returns only the semantic version string.
func Short() string {
	return Version
}

// Full returns the product name, version, commit, build time and Go runtime.
func Full() string {
	return fmt.Sprintf("%s %s (commit %s, built %s, %s %s/%s)",
		Name, Version, Commit, BuildTime, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
