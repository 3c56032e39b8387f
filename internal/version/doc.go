// Package version exposes build metadata for the check-in binaries.
//
// Version, Commit and BuildTime are injected with -ldflags "-X ..." and keep
// local-build defaults otherwise.
package version
