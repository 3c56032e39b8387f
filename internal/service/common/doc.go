// Package common holds helpers shared by the check-in client commands.
//
// It provides a gRPC client wrapper with timeouts that maps status codes back
// to domain errors, and actor detection from the hostname and OS user.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common
