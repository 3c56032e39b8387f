// Package client implements the one-shot check-in commands: start, pause,
// resume, reset, status and alert.
//
// Each command detects the actor, talks to the check-in server once and
// prints the resulting countdown or alert. Alert coordinates given on the
// command line are validated locally so invalid positions never leave the
// machine.
package client
