// Package timer implements the check-in countdown.
//
// Controller is a pure state machine (idle, running, paused, expired) that is
// advanced one second per Tick. Countdown drives a Controller from a ticker
// goroutine and guarantees the goroutine is cancelled on pause, reset and
// close.
package timer
