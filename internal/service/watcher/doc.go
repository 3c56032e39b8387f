// Package watcher follows a check-in countdown from the command line.
//
// It polls the server on an interval, logs the remaining time and stops when
// the countdown expires or the process is interrupted.
package watcher
