// Package alert builds and dispatches emergency alert payloads.
package alert
