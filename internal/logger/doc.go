// Package logger provides a small wrapper around zap to offer:
//   - a global sugared logger writing console lines to stderr,
//   - context helpers (ToContext/FromContext/WithName/WithKV/WithFields),
//   - level configuration and parsing utilities (Configure, ParseLogLevel),
//   - a WithLevel option pinning a derived logger to its own level,
//   - convenience functions (Infof, ErrorKV, etc.).
//
// Services and countdown goroutines accept a context and extract the logger
// from it, so every line carries the component name and the owning actor.
package logger
