package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// coreWithLevel wraps a zapcore.Core with its own level, ignoring the level
// of the wrapped core. Notices use it to stay visible under --log-level=error.
type coreWithLevel struct {
	zapcore.Core

	// level is the minimum log level this core accepts.
	level zapcore.Level
}

// Enabled reports whether l passes the pinned level.
func (c *coreWithLevel) Enabled(l zapcore.Level) bool {
	return c.level.Enabled(l)
}

// Check registers the core on the entry when the pinned level allows it.
//
//nolint:gocritic // AddCore requires ent to be passed by value.
func (c *coreWithLevel) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.Enabled(ent.Level) {
		return ce
	}

	return ce.AddCore(ent, c)
}

// With keeps the pinned level on derived cores.
//
//nolint:ireturn // Returning zapcore.Core is intended for zap integration.
func (c *coreWithLevel) With(fields []zapcore.Field) zapcore.Core {
	return &coreWithLevel{
		Core:  c.Core.With(fields),
		level: c.level,
	}
}

// WithLevel returns an option pinning the logger to lvl regardless of the
// level of the core it derives from.
//
//nolint:ireturn // Returning zap.Option is intended for zap integration.
func WithLevel(lvl zapcore.Level) zap.Option {
	return zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return &coreWithLevel{
			Core:  core,
			level: lvl,
		}
	})
}

// Pinned returns a copy of the global logger pinned to lvl.
func Pinned(lvl zapcore.Level) *zap.SugaredLogger {
	return global.Desugar().WithOptions(WithLevel(lvl)).Sugar()
}
