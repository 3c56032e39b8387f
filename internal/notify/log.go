package notify

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	domain "github.com/oshokin/safety-checkin/internal/domain/checkin"
	"github.com/oshokin/safety-checkin/internal/logger"
)

// Log writes notices to a zap logger.
type Log struct {
	// log is pinned to info so notices survive a stricter global level.
	log *zap.SugaredLogger
}

// NewLog creates a sink on l. A nil l selects the global logger.
func NewLog(l *zap.SugaredLogger) *Log {
	if l == nil {
		l = logger.Pinned(zapcore.InfoLevel)
	}

	return &Log{log: l.Named("notice")}
}

// Notify logs the notice at the level matching its severity.
func (l *Log) Notify(_ context.Context, notice *domain.Notice) error {
	kvs := []any{
		"title", notice.Title,
		"severity", notice.Severity,
	}

	if notice.Actor != nil {
		kvs = append(kvs, "actor", notice.Actor.Key())
	}

	if notice.Alert != nil {
		kvs = append(kvs,
			"alert_id", notice.Alert.ID,
			"location", notice.Alert.Location.String(),
			"timestamp", notice.Alert.Timestamp,
		)
	}

	l.log.Logw(severityLevel(notice.Severity), notice.Message, kvs...)

	return nil
}

func severityLevel(severity domain.Severity) zapcore.Level {
	switch severity {
	case domain.SeverityCritical:
		return zapcore.ErrorLevel
	case domain.SeverityWarning:
		return zapcore.WarnLevel
	case domain.SeverityInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.InfoLevel
	}
}
