package logging

import (
	"log/slog"
)

// ActivityLog records every gateway interaction as a structured event.
// It satisfies the execution core's ActivityLogger capability and is
// fire-and-forget: it never returns errors to the caller.
type ActivityLog struct {
	logger *slog.Logger
}

// NewActivityLog wraps a structured logger. A nil logger falls back to the
// process default.
func NewActivityLog(logger *slog.Logger) *ActivityLog {
	if logger == nil {
		logger = slog.Default()
	}
	return &ActivityLog{logger: logger}
}

func (l *ActivityLog) LogRequest(method string, params any) {
	l.logger.Info("API REQUEST",
		slog.String("method", method),
		slog.Any("params", params))
}

func (l *ActivityLog) LogResponse(method string, params, result any) {
	l.logger.Info("API RESPONSE",
		slog.String("method", method),
		slog.Any("params", params),
		slog.Any("result", result))
}

func (l *ActivityLog) LogError(method string, params any, err error) {
	l.logger.Error("API ERROR",
		slog.String("method", method),
		slog.Any("params", params),
		slog.Any("error", err))
}
