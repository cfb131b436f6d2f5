package observability

import (
	"context"
	"log/slog"
	"os"

	"github.com/frn-eng/intake-agent/internal/domain"
)

type ctxKey string

const (
	ctxKeyRequestID ctxKey = "request_id"
)

// basic global logger, JSON to stdout.
var logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

func Logger() *slog.Logger {
	return logger
}

// WithRequestID stores a request_id in the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, requestID)
}

// LoggerFromContext adds request_id if present.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	reqID, _ := ctx.Value(ctxKeyRequestID).(string)
	if reqID == "" {
		return logger
	}
	return logger.With("request_id", reqID)
}

// EventLogger returns a logger carrying the identifiers of one inbound event.
func EventLogger(ctx context.Context, ev domain.InboundEvent) *slog.Logger {
	return LoggerFromContext(ctx).With(
		"event_id", ev.ID,
		"event_kind", ev.Kind,
		"user_id", ev.UserID,
		"room_id", ev.RoomID,
	)
}
