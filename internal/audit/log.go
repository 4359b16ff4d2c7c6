// Package audit emits an append-only trail of account and item lifecycle
// events through the service log.
package audit

import (
	"context"
	"errors"
	"strings"

	"taskora.org/internal/auth"
	"taskora.org/internal/obs"
)

type ctxKey string

const requestIDKey ctxKey = "audit_request_id"

// WithRequestID attaches the request identifier to the context for audit
// logging.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, requestID)
}

func requestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// LogEvent writes an audit entry enriched with request and actor context.
func LogEvent(ctx context.Context, event string, fields map[string]any) error {
	event = strings.TrimSpace(event)
	if event == "" {
		return errors.New("event name is required")
	}
	logger := obs.Logger()
	entry := logger.Info().
		Str("type", "audit").
		Str("event", event)
	if rid := requestIDFromContext(ctx); rid != "" {
		entry = entry.Str("request_id", rid)
	}
	if user, ok := auth.UserFromContext(ctx); ok {
		entry = entry.Int64("actor_id", user.ID)
	}
	if len(fields) > 0 {
		entry = entry.Fields(fields)
	}
	entry.Msg(event)
	return nil
}
