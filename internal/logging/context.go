package logging

import (
	"context"
	"log/slog"

	"routelabel/internal/services"
)

const (
	// FieldComponent is the structured logging key for component names.
	FieldComponent = "component"
	// FieldRoute is the structured logging key for route directory names.
	FieldRoute = "route"
	// FieldStage is the structured logging key for pipeline stages (preload, review, archive).
	FieldStage = "stage"
	// FieldSessionID is the structured logging key for the review session identifier.
	FieldSessionID = "session_id"
	// FieldFrame is the structured logging key for frame file names.
	FieldFrame = "frame"
	// FieldEventType classifies a log line for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint tells the operator what to try next.
	FieldErrorHint = "error_hint"
	// FieldImpact is the user-facing consequence of a warning.
	FieldImpact = "impact"
)

// contextFields pairs each log key with the services accessor that fills it.
var contextFields = []struct {
	key string
	get func(context.Context) (string, bool)
}{
	{FieldRoute, services.RouteFromContext},
	{FieldStage, services.StageFromContext},
	{FieldSessionID, services.SessionIDFromContext},
}

// ContextFields returns the route, stage and session id carried by ctx.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	var fields []slog.Attr
	for _, cf := range contextFields {
		if v, ok := cf.get(ctx); ok {
			fields = append(fields, slog.String(cf.key, v))
		}
	}
	return fields
}

// WithContext scopes logger to the values carried by ctx.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	if fields := ContextFields(ctx); len(fields) > 0 {
		return logger.With(attrsToArgs(fields)...)
	}
	return logger
}
