package services

import "context"

// ctxKey identifies one of the request-scoped values carried for logging.
type ctxKey int

const (
	routeKey ctxKey = iota
	stageKey
	sessionKey
)

func withString(ctx context.Context, key ctxKey, value string) context.Context {
	if value == "" {
		return ctx
	}
	return context.WithValue(ctx, key, value)
}

func stringFrom(ctx context.Context, key ctxKey) (string, bool) {
	if ctx == nil {
		return "", false
	}
	v, ok := ctx.Value(key).(string)
	return v, ok && v != ""
}

// WithRoute tags ctx with the route directory being processed.
func WithRoute(ctx context.Context, route string) context.Context {
	return withString(ctx, routeKey, route)
}

// RouteFromContext returns the route set by WithRoute.
func RouteFromContext(ctx context.Context) (string, bool) { return stringFrom(ctx, routeKey) }

// WithStage tags ctx with the pipeline stage (preload, review, archive).
func WithStage(ctx context.Context, stage string) context.Context {
	return withString(ctx, stageKey, stage)
}

// StageFromContext returns the stage set by WithStage.
func StageFromContext(ctx context.Context) (string, bool) { return stringFrom(ctx, stageKey) }

// WithSessionID tags ctx with the review session identifier.
func WithSessionID(ctx context.Context, id string) context.Context {
	return withString(ctx, sessionKey, id)
}

// SessionIDFromContext returns the id set by WithSessionID.
func SessionIDFromContext(ctx context.Context) (string, bool) { return stringFrom(ctx, sessionKey) }
