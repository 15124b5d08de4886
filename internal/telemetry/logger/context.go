// Package logger provides structured logging for exitguard.
package logger

import "context"

// contextKey is a type for context keys to avoid collisions.
type contextKey string

const (
	// loggerKey is the context key for the logger.
	loggerKey contextKey = "exitguard.logger"
	// runIDKey is the context key for the cleanup run ID.
	runIDKey contextKey = "exitguard.run_id"
	// componentKey is the context key for the component name.
	componentKey contextKey = "exitguard.component"
)

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext extracts the logger from context.
// Returns the default logger if none is set.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(loggerKey).(Logger); ok {
		return l
	}
	return Default()
}

// WithRunID adds a cleanup run ID to the context. Cleanup listeners receive
// a context carrying the ID of the run they are part of.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// RunIDFromContext extracts the cleanup run ID from context.
func RunIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(runIDKey).(string); ok {
		return id
	}
	return ""
}

// WithComponent names the component doing the logging.
func WithComponent(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, componentKey, name)
}

// ComponentFromContext extracts the component name from context.
func ComponentFromContext(ctx context.Context) string {
	if name, ok := ctx.Value(componentKey).(string); ok {
		return name
	}
	return ""
}

// L returns the logger carried by ctx, bound to ctx so that its records
// carry the run ID and component.
func L(ctx context.Context) Logger {
	return FromContext(ctx).WithContext(ctx)
}
