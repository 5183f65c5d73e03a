package core

import "context"

// Context keys for request options
type contextKey string

const requestIDKey contextKey = "requestID"

// WithRequestID attaches a request ID used to correlate log lines.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFrom returns the request ID stored in ctx, or an empty string.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// logArgs prefixes args with the request ID when ctx carries one.
func logArgs(ctx context.Context, args ...any) []any {
	if id := RequestIDFrom(ctx); id != "" {
		return append([]any{"request_id", id}, args...)
	}
	return args
}
