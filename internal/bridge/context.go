package bridge

import "context"

type requestIDKey struct{}

// WithRequestID returns a context carrying id, which Bridge uses to
// correlate log and audit entries for one call.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the request ID stored in ctx, or "" if none.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
