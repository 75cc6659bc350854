package pipeline

import "context"

type correlationIDContextKey struct{}

// WithCorrelationID pins the X-Session-ID header value for requests issued with
// ctx. When absent, the pipeline generates a fresh UUID per request.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDContextKey{}, id)
}

func correlationIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	id, _ := ctx.Value(correlationIDContextKey{}).(string)
	return id
}
