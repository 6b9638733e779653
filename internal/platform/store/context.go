package store

import "context"

type (
	reqIDKey struct{}
	adminKey struct{}
)

// WithAdmin marks the context as running with operator privileges.
// Destructive repo operations (history purge) refuse to run without it
func WithAdmin(ctx context.Context) context.Context {
	return context.WithValue(ctx, adminKey{}, true)
}

// IsAdmin reports if the context carries operator privileges
func IsAdmin(ctx context.Context) bool {
	v := ctx.Value(adminKey{})
	b, _ := v.(bool)
	return b
}

// WithRequestID attaches a request id to the context
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, reqIDKey{}, id)
}

// RequestID retrieves a request id from context if present
func RequestID(ctx context.Context) (string, bool) {
	v := ctx.Value(reqIDKey{})
	if v == nil {
		return "", false
	}
	s, _ := v.(string)
	return s, s != ""
}
