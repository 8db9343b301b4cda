package tools

import "context"

type userKey struct{}

// WithUser attaches the caller identity used for downstream calls.
func WithUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userKey{}, userID)
}

// UserFrom extracts the caller identity, empty when absent.
func UserFrom(ctx context.Context) string {
	if v, ok := ctx.Value(userKey{}).(string); ok {
		return v
	}
	return ""
}
