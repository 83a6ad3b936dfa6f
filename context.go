package recordkit

import (
	"context"
)

// contextKey is a private type for context keys to avoid collisions.
type contextKey string

const (
	userKey      contextKey = "recordkit:user"
	checkerKey   contextKey = "recordkit:checker"
	requestIDKey contextKey = "recordkit:request_id"
)

// WithUser stores the authenticated user in the context.
func WithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// CurrentUser retrieves the authenticated user from the context, or nil.
func CurrentUser(ctx context.Context) *User {
	if u, ok := ctx.Value(userKey).(*User); ok {
		return u
	}
	return nil
}

// WithChecker stores a permission Checker in the context.
func WithChecker(ctx context.Context, c *Checker) context.Context {
	return context.WithValue(ctx, checkerKey, c)
}

// CheckerFromContext retrieves the Checker from the context. Returns nil if
// not present; callers should treat nil as deny-everything.
func CheckerFromContext(ctx context.Context) *Checker {
	if c, ok := ctx.Value(checkerKey).(*Checker); ok {
		return c
	}
	return nil
}

// WithRequestID stores a request ID in the context for log correlation.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetRequestID retrieves the request ID from the context, or "".
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}
