package auth

import "context"

type contextKey struct{}

var userIDKey contextKey

// ContextWithUserID stores the authenticated user ID in the context.
// Set by the auth middleware, read by the handlers.
func ContextWithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext returns the authenticated user ID, or false when the
// request was not authenticated.
func UserIDFromContext(ctx context.Context) (int, bool) {
	userID, ok := ctx.Value(userIDKey).(int)
	return userID, ok
}
