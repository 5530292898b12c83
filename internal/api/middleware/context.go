package middleware

import "context"

// contextKey is a private type for context keys to avoid collisions.
type contextKey string

const adminContextKey contextKey = "admin"

// withAdmin stores the authenticated admin username in the request context.
func withAdmin(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, adminContextKey, username)
}

// Admin retrieves the authenticated admin username from the request
// context. Returns "" if no admin is present.
func Admin(ctx context.Context) string {
	username, _ := ctx.Value(adminContextKey).(string)
	return username
}
