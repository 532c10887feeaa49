package middleware

import (
	"context"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// requestInfoKey is the context key for the per-request RequestInfo.
const requestInfoKey contextKey = "request_info"

// RequestInfo collects facts discovered while handling a request so the
// logging middleware can report them when the request completes.
type RequestInfo struct {
	UserID string
}

// withRequestInfo returns a context carrying a fresh RequestInfo.
func withRequestInfo(ctx context.Context) context.Context {
	return context.WithValue(ctx, requestInfoKey, &RequestInfo{})
}

// SetUserID records the resolved user on the request. It is a no-op outside
// the logging middleware.
func SetUserID(ctx context.Context, userID string) {
	if info, ok := ctx.Value(requestInfoKey).(*RequestInfo); ok {
		info.UserID = userID
	}
}

// GetUserID extracts the user ID recorded by SetUserID.
// Returns empty string if not found.
func GetUserID(ctx context.Context) string {
	if info, ok := ctx.Value(requestInfoKey).(*RequestInfo); ok {
		return info.UserID
	}
	return ""
}
