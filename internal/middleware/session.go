// Package middleware provides HTTP middlewares for authentication and logging.
package middleware

import (
	"context"
	"net/http"
)

type ctxKey string

const userKey ctxKey = "user"

// SessionCookieName is the cookie carrying the opaque session token.
const SessionCookieName = "session_id"

// SessionResolver maps a session token to a user id. Absent, unknown,
// or expired tokens resolve to "" without error.
type SessionResolver interface {
	ResolveSessionUser(ctx context.Context, token string) (string, error)
}

// WithSession resolves the session cookie into a user id and stores it
// in the request context. Requests without a valid session continue as
// anonymous; handlers decide whether that is acceptable. Read paths
// stay permissive while mutations require the resolved identity.
func WithSession(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
				userID, err := resolver.ResolveSessionUser(ctx, cookie.Value)
				if err != nil {
					http.Error(w, "internal error", http.StatusInternalServerError)
					return
				}
				if userID != "" {
					ctx = context.WithValue(ctx, userKey, userID)
				}
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserIDFromContext extracts the session-resolved user ID from the
// request context. Returns an empty string if not found.
func GetUserIDFromContext(ctx context.Context) string {
	val := ctx.Value(userKey)
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}
