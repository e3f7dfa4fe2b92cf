// Package middleware provides HTTP middlewares for authentication and
// request logging.
package middleware

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey string

const (
	callerKey ctxKey = "caller"
	tokenKey  ctxKey = "token"
)

// CallerResolver maps a bearer token to the authenticated user's id.
type CallerResolver interface {
	ResolveCaller(ctx context.Context, token string) (int64, error)
}

// BearerAuth enforces bearer-token authentication.
//
// It extracts the token from the Authorization header, resolves it to a live
// user through the given resolver, and stores both the caller id and the raw
// token in the request context for downstream handlers. Requests without a
// valid token are rejected with 401 before reaching the handler.
func BearerAuth(resolver CallerResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			callerID, err := resolver.ResolveCaller(r.Context(), token)
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), callerKey, callerID)
			ctx = context.WithValue(ctx, tokenKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header.
func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", false
	}
	return h[len(prefix):], true
}

// GetCallerIDFromContext extracts the authenticated caller's user id from
// the request context. Returns 0 if not present.
func GetCallerIDFromContext(ctx context.Context) int64 {
	if id, ok := ctx.Value(callerKey).(int64); ok {
		return id
	}
	return 0
}

// GetTokenFromContext extracts the raw bearer token from the request
// context. Returns an empty string if not present.
func GetTokenFromContext(ctx context.Context) string {
	if t, ok := ctx.Value(tokenKey).(string); ok {
		return t
	}
	return ""
}
