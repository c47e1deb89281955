package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/lanekeeper/lanekeeper/internal/auth"
	"github.com/lanekeeper/lanekeeper/internal/model"
)

// AuthTokenHeader is the primary header carrying the session token.
const AuthTokenHeader = "X-Auth-Token"

// SessionResolver resolves a session token to the authenticated caller.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*model.AuthContext, error)
}

// SessionAuth returns a middleware that authenticates requests via session
// tokens. The token is read from the X-Auth-Token header, falling back to
// Authorization: Bearer. Requests without a valid token are rejected with
// 401 before reaching the handler.
func SessionAuth(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				unauthorized(w, "authentication token required")
				return
			}

			caller, err := resolver.Resolve(r.Context(), token)
			if err != nil {
				unauthorized(w, "invalid or expired token")
				return
			}

			ctx := auth.ContextWithAuth(r.Context(), caller)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken pulls the session token out of the request headers.
func extractToken(r *http.Request) string {
	if token := strings.TrimSpace(r.Header.Get(AuthTokenHeader)); token != "" {
		return token
	}

	authHeader := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(authHeader) > len(prefix) && strings.EqualFold(authHeader[:len(prefix)], prefix) {
		return strings.TrimSpace(authHeader[len(prefix):])
	}
	return ""
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
		"code":  "UNAUTHORIZED",
	})
}
