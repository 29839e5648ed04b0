package auth

import (
	"context"
	"net/http"
	"strings"

	"parley/infrastructure"
	"parley/internal/api"
	"parley/pkg/jwt"
)

type contextKey string

const callerIDKey contextKey = "caller_id"

// Middleware resolves the opaque caller id from the bearer token issued
// by the external identity provider.
type Middleware struct {
	tokens *jwt.JWT
}

func NewMiddleware(tokens *jwt.JWT) *Middleware {
	return &Middleware{tokens: tokens}
}

func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			api.RespondError(w, infrastructure.ErrMissingToken)
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := m.tokens.ValidateToken(token)
		if err != nil {
			api.RespondError(w, infrastructure.ErrInvalidToken)
			return
		}

		ctx := context.WithValue(r.Context(), callerIDKey, claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CallerID returns the authenticated user id stored by Handler, or ""
// for unauthenticated requests.
func CallerID(ctx context.Context) string {
	id, _ := ctx.Value(callerIDKey).(string)
	return id
}

// WithCallerID is used by tests to run handlers without the middleware.
func WithCallerID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, callerIDKey, userID)
}
