package auth

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

// adminContextKey is the context key for the authenticated admin claims
const adminContextKey contextKey = "auth_admin"

// Middleware provides HTTP authentication middleware
type Middleware struct {
	jwt    *JWTManager
	logger *zap.SugaredLogger
}

// NewMiddleware creates a new auth middleware
func NewMiddleware(jwt *JWTManager, logger *zap.SugaredLogger) *Middleware {
	return &Middleware{
		jwt:    jwt,
		logger: logger,
	}
}

// RequireAuth is middleware that requires a valid JWT access token.
// Requests without one get 401 with a JSON error body.
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			unauthorized(w, "missing token")
			return
		}

		claims, err := m.jwt.ValidateToken(token)
		if err != nil {
			m.logger.Debugw("Token validation failed", "path", r.URL.Path, "error", err)
			unauthorized(w, "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), adminContextKey, claims)
		next(w, r.WithContext(ctx))
	}
}

// AdminFromContext returns the authenticated admin claims, if any
func AdminFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(adminContextKey).(*Claims)
	return claims, ok
}

// extractToken pulls the access token from the Authorization header
func extractToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"unauthorized: ` + message + `"}`))
}
