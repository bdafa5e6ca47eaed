package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/okellodev/dukani/internal/service"
)

type contextKey string

const principalContextKey contextKey = "principal_id"

// PrincipalIDFromContext returns the authenticated principal's id, or
// uuid.Nil when the request was not authenticated.
func PrincipalIDFromContext(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(principalContextKey).(uuid.UUID)
	return id
}

// Auth verifies the bearer session token and stores the principal id in
// the request context. Tenant-level authorization stays in the services;
// this layer only establishes who is calling.
func Auth(auth *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				writeError(w, http.StatusUnauthorized, "invalid authorization header format")
				return
			}

			principalID, err := auth.ParseToken(parts[1])
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), principalContextKey, principalID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
