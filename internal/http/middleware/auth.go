package middleware

import (
	"context"
	"net/http"
	"strings"

	"todo-admin-service/internal/http/response"
	"todo-admin-service/internal/permissions"
)

type contextKey string

const (
	userIDKey      contextKey = "auth_user_id"
	permissionsKey contextKey = "auth_permissions"
)

// Authenticator resolves a bearer token to a user and the user's permission
// set. Implemented by service.AuthService.
type Authenticator interface {
	VerifyToken(ctx context.Context, raw string) (uint, error)
	PermissionNames(ctx context.Context, userID uint) ([]string, error)
}

// BearerToken extracts the token from the Authorization header, or returns
// an empty string.
func BearerToken(r *http.Request) string {
	auth := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(auth) > len("bearer ") && strings.EqualFold(auth[:len("bearer ")], "bearer ") {
		return strings.TrimSpace(auth[len("bearer "):])
	}
	return ""
}

// Authenticate rejects requests without a valid access token and stashes the
// user ID and permission set in the request context.
func Authenticate(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := BearerToken(r)
			if raw == "" {
				response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing access token", nil)
				return
			}
			userID, err := auth.VerifyToken(r.Context(), raw)
			if err != nil {
				response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or expired access token", nil)
				return
			}
			names, err := auth.PermissionNames(r.Context(), userID)
			if err != nil {
				response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "could not load permissions", nil)
				return
			}
			ctx := context.WithValue(r.Context(), userIDKey, userID)
			ctx = context.WithValue(ctx, permissionsKey, permissions.NewSet(names...))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext returns the authenticated user's ID, if any.
func UserIDFromContext(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(userIDKey).(uint)
	return id, ok
}

// PermissionsFromContext returns the authenticated user's permission set.
// An unauthenticated context yields an empty set.
func PermissionsFromContext(ctx context.Context) permissions.Set {
	if set, ok := ctx.Value(permissionsKey).(permissions.Set); ok {
		return set
	}
	return permissions.Set{}
}
