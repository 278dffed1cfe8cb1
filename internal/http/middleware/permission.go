package middleware

import (
	"net/http"

	"todo-admin-service/internal/http/response"
	"todo-admin-service/internal/observability"
)

// RequirePermission blocks the request unless the authenticated user holds
// the named permission. Must run after Authenticate.
func RequirePermission(name string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !PermissionsFromContext(r.Context()).Can(name) {
				observability.RecordAccessDenied(r.Context(), name)
				response.Error(w, r, http.StatusForbidden, "FORBIDDEN", "missing required permission: "+name, nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAnyPermission admits the request when the user holds at least one
// of the named permissions.
func RequireAnyPermission(names ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !PermissionsFromContext(r.Context()).HasAny(names...) {
				if len(names) > 0 {
					observability.RecordAccessDenied(r.Context(), names[0])
				}
				response.Error(w, r, http.StatusForbidden, "FORBIDDEN", "missing required permission", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
