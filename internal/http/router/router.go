// Package router assembles the chi route tree. Every admin route is gated by
// the {action}-{resource} permission it exercises.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"todo-admin-service/internal/http/handler"
	"todo-admin-service/internal/http/middleware"
	"todo-admin-service/internal/permissions"
)

type Dependencies struct {
	Auth          *handler.AuthHandler
	Todos         *handler.TodoHandler
	Users         *handler.UserHandler
	Roles         *handler.RoleHandler
	Permissions   *handler.PermissionHandler
	Authenticator middleware.Authenticator
	RateLimiter   *middleware.RateLimiter
}

func New(deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	if deps.RateLimiter != nil {
		r.Use(deps.RateLimiter.Middleware())
	}

	r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Route("/api/v1", func(api chi.Router) {
		api.Post("/auth/login", deps.Auth.Login)

		api.Group(func(private chi.Router) {
			private.Use(middleware.Authenticate(deps.Authenticator))

			private.Get("/auth/me", deps.Auth.Me)

			private.Route("/todos", func(t chi.Router) {
				t.With(can("view", "todos")).Get("/", deps.Todos.Index)
				t.With(can("create", "todos")).Post("/", deps.Todos.Store)
				t.With(can("update", "todos")).Put("/bulk/update", deps.Todos.BulkUpdate)
				t.With(can("delete", "todos")).Delete("/bulk/destroy", deps.Todos.BulkDestroy)
				t.With(can("view", "todos")).Get("/{id}", deps.Todos.Show)
				t.With(can("update", "todos")).Patch("/{id}", deps.Todos.Update)
				t.With(can("delete", "todos")).Delete("/{id}", deps.Todos.Destroy)
			})

			private.Route("/users", func(u chi.Router) {
				u.With(can("view", "users")).Get("/", deps.Users.Index)
				u.With(can("create", "users")).Post("/", deps.Users.Store)
				u.With(can("view", "users")).Get("/{id}", deps.Users.Show)
				u.With(can("update", "users")).Patch("/{id}", deps.Users.Update)
				u.With(can("delete", "users")).Delete("/{id}", deps.Users.Destroy)
			})

			private.Route("/roles", func(ro chi.Router) {
				ro.With(can("view", "roles")).Get("/", deps.Roles.Index)
				ro.With(can("create", "roles")).Post("/", deps.Roles.Store)
				ro.With(can("view", "roles")).Get("/{id}", deps.Roles.Show)
				ro.With(can("update", "roles")).Patch("/{id}", deps.Roles.Update)
				ro.With(can("delete", "roles")).Delete("/{id}", deps.Roles.Destroy)
			})

			private.Route("/permissions", func(p chi.Router) {
				p.With(can("view", "permissions")).Get("/", deps.Permissions.Index)
				p.With(can("view", "permissions")).Get("/groups", deps.Permissions.Groups)
			})
		})
	})

	return r
}

func can(action, resource string) func(http.Handler) http.Handler {
	return middleware.RequirePermission(permissions.Name(action, resource))
}
