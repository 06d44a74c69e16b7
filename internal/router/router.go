package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shashwatpal1021/Master-O/internal/config"
	"github.com/shashwatpal1021/Master-O/internal/handler"
	"github.com/shashwatpal1021/Master-O/internal/middleware"
	"github.com/shashwatpal1021/Master-O/internal/model"
)

type Handlers struct {
	Auth *handler.AuthHandler
	Task *handler.TaskHandler
	User *handler.UserHandler
}

func New(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, handlers Handlers) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", handler.Health)

	r.Route("/api", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/login", handlers.Auth.Login)
			auth.Post("/refresh", handlers.Auth.Refresh)
			auth.Post("/logout", handlers.Auth.Logout)
			auth.With(authMiddleware.RequireAuth, authMiddleware.RequireRoles(model.RoleAdmin)).Post("/register", handlers.Auth.Register)

			// Any authenticated user may list users so employees can see
			// who a task belongs to; deletion stays admin-only.
			auth.With(authMiddleware.RequireAuth).Get("/users", handlers.User.List)
			auth.With(authMiddleware.RequireAuth).Get("/users/{id}", handlers.User.Get)
			auth.With(authMiddleware.RequireAuth, authMiddleware.RequireRoles(model.RoleAdmin)).Delete("/users/{id}", handlers.User.Delete)
		})

		api.Route("/tasks", func(tasks chi.Router) {
			tasks.Use(authMiddleware.RequireAuth)

			tasks.Get("/", handlers.Task.List)
			tasks.Post("/", handlers.Task.Create)
			tasks.Get("/{id}", handlers.Task.Get)
			tasks.Put("/{id}", handlers.Task.Update)
			tasks.Patch("/{id}", handlers.Task.Update)
			tasks.Patch("/{id}/status", handlers.Task.UpdateStatus)
			tasks.Patch("/{id}/assign", handlers.Task.Assign)
			tasks.Delete("/{id}", handlers.Task.Delete)
		})
	})

	return r
}
