package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-task-tracker/internal/config"
	"go-task-tracker/internal/handler"
	"go-task-tracker/internal/middleware"
)

type Handlers struct {
	Auth   *handler.AuthHandler
	Task   *handler.TaskHandler
	Health *handler.HealthHandler
	Docs   *handler.DocsHandler
}

func New(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, h Handlers) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(rateLimitMiddleware.Handler)

	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)

	r.Get("/health", h.Health.Health)
	r.Get("/openapi.yaml", h.Docs.OpenAPI)
	r.Get("/swagger", h.Docs.SwaggerUI)

	r.Group(func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/register", h.Auth.Register)
			auth.Post("/login", h.Auth.Login)
		})

		api.Route("/api/tasks", func(tasks chi.Router) {
			tasks.Use(authMiddleware.RequireAuth)

			tasks.Get("/", h.Task.List)
			tasks.Post("/", h.Task.Create)
			tasks.Get("/{id}", h.Task.Get)
			tasks.Put("/{id}", h.Task.Update)
			tasks.Delete("/{id}", h.Task.Delete)
		})
	})

	return r
}
