package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go-task-tracker/docs"
	"go-task-tracker/internal/config"
	"go-task-tracker/internal/database"
	"go-task-tracker/internal/handler"
	"go-task-tracker/internal/middleware"
	"go-task-tracker/internal/repository"
	"go-task-tracker/internal/router"
	"go-task-tracker/internal/service"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	server       *http.Server
	cleanupFuncs []func()
}

// New wires the API. Without a DATABASE_URL the repositories live in memory
// and are lost on restart.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	var (
		users   service.UserStore
		tasks   service.TaskStore
		health  handler.HealthChecker
		cleanup []func()
	)

	if cfg.DatabaseURL != "" {
		slog.Info("connecting to PostgreSQL")
		db, err := database.New(ctx, database.Options{
			URL:      cfg.DatabaseURL,
			MaxConns: cfg.DBMaxConns,
			MinConns: cfg.DBMinConns,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}

		if err := db.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to ensure database schema: %w", err)
		}

		users = repository.NewUserRepository(db.Pool)
		tasks = repository.NewTaskRepository(db.Pool)
		health = db.Health
		cleanup = append(cleanup, db.Close)
		slog.Info("database ready")
	} else {
		slog.Warn("DATABASE_URL not set; using in-memory storage")
		users = repository.NewMemoryUserRepository()
		tasks = repository.NewMemoryTaskRepository()
	}

	authService, err := service.NewAuthService(users, cfg.JWTSecret, cfg.JWTTTL, cfg.BcryptCost)
	if err != nil {
		for _, fn := range cleanup {
			fn()
		}
		return nil, fmt.Errorf("failed to initialize auth service: %w", err)
	}
	taskService := service.NewTaskService(tasks)

	appRouter := router.New(cfg, middleware.NewAuthMiddleware(authService), router.Handlers{
		Auth:   handler.NewAuthHandler(authService),
		Task:   handler.NewTaskHandler(taskService),
		Health: handler.NewHealthHandler(health),
		Docs:   handler.NewDocsHandler(docs.OpenAPI),
	})

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{server: server, cleanupFuncs: cleanup}, nil
}

func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	serveErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		a.cleanup()
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := a.server.Shutdown(shutdownCtx)
	a.cleanup()
	if err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

func (a *App) cleanup() {
	for _, fn := range a.cleanupFuncs {
		fn()
	}
	a.cleanupFuncs = nil
}
