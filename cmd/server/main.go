package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"go-task-tracker/internal/app"
	"go-task-tracker/internal/config"
	"go-task-tracker/internal/logger"
)

func main() {
	logger.Setup(os.Stdout, slog.LevelInfo)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}

	if err := application.Run(ctx); err != nil {
		slog.Error("application run failed", "error", err)
		os.Exit(1)
	}
}
