package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go-task-tracker/internal/cli"
	"go-task-tracker/internal/config"
	"go-task-tracker/internal/logger"
)

func main() {
	cfg, err := config.LoadClient()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitUsage)
	}

	logger.Setup(os.Stderr, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := cli.New(cfg, os.Stdout, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitInternalError)
	}

	code := app.Run(ctx, os.Args[1:])
	app.Close()
	stop()
	os.Exit(code)
}
