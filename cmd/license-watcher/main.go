package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/licenseflow/license-portal/internal/app/watcher"
	"github.com/licenseflow/license-portal/internal/config"
)

func main() {
	cfg := config.MustLoad()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	logger.Info("starting license-watcher", slog.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := watcher.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize watcher", slog.Any("err", err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		logger.Error("watcher stopped with error", slog.Any("err", err))
		os.Exit(1)
	}

	logger.Info("license-watcher stopped gracefully")
}
