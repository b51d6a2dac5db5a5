package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"scan_service/internal/application"
	"scan_service/internal/config"
	"scan_service/pkg/contextx"
	"scan_service/pkg/logx"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config.Load", logx.Error(err))
		os.Exit(1) //nolint:gocritic
	}

	logger, err := logx.NewLogger(os.Stdout, cfg.App.LogLevel, cfg.App.LogFormat)
	if err != nil {
		slog.Error("logx.NewLogger", logx.Error(err))
		os.Exit(1)
	}

	slog.SetDefault(logger)

	ctx = contextx.WithLogger(ctx, logger)

	if err = application.Run(ctx, cfg); err != nil {
		logger.Error("application.Run", logx.Error(err))
		os.Exit(1)
	}
}
