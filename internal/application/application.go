package application

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"scan_service/internal/config"
	service "scan_service/internal/domain/service/scan"
	"scan_service/internal/infrastructure/persistence"
	"scan_service/internal/server"
	"scan_service/pkg/application/modules"
	"scan_service/pkg/contextx"
	"scan_service/pkg/logx"
	"scan_service/pkg/probe"
)

const httpServerReadHeaderTimeout = 5 * time.Second

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// Run opens the configured store, optionally seeds it and serves the API,
// probe and metrics servers until ctx is done or one of them fails.
func Run(ctx context.Context, cfg config.Config) error {
	logger(ctx).Info(
		"application starting",
		slog.String(logx.FieldAppName, cfg.App.Name),
		slog.String(logx.FieldAppVersion, cfg.App.Version),
		slog.String(logx.FieldStoreDriver, cfg.Store.Driver),
	)

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("openStore: %w", err)
	}
	defer closeStore(ctx)

	scanStore := persistence.NewInstrumentedScanStore(store, cfg.Store.Driver)

	if cfg.App.SeedOnStartup {
		if _, err = service.Seed(ctx, scanStore, service.DefaultSeed()...); err != nil {
			return fmt.Errorf("service.Seed: %w", err)
		}
	}

	scanServer := server.NewScanServer(service.NewScanService(scanStore))

	httpServer := &http.Server{
		//nolint:exhaustruct
		Addr: cfg.HTTP.ListenAddress,
		Handler: server.NewRouter(
			server.NewServer(scanServer),
			server.RouterOptions{LogFieldMaxLen: cfg.HTTP.LogFieldMaxLen},
		),
		ReadHeaderTimeout: httpServerReadHeaderTimeout,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	g, ctx := errgroup.WithContext(ctx)

	modules.HTTPServer{
		ShutdownTimeout: cfg.HTTP.ShutdownTimeout,
	}.Run(ctx, g, httpServer)

	modules.ProbeServer{
		Name:          cfg.App.Name,
		Version:       cfg.App.Version,
		ListenAddress: cfg.Probe.ListenAddress,
		Checks:        []probe.ReadinessCheck{scanStore.Ping},
	}.Run(ctx, g)

	modules.MetricServer{
		ListenAddress: cfg.Metrics.ListenAddress,
	}.Run(ctx, g)

	if err = g.Wait(); err != nil {
		return fmt.Errorf("g.Wait: %w", err)
	}

	logger(ctx).Info("application stopped")

	return nil
}
