package application_test

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"scan_service/internal/application"
	"scan_service/internal/config"
	"scan_service/pkg/rest"
	"scan_service/pkg/tests"
)

// freeAddress reserves a free local port and releases it for the server.
func freeAddress(t *testing.T) string {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	addr := l.Addr().String()
	require.NoError(t, l.Close())

	return addr
}

func testConfig(t *testing.T, driver string) config.Config {
	t.Helper()

	return config.Config{
		App: config.App{
			Name:          "scan-service",
			Version:       "test",
			SeedOnStartup: true,
		},
		HTTP: config.HTTP{
			ListenAddress:   ":18080",
			ShutdownTimeout: time.Second,
			LogFieldMaxLen:  1024,
		},
		Probe:   config.Probe{ListenAddress: freeAddress(t)},
		Metrics: config.Metrics{ListenAddress: freeAddress(t)},
		Store:   config.Store{Driver: driver},
		SQLite:  config.SQLite{Path: ":memory:"},
	}
}

func TestRun(t *testing.T) {
	for _, driver := range []string{config.DriverMemory, config.DriverSQLite} {
		t.Run(driver, func(t *testing.T) {
			rq := require.New(t)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			cfg := testConfig(t, driver)
			g, ctx := errgroup.WithContext(ctx)

			g.Go(func() error {
				return application.Run(ctx, cfg)
			})

			client := tests.NewAPIClient("http://"+cfg.HTTP.ListenAddress, nil)
			probeClient := tests.NewAPIClient("http://"+cfg.Probe.ListenAddress, nil)

			rq.Eventually(func() bool {
				ready, err := probeClient.Get(ctx, "/ready", nil, nil)
				if err != nil || ready.StatusCode != http.StatusOK {
					return false
				}

				_, err = client.Get(ctx, "/scans", nil, nil)

				return err == nil
			}, 5*time.Second, 20*time.Millisecond)

			var scans []rest.Scan

			resp, err := client.Get(ctx, "/scans/user/lode", &scans, nil)
			rq.NoError(err)
			rq.Equal(http.StatusOK, resp.StatusCode)
			rq.Len(scans, 3)

			resp, err = probeClient.Get(ctx, "/ready", nil, nil)
			rq.NoError(err)
			rq.Equal(http.StatusOK, resp.StatusCode)

			metricsClient := tests.NewAPIClient("http://"+cfg.Metrics.ListenAddress, nil)

			resp, err = metricsClient.Get(ctx, "/metrics", nil, nil)
			rq.NoError(err)
			rq.Equal(http.StatusOK, resp.StatusCode)

			cancel()

			rq.NoError(g.Wait())
		})
	}
}

func TestRun_UnknownDriver(t *testing.T) {
	rq := require.New(t)

	err := application.Run(context.Background(), testConfig(t, "cassandra"))
	rq.ErrorIs(err, config.ErrUnknownDriver)
}
