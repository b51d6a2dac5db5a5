package retry

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"time"

	"github.com/cenkalti/backoff/v4"

	"scan_service/pkg/contextx"
	"scan_service/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type Config struct {
	InitialInterval     time.Duration
	MaxInterval         time.Duration
	MaxElapsedTime      time.Duration
	RandomizationFactor float64
	Component           string
}

var DefaultConfig = Config{ //nolint:gochecknoglobals
	InitialInterval:     200 * time.Millisecond,
	MaxInterval:         2 * time.Second,
	MaxElapsedTime:      30 * time.Second,
	RandomizationFactor: 0.3,
	Component:           "unknown",
}

func NewConfigWithComponent(component string) Config {
	cfg := DefaultConfig
	cfg.Component = component

	return cfg
}

// Do calls fn until it succeeds, isRetryable rejects the error, the elapsed
// time budget runs out or ctx is done.
func Do(ctx context.Context, cfg Config, fn func(context.Context) error, isRetryable func(error) bool) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = cfg.InitialInterval
	bo.MaxInterval = cfg.MaxInterval
	bo.MaxElapsedTime = cfg.MaxElapsedTime
	bo.RandomizationFactor = cfg.RandomizationFactor
	bo.Reset()

	var attempt int

	return backoff.RetryNotify(
		func() error {
			attempt++

			err := fn(ctx)
			if err == nil || isRetryable(err) {
				return err
			}

			return backoff.Permanent(err)
		},
		backoff.WithContext(bo, ctx),
		func(err error, delay time.Duration) {
			logger(ctx).Warn("retrying",
				slog.String(logx.FieldComponent, cfg.Component),
				slog.Int(logx.FieldAttempt, attempt),
				slog.Duration(logx.FieldDelay, delay),
				logx.Error(err),
			)
		},
	)
}

// Always treats every error as retryable.
func Always(error) bool {
	return true
}

// IsNetworkError reports whether err looks like a transient connectivity
// problem.
func IsNetworkError(err error) bool {
	var netErr net.Error

	return errors.As(err, &netErr)
}
