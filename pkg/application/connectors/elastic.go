package connectors

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/samber/lo"

	"scan_service/pkg/httpx"
	"scan_service/pkg/logx"
	"scan_service/pkg/retry"
)

type Elastic struct {
	value          *elasticsearch.Client
	Addresses      []string
	Username       string
	Password       string
	MaxRetries     int
	LogRequests    bool
	LogFieldMaxLen int
	Retry          retry.Config
	init           sync.Once
}

func (e *Elastic) Client(ctx context.Context) *elasticsearch.Client {
	e.init.Do(func() {
		var transport http.RoundTripper = http.DefaultTransport
		if e.LogRequests {
			transport = httpx.NewLoggingRoundTripper(
				transport,
				httpx.WithLogFieldMaxLen(e.LogFieldMaxLen),
				httpx.WithSensitiveDataMasker(logx.NewSensitiveDataMasker()),
			)
		}

		e.value = lo.Must(elasticsearch.NewClient(elasticsearch.Config{
			//nolint:exhaustruct
			Addresses:  e.Addresses,
			Username:   e.Username,
			Password:   e.Password,
			MaxRetries: e.MaxRetries,
			Transport:  transport,
		}))

		lo.Must0(retry.Do(ctx, e.Retry, e.ping, retry.Always))

		logger(ctx).Info("elasticsearch connected", slog.String("addresses", strings.Join(e.Addresses, ",")))
	})

	return e.value
}

func (e *Elastic) ping(ctx context.Context) error {
	res, err := e.value.Ping(e.value.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("client.Ping: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("client.Ping: %s", res.Status())
	}

	return nil
}
