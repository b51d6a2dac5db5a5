package connectors

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"scan_service/pkg/logx"
	"scan_service/pkg/retry"
)

type Mongo struct {
	value          *mongo.Client
	URI            string
	Database       string
	ConnectTimeout time.Duration
	Retry          retry.Config
	init           sync.Once
}

func (m *Mongo) Client(ctx context.Context) *mongo.Client {
	m.init.Do(func() {
		opts := options.Client().
			ApplyURI(m.URI).
			SetConnectTimeout(m.ConnectTimeout)

		m.value = lo.Must(mongo.Connect(ctx, opts))

		lo.Must0(retry.Do(ctx, m.Retry, func(ctx context.Context) error {
			return m.value.Ping(ctx, readpref.Primary())
		}, retry.Always))

		logger(ctx).Info("mongo connected", slog.String("database", m.Database))
	})

	return m.value
}

func (m *Mongo) Close(ctx context.Context) {
	if m.value == nil {
		return
	}

	if err := m.value.Disconnect(context.WithoutCancel(ctx)); err != nil {
		logger(ctx).Error("mongoClient.Disconnect", logx.Error(err))
	}

	logger(ctx).Info("mongo disconnected", slog.String("database", m.Database))
}
