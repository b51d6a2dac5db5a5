package application

import (
	"context"
	"fmt"

	"scan_service/internal/config"
	"scan_service/internal/infrastructure/persistence"
	"scan_service/pkg/application/connectors"
	"scan_service/pkg/retry"
)

type closeFunc func(context.Context)

// openStore connects the driver selected by STORE_DRIVER and prepares its
// schema or indexes.
func openStore(ctx context.Context, cfg config.Config) (persistence.ScanStore, closeFunc, error) {
	switch cfg.Store.Driver {
	case config.DriverMemory:
		return persistence.NewMemoryScanRepository(), func(context.Context) {}, nil

	case config.DriverPostgres:
		pg := &connectors.Postgres{
			DSN:             cfg.Postgres.DSN,
			MaxIdleConns:    cfg.Postgres.MaxIdleConns,
			MaxOpenConns:    cfg.Postgres.MaxOpenConns,
			ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
			Retry:           retry.NewConfigWithComponent("postgres"),
		}

		repo := persistence.NewSQLScanRepository(pg.Client(ctx))
		if err := repo.EnsureSchema(ctx); err != nil {
			pg.Close(ctx)

			return nil, nil, fmt.Errorf("repo.EnsureSchema: %w", err)
		}

		return repo, pg.Close, nil

	case config.DriverSQLite:
		lite := &connectors.SQLite{Path: cfg.SQLite.Path}

		repo := persistence.NewSQLScanRepository(lite.Client(ctx))
		if err := repo.EnsureSchema(ctx); err != nil {
			lite.Close(ctx)

			return nil, nil, fmt.Errorf("repo.EnsureSchema: %w", err)
		}

		return repo, lite.Close, nil

	case config.DriverMongo:
		mongo := &connectors.Mongo{
			URI:            cfg.Mongo.URI,
			Database:       cfg.Mongo.Database,
			ConnectTimeout: cfg.Mongo.ConnectTimeout,
			Retry:          retry.NewConfigWithComponent("mongo"),
		}

		repo := persistence.NewMongoScanRepository(mongo.Client(ctx), cfg.Mongo.Database, cfg.Mongo.Collection)
		if err := repo.EnsureIndexes(ctx); err != nil {
			mongo.Close(ctx)

			return nil, nil, fmt.Errorf("repo.EnsureIndexes: %w", err)
		}

		return repo, mongo.Close, nil

	case config.DriverRedis:
		redis := &connectors.Redis{
			Address:            cfg.Redis.Address,
			Username:           cfg.Redis.Username,
			Password:           cfg.Redis.Password,
			DatabaseNumber:     cfg.Redis.DatabaseNumber,
			PoolSize:           cfg.Redis.PoolSize,
			MinIdleConnections: cfg.Redis.MinIdleConnections,
			MaxIdleConnections: cfg.Redis.MaxIdleConnections,
			LogCommands:        cfg.Redis.LogCommands,
			Retry:              retry.NewConfigWithComponent("redis"),
		}

		return persistence.NewRedisScanRepository(redis.Client(ctx), cfg.Redis.KeyPrefix), redis.Close, nil

	case config.DriverElastic:
		elastic := &connectors.Elastic{
			Addresses:      cfg.Elastic.Addresses,
			Username:       cfg.Elastic.Username,
			Password:       cfg.Elastic.Password,
			MaxRetries:     cfg.Elastic.MaxRetries,
			LogRequests:    cfg.Elastic.LogRequests,
			LogFieldMaxLen: cfg.HTTP.LogFieldMaxLen,
			Retry:          retry.NewConfigWithComponent("elasticsearch"),
		}

		repo := persistence.NewElasticScanRepository(elastic.Client(ctx), cfg.Elastic.Index)
		if err := repo.EnsureIndex(ctx); err != nil {
			return nil, nil, fmt.Errorf("repo.EnsureIndex: %w", err)
		}

		return repo, func(context.Context) {}, nil

	default:
		return nil, nil, fmt.Errorf("%w: %q", config.ErrUnknownDriver, cfg.Store.Driver)
	}
}
