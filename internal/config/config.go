package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverRedis    = "redis"
	DriverElastic  = "elastic"
)

var drivers = []string{ //nolint:gochecknoglobals
	DriverMemory,
	DriverSQLite,
	DriverPostgres,
	DriverMongo,
	DriverRedis,
	DriverElastic,
}

var (
	ErrUnknownDriver = errors.New("unknown store driver")
	ErrMissingOption = errors.New("missing option for store driver")
)

type Config struct {
	App      App
	HTTP     HTTP
	Probe    Probe
	Metrics  Metrics
	Store    Store
	Postgres Postgres
	SQLite   SQLite
	Mongo    Mongo
	Redis    Redis
	Elastic  Elastic
}

type App struct {
	Name          string `env:"APP_NAME" envDefault:"scan-service"`
	Version       string `env:"APP_VERSION" envDefault:"dev"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat     string `env:"LOG_FORMAT" envDefault:"text"`
	SeedOnStartup bool   `env:"SEED_ON_STARTUP" envDefault:"false"`
}

type Store struct {
	Driver string `env:"STORE_DRIVER" envDefault:"memory"`
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var config Config

	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("env.Parse: %w", err)
	}

	if err := config.Validate(); err != nil {
		return Config{}, fmt.Errorf("config.Validate: %w", err)
	}

	return config, nil
}

// Validate checks that the selected store driver has what it needs to
// connect.
func (c Config) Validate() error {
	if !slices.Contains(drivers, c.Store.Driver) {
		return fmt.Errorf("%w: %q", ErrUnknownDriver, c.Store.Driver)
	}

	var missing string

	switch c.Store.Driver {
	case DriverPostgres:
		if c.Postgres.DSN == "" {
			missing = "PG_DSN"
		}
	case DriverSQLite:
		if c.SQLite.Path == "" {
			missing = "SQLITE_PATH"
		}
	case DriverMongo:
		if c.Mongo.URI == "" {
			missing = "MONGO_URI"
		}
	case DriverRedis:
		if c.Redis.Address == "" {
			missing = "REDIS_ADDRESS"
		}
	case DriverElastic:
		if len(c.Elastic.Addresses) == 0 {
			missing = "ELASTIC_ADDRESSES"
		}
	}

	if missing != "" {
		return fmt.Errorf("%w %s: %s", ErrMissingOption, c.Store.Driver, missing)
	}

	return nil
}
