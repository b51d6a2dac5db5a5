package config

import "time"

type Mongo struct {
	URI            string        `env:"MONGO_URI" json:"-"`
	Database       string        `env:"MONGO_DATABASE" envDefault:"scan_service"`
	Collection     string        `env:"MONGO_COLLECTION" envDefault:"scans"`
	ConnectTimeout time.Duration `env:"MONGO_CONNECT_TIMEOUT" envDefault:"10s"`
}

type Redis struct {
	Address            string `env:"REDIS_ADDRESS"`
	Username           string `env:"REDIS_USERNAME"`
	Password           string `env:"REDIS_PASSWORD" json:"-"`
	DatabaseNumber     int    `env:"REDIS_DB" envDefault:"0"`
	PoolSize           int    `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConnections int    `env:"REDIS_MIN_IDLE_CONNS" envDefault:"1"`
	MaxIdleConnections int    `env:"REDIS_MAX_IDLE_CONNS" envDefault:"5"`
	KeyPrefix          string `env:"REDIS_KEY_PREFIX" envDefault:"scans"`
	LogCommands        bool   `env:"REDIS_LOG_COMMANDS" envDefault:"false"`
}

type Elastic struct {
	Addresses   []string `env:"ELASTIC_ADDRESSES" envSeparator:","`
	Username    string   `env:"ELASTIC_USERNAME"`
	Password    string   `env:"ELASTIC_PASSWORD" json:"-"`
	Index       string   `env:"ELASTIC_INDEX" envDefault:"scans"`
	MaxRetries  int      `env:"ELASTIC_MAX_RETRIES" envDefault:"3"`
	LogRequests bool     `env:"ELASTIC_LOG_REQUESTS" envDefault:"false"`
}
