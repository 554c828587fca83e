package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Storage backends selectable with STORAGE_BACKEND.
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
	StorageMongo  = "mongo"
)

type Config struct {
	Port     string `env:"PORT,      default=3000"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	API     APIConfig
	Session SessionConfig
	Storage StorageConfig

	Mongo MongoConfig
	Redis RedisConfig
}

type APIConfig struct {
	URL     string        `env:"API_URL,     default=http://localhost:3333"`
	Timeout time.Duration `env:"API_TIMEOUT, default=0s"`
}

type SessionConfig struct {
	Secret       string        `env:"SESSION_SECRET"`
	CookieSecure bool          `env:"COOKIE_SECURE,      default=false"`
	IdleTTL      time.Duration `env:"WORKSPACE_IDLE_TTL, default=30m"`
	SubmitGuard  bool          `env:"SUBMIT_GUARD,       default=false"`
}

type StorageConfig struct {
	Backend string        `env:"STORAGE_BACKEND, default=memory"`
	TTL     time.Duration `env:"STORAGE_TTL,     default=720h"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=bethehero_web"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// IsProduction reports whether ENV is production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// Validate rejects combinations the process cannot start with.
func (c *Config) Validate() error {
	var errs []error
	switch c.Storage.Backend {
	case StorageMemory, StorageRedis, StorageMongo:
	default:
		errs = append(errs, fmt.Errorf("STORAGE_BACKEND %q: must be memory, redis or mongo", c.Storage.Backend))
	}
	if c.API.URL == "" {
		errs = append(errs, errors.New("API_URL is required"))
	}
	if c.API.Timeout < 0 {
		errs = append(errs, errors.New("API_TIMEOUT must not be negative"))
	}
	if c.IsProduction() && c.Session.Secret == "" {
		errs = append(errs, errors.New("SESSION_SECRET is required in production"))
	}
	return errors.Join(errs...)
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadFrom(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadFrom reads and validates configuration from lookuper.
func LoadFrom(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
