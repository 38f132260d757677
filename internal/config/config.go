package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/dfryer1193/localblog/shared/db/sqlite"
)

// Store backends selectable through GOBLOG_STORE.
const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
	StoreS3       = "s3"
)

// Config is the server configuration, read from the environment.
type Config struct {
	Addr            string        `env:"GOBLOG_ADDR" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"GOBLOG_SHUTDOWN_TIMEOUT" envDefault:"5s"`

	Store     string `env:"GOBLOG_STORE" envDefault:"sqlite"`
	KeyPrefix string `env:"GOBLOG_KEY_PREFIX" envDefault:"goblog:"`
	SQLite    sqlite.SQLiteConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	S3        S3Config

	LogLevel  string `env:"GOBLOG_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"GOBLOG_LOG_FORMAT" envDefault:"console"`

	Markdown       bool          `env:"GOBLOG_MARKDOWN" envDefault:"false"`
	RedirectDelay  time.Duration `env:"GOBLOG_REDIRECT_DELAY" envDefault:"900ms"`
	MaxUploadBytes int64         `env:"GOBLOG_MAX_UPLOAD_BYTES" envDefault:"10485760"`
}

type PostgresConfig struct {
	DSN string `env:"GOBLOG_POSTGRES_DSN"`
}

type RedisConfig struct {
	Addr     string `env:"GOBLOG_REDIS_ADDR" envDefault:"localhost:6379"`
	Password string `env:"GOBLOG_REDIS_PASSWORD"`
	DB       int    `env:"GOBLOG_REDIS_DB" envDefault:"0"`
}

type S3Config struct {
	Bucket string `env:"GOBLOG_S3_BUCKET"`
	Prefix string `env:"GOBLOG_S3_PREFIX" envDefault:"goblog"`
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the selected store has the settings it needs.
func (c Config) Validate() error {
	switch c.Store {
	case StoreMemory, StoreSQLite, StoreRedis:
	case StorePostgres:
		if c.Postgres.DSN == "" {
			return fmt.Errorf("GOBLOG_POSTGRES_DSN is required for the postgres store")
		}
	case StoreS3:
		if c.S3.Bucket == "" {
			return fmt.Errorf("GOBLOG_S3_BUCKET is required for the s3 store")
		}
	default:
		return fmt.Errorf("unknown store %q", c.Store)
	}

	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("GOBLOG_MAX_UPLOAD_BYTES must be positive, got %d", c.MaxUploadBytes)
	}
	if c.RedirectDelay < 0 {
		return fmt.Errorf("GOBLOG_REDIRECT_DELAY must not be negative")
	}
	return nil
}

// Exitf writes a formatted error message to stderr and exits with code 1.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
