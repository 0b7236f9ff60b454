package config

import (
	"fmt"
	"os"
	"strings"

	"campaign-lab/polystore/internal/constants"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds every setting read from the environment.
type Config struct {
	AppEnv   string `envconfig:"APP_ENV" default:"development"`
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8000"`

	PGHost     string `envconfig:"PG_HOST" default:"localhost"`
	PGPort     string `envconfig:"PG_PORT" default:"5432"`
	PGUser     string `envconfig:"PG_USER" default:"postgres"`
	PGPassword string `envconfig:"PG_PASSWORD"`
	PGDB       string `envconfig:"PG_DB" default:"polystore"`

	SQLitePath string `envconfig:"SQLITE_PATH" default:"polystore.db"`

	BigtableProject         string `envconfig:"BIGTABLE_PROJECT"`
	BigtableInstance        string `envconfig:"BIGTABLE_INSTANCE"`
	BigtableAtomicSequences bool   `envconfig:"BIGTABLE_ATOMIC_SEQUENCES" default:"false"`

	// EnabledBackends lists backend tags to open at boot.
	EnabledBackends []string `envconfig:"ENABLED_BACKENDS" default:"postgres,sqlite,bigtable"`
	AutoMigrate     bool     `envconfig:"AUTO_MIGRATE" default:"true"`

	RateLimitRPS   float64 `envconfig:"RATE_LIMIT_RPS" default:"50"`
	RateLimitBurst int     `envconfig:"RATE_LIMIT_BURST" default:"100"`

	// Redis is optional; when REDIS_HOST is empty the limiter stays in-process.
	RedisHost     string `envconfig:"REDIS_HOST"`
	RedisPort     string `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`

	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if _, err := cfg.Backends(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Backends resolves EnabledBackends to backend kinds, dropping duplicates.
func (c *Config) Backends() ([]constants.BackendKind, error) {
	seen := map[constants.BackendKind]bool{}
	var kinds []constants.BackendKind
	for _, tag := range c.EnabledBackends {
		if strings.TrimSpace(tag) == "" {
			continue
		}
		kind, ok := constants.ParseBackend(tag)
		if !ok {
			return nil, fmt.Errorf("unknown backend %q in ENABLED_BACKENDS", tag)
		}
		if !seen[kind] {
			seen[kind] = true
			kinds = append(kinds, kind)
		}
	}
	return kinds, nil
}

// PostgresDSN builds the lib/pq style connection URL.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.PGUser, c.PGPassword, c.PGHost, c.PGPort, c.PGDB)
}

func (c *Config) RedisAddr() string {
	if c.RedisHost == "" {
		return ""
	}
	return c.RedisHost + ":" + c.RedisPort
}
