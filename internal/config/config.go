// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// defaultSecret is the placeholder shipped in example env files. We refuse
// to boot outside local environments while it is still in place.
const defaultSecret = "changethis"

// Config holds all runtime configuration. Values are read once at startup
// and never mutated afterwards.
type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"local"`
	HTTPAddr    string `envconfig:"HTTP_ADDR" default:":8000"`

	SecretKey                string `envconfig:"SECRET_KEY" required:"true"`
	AccessTokenExpireMinutes int    `envconfig:"ACCESS_TOKEN_EXPIRE_MINUTES" default:"11520"`

	PostgresServer   string `envconfig:"POSTGRES_SERVER" required:"true"`
	PostgresPort     int    `envconfig:"POSTGRES_PORT" default:"5432"`
	PostgresUser     string `envconfig:"POSTGRES_USER" required:"true"`
	PostgresPassword string `envconfig:"POSTGRES_PASSWORD" default:""`
	PostgresDB       string `envconfig:"POSTGRES_DB" default:""`

	DBPoolSize    int           `envconfig:"DATABASE_ENGINE_POOL_SIZE" default:"10"`
	DBPoolTimeout time.Duration `envconfig:"DATABASE_ENGINE_POOL_TIMEOUT" default:"30s"`
	DBPoolRecycle time.Duration `envconfig:"DATABASE_ENGINE_POOL_RECYCLE" default:"1h"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, err
	}

	if err := cfg.checkDefaultSecret("SECRET_KEY", cfg.SecretKey); err != nil {
		return nil, err
	}
	if err := cfg.checkDefaultSecret("POSTGRES_PASSWORD", cfg.PostgresPassword); err != nil {
		return nil, err
	}

	return cfg, nil
}

// AccessTokenTTL returns the configured token lifetime.
func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenExpireMinutes) * time.Minute
}

// PostgresDSN builds the pgdriver connection string.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.PostgresUser, c.PostgresPassword, c.PostgresServer, c.PostgresPort, c.PostgresDB)
}

// IsLocal reports whether we run in a local environment.
func (c *Config) IsLocal() bool {
	return c.Environment == "local"
}

func (c *Config) checkDefaultSecret(name, value string) error {
	if value != defaultSecret {
		return nil
	}
	if c.IsLocal() {
		fmt.Printf("WARNING: the value of %s is %q, change it before deploying\n", name, defaultSecret)
		return nil
	}
	return fmt.Errorf("the value of %s is %q, refusing to start in %s", name, defaultSecret, c.Environment)
}
