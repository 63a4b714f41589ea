// Package config loads runtime configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"cashflow-kos"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	Store struct {
		// Driver selects the backing store: "json", "sqlite", or "memory".
		Driver  string `envconfig:"STORE_DRIVER" default:"json"`
		DataDir string `envconfig:"DATA_DIR" default:"./data"`
		DBPath  string `envconfig:"DB_PATH" default:"./data/kas.db"`
	}

	Auth struct {
		// AdminPassword is the single shared password gating admin
		// mutations. Empty disables the admin surface entirely.
		AdminPassword string        `envconfig:"ADMIN_PASSWORD"`
		JWTSecret     string        `envconfig:"JWT_SECRET"`
		TokenTTL      time.Duration `envconfig:"TOKEN_TTL" default:"12h"`
	}

	Server struct {
		ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
		WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"15s"`
		IdleTimeout     time.Duration `envconfig:"SERVER_IDLE_TIMEOUT" default:"60s"`
		ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
		AllowedOrigins  []string      `envconfig:"CORS_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	}
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if cfg.Auth.AdminPassword != "" && cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required when ADMIN_PASSWORD is set")
	}
	return &cfg, nil
}
