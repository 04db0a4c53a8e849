package main

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	DBDriver    string `mapstructure:"DB_DRIVER"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	OutputDir   string `mapstructure:"OUTPUT_DIR"`
	LogPretty   bool   `mapstructure:"LOG_PRETTY"`
}

func loadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("DB_DRIVER", "sqlite3")
	v.SetDefault("OUTPUT_DIR", "output")
	v.SetDefault("LOG_PRETTY", true)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("DB_DRIVER")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("OUTPUT_DIR")
	v.BindEnv("LOG_PRETTY")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	switch cfg.DBDriver {
	case "pgx", "sqlite3":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q (want pgx or sqlite3)", cfg.DBDriver)
	}

	return cfg, nil
}
