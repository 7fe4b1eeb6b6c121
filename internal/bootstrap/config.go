package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/opsdeskhq/opsdesk/config"
)

// InitLogger initializes the structured logger.
func InitLogger() *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)
	return logger
}

// LoadConfig loads the dashboard client configuration from environment
// variables, reading a .env file first when one exists.
func LoadConfig() (config.AppConfig, error) {
	if err := loadDotenv(); err != nil {
		return config.AppConfig{}, err
	}

	var cfg config.AppConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	cfg.Sanitize()
	return cfg, nil
}

// LoadStubConfig loads the stub backend configuration the same way.
func LoadStubConfig() (config.StubConfig, error) {
	if err := loadDotenv(); err != nil {
		return config.StubConfig{}, err
	}

	var cfg config.StubConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse stub config: %w", err)
	}

	cfg.Sanitize()
	return cfg, nil
}

// loadDotenv reads .env when present; a missing file is the normal case
// outside development.
func loadDotenv() error {
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return fmt.Errorf("load .env file: %w", err)
		}
	}
	return nil
}
