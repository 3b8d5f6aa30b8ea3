package bootstrap

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/officeplus/faq-api/config"
)

// InitLogger initializes the structured JSON logger at level.
func InitLogger(level slog.Level) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return logger
}

// LoadConfig loads .env and .env.<APP_ENV> when present, then parses the
// environment. Variables already set in the process are never overridden.
func LoadConfig() (config.AppConfig, error) {
	if err := loadDotEnv(".env"); err != nil {
		return config.AppConfig{}, err
	}
	if appEnv := strings.TrimSpace(os.Getenv("APP_ENV")); appEnv != "" {
		if err := loadDotEnv(".env." + strings.ToLower(appEnv)); err != nil {
			return config.AppConfig{}, err
		}
	}

	var cfg config.AppConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	cfg.Sanitize()
	return cfg, nil
}

func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}
