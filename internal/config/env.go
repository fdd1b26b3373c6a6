package config

import (
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// LoadEnv loads environment variables from .env.local if APP_ENV is "local".
// Variables already set in the environment win.
func LoadEnv(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = "development"
	}

	if appEnv != "local" {
		logger.Debug("not loading .env.local", zap.String("app_env", appEnv))
		return
	}
	if err := godotenv.Load(".env.local"); err != nil {
		logger.Warn(".env.local not loaded, relying on system environment variables", zap.Error(err))
		return
	}
	logger.Info("loaded .env.local for local development")
}
