// Package cli provides common CLI initialization utilities.
// This package consolidates repeated initialization patterns across
// cmd/registro and cmd/registroctl.
package cli

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"registro/internal/backend"
	"registro/internal/config"
	"registro/internal/log"
)

// SetupLogger initializes structured logging and sets it as the default
// logger. The level comes from LOG_LEVEL, defaulting to info.
func SetupLogger() *slog.Logger {
	logCfg := log.DefaultConfig()
	logCfg.Level = ParseLogLevel(os.Getenv("LOG_LEVEL"))

	appLogger := log.New(logCfg)
	log.SetDefault(appLogger)
	return appLogger.Logger
}

// ParseLogLevel maps a config level string to a slog level. Unknown
// values fall back to info.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *slog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed",
			log.FieldOperation, log.OpValidate,
			log.FieldErrorType, log.ErrorTypeConfiguration,
			log.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// OpenBackend initializes the configured slot backend.
// Returns the backend result or exits the process on failure.
func OpenBackend(ctx context.Context, logger *slog.Logger, cfg *config.Config) *backend.BackendResult {
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration",
			log.FieldErrorType, log.ErrorTypeConfiguration,
			log.FieldError, err)
		os.Exit(1)
	}

	result, err := backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize storage backend",
			log.FieldErrorType, log.ErrorTypeStorage,
			log.FieldBackend, cfg.DataBackend,
			log.FieldError, err)
		os.Exit(1)
	}
	return result
}
