// Package cli provides the startup helpers used by cmd/dompet.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"dompet/internal/config"
	applog "dompet/internal/log"
)

// LoadEnvFile loads the .env file for local development.
// A missing file is not an error.
func LoadEnvFile(paths ...string) error {
	if err := godotenv.Load(paths...); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

// LoadAndValidateConfig loads configuration from the environment, applies
// overrides such as command-line flags, and validates the result.
func LoadAndValidateConfig(overrides ...func(*config.Config)) (*config.Config, error) {
	cfg := config.Load()
	for _, o := range overrides {
		o(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SetupLogger opens the configured log file and installs the resulting
// logger as the slog default. The returned closer releases the file.
func SetupLogger(cfg *config.Config) (*applog.Logger, io.Closer, error) {
	level, err := applog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	handler, closer, err := applog.NewFileHandler(cfg.LogFile, level)
	if err != nil {
		return nil, nil, err
	}
	logger := applog.New(applog.Config{Level: level, Component: applog.ComponentApp, Handler: handler})
	applog.SetDefault(logger)
	return logger, closer, nil
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}
