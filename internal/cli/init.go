// Package cli provides common CLI initialization utilities shared by
// cmd/networth and cmd/networthctl.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"networth/internal/amqp"
	"networth/internal/config"
	"networth/internal/log"
	"networth/internal/services"
	"networth/internal/storage"
)

// SetupLogger builds the application logger for the given level and sets it
// as the process default. Unknown levels fall back to info.
func SetupLogger(level string, out io.Writer) *log.Logger {
	lvl, err := log.ParseLevel(level)
	logger := log.New(log.Config{
		Level:     lvl,
		Component: log.ComponentApp,
		Output:    out,
	})
	log.SetDefault(logger)
	if err != nil {
		logger.Warn("Unknown log level, using info", "level", level)
	}
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// OpenStore opens the SQLite store at dbPath and brings its schema up to date.
func OpenStore(ctx context.Context, dbPath string) (*storage.SQLiteRepository, error) {
	repo, err := storage.NewSQLiteRepository(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", dbPath, err)
	}
	if err := repo.Initialize(ctx); err != nil {
		_ = repo.Close()
		return nil, fmt.Errorf("initialize store %s: %w", dbPath, err)
	}
	return repo, nil
}

// InitService wires the store and, when AMQP_URL is set, the event publisher.
// A broker that cannot be reached is logged and skipped; line item writes
// never depend on it.
func InitService(ctx context.Context, logger *log.Logger, cfg *config.Config) (*services.NetWorthService, error) {
	repo, err := OpenStore(ctx, cfg.SQLiteDBPath)
	if err != nil {
		return nil, err
	}
	logger.Info("Store ready", "path", cfg.SQLiteDBPath, log.FieldOperation, log.OpStartup)

	var publisher services.Publisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, line item events disabled",
				log.FieldComponent, log.ComponentAMQP,
				log.FieldError, err)
		} else {
			publisher = client
			logger.Info("AMQP publisher connected",
				log.FieldComponent, log.ComponentAMQP,
				"exchange", cfg.AMQPExchange,
				"queue", cfg.AMQPQueue)
		}
	}

	return services.NewNetWorthService(repo, publisher, logger), nil
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}
