package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	"golang.org/x/sync/errgroup"

	"networth/internal/cli"
	"networth/internal/config"
	apphttp "networth/internal/http"
	"networth/internal/log"
)

func main() {
	cli.LoadEnvFile()

	// Bootstrap logger until the configured level is known
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), os.Stdout)
	cfg := cli.LoadAndValidateConfig(logger)

	if err := run(logger, cfg); err != nil {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}

func run(logger *log.Logger, cfg *config.Config) error {
	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	svc, err := cli.InitService(ctx, logger, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.Error("Failed to close line item service", log.FieldError, err)
		}
	}()

	srv := apphttp.NewServer(cfg.Addr(), svc,
		apphttp.WithLogger(logger),
		apphttp.WithCurrency(cfg.Currency))
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting networth server",
			"port", cfg.Port,
			"currency", cfg.Currency,
			"amqp_enabled", cfg.AMQPURL != "",
			log.FieldOperation, log.OpStartup)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received", log.FieldOperation, log.OpShutdown)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
