package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	"selada/internal/cli"
	apphttp "selada/internal/http"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), "selada")

	cfg := cli.LoadAndValidateConfig(logger)
	ledger := cli.InitLedger(logger, cfg)

	srv := apphttp.NewServer(":"+cfg.Port, ledger, logger)
	srv.MaxHeaderBytes = 1 << 16

	ctx, done := cli.GracefulShutdown(logger, cfg.ShutdownTimeout, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		if err := ledger.Close(); err != nil {
			logger.Error("Failed to close ledger", "error", err)
		}
	})

	logger.Info("Starting selada server", "port", cfg.Port, "db", cfg.SQLiteDBPath, "amqp", cfg.AMQPEnabled())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
