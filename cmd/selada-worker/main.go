package main

import (
	"context"
	"errors"
	"os"

	"golang.org/x/sync/errgroup"

	"selada/internal/cli"
	"selada/internal/config"
	applog "selada/internal/log"
	ports "selada/internal/sheets"
	gsheet "selada/internal/sheets/google"
	mem "selada/internal/sheets/memory"
	"selada/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), applog.ComponentWorker)
	logger.Info("Starting selada-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	ledger := cli.InitLedger(logger, cfg)

	publisher := initPublisher(logger, cfg)
	reports := worker.NewReportWorker(ledger, publisher)

	// Events are consumed on a connection of their own.
	consumer := cli.InitAMQP(logger, cfg)

	ctx, done := cli.GracefulShutdown(logger, cfg.ShutdownTimeout, func(ctx context.Context) {
		reports.Stop()
		if consumer != nil {
			if err := consumer.Close(); err != nil {
				logger.Error("Failed to close AMQP consumer", "error", err)
			}
		}
		if err := ledger.Close(); err != nil {
			logger.Error("Failed to close ledger", "error", err)
		}
	})

	// Publish once on startup so the spreadsheet reflects the current data.
	if err := reports.Refresh(ctx); err != nil {
		logger.Error("Startup report refresh failed", "error", err)
	}

	if err := reports.Schedule(ctx, cfg.ReportSchedule); err != nil {
		logger.Error("Failed to schedule report refresh", "error", err)
		os.Exit(1)
	}

	var consumers errgroup.Group
	if consumer != nil {
		consumers.Go(func() error {
			return consumer.ConsumeTransactionEvents(ctx, reports.HandleEvent)
		})
	} else {
		logger.Info("AMQP disabled, reports refresh on schedule only", "schedule", cfg.ReportSchedule)
	}

	cli.WaitForShutdown(ctx, done)
	if err := consumers.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Event consumption stopped", "error", err)
	}
	logger.Info("Worker stopped gracefully")
}

func initPublisher(logger *applog.Logger, cfg *config.Config) ports.ReportPublisher {
	if !cfg.SheetsEnabled() {
		logger.Info("Google Sheets disabled, reports are kept in memory only")
		return mem.New()
	}

	ctx := context.Background()
	var (
		client *gsheet.Client
		err    error
	)
	if cfg.GoogleSheetsEndpoint != "" {
		client, err = gsheet.NewWithEndpoint(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleSheetsEndpoint)
	} else {
		client, err = gsheet.New(ctx, gsheet.Options{
			SpreadsheetID:   cfg.GoogleSpreadsheetID,
			CredentialsJSON: cfg.GoogleServiceAccountJSON,
			CredentialsFile: cfg.GoogleServiceAccountFile,
		})
	}
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", "error", err)
		os.Exit(1)
	}
	logger.Info("Google Sheets publisher initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	return client
}
