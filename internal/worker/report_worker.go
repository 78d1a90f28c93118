package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"selada/internal/amqp"
	"selada/internal/core"
	"selada/internal/export"
	"selada/internal/sheets"
)

const refreshTimeout = 2 * time.Minute

// SnapshotSource provides the current transaction set.
type SnapshotSource interface {
	Snapshot(ctx context.Context) (core.Snapshot, error)
}

// ReportWorker rebuilds every report from the store and publishes the tables.
type ReportWorker struct {
	source    SnapshotSource
	publisher sheets.ReportPublisher

	// Serializes refreshes so an event and a cron run never interleave writes.
	mu   sync.Mutex
	cron *cron.Cron
}

func NewReportWorker(source SnapshotSource, publisher sheets.ReportPublisher) *ReportWorker {
	return &ReportWorker{
		source:    source,
		publisher: publisher,
	}
}

// Refresh publishes the general ledger, income statement, balance sheet and
// monthly summary derived from a fresh snapshot.
func (w *ReportWorker) Refresh(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	start := time.Now()
	snap, err := w.source.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	if err := w.publisher.PublishReports(ctx, export.ReportSheets(snap)); err != nil {
		return fmt.Errorf("publish reports: %w", err)
	}

	slog.InfoContext(ctx, "Reports refreshed",
		"sales", len(snap.Sales),
		"purchases", len(snap.Purchases),
		"duration", time.Since(start))
	return nil
}

// HandleEvent refreshes reports for any store change. Returning an error
// makes the consumer requeue the event.
func (w *ReportWorker) HandleEvent(ctx context.Context, event *amqp.TransactionEvent) error {
	slog.InfoContext(ctx, "Refreshing reports after store change",
		"type", event.Type,
		"id", event.ID,
		"date", event.Date)

	return w.Refresh(ctx)
}

// Schedule starts periodic refreshes on a standard five-field cron spec.
func (w *ReportWorker) Schedule(ctx context.Context, spec string) error {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		runCtx, cancel := context.WithTimeout(ctx, refreshTimeout)
		defer cancel()
		if err := w.Refresh(runCtx); err != nil {
			slog.ErrorContext(runCtx, "Scheduled report refresh failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid report schedule %q: %w", spec, err)
	}

	w.cron = c
	c.Start()
	slog.InfoContext(ctx, "Report schedule started", "spec", spec)
	return nil
}

// Stop halts the schedule and waits for a running refresh to finish.
func (w *ReportWorker) Stop() {
	if w.cron == nil {
		return
	}
	<-w.cron.Stop().Done()
	slog.Info("Report schedule stopped")
}
