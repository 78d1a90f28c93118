package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"selada/internal/amqp"
	"selada/internal/core"
)

// TransactionStore is the persistence the ledger needs.
type TransactionStore interface {
	InsertSale(ctx context.Context, s core.Sale) (core.Sale, error)
	InsertPurchase(ctx context.Context, p core.Purchase) (core.Purchase, error)
	ListSales(ctx context.Context) ([]core.Sale, error)
	ListPurchases(ctx context.Context) ([]core.Purchase, error)
	LoadSnapshot(ctx context.Context) (core.Snapshot, error)
	Reset(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

// EventPublisher announces store changes. A nil publisher disables events.
type EventPublisher interface {
	PublishTransactionEvent(ctx context.Context, event *amqp.TransactionEvent) error
	Close() error
}

// LedgerService records transactions and derives reports from a fresh
// snapshot of the store on every read.
type LedgerService struct {
	store     TransactionStore
	publisher EventPublisher
	now       func() time.Time
}

func NewLedgerService(store TransactionStore, publisher EventPublisher) *LedgerService {
	return &LedgerService{
		store:     store,
		publisher: publisher,
		now:       time.Now,
	}
}

// RecordSale prices kg at the fixed unit price and stores the sale.
func (s *LedgerService) RecordSale(ctx context.Context, date core.Date, kg decimal.Decimal) (core.Sale, error) {
	sale := core.NewSale(date, kg)
	if err := sale.Validate(); err != nil {
		return core.Sale{}, err
	}

	saved, err := s.store.InsertSale(ctx, sale)
	if err != nil {
		return core.Sale{}, fmt.Errorf("record sale: %w", err)
	}

	s.publish(ctx, amqp.NewTransactionEvent(amqp.EventSaleRecorded, saved.ID, saved.Date.String()))
	return saved, nil
}

// RecordPurchase stores a categorized cost.
func (s *LedgerService) RecordPurchase(ctx context.Context, date core.Date, category core.Category, amount decimal.Decimal) (core.Purchase, error) {
	p := core.Purchase{Date: date, Category: category, Amount: amount}
	if err := p.Validate(); err != nil {
		return core.Purchase{}, err
	}

	saved, err := s.store.InsertPurchase(ctx, p)
	if err != nil {
		return core.Purchase{}, fmt.Errorf("record purchase: %w", err)
	}

	s.publish(ctx, amqp.NewTransactionEvent(amqp.EventPurchaseRecorded, saved.ID, saved.Date.String()))
	return saved, nil
}

// Snapshot reads both transaction tables as of a single point in time.
func (s *LedgerService) Snapshot(ctx context.Context) (core.Snapshot, error) {
	snap, err := s.store.LoadSnapshot(ctx)
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("load snapshot: %w", err)
	}
	return snap, nil
}

// Sales lists every recorded sale.
func (s *LedgerService) Sales(ctx context.Context) ([]core.Sale, error) {
	sales, err := s.store.ListSales(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	return sales, nil
}

// Purchases lists every recorded purchase.
func (s *LedgerService) Purchases(ctx context.Context) ([]core.Purchase, error) {
	purchases, err := s.store.ListPurchases(ctx)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	return purchases, nil
}

// Dashboard returns the KPI for month (the current month when empty) and the
// full monthly trend.
func (s *LedgerService) Dashboard(ctx context.Context, month string) (core.Dashboard, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return core.Dashboard{}, err
	}
	if month == "" {
		return snap.Dashboard(s.now()), nil
	}
	return snap.DashboardFor(month), nil
}

func (s *LedgerService) MonthlySummaries(ctx context.Context) ([]core.MonthlySummary, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.MonthlySummaries(), nil
}

func (s *LedgerService) GeneralLedger(ctx context.Context) ([]core.LedgerEntry, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.GeneralLedger(), nil
}

func (s *LedgerService) IncomeStatement(ctx context.Context) (core.IncomeStatement, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return core.IncomeStatement{}, err
	}
	return snap.IncomeStatement(), nil
}

func (s *LedgerService) BalanceSheet(ctx context.Context) (core.BalanceSheet, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return core.BalanceSheet{}, err
	}
	return snap.BalanceSheet(), nil
}

// Reset irreversibly deletes all recorded data.
func (s *LedgerService) Reset(ctx context.Context) error {
	if err := s.store.Reset(ctx); err != nil {
		return fmt.Errorf("reset data: %w", err)
	}
	s.publish(ctx, amqp.NewTransactionEvent(amqp.EventDataReset, 0, ""))
	return nil
}

// Ping checks the store is reachable.
func (s *LedgerService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// publish never fails the caller: the write is already committed.
func (s *LedgerService) publish(ctx context.Context, event *amqp.TransactionEvent) {
	if s.publisher == nil {
		slog.DebugContext(ctx, "Event publisher not configured, skipping event", "type", event.Type)
		return
	}
	if err := s.publisher.PublishTransactionEvent(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			"type", event.Type,
			"id", event.ID,
			"error", err)
	}
}

// Close closes both storage and publisher connections
func (s *LedgerService) Close() error {
	var errs []error

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close ledger service: %v", errs)
	}

	return nil
}
