package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"

	"selada/internal/core"
	applog "selada/internal/log"
	"selada/internal/middleware/ratelimit"
	"selada/internal/middleware/security"
	"selada/internal/middleware/trace"
)

// Ledger is the bookkeeping surface the HTTP API exposes.
type Ledger interface {
	RecordSale(ctx context.Context, date core.Date, kg decimal.Decimal) (core.Sale, error)
	RecordPurchase(ctx context.Context, date core.Date, category core.Category, amount decimal.Decimal) (core.Purchase, error)
	Sales(ctx context.Context) ([]core.Sale, error)
	Purchases(ctx context.Context) ([]core.Purchase, error)
	Snapshot(ctx context.Context) (core.Snapshot, error)
	Dashboard(ctx context.Context, month string) (core.Dashboard, error)
	MonthlySummaries(ctx context.Context) ([]core.MonthlySummary, error)
	GeneralLedger(ctx context.Context) ([]core.LedgerEntry, error)
	IncomeStatement(ctx context.Context) (core.IncomeStatement, error)
	BalanceSheet(ctx context.Context) (core.BalanceSheet, error)
	Reset(ctx context.Context) error
	Ping(ctx context.Context) error
}

type Server struct {
	http.Server
	ledger   Ledger
	limiter  *ratelimit.Limiter
	tracer   *trace.Middleware
	detector *security.Detector
	now      func() time.Time

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run http.Server.
func NewServer(addr string, ledger Ledger, logger *applog.Logger) *Server {
	detector := security.NewDetector()
	s := &Server{
		ledger:   ledger,
		limiter:  ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		tracer:   trace.NewMiddleware(logger.WithComponent(applog.ComponentHTTP), detector.ClientIP),
		detector: detector,
		now:      time.Now,
	}
	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.tracer.Handler)
	r.Use(security.Headers(security.DefaultHeadersConfig()))
	r.Use(s.detector.Middleware)
	r.Use(s.limiter.Middleware(s.detector.ClientIP, s.rateLimited, http.MethodPost))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Get("/dashboard", s.handleDashboard)
		r.Post("/sales", s.handleCreateSale)
		r.Get("/sales", s.handleListSales)
		r.Post("/purchases", s.handleCreatePurchase)
		r.Get("/purchases", s.handleListPurchases)
		r.Get("/ledger", s.handleLedger)
		r.Get("/income-statement", s.handleIncomeStatement)
		r.Get("/balance-sheet", s.handleBalanceSheet)
		r.Get("/monthly", s.handleMonthly)
		r.Post("/reset", s.handleReset)
	})

	r.Route("/export", func(r chi.Router) {
		r.Get("/reports.xlsx", s.handleExportReports)
		r.Get("/income-statement.xlsx", s.handleExportIncomeStatement)
		r.Get("/balance-sheet.xlsx", s.handleExportBalanceSheet)
	})

	return r
}

func (s *Server) rateLimited(w http.ResponseWriter, r *http.Request) {
	applog.FromContext(r.Context()).WithComponent(applog.ComponentRateLimit).WarnContext(r.Context(), "Rate limit exceeded",
		applog.FieldClientIP, s.detector.ClientIP(r),
		applog.FieldMethod, r.Method,
		applog.FieldPath, r.URL.Path)
	writeError(w, r, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
}

// Shutdown stops the rate limiter and gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) today() core.Date {
	return core.Today(s.now())
}
