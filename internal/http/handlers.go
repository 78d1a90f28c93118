package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"selada/internal/core"
	"selada/internal/export"
	applog "selada/internal/log"
	"selada/internal/view"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.ledger.Ping(ctx); err != nil {
		applog.FromContext(ctx).WarnContext(ctx, "Readiness check failed", applog.FieldError, err.Error())
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	month := strings.TrimSpace(r.URL.Query().Get("month"))
	if month != "" {
		if _, err := time.Parse(core.MonthLayout, month); err != nil {
			writeError(w, r, http.StatusUnprocessableEntity, fmt.Sprintf("%v: month must be YYYY-MM", core.ErrInvalidDate))
			return
		}
	}

	dash, err := s.ledger.Dashboard(r.Context(), month)
	if err != nil {
		writeServiceError(w, r, applog.OpReport, err)
		return
	}
	writeJSON(w, http.StatusOK, view.NewDashboard(dash))
}

type createSaleRequest struct {
	Date      string     `json:"date"`
	Kilograms flexNumber `json:"kg"`
}

func (s *Server) handleCreateSale(w http.ResponseWriter, r *http.Request) {
	var req createSaleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	date, err := parseDateOrToday(req.Date, s.today())
	if err != nil {
		writeServiceError(w, r, applog.OpCreate, err)
		return
	}
	kg, err := req.Kilograms.kilograms()
	if err != nil {
		writeServiceError(w, r, applog.OpCreate, err)
		return
	}

	sale, err := s.ledger.RecordSale(r.Context(), date, kg)
	if err != nil {
		writeServiceError(w, r, applog.OpCreate, err)
		return
	}

	applog.NewStructuredLogger(applog.FromContext(r.Context())).
		LogSaleRecorded(r.Context(), sale.ID, sale.Date.String(), sale.Kilograms.String(), sale.Total.String())
	writeJSON(w, http.StatusCreated, view.NewSale(sale))
}

func (s *Server) handleListSales(w http.ResponseWriter, r *http.Request) {
	sales, err := s.ledger.Sales(r.Context())
	if err != nil {
		writeServiceError(w, r, applog.OpList, err)
		return
	}
	writeJSON(w, http.StatusOK, view.NewSales(sales))
}

type createPurchaseRequest struct {
	Date     string     `json:"date"`
	Category string     `json:"category"`
	Amount   flexNumber `json:"amount"`
}

func (s *Server) handleCreatePurchase(w http.ResponseWriter, r *http.Request) {
	var req createPurchaseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	date, err := parseDateOrToday(req.Date, s.today())
	if err != nil {
		writeServiceError(w, r, applog.OpCreate, err)
		return
	}
	category, err := core.ParseCategory(req.Category)
	if err != nil {
		writeServiceError(w, r, applog.OpCreate, err)
		return
	}
	amount, err := req.Amount.rupiah()
	if err != nil {
		writeServiceError(w, r, applog.OpCreate, err)
		return
	}

	purchase, err := s.ledger.RecordPurchase(r.Context(), date, category, amount)
	if err != nil {
		writeServiceError(w, r, applog.OpCreate, err)
		return
	}

	applog.NewStructuredLogger(applog.FromContext(r.Context())).
		LogPurchaseRecorded(r.Context(), purchase.ID, purchase.Date.String(), purchase.Category.String(), purchase.Amount.String())
	writeJSON(w, http.StatusCreated, view.NewPurchase(purchase))
}

func (s *Server) handleListPurchases(w http.ResponseWriter, r *http.Request) {
	purchases, err := s.ledger.Purchases(r.Context())
	if err != nil {
		writeServiceError(w, r, applog.OpList, err)
		return
	}
	writeJSON(w, http.StatusOK, view.NewPurchases(purchases))
}

func (s *Server) handleLedger(w http.ResponseWriter, r *http.Request) {
	entries, err := s.ledger.GeneralLedger(r.Context())
	if err != nil {
		writeServiceError(w, r, applog.OpReport, err)
		return
	}
	writeJSON(w, http.StatusOK, view.NewLedger(entries))
}

func (s *Server) handleIncomeStatement(w http.ResponseWriter, r *http.Request) {
	is, err := s.ledger.IncomeStatement(r.Context())
	if err != nil {
		writeServiceError(w, r, applog.OpReport, err)
		return
	}
	writeJSON(w, http.StatusOK, view.NewIncomeStatement(is))
}

func (s *Server) handleBalanceSheet(w http.ResponseWriter, r *http.Request) {
	bs, err := s.ledger.BalanceSheet(r.Context())
	if err != nil {
		writeServiceError(w, r, applog.OpReport, err)
		return
	}
	writeJSON(w, http.StatusOK, view.NewBalanceSheet(bs))
}

func (s *Server) handleMonthly(w http.ResponseWriter, r *http.Request) {
	months, err := s.ledger.MonthlySummaries(r.Context())
	if err != nil {
		writeServiceError(w, r, applog.OpReport, err)
		return
	}
	writeJSON(w, http.StatusOK, view.NewMonthly(months))
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.Reset(r.Context()); err != nil {
		writeServiceError(w, r, applog.OpReset, err)
		return
	}
	applog.FromContext(r.Context()).WithComponent(applog.ComponentLedger).WarnContext(r.Context(), "All data reset",
		applog.FieldOperation, applog.OpReset)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExportReports(w http.ResponseWriter, r *http.Request) {
	s.exportWorkbook(w, r, export.ReportsFileName, export.ReportSheets)
}

func (s *Server) handleExportIncomeStatement(w http.ResponseWriter, r *http.Request) {
	s.exportWorkbook(w, r, export.IncomeStatementFileName, func(snap core.Snapshot) []export.Sheet {
		return []export.Sheet{{Name: export.SheetIncomeStatement, Table: export.IncomeStatementTable(snap.IncomeStatement())}}
	})
}

func (s *Server) handleExportBalanceSheet(w http.ResponseWriter, r *http.Request) {
	s.exportWorkbook(w, r, export.BalanceSheetFileName, func(snap core.Snapshot) []export.Sheet {
		return []export.Sheet{{Name: export.SheetBalanceSheet, Table: export.BalanceSheetTable(snap.BalanceSheet())}}
	})
}

func (s *Server) exportWorkbook(w http.ResponseWriter, r *http.Request, filename string, build func(core.Snapshot) []export.Sheet) {
	snap, err := s.ledger.Snapshot(r.Context())
	if err != nil {
		writeServiceError(w, r, applog.OpExport, err)
		return
	}

	data, err := export.Workbook(build(snap)...)
	if err != nil {
		writeServiceError(w, r, applog.OpExport, err)
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
