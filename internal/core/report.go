package core

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

const (
	LedgerSale     LedgerKind = "sale"
	LedgerPurchase LedgerKind = "purchase"
)

// Ledger descriptions as they appear in the general ledger.
const (
	DescriptionSale     = "Penjualan"
	DescriptionPurchase = "Pembelian"
)

type (
	LedgerKind string

	// Snapshot is the full transaction set that every report is derived from.
	Snapshot struct {
		Sales     []Sale
		Purchases []Purchase
	}

	// MonthlySummary is one calendar month of revenue and expense.
	MonthlySummary struct {
		Month   string // YYYY-MM
		Revenue decimal.Decimal
		Expense decimal.Decimal
		Profit  decimal.Decimal
	}

	// MonthlyKPI is the dashboard figure for a single month.
	MonthlyKPI struct {
		Month      string
		Revenue    decimal.Decimal
		Expense    decimal.Decimal
		Profit     decimal.Decimal
		Profitable bool
	}

	// Dashboard combines the selected month's KPI with the full monthly trend.
	Dashboard struct {
		Current MonthlyKPI
		Trend   []MonthlySummary
	}

	LedgerEntry struct {
		Date        Date
		Kind        LedgerKind
		Reference   int64 // id of the sale or purchase
		Description string
		Category    Category // purchases only
		Debit       decimal.Decimal
		Credit      decimal.Decimal
	}

	IncomeStatement struct {
		Revenue   decimal.Decimal
		Expense   decimal.Decimal
		NetProfit decimal.Decimal
	}

	// BalanceSheet is the single-asset, single-equity simplification:
	// all cash is retained earnings.
	BalanceSheet struct {
		Cash             decimal.Decimal
		RetainedEarnings decimal.Decimal
	}
)

// TotalRevenue sums every sale total.
func (s Snapshot) TotalRevenue() decimal.Decimal {
	total := decimal.Zero
	for _, sale := range s.Sales {
		total = total.Add(sale.Total)
	}
	return total
}

// TotalExpense sums every purchase amount.
func (s Snapshot) TotalExpense() decimal.Decimal {
	total := decimal.Zero
	for _, p := range s.Purchases {
		total = total.Add(p.Amount)
	}
	return total
}

// MonthlySummaries buckets sales and purchases by calendar month, outer-joins the
// two on the month key and fills the missing side with zero. Rows are ordered by month.
func (s Snapshot) MonthlySummaries() []MonthlySummary {
	revenue := map[string]decimal.Decimal{}
	expense := map[string]decimal.Decimal{}
	months := map[string]struct{}{}

	for _, sale := range s.Sales {
		key := sale.Date.MonthKey()
		revenue[key] = revenue[key].Add(sale.Total)
		months[key] = struct{}{}
	}
	for _, p := range s.Purchases {
		key := p.Date.MonthKey()
		expense[key] = expense[key].Add(p.Amount)
		months[key] = struct{}{}
	}

	keys := make([]string, 0, len(months))
	for k := range months {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]MonthlySummary, 0, len(keys))
	for _, k := range keys {
		rev, exp := revenue[k], expense[k]
		out = append(out, MonthlySummary{
			Month:   k,
			Revenue: rev,
			Expense: exp,
			Profit:  rev.Sub(exp),
		})
	}
	return out
}

// KPIForMonth picks month (YYYY-MM) out of summaries. A month without
// transactions yields zero figures.
func KPIForMonth(summaries []MonthlySummary, month string) MonthlyKPI {
	kpi := MonthlyKPI{
		Month:   month,
		Revenue: decimal.Zero,
		Expense: decimal.Zero,
		Profit:  decimal.Zero,
	}
	for _, m := range summaries {
		if m.Month != month {
			continue
		}
		kpi.Revenue = kpi.Revenue.Add(m.Revenue)
		kpi.Expense = kpi.Expense.Add(m.Expense)
	}
	kpi.Profit = kpi.Revenue.Sub(kpi.Expense)
	kpi.Profitable = kpi.Profit.IsPositive()
	return kpi
}

// Dashboard returns the KPI for the month containing now together with the trend.
func (s Snapshot) Dashboard(now time.Time) Dashboard {
	return s.DashboardFor(now.Format(MonthLayout))
}

// DashboardFor returns the KPI for an explicit month key.
func (s Snapshot) DashboardFor(month string) Dashboard {
	trend := s.MonthlySummaries()
	return Dashboard{
		Current: KPIForMonth(trend, month),
		Trend:   trend,
	}
}

// GeneralLedger lists every transaction by date. Sales are credits, purchases
// are debits. Entries on the same date keep sales first, then ascending id.
func (s Snapshot) GeneralLedger() []LedgerEntry {
	entries := make([]LedgerEntry, 0, len(s.Sales)+len(s.Purchases))
	for _, sale := range s.Sales {
		entries = append(entries, LedgerEntry{
			Date:        sale.Date,
			Kind:        LedgerSale,
			Reference:   sale.ID,
			Description: DescriptionSale,
			Debit:       decimal.Zero,
			Credit:      sale.Total,
		})
	}
	for _, p := range s.Purchases {
		entries = append(entries, LedgerEntry{
			Date:        p.Date,
			Kind:        LedgerPurchase,
			Reference:   p.ID,
			Description: DescriptionPurchase,
			Category:    p.Category,
			Debit:       p.Amount,
			Credit:      decimal.Zero,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.Date.Equal(b.Date.Time) {
			return a.Date.Before(b.Date.Time)
		}
		if a.Kind != b.Kind {
			return a.Kind == LedgerSale
		}
		return a.Reference < b.Reference
	})
	return entries
}

// IncomeStatement covers the whole lifetime of the books, not a period.
func (s Snapshot) IncomeStatement() IncomeStatement {
	rev, exp := s.TotalRevenue(), s.TotalExpense()
	return IncomeStatement{
		Revenue:   rev,
		Expense:   exp,
		NetProfit: rev.Sub(exp),
	}
}

func (s Snapshot) BalanceSheet() BalanceSheet {
	cash := s.TotalRevenue().Sub(s.TotalExpense())
	return BalanceSheet{
		Cash:             cash,
		RetainedEarnings: cash,
	}
}

// Balanced reports whether assets equal equity.
func (b BalanceSheet) Balanced() bool {
	return b.Cash.Equal(b.RetainedEarnings)
}
