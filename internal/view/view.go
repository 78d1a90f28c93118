// Package view holds the JSON shapes of records and reports shared by the
// HTTP API and the CLI. Amounts encode as decimal strings and dates as YYYY-MM-DD.
package view

import (
	"fmt"

	"github.com/shopspring/decimal"

	"selada/internal/core"
)

type Sale struct {
	ID        int64           `json:"id"`
	Date      string          `json:"date"`
	Kilograms decimal.Decimal `json:"kg"`
	Total     decimal.Decimal `json:"total"`
}

type Purchase struct {
	ID            int64           `json:"id"`
	Date          string          `json:"date"`
	Category      core.Category   `json:"category"`
	CategoryLabel string          `json:"category_label"`
	Amount        decimal.Decimal `json:"amount"`
}

type LedgerEntry struct {
	Date        string          `json:"date"`
	Kind        core.LedgerKind `json:"kind"`
	Reference   int64           `json:"reference"`
	Description string          `json:"description"`
	Category    core.Category   `json:"category,omitempty"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

type Monthly struct {
	Month   string          `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
	Expense decimal.Decimal `json:"expense"`
	Profit  decimal.Decimal `json:"profit"`
}

// KPI is the dashboard figure for one month, with Rupiah display strings.
type KPI struct {
	Month            string          `json:"month"`
	Revenue          decimal.Decimal `json:"revenue"`
	Expense          decimal.Decimal `json:"expense"`
	Profit           decimal.Decimal `json:"profit"`
	RevenueFormatted string          `json:"revenue_formatted"`
	ExpenseFormatted string          `json:"expense_formatted"`
	ProfitFormatted  string          `json:"profit_formatted"`
	Profitable       bool            `json:"profitable"`
}

type Dashboard struct {
	Current KPI       `json:"current"`
	Trend   []Monthly `json:"trend"`
}

type IncomeStatement struct {
	Revenue   decimal.Decimal `json:"revenue"`
	Expense   decimal.Decimal `json:"expense"`
	NetProfit decimal.Decimal `json:"net_profit"`
}

type BalanceSheet struct {
	Cash             decimal.Decimal `json:"cash"`
	RetainedEarnings decimal.Decimal `json:"retained_earnings"`
	Balanced         bool            `json:"balanced"`
}

func NewSale(s core.Sale) Sale {
	return Sale{ID: s.ID, Date: s.Date.String(), Kilograms: s.Kilograms, Total: s.Total}
}

func NewSales(sales []core.Sale) []Sale {
	out := make([]Sale, 0, len(sales))
	for _, s := range sales {
		out = append(out, NewSale(s))
	}
	return out
}

func NewPurchase(p core.Purchase) Purchase {
	return Purchase{
		ID:            p.ID,
		Date:          p.Date.String(),
		Category:      p.Category,
		CategoryLabel: p.Category.Label(),
		Amount:        p.Amount,
	}
}

func NewPurchases(purchases []core.Purchase) []Purchase {
	out := make([]Purchase, 0, len(purchases))
	for _, p := range purchases {
		out = append(out, NewPurchase(p))
	}
	return out
}

func NewLedger(entries []core.LedgerEntry) []LedgerEntry {
	out := make([]LedgerEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, LedgerEntry{
			Date:        e.Date.String(),
			Kind:        e.Kind,
			Reference:   e.Reference,
			Description: e.Description,
			Category:    e.Category,
			Debit:       e.Debit,
			Credit:      e.Credit,
		})
	}
	return out
}

func NewMonthly(months []core.MonthlySummary) []Monthly {
	out := make([]Monthly, 0, len(months))
	for _, m := range months {
		out = append(out, Monthly{Month: m.Month, Revenue: m.Revenue, Expense: m.Expense, Profit: m.Profit})
	}
	return out
}

func NewDashboard(d core.Dashboard) Dashboard {
	return Dashboard{
		Current: KPI{
			Month:            d.Current.Month,
			Revenue:          d.Current.Revenue,
			Expense:          d.Current.Expense,
			Profit:           d.Current.Profit,
			RevenueFormatted: core.FormatRupiah(d.Current.Revenue),
			ExpenseFormatted: core.FormatRupiah(d.Current.Expense),
			ProfitFormatted:  core.FormatRupiah(d.Current.Profit),
			Profitable:       d.Current.Profitable,
		},
		Trend: NewMonthly(d.Trend),
	}
}

func NewIncomeStatement(is core.IncomeStatement) IncomeStatement {
	return IncomeStatement{Revenue: is.Revenue, Expense: is.Expense, NetProfit: is.NetProfit}
}

func NewBalanceSheet(bs core.BalanceSheet) BalanceSheet {
	return BalanceSheet{Cash: bs.Cash, RetainedEarnings: bs.RetainedEarnings, Balanced: bs.Balanced()}
}

// Of converts a core record list or report to its JSON shape.
func Of(v any) (any, error) {
	switch r := v.(type) {
	case []core.Sale:
		return NewSales(r), nil
	case []core.Purchase:
		return NewPurchases(r), nil
	case []core.LedgerEntry:
		return NewLedger(r), nil
	case []core.MonthlySummary:
		return NewMonthly(r), nil
	case core.Dashboard:
		return NewDashboard(r), nil
	case core.IncomeStatement:
		return NewIncomeStatement(r), nil
	case core.BalanceSheet:
		return NewBalanceSheet(r), nil
	}
	return nil, fmt.Errorf("no JSON view for %T", v)
}
