package export

import (
	"github.com/shopspring/decimal"

	"selada/internal/core"
)

// Sheet names used in downloads and in the published spreadsheet.
const (
	SheetGeneralLedger   = "Jurnal Umum"
	SheetIncomeStatement = "Laba Rugi"
	SheetBalanceSheet    = "Neraca"
	SheetMonthlySummary  = "Ringkasan Bulanan"
)

func amount(d decimal.Decimal) float64 {
	return d.Round(0).InexactFloat64()
}

// LedgerTable lists ledger entries with debit and credit columns.
func LedgerTable(entries []core.LedgerEntry) Table {
	t := Table{Columns: []string{"Tanggal", "Keterangan", "Kategori", "Debit (Rp)", "Kredit (Rp)"}}
	for _, e := range entries {
		t.Rows = append(t.Rows, []any{
			e.Date.String(),
			e.Description,
			e.Category.Label(),
			amount(e.Debit),
			amount(e.Credit),
		})
	}
	return t
}

func IncomeStatementTable(is core.IncomeStatement) Table {
	return Table{
		Columns: []string{"Kategori", "Total (Rp)"},
		Rows: [][]any{
			{"Pendapatan", amount(is.Revenue)},
			{"Beban", amount(is.Expense)},
			{"Laba Bersih", amount(is.NetProfit)},
		},
	}
}

func BalanceSheetTable(bs core.BalanceSheet) Table {
	return Table{
		Columns: []string{"Aset", "Nilai (Rp)", "Ekuitas", "Nilai Ekuitas (Rp)"},
		Rows: [][]any{
			{"Kas", amount(bs.Cash), "Laba Ditahan", amount(bs.RetainedEarnings)},
		},
	}
}

func MonthlyTable(months []core.MonthlySummary) Table {
	t := Table{Columns: []string{"Bulan", "Pendapatan (Rp)", "Beban (Rp)", "Laba (Rp)"}}
	for _, m := range months {
		t.Rows = append(t.Rows, []any{m.Month, amount(m.Revenue), amount(m.Expense), amount(m.Profit)})
	}
	return t
}

// ReportSheets returns every report derived from snap, in download order.
func ReportSheets(snap core.Snapshot) []Sheet {
	return []Sheet{
		{Name: SheetGeneralLedger, Table: LedgerTable(snap.GeneralLedger())},
		{Name: SheetIncomeStatement, Table: IncomeStatementTable(snap.IncomeStatement())},
		{Name: SheetBalanceSheet, Table: BalanceSheetTable(snap.BalanceSheet())},
		{Name: SheetMonthlySummary, Table: MonthlyTable(snap.MonthlySummaries())},
	}
}
