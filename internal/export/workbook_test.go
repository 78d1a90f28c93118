package export

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"selada/internal/core"
)

func openWorkbook(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func TestWorkbookKeepsSheetOrderAndColumns(t *testing.T) {
	data, err := Workbook(
		Sheet{Name: "Beta", Table: Table{Columns: []string{"b", "a"}, Rows: [][]any{{"x", 1}, {"y", 2.5}}}},
		Sheet{Name: "Alpha", Table: Table{Columns: []string{"only"}}},
	)
	if err != nil {
		t.Fatalf("Workbook: %v", err)
	}

	f := openWorkbook(t, data)
	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != "Beta" || sheets[1] != "Alpha" {
		t.Fatalf("unexpected sheets %v", sheets)
	}

	rows, err := f.GetRows("Beta")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	want := [][]string{{"b", "a"}, {"x", "1"}, {"y", "2.5"}}
	if len(rows) != len(want) {
		t.Fatalf("expected %d rows, got %v", len(want), rows)
	}
	for i := range want {
		if strings.Join(rows[i], "|") != strings.Join(want[i], "|") {
			t.Fatalf("row %d: expected %v, got %v", i, want[i], rows[i])
		}
	}

	rows, _ = f.GetRows("Alpha")
	if len(rows) != 1 || rows[0][0] != "only" {
		t.Fatalf("empty table should still have its header, got %v", rows)
	}
}

func TestWorkbookRejectsBadSheetNames(t *testing.T) {
	tests := []struct {
		name   string
		sheets []Sheet
		want   error
	}{
		{"no sheets", nil, ErrNoSheets},
		{"empty name", []Sheet{{Name: ""}}, ErrSheetName},
		{"too long", []Sheet{{Name: strings.Repeat("x", 32)}}, ErrSheetName},
		{"duplicate", []Sheet{{Name: "Neraca"}, {Name: "neraca"}}, ErrDuplicateSheet},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Workbook(tt.sheets...); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestReportSheets(t *testing.T) {
	snap := core.Snapshot{
		Sales: []core.Sale{core.NewSale(core.NewDate(2024, 1, 1), decimal.NewFromInt(10))},
		Purchases: []core.Purchase{
			{ID: 1, Date: core.NewDate(2024, 1, 2), Category: core.CategoryWater, Amount: decimal.NewFromInt(50000)},
		},
	}

	data, err := Workbook(ReportSheets(snap)...)
	if err != nil {
		t.Fatalf("Workbook: %v", err)
	}
	f := openWorkbook(t, data)

	want := []string{SheetGeneralLedger, SheetIncomeStatement, SheetBalanceSheet, SheetMonthlySummary}
	if got := f.GetSheetList(); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("expected sheets %v, got %v", want, got)
	}

	income, _ := f.GetRows(SheetIncomeStatement)
	if len(income) != 4 || income[1][1] != "320000" || income[2][1] != "50000" || income[3][0] != "Laba Bersih" || income[3][1] != "270000" {
		t.Fatalf("unexpected income statement rows %v", income)
	}

	ledger, _ := f.GetRows(SheetGeneralLedger)
	if len(ledger) != 3 || ledger[1][1] != core.DescriptionSale || ledger[2][2] != "Air" {
		t.Fatalf("unexpected ledger rows %v", ledger)
	}

	balance, _ := f.GetRows(SheetBalanceSheet)
	if len(balance) != 2 || balance[1][0] != "Kas" || balance[1][1] != "270000" || balance[1][3] != "270000" {
		t.Fatalf("unexpected balance rows %v", balance)
	}
}

func TestReportSheetsForEmptySnapshot(t *testing.T) {
	sheets := ReportSheets(core.Snapshot{})
	if len(sheets[0].Table.Rows) != 0 || len(sheets[3].Table.Rows) != 0 {
		t.Fatalf("expected empty ledger and monthly tables")
	}
	if _, err := Workbook(sheets...); err != nil {
		t.Fatalf("empty reports should still export: %v", err)
	}
}
