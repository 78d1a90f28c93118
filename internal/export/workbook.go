// Package export renders report tables as xlsx workbooks.
package export

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

// ContentType is the MIME type of an xlsx workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Download file names.
const (
	ReportsFileName         = "laporan_selada_pak_joko.xlsx"
	IncomeStatementFileName = "laporan_laba_rugi.xlsx"
	BalanceSheetFileName    = "neraca.xlsx"
)

// Excel refuses longer sheet names.
const maxSheetNameLength = 31

var (
	ErrNoSheets       = errors.New("workbook needs at least one sheet")
	ErrSheetName      = errors.New("invalid sheet name")
	ErrDuplicateSheet = errors.New("duplicate sheet name")
)

// Table is a header row plus data rows. Cells are written as-is, so numbers
// stay numeric in the spreadsheet.
type Table struct {
	Columns []string
	Rows    [][]any
}

// Sheet is a named table. Workbooks keep sheets in the order given.
type Sheet struct {
	Name  string
	Table Table
}

// Workbook builds an in-memory xlsx file with one sheet per entry.
func Workbook(sheets ...Sheet) ([]byte, error) {
	if len(sheets) == 0 {
		return nil, ErrNoSheets
	}
	if err := validateNames(sheets); err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	for i, sheet := range sheets {
		if i == 0 {
			// Reuse the default sheet so the workbook has no stray "Sheet1".
			if err := f.SetSheetName(f.GetSheetName(0), sheet.Name); err != nil {
				return nil, fmt.Errorf("rename sheet %q: %w", sheet.Name, err)
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return nil, fmt.Errorf("create sheet %q: %w", sheet.Name, err)
		}

		if err := writeTable(f, sheet.Name, sheet.Table, header); err != nil {
			return nil, fmt.Errorf("write sheet %q: %w", sheet.Name, err)
		}
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeTable(f *excelize.File, sheet string, t Table, headerStyle int) error {
	columns := make([]any, len(t.Columns))
	for i, c := range t.Columns {
		columns[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &columns); err != nil {
		return err
	}
	if len(t.Columns) > 0 {
		if err := f.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
			return err
		}
		last, err := excelize.ColumnNumberToName(len(t.Columns))
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, "A", last, 18); err != nil {
			return err
		}
	}

	for i, row := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := row
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func validateNames(sheets []Sheet) error {
	seen := make(map[string]bool, len(sheets))
	for _, s := range sheets {
		if s.Name == "" {
			return fmt.Errorf("%w: empty", ErrSheetName)
		}
		if utf8.RuneCountInString(s.Name) > maxSheetNameLength {
			return fmt.Errorf("%w: %q longer than %d characters", ErrSheetName, s.Name, maxSheetNameLength)
		}
		// Sheet names are case-insensitive in Excel.
		key := strings.ToLower(s.Name)
		if seen[key] {
			return fmt.Errorf("%w: %q", ErrDuplicateSheet, s.Name)
		}
		seen[key] = true
	}
	return nil
}
