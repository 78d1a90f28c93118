package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"selada/internal/core"

	_ "modernc.org/sqlite"
)

// Tables cleared by Reset.
var resetTables = []string{"penjualan", "pembelian", "jurnal_umum", "laba_rugi", "neraca"}

type SQLiteRepository struct {
	db   *sql.DB
	path string
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// JournalRow is a row of the jurnal_umum report table.
type JournalRow struct {
	ID          int64
	Date        string
	Description string
	Debit       decimal.NullDecimal
	Credit      decimal.NullDecimal
}

// IncomeStatementRow is a row of the laba_rugi report table.
type IncomeStatementRow struct {
	ID      int64
	Period  string
	Revenue decimal.NullDecimal
	Expense decimal.NullDecimal
	Profit  decimal.NullDecimal
}

// BalanceSheetRow is a row of the neraca report table.
type BalanceSheetRow struct {
	ID          int64
	Period      string
	Assets      decimal.NullDecimal
	Liabilities decimal.NullDecimal
	Equity      decimal.NullDecimal
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, path: dbPath}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks that the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Path returns the database file path.
func (r *SQLiteRepository) Path() string {
	return r.path
}

// InsertSale stores a sale and returns it with its assigned id.
func (r *SQLiteRepository) InsertSale(ctx context.Context, s core.Sale) (core.Sale, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO penjualan (tanggal, kg, total) VALUES (?, ?, ?)`,
		s.Date.String(), s.Kilograms.String(), s.Total.String())
	if err != nil {
		return core.Sale{}, fmt.Errorf("insert sale: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Sale{}, fmt.Errorf("read sale id: %w", err)
	}
	s.ID = id

	slog.InfoContext(ctx, "Sale saved to SQLite",
		"id", s.ID,
		"date", s.Date.String(),
		"kg", s.Kilograms.String(),
		"total", s.Total.String())

	return s, nil
}

// InsertPurchase stores a purchase and returns it with its assigned id.
func (r *SQLiteRepository) InsertPurchase(ctx context.Context, p core.Purchase) (core.Purchase, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO pembelian (tanggal, kategori, jumlah) VALUES (?, ?, ?)`,
		p.Date.String(), string(p.Category), p.Amount.String())
	if err != nil {
		return core.Purchase{}, fmt.Errorf("insert purchase: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Purchase{}, fmt.Errorf("read purchase id: %w", err)
	}
	p.ID = id

	slog.InfoContext(ctx, "Purchase saved to SQLite",
		"id", p.ID,
		"date", p.Date.String(),
		"category", string(p.Category),
		"amount", p.Amount.String())

	return p, nil
}

// ListSales returns every sale ordered by id.
func (r *SQLiteRepository) ListSales(ctx context.Context) ([]core.Sale, error) {
	return listSales(ctx, r.db)
}

// ListPurchases returns every purchase ordered by id.
func (r *SQLiteRepository) ListPurchases(ctx context.Context) ([]core.Purchase, error) {
	return listPurchases(ctx, r.db)
}

// LoadSnapshot reads sales and purchases in one transaction, so both lists
// reflect the same committed state.
func (r *SQLiteRepository) LoadSnapshot(ctx context.Context) (core.Snapshot, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("begin snapshot: %w", err)
	}
	defer tx.Rollback()

	sales, err := listSales(ctx, tx)
	if err != nil {
		return core.Snapshot{}, err
	}
	purchases, err := listPurchases(ctx, tx)
	if err != nil {
		return core.Snapshot{}, err
	}

	if err := tx.Commit(); err != nil {
		return core.Snapshot{}, fmt.Errorf("commit snapshot: %w", err)
	}
	return core.Snapshot{Sales: sales, Purchases: purchases}, nil
}

func listSales(ctx context.Context, q queryer) ([]core.Sale, error) {
	rows, err := q.QueryContext(ctx, `SELECT id, tanggal, kg, total FROM penjualan ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query sales: %w", err)
	}
	defer rows.Close()

	var out []core.Sale
	for rows.Next() {
		var (
			s    core.Sale
			date string
		)
		if err := rows.Scan(&s.ID, &date, &s.Kilograms, &s.Total); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		if s.Date, err = core.ParseDate(date); err != nil {
			return nil, fmt.Errorf("sale %d: %w", s.ID, err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sales: %w", err)
	}
	return out, nil
}

func listPurchases(ctx context.Context, q queryer) ([]core.Purchase, error) {
	rows, err := q.QueryContext(ctx, `SELECT id, tanggal, kategori, jumlah FROM pembelian ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query purchases: %w", err)
	}
	defer rows.Close()

	var out []core.Purchase
	for rows.Next() {
		var (
			p        core.Purchase
			date     string
			category string
		)
		if err := rows.Scan(&p.ID, &date, &category, &p.Amount); err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		if p.Date, err = core.ParseDate(date); err != nil {
			return nil, fmt.Errorf("purchase %d: %w", p.ID, err)
		}
		if p.Category, err = core.ParseCategory(category); err != nil {
			return nil, fmt.Errorf("purchase %d: %w", p.ID, err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate purchases: %w", err)
	}
	return out, nil
}

// ListJournalEntries reads the jurnal_umum table.
func (r *SQLiteRepository) ListJournalEntries(ctx context.Context) ([]JournalRow, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, COALESCE(tanggal, ''), COALESCE(keterangan, ''), debit, kredit FROM jurnal_umum ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query journal: %w", err)
	}
	defer rows.Close()

	var out []JournalRow
	for rows.Next() {
		var j JournalRow
		if err := rows.Scan(&j.ID, &j.Date, &j.Description, &j.Debit, &j.Credit); err != nil {
			return nil, fmt.Errorf("scan journal row: %w", err)
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate journal: %w", err)
	}
	return out, nil
}

// ListIncomeStatements reads the laba_rugi table.
func (r *SQLiteRepository) ListIncomeStatements(ctx context.Context) ([]IncomeStatementRow, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, COALESCE(periode, ''), pendapatan, beban, laba FROM laba_rugi ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query income statements: %w", err)
	}
	defer rows.Close()

	var out []IncomeStatementRow
	for rows.Next() {
		var row IncomeStatementRow
		if err := rows.Scan(&row.ID, &row.Period, &row.Revenue, &row.Expense, &row.Profit); err != nil {
			return nil, fmt.Errorf("scan income statement row: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate income statements: %w", err)
	}
	return out, nil
}

// ListBalanceSheets reads the neraca table.
func (r *SQLiteRepository) ListBalanceSheets(ctx context.Context) ([]BalanceSheetRow, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, COALESCE(periode, ''), aset, kewajiban, ekuitas FROM neraca ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query balance sheets: %w", err)
	}
	defer rows.Close()

	var out []BalanceSheetRow
	for rows.Next() {
		var row BalanceSheetRow
		if err := rows.Scan(&row.ID, &row.Period, &row.Assets, &row.Liabilities, &row.Equity); err != nil {
			return nil, fmt.Errorf("scan balance sheet row: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate balance sheets: %w", err)
	}
	return out, nil
}

// Reset deletes every row of every table in one transaction.
func (r *SQLiteRepository) Reset(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reset: %w", err)
	}
	defer tx.Rollback()

	for _, table := range resetTables {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reset: %w", err)
	}

	slog.WarnContext(ctx, "All transactions deleted", "tables", len(resetTables))
	return nil
}
