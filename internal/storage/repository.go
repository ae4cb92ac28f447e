package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/edukadoshmda-ops/gestaoigreja/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository is the ledger store backed by a local SQLite database.
// Dates are stored as "YYYY-MM-DD" text so range scans compare
// lexicographically, the same ordering property the month keys rely on.
type SQLiteRepository struct {
	db *sql.DB
}

const dateLayout = "2006-01-02"

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

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// AppendTransaction implements ledger.TransactionWriter.
func (r *SQLiteRepository) AppendTransaction(ctx context.Context, tx core.Transaction) (int64, error) {
	if err := tx.Validate(); err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (date, kind, category, amount_cents, description)
		 VALUES (?, ?, ?, ?, ?)`,
		tx.Date.Format(dateLayout), string(tx.Kind), tx.Category, tx.Amount.Cents, tx.Description)
	if err != nil {
		return 0, fmt.Errorf("insert transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("transaction id: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"id", id,
		"kind", tx.Kind,
		"category", tx.Category,
		"amount_cents", tx.Amount.Cents)

	return id, nil
}

// ListTransactions implements ledger.TransactionLister. Zero dates leave
// that side of the range unbounded.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, rangeStart, rangeEnd core.Date) ([]core.Transaction, error) {
	query := `SELECT id, date, kind, category, amount_cents, description, created_at
	          FROM transactions WHERE 1=1`
	args := []any{}
	if !rangeStart.IsZero() {
		query += " AND date >= ?"
		args = append(args, rangeStart.Format(dateLayout))
	}
	if !rangeEnd.IsZero() {
		query += " AND date <= ?"
		args = append(args, rangeEnd.Format(dateLayout))
	}
	query += " ORDER BY date, id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	return out, rows.Err()
}

// GetTransaction retrieves a single transaction by ID.
func (r *SQLiteRepository) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, date, kind, category, amount_cents, description, created_at
		 FROM transactions WHERE id = ?`, id)
	tx, err := scanTransaction(row)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction %d: %w", id, err)
	}
	return tx, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		tx        core.Transaction
		date      string
		kind      string
		createdAt time.Time
	)
	if err := row.Scan(&tx.ID, &date, &kind, &tx.Category, &tx.Amount.Cents, &tx.Description, &createdAt); err != nil {
		return core.Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}
	parsed, err := time.Parse(dateLayout, date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse stored date %q: %w", date, err)
	}
	tx.Date = core.NewDate(parsed.Year(), int(parsed.Month()), parsed.Day())
	tx.Kind = core.Kind(kind)
	tx.CreatedAt = createdAt
	return tx, nil
}

// AppendAttendanceReport implements ledger.AttendanceWriter.
func (r *SQLiteRepository) AppendAttendanceReport(ctx context.Context, rep core.AttendanceReport) (int64, error) {
	if err := rep.Validate(); err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO attendance_reports (date, members_present, visitors, adults, youth, children)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rep.Date.Format(dateLayout), rep.MembersPresent, rep.Visitors, rep.Adults, rep.Youth, rep.Children)
	if err != nil {
		return 0, fmt.Errorf("insert attendance report: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("attendance report id: %w", err)
	}
	return id, nil
}

// ListAttendanceReports implements ledger.AttendanceLister.
func (r *SQLiteRepository) ListAttendanceReports(ctx context.Context, rangeStart, rangeEnd core.Date) ([]core.AttendanceReport, error) {
	query := `SELECT id, date, members_present, visitors, adults, youth, children
	          FROM attendance_reports WHERE 1=1`
	args := []any{}
	if !rangeStart.IsZero() {
		query += " AND date >= ?"
		args = append(args, rangeStart.Format(dateLayout))
	}
	if !rangeEnd.IsZero() {
		query += " AND date <= ?"
		args = append(args, rangeEnd.Format(dateLayout))
	}
	query += " ORDER BY date, id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list attendance reports: %w", err)
	}
	defer rows.Close()

	var out []core.AttendanceReport
	for rows.Next() {
		var (
			rep  core.AttendanceReport
			date string
		)
		if err := rows.Scan(&rep.ID, &date, &rep.MembersPresent, &rep.Visitors, &rep.Adults, &rep.Youth, &rep.Children); err != nil {
			return nil, fmt.Errorf("scan attendance report: %w", err)
		}
		parsed, err := time.Parse(dateLayout, date)
		if err != nil {
			return nil, fmt.Errorf("parse stored date %q: %w", date, err)
		}
		rep.Date = core.NewDate(parsed.Year(), int(parsed.Month()), parsed.Day())
		out = append(out, rep)
	}
	return out, rows.Err()
}

// UpsertBudget implements ledger.BudgetUpserter. Last write wins on the
// (category, month_key) pair.
func (r *SQLiteRepository) UpsertBudget(ctx context.Context, target core.BudgetTarget) error {
	if err := target.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO budgets (category, month_key, amount_limit_cents, updated_at)
		 VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (category, month_key)
		 DO UPDATE SET amount_limit_cents = excluded.amount_limit_cents, updated_at = CURRENT_TIMESTAMP`,
		target.Category, target.MonthKey, target.AmountLimit.Cents)
	if err != nil {
		return fmt.Errorf("upsert budget: %w", err)
	}
	return nil
}

// ListBudgetsForMonth implements ledger.BudgetLister.
func (r *SQLiteRepository) ListBudgetsForMonth(ctx context.Context, monthKey string) ([]core.BudgetTarget, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT category, month_key, amount_limit_cents
		 FROM budgets WHERE month_key = ? ORDER BY category`, monthKey)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var out []core.BudgetTarget
	for rows.Next() {
		var b core.BudgetTarget
		if err := rows.Scan(&b.Category, &b.MonthKey, &b.AmountLimit.Cents); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// ListCategories implements ledger.CategoryReader.
func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]string, []string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT name, kind FROM categories ORDER BY kind, id`)
	if err != nil {
		return nil, nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var income, expense []string
	for rows.Next() {
		var name, kind string
		if err := rows.Scan(&name, &kind); err != nil {
			return nil, nil, fmt.Errorf("scan category: %w", err)
		}
		switch kind {
		case "income":
			income = append(income, name)
		case "expense":
			expense = append(expense, name)
		}
	}
	return income, expense, rows.Err()
}

// PendingSyncTransaction is the minimal data the mirror worker needs to
// queue a transaction.
type PendingSyncTransaction struct {
	ID        int64
	CreatedAt time.Time
}

// GetPendingSyncTransactions returns transactions not yet mirrored,
// oldest first. Records flagged with a sync error are excluded until
// cleared.
func (r *SQLiteRepository) GetPendingSyncTransactions(ctx context.Context, limit int) ([]PendingSyncTransaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, created_at FROM transactions
		 WHERE synced = 0 AND sync_error = 0
		 ORDER BY created_at LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("get pending sync transactions: %w", err)
	}
	defer rows.Close()

	var out []PendingSyncTransaction
	for rows.Next() {
		var p PendingSyncTransaction
		if err := rows.Scan(&p.ID, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan pending sync transaction: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// MarkSynced marks a transaction as successfully mirrored.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET synced = 1, sync_error = 0 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark transaction synced: %w", err)
	}
	slog.InfoContext(ctx, "Transaction marked as synced", "id", id)
	return nil
}

// MarkSyncError flags a transaction whose mirror attempt failed.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET sync_error = 1 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark transaction sync error: %w", err)
	}
	slog.WarnContext(ctx, "Transaction marked with sync error", "id", id)
	return nil
}
