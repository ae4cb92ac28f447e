package adapters

import (
	"context"

	"github.com/edukadoshmda-ops/gestaoigreja/internal/core"
	"github.com/edukadoshmda-ops/gestaoigreja/internal/services"
	"github.com/edukadoshmda-ops/gestaoigreja/internal/storage"
)

// SQLiteAdapter combines SQLiteRepository and LedgerService behind the
// ledger ports: reads go straight to storage, writes route through the
// service so mirror events and cache invalidation happen in one place.
type SQLiteAdapter struct {
	storage *storage.SQLiteRepository
	service *services.LedgerService
}

func NewSQLiteAdapter(storage *storage.SQLiteRepository, service *services.LedgerService) *SQLiteAdapter {
	return &SQLiteAdapter{
		storage: storage,
		service: service,
	}
}

// AppendTransaction implements ledger.TransactionWriter
func (a *SQLiteAdapter) AppendTransaction(ctx context.Context, tx core.Transaction) (int64, error) {
	return a.service.RecordTransaction(ctx, tx)
}

// ListTransactions implements ledger.TransactionLister
func (a *SQLiteAdapter) ListTransactions(ctx context.Context, rangeStart, rangeEnd core.Date) ([]core.Transaction, error) {
	return a.storage.ListTransactions(ctx, rangeStart, rangeEnd)
}

// AppendAttendanceReport implements ledger.AttendanceWriter
func (a *SQLiteAdapter) AppendAttendanceReport(ctx context.Context, rep core.AttendanceReport) (int64, error) {
	return a.service.RecordAttendance(ctx, rep)
}

// ListAttendanceReports implements ledger.AttendanceLister
func (a *SQLiteAdapter) ListAttendanceReports(ctx context.Context, rangeStart, rangeEnd core.Date) ([]core.AttendanceReport, error) {
	return a.storage.ListAttendanceReports(ctx, rangeStart, rangeEnd)
}

// UpsertBudget implements ledger.BudgetUpserter
func (a *SQLiteAdapter) UpsertBudget(ctx context.Context, target core.BudgetTarget) error {
	return a.service.UpsertBudget(ctx, target)
}

// ListBudgetsForMonth implements ledger.BudgetLister
func (a *SQLiteAdapter) ListBudgetsForMonth(ctx context.Context, monthKey string) ([]core.BudgetTarget, error) {
	return a.storage.ListBudgetsForMonth(ctx, monthKey)
}

// ListCategories implements ledger.CategoryReader
func (a *SQLiteAdapter) ListCategories(ctx context.Context) ([]string, []string, error) {
	return a.storage.ListCategories(ctx)
}
