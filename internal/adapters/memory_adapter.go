package adapters

import (
	"context"

	"github.com/edukadoshmda-ops/gestaoigreja/internal/core"
	"github.com/edukadoshmda-ops/gestaoigreja/internal/ledger/memory"
	"github.com/edukadoshmda-ops/gestaoigreja/internal/services"
)

// MemoryAdapter fronts the in-memory store with the same write routing
// as the SQLite adapter, so cache invalidation behaves identically in
// development and production.
type MemoryAdapter struct {
	store   *memory.Store
	service *services.LedgerService
}

func NewMemoryAdapter(store *memory.Store, service *services.LedgerService) *MemoryAdapter {
	return &MemoryAdapter{
		store:   store,
		service: service,
	}
}

// AppendTransaction implements ledger.TransactionWriter
func (a *MemoryAdapter) AppendTransaction(ctx context.Context, tx core.Transaction) (int64, error) {
	return a.service.RecordTransaction(ctx, tx)
}

// ListTransactions implements ledger.TransactionLister
func (a *MemoryAdapter) ListTransactions(ctx context.Context, rangeStart, rangeEnd core.Date) ([]core.Transaction, error) {
	return a.store.ListTransactions(ctx, rangeStart, rangeEnd)
}

// AppendAttendanceReport implements ledger.AttendanceWriter
func (a *MemoryAdapter) AppendAttendanceReport(ctx context.Context, rep core.AttendanceReport) (int64, error) {
	return a.service.RecordAttendance(ctx, rep)
}

// ListAttendanceReports implements ledger.AttendanceLister
func (a *MemoryAdapter) ListAttendanceReports(ctx context.Context, rangeStart, rangeEnd core.Date) ([]core.AttendanceReport, error) {
	return a.store.ListAttendanceReports(ctx, rangeStart, rangeEnd)
}

// UpsertBudget implements ledger.BudgetUpserter
func (a *MemoryAdapter) UpsertBudget(ctx context.Context, target core.BudgetTarget) error {
	return a.service.UpsertBudget(ctx, target)
}

// ListBudgetsForMonth implements ledger.BudgetLister
func (a *MemoryAdapter) ListBudgetsForMonth(ctx context.Context, monthKey string) ([]core.BudgetTarget, error) {
	return a.store.ListBudgetsForMonth(ctx, monthKey)
}

// ListCategories implements ledger.CategoryReader
func (a *MemoryAdapter) ListCategories(ctx context.Context) ([]string, []string, error) {
	return a.store.ListCategories(ctx)
}
