package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/edukadoshmda-ops/gestaoigreja/internal/amqp"
	"github.com/edukadoshmda-ops/gestaoigreja/internal/cache"
	"github.com/edukadoshmda-ops/gestaoigreja/internal/core"
	"github.com/edukadoshmda-ops/gestaoigreja/internal/ledger"
)

// LedgerService orchestrates ledger writes: persist first, then publish
// the mirror event and invalidate cached reports. A broker outage never
// fails the write; the worker's pending sweep catches up later.
type LedgerService struct {
	transactions ledger.TransactionWriter
	attendance   ledger.AttendanceWriter
	budgets      ledger.BudgetUpserter
	amqpClient   *amqp.Client
	reportCache  *cache.LRUCache[MonthlySeriesResult]
	cachePrefix  string
}

func NewLedgerService(
	transactions ledger.TransactionWriter,
	attendance ledger.AttendanceWriter,
	budgets ledger.BudgetUpserter,
	amqpClient *amqp.Client,
	reportCache *cache.LRUCache[MonthlySeriesResult],
	cachePrefix string,
) *LedgerService {
	return &LedgerService{
		transactions: transactions,
		attendance:   attendance,
		budgets:      budgets,
		amqpClient:   amqpClient,
		reportCache:  reportCache,
		cachePrefix:  cachePrefix,
	}
}

// RecordTransaction saves a transaction and nudges the mirror worker.
func (s *LedgerService) RecordTransaction(ctx context.Context, tx core.Transaction) (int64, error) {
	id, err := s.transactions.AppendTransaction(ctx, tx)
	if err != nil {
		return 0, fmt.Errorf("save transaction: %w", err)
	}

	if s.amqpClient != nil {
		if err := s.amqpClient.PublishTransactionRecorded(ctx, id, 1); err != nil {
			slog.ErrorContext(ctx, "Failed to publish transaction recorded message",
				"id", id, "error", err)
			// The write succeeded; the pending sweep will mirror it.
		}
	}

	s.invalidateReports()
	return id, nil
}

// RecordAttendance saves an attendance report.
func (s *LedgerService) RecordAttendance(ctx context.Context, rep core.AttendanceReport) (int64, error) {
	id, err := s.attendance.AppendAttendanceReport(ctx, rep)
	if err != nil {
		return 0, fmt.Errorf("save attendance report: %w", err)
	}
	s.invalidateReports()
	return id, nil
}

// UpsertBudget writes one target per (category, monthKey), last write
// wins.
func (s *LedgerService) UpsertBudget(ctx context.Context, target core.BudgetTarget) error {
	if err := s.budgets.UpsertBudget(ctx, target); err != nil {
		return fmt.Errorf("upsert budget: %w", err)
	}
	s.invalidateReports()
	return nil
}

func (s *LedgerService) invalidateReports() {
	if s.reportCache != nil && s.cachePrefix != "" {
		s.reportCache.DeletePrefix(s.cachePrefix)
	}
}

// Close releases the AMQP connection.
func (s *LedgerService) Close() error {
	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			return fmt.Errorf("close amqp: %w", err)
		}
	}
	return nil
}
