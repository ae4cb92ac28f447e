package services

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/edukadoshmda-ops/gestaoigreja/internal/cache"
	"github.com/edukadoshmda-ops/gestaoigreja/internal/core"
	"github.com/edukadoshmda-ops/gestaoigreja/internal/ledger"
	"github.com/edukadoshmda-ops/gestaoigreja/internal/report"
)

// ReportService fetches snapshots from the source collaborators and runs
// the aggregation pipeline. The pipeline itself is pure; all I/O and
// caching lives here, so concurrent requests for different tenants or
// ranges never interfere.
type ReportService struct {
	transactions ledger.TransactionLister
	attendance   ledger.AttendanceLister
	budgets      ledger.BudgetLister
	cache        *cache.LRUCache[MonthlySeriesResult]
	tenant       string
	logger       *slog.Logger
}

// MonthlySeriesResult is a monthly financial series plus the count of
// stored records that had to be skipped while building it.
type MonthlySeriesResult struct {
	Buckets []report.MonthBucket `json:"buckets"`
	Skipped int                  `json:"skippedRecords"`
}

// MergedSeriesResult pairs the merged rows with the skip count.
type MergedSeriesResult struct {
	Rows    []report.MergedRow `json:"rows"`
	Skipped int                `json:"skippedRecords"`
}

func NewReportService(
	transactions ledger.TransactionLister,
	attendance ledger.AttendanceLister,
	budgets ledger.BudgetLister,
	resultCache *cache.LRUCache[MonthlySeriesResult],
	tenant string,
	logger *slog.Logger,
) *ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportService{
		transactions: transactions,
		attendance:   attendance,
		budgets:      budgets,
		cache:        resultCache,
		tenant:       tenant,
		logger:       logger,
	}
}

// CacheKeyPrefix is the invalidation prefix for this service's tenant.
func (s *ReportService) CacheKeyPrefix() string {
	return s.tenant + ":"
}

func (s *ReportService) monthlyCacheKey(rangeStart, rangeEnd core.Date, openingCents int64) string {
	return fmt.Sprintf("%s:monthly:%s:%s:%d", s.tenant,
		rangeStart.Format("2006-01-02"), rangeEnd.Format("2006-01-02"), openingCents)
}

// MonthlySeries builds the per-month financial series with running
// balances for the date range. Stored records that no longer validate
// are dropped and counted rather than failing the report.
func (s *ReportService) MonthlySeries(ctx context.Context, rangeStart, rangeEnd core.Date, openingCents int64) (MonthlySeriesResult, error) {
	key := s.monthlyCacheKey(rangeStart, rangeEnd, openingCents)
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			return cached, nil
		}
	}

	txs, err := s.transactions.ListTransactions(ctx, rangeStart, rangeEnd)
	if err != nil {
		return MonthlySeriesResult{}, fmt.Errorf("list transactions: %w", err)
	}
	valid, skipped := s.filterValid(ctx, txs)

	buckets := report.AggregateFinancial(report.BucketTransactionsByMonth(valid), nil)
	buckets = report.WithRunningBalance(buckets, openingCents)

	result := MonthlySeriesResult{Buckets: buckets, Skipped: skipped}
	if s.cache != nil {
		s.cache.Set(key, result)
	}
	return result, nil
}

// MergedSeries fetches financial and attendance snapshots concurrently
// and full-outer-joins them on month key.
func (s *ReportService) MergedSeries(ctx context.Context, rangeStart, rangeEnd core.Date, openingCents int64) (MergedSeriesResult, error) {
	var (
		txs  []core.Transaction
		reps []core.AttendanceReport
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		txs, err = s.transactions.ListTransactions(gctx, rangeStart, rangeEnd)
		if err != nil {
			return fmt.Errorf("list transactions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		reps, err = s.attendance.ListAttendanceReports(gctx, rangeStart, rangeEnd)
		if err != nil {
			return fmt.Errorf("list attendance reports: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return MergedSeriesResult{}, err
	}

	valid, skipped := s.filterValid(ctx, txs)
	financial := report.WithRunningBalance(
		report.AggregateFinancial(report.BucketTransactionsByMonth(valid), nil), openingCents)
	attendance := report.AggregateAttendance(report.BucketAttendanceByMonth(reps))

	return MergedSeriesResult{Rows: report.Merge(financial, attendance), Skipped: skipped}, nil
}

// BudgetComparisons matches the month's actual spend against its
// configured targets. Budgets and transactions are fetched concurrently.
func (s *ReportService) BudgetComparisons(ctx context.Context, monthKey string) ([]report.BudgetComparison, error) {
	year, month, err := core.ParseMonthKey(monthKey)
	if err != nil {
		return nil, err
	}
	monthStart := core.NewDate(year, month, 1)
	monthEnd := core.NewDate(year, month, daysInMonth(year, month))

	var (
		txs     []core.Transaction
		targets []core.BudgetTarget
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		txs, err = s.transactions.ListTransactions(gctx, monthStart, monthEnd)
		if err != nil {
			return fmt.Errorf("list transactions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		targets, err = s.budgets.ListBudgetsForMonth(gctx, monthKey)
		if err != nil {
			return fmt.Errorf("list budgets: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	valid, _ := s.filterValid(ctx, txs)
	return report.CompareBudgets(report.ActualsByCategory(valid), targets), nil
}

// MonthTransactions returns the month's valid transactions in date order,
// for the daily cash book export.
func (s *ReportService) MonthTransactions(ctx context.Context, monthKey string) ([]core.Transaction, int, error) {
	year, month, err := core.ParseMonthKey(monthKey)
	if err != nil {
		return nil, 0, err
	}
	txs, err := s.transactions.ListTransactions(ctx,
		core.NewDate(year, month, 1), core.NewDate(year, month, daysInMonth(year, month)))
	if err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	valid, skipped := s.filterValid(ctx, txs)
	return valid, skipped, nil
}

// filterValid drops stored records that fail validation. Messy data
// degrades to a skip count, never to a failed dashboard.
func (s *ReportService) filterValid(ctx context.Context, txs []core.Transaction) ([]core.Transaction, int) {
	valid := make([]core.Transaction, 0, len(txs))
	skipped := 0
	for _, tx := range txs {
		if err := tx.Validate(); err != nil {
			skipped++
			s.logger.WarnContext(ctx, "Skipping invalid stored transaction",
				"id", tx.ID, "error", err)
			continue
		}
		valid = append(valid, tx)
	}
	return valid, skipped
}

func daysInMonth(year, month int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	default:
		if year%4 == 0 && (year%100 != 0 || year%400 == 0) {
			return 29
		}
		return 28
	}
}
