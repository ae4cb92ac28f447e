package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/edukadoshmda-ops/gestaoigreja/internal/cache"
	"github.com/edukadoshmda-ops/gestaoigreja/internal/core"
	"github.com/edukadoshmda-ops/gestaoigreja/internal/ledger/memory"
)

func newTestService(t *testing.T) (*ReportService, *memory.Store) {
	t.Helper()
	store := memory.New(nil, nil)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewReportService(store, store, store,
		cache.NewLRUCache[MonthlySeriesResult](16, time.Minute), "tenant-a", logger)
	return svc, store
}

func seedTransactions(t *testing.T, store *memory.Store) {
	t.Helper()
	ctx := context.Background()
	txs := []core.Transaction{
		{Date: core.NewDate(2024, 1, 5), Kind: core.Inflow, Category: "Dízimos", Amount: core.Money{Cents: 10000}},
		{Date: core.NewDate(2024, 1, 10), Kind: core.Outflow, Category: "Energia Elétrica", Amount: core.Money{Cents: 4000}},
		{Date: core.NewDate(2024, 2, 1), Kind: core.Inflow, Category: "Ofertas - Culto Geral", Amount: core.Money{Cents: 3000}},
	}
	for _, tx := range txs {
		if _, err := store.AppendTransaction(ctx, tx); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
}

func TestMonthlySeries(t *testing.T) {
	svc, store := newTestService(t)
	seedTransactions(t, store)

	res, err := svc.MonthlySeries(context.Background(), core.NewDate(2024, 1, 1), core.NewDate(2024, 12, 31), 0)
	if err != nil {
		t.Fatalf("monthly series: %v", err)
	}
	if res.Skipped != 0 {
		t.Fatalf("expected no skips, got %d", res.Skipped)
	}
	if len(res.Buckets) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(res.Buckets))
	}
	if res.Buckets[0].BalanceCents != 6000 || res.Buckets[1].BalanceCents != 9000 {
		t.Fatalf("balances wrong: %d %d", res.Buckets[0].BalanceCents, res.Buckets[1].BalanceCents)
	}
}

func TestMonthlySeriesCached(t *testing.T) {
	svc, store := newTestService(t)
	seedTransactions(t, store)
	ctx := context.Background()
	from, to := core.NewDate(2024, 1, 1), core.NewDate(2024, 12, 31)

	first, err := svc.MonthlySeries(ctx, from, to, 0)
	if err != nil {
		t.Fatalf("monthly series: %v", err)
	}
	// A write that bypasses the service must not show up while cached.
	if _, err := store.AppendTransaction(ctx, core.Transaction{
		Date: core.NewDate(2024, 3, 1), Kind: core.Inflow, Category: "Doações", Amount: core.Money{Cents: 100},
	}); err != nil {
		t.Fatalf("append: %v", err)
	}
	second, err := svc.MonthlySeries(ctx, from, to, 0)
	if err != nil {
		t.Fatalf("monthly series: %v", err)
	}
	if len(second.Buckets) != len(first.Buckets) {
		t.Fatalf("expected cached result, got %d buckets", len(second.Buckets))
	}
}

func TestMonthlySeriesEmptyStore(t *testing.T) {
	svc, _ := newTestService(t)
	res, err := svc.MonthlySeries(context.Background(), core.NewDate(2024, 1, 1), core.NewDate(2024, 12, 31), 0)
	if err != nil {
		t.Fatalf("monthly series: %v", err)
	}
	if len(res.Buckets) != 0 {
		t.Fatalf("empty store must yield empty series")
	}
}

func TestMergedSeries(t *testing.T) {
	svc, store := newTestService(t)
	seedTransactions(t, store)
	ctx := context.Background()
	if _, err := store.AppendAttendanceReport(ctx, core.AttendanceReport{
		Date: core.NewDate(2024, 3, 3), MembersPresent: 20, Visitors: 5,
	}); err != nil {
		t.Fatalf("seed attendance: %v", err)
	}

	res, err := svc.MergedSeries(ctx, core.NewDate(2024, 1, 1), core.NewDate(2024, 12, 31), 0)
	if err != nil {
		t.Fatalf("merged series: %v", err)
	}
	if len(res.Rows) != 3 { // Jan, Feb financial; Mar attendance-only
		t.Fatalf("expected 3 merged rows, got %d", len(res.Rows))
	}
	mar := res.Rows[2]
	if mar.MonthKey != "2024-03" || mar.AttendanceTotal != 25 || mar.IncomeCents != 0 {
		t.Fatalf("march row wrong: %+v", mar)
	}
}

func TestBudgetComparisons(t *testing.T) {
	svc, store := newTestService(t)
	seedTransactions(t, store)
	ctx := context.Background()
	if err := store.UpsertBudget(ctx, core.BudgetTarget{
		Category: "Energia Elétrica", MonthKey: "2024-01", AmountLimit: core.Money{Cents: 3000},
	}); err != nil {
		t.Fatalf("seed budget: %v", err)
	}

	out, err := svc.BudgetComparisons(ctx, "2024-01")
	if err != nil {
		t.Fatalf("budget comparisons: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 comparison, got %d", len(out))
	}
	if out[0].ActualCents != 4000 || !out[0].OverBudget || out[0].UtilizationPct != 100 {
		t.Fatalf("comparison wrong: %+v", out[0])
	}
}

func TestBudgetComparisonsBadMonthKey(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.BudgetComparisons(context.Background(), "2024/01"); err == nil {
		t.Fatalf("expected error for malformed month key")
	}
}

func TestMonthTransactions(t *testing.T) {
	svc, store := newTestService(t)
	seedTransactions(t, store)
	txs, skipped, err := svc.MonthTransactions(context.Background(), "2024-01")
	if err != nil || skipped != 0 {
		t.Fatalf("month transactions: err=%v skipped=%d", err, skipped)
	}
	if len(txs) != 2 {
		t.Fatalf("expected 2 transactions in Jan, got %d", len(txs))
	}
}

func TestDaysInMonth(t *testing.T) {
	cases := []struct {
		year, month, want int
	}{
		{2024, 1, 31},
		{2024, 2, 29}, // leap
		{2023, 2, 28},
		{2100, 2, 28}, // century, not leap
		{2000, 2, 29}, // 400-divisible
		{2024, 4, 30},
	}
	for _, tc := range cases {
		if got := daysInMonth(tc.year, tc.month); got != tc.want {
			t.Fatalf("daysInMonth(%d,%d) = %d, want %d", tc.year, tc.month, got, tc.want)
		}
	}
}
