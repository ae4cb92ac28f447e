package services

import (
	"context"
	"testing"
	"time"

	"github.com/edukadoshmda-ops/gestaoigreja/internal/cache"
	"github.com/edukadoshmda-ops/gestaoigreja/internal/core"
	"github.com/edukadoshmda-ops/gestaoigreja/internal/ledger/memory"
)

func TestRecordTransactionInvalidatesCache(t *testing.T) {
	store := memory.New(nil, nil)
	reportCache := cache.NewLRUCache[MonthlySeriesResult](16, time.Minute)
	reportCache.Set("tenant-a:monthly:x", MonthlySeriesResult{})
	reportCache.Set("tenant-b:monthly:x", MonthlySeriesResult{})

	svc := NewLedgerService(store, store, store, nil, reportCache, "tenant-a:")
	id, err := svc.RecordTransaction(context.Background(), core.Transaction{
		Date: core.NewDate(2024, 1, 5), Kind: core.Inflow, Category: "Dízimos", Amount: core.Money{Cents: 100},
	})
	if err != nil || id == 0 {
		t.Fatalf("record: id=%d err=%v", id, err)
	}
	if _, ok := reportCache.Get("tenant-a:monthly:x"); ok {
		t.Fatalf("tenant cache must be invalidated on write")
	}
	if _, ok := reportCache.Get("tenant-b:monthly:x"); !ok {
		t.Fatalf("other tenants' caches must survive")
	}
}

func TestRecordTransactionRejectsInvalid(t *testing.T) {
	store := memory.New(nil, nil)
	svc := NewLedgerService(store, store, store, nil, nil, "")
	_, err := svc.RecordTransaction(context.Background(), core.Transaction{
		Date: core.NewDate(2024, 1, 5), Kind: core.Kind("transfer"), Category: "x", Amount: core.Money{Cents: 1},
	})
	if err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestUpsertBudgetThroughService(t *testing.T) {
	store := memory.New(nil, nil)
	svc := NewLedgerService(store, store, store, nil, nil, "")
	ctx := context.Background()
	if err := svc.UpsertBudget(ctx, core.BudgetTarget{
		Category: "Água", MonthKey: "2024-01", AmountLimit: core.Money{Cents: 500},
	}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	got, err := store.ListBudgetsForMonth(ctx, "2024-01")
	if err != nil || len(got) != 1 {
		t.Fatalf("budget not persisted: %v err=%v", got, err)
	}
}
