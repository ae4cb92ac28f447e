package memory

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/edukadoshmda-ops/gestaoigreja/internal/core"
)

func TestAppendAndListTransactions(t *testing.T) {
	s := New(nil, nil)
	ctx := context.Background()

	id, err := s.AppendTransaction(ctx, core.Transaction{
		Date:     core.NewDate(2024, 1, 5),
		Kind:     core.Inflow,
		Category: "Dízimos",
		Amount:   core.Money{Cents: 10000},
	})
	if err != nil || id != 1 {
		t.Fatalf("unexpected append: id=%d err=%v", id, err)
	}
	if _, err := s.AppendTransaction(ctx, core.Transaction{
		Date:     core.NewDate(2024, 3, 1),
		Kind:     core.Outflow,
		Category: "Água",
		Amount:   core.Money{Cents: 500},
	}); err != nil {
		t.Fatalf("append: %v", err)
	}

	// Range filter excludes March
	txs, err := s.ListTransactions(ctx, core.NewDate(2024, 1, 1), core.NewDate(2024, 1, 31))
	if err != nil || len(txs) != 1 {
		t.Fatalf("unexpected list: %d err=%v", len(txs), err)
	}
	// Zero dates mean unbounded
	txs, _ = s.ListTransactions(ctx, core.Date{}, core.Date{})
	if len(txs) != 2 {
		t.Fatalf("expected 2 unbounded, got %d", len(txs))
	}
}

func TestAppendRejectsInvalid(t *testing.T) {
	s := New(nil, nil)
	_, err := s.AppendTransaction(context.Background(), core.Transaction{
		Date:     core.NewDate(2024, 1, 5),
		Kind:     core.Kind("transfer"),
		Category: "x",
		Amount:   core.Money{Cents: 1},
	})
	if err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestBudgetUpsertLastWriteWins(t *testing.T) {
	s := New(nil, nil)
	ctx := context.Background()
	first := core.BudgetTarget{Category: "Água", MonthKey: "2024-01", AmountLimit: core.Money{Cents: 100}}
	second := core.BudgetTarget{Category: "Água", MonthKey: "2024-01", AmountLimit: core.Money{Cents: 999}}
	if err := s.UpsertBudget(ctx, first); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := s.UpsertBudget(ctx, second); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	got, err := s.ListBudgetsForMonth(ctx, "2024-01")
	if err != nil || len(got) != 1 {
		t.Fatalf("unexpected budgets: %v err=%v", got, err)
	}
	if got[0].AmountLimit.Cents != 999 {
		t.Fatalf("last write must win, got %d", got[0].AmountLimit.Cents)
	}
	if other, _ := s.ListBudgetsForMonth(ctx, "2024-02"); len(other) != 0 {
		t.Fatalf("month scoping broken")
	}
}

func TestAttendanceRoundTrip(t *testing.T) {
	s := New(nil, nil)
	ctx := context.Background()
	if _, err := s.AppendAttendanceReport(ctx, core.AttendanceReport{
		Date: core.NewDate(2024, 4, 7), MembersPresent: 12, Visitors: 3,
	}); err != nil {
		t.Fatalf("append: %v", err)
	}
	reps, err := s.ListAttendanceReports(ctx, core.NewDate(2024, 4, 1), core.NewDate(2024, 4, 30))
	if err != nil || len(reps) != 1 || reps[0].MembersPresent != 12 {
		t.Fatalf("unexpected reports: %v err=%v", reps, err)
	}
}

func TestNewFromFilesSeedsAndDedupe(t *testing.T) {
	dir := t.TempDir()
	// No files -> defaults
	s := NewFromFiles(dir)
	income, expense, _ := s.ListCategories(context.Background())
	if len(income) == 0 || len(expense) == 0 {
		t.Fatalf("expected default catalogs when files missing")
	}

	mustWrite := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	mustWrite("seed_income_categories.txt", "# header\nDízimos\nOfertas\nDízimos\n\n")
	mustWrite("seed_expense_categories.txt", "# header\nÁgua\nÁgua\nAluguel\n\n")

	s = NewFromFiles(dir)
	income, expense, _ = s.ListCategories(context.Background())
	if len(income) != 2 || income[0] != "Dízimos" || income[1] != "Ofertas" {
		t.Fatalf("unexpected income catalog: %v", income)
	}
	if len(expense) != 2 || expense[0] != "Água" || expense[1] != "Aluguel" {
		t.Fatalf("unexpected expense catalog: %v", expense)
	}
}
