package report

import (
	"testing"

	"github.com/edukadoshmda-ops/gestaoigreja/internal/core"
)

func TestCompareBudgets(t *testing.T) {
	targets := []core.BudgetTarget{
		{Category: "Energia Elétrica", MonthKey: "2024-01", AmountLimit: core.Money{Cents: 100000}},
		{Category: "Água", MonthKey: "2024-01", AmountLimit: core.Money{Cents: 0}},
		{Category: "Aluguel", MonthKey: "2024-01", AmountLimit: core.Money{Cents: 200000}},
	}
	actuals := map[string]int64{
		"Energia Elétrica": 150000,
		"Água":             5000,
		"Aluguel":          100000,
		"Sem Orçamento":    999, // no target: must be omitted
	}

	out := CompareBudgets(actuals, targets)
	if len(out) != 3 {
		t.Fatalf("expected 3 comparisons, got %d", len(out))
	}
	// sorted by category: Aluguel, Energia Elétrica, Água (byte order puts Á last)
	byCat := map[string]BudgetComparison{}
	for _, c := range out {
		byCat[c.Category] = c
	}

	energia := byCat["Energia Elétrica"]
	if energia.UtilizationPct != 100 || !energia.OverBudget {
		t.Fatalf("limit=1000 actual=1500 should cap at 100%% over budget: %+v", energia)
	}
	agua := byCat["Água"]
	if agua.UtilizationPct != 0 || !agua.OverBudget {
		t.Fatalf("limit=0 actual=50 should be 0%% and over budget: %+v", agua)
	}
	aluguel := byCat["Aluguel"]
	if aluguel.UtilizationPct != 50 || aluguel.OverBudget {
		t.Fatalf("limit=2000 actual=1000 should be 50%% within budget: %+v", aluguel)
	}
}

func TestCompareBudgetsZeroActual(t *testing.T) {
	targets := []core.BudgetTarget{
		{Category: "Água", MonthKey: "2024-01", AmountLimit: core.Money{Cents: 0}},
	}
	out := CompareBudgets(map[string]int64{}, targets)
	if out[0].OverBudget {
		t.Fatalf("limit=0 actual=0 must not be over budget: %+v", out[0])
	}
}

func TestCompareBudgetsEmpty(t *testing.T) {
	if out := CompareBudgets(nil, nil); len(out) != 0 {
		t.Fatalf("expected empty result, got %d", len(out))
	}
}
