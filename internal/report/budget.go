package report

import (
	"sort"

	"github.com/edukadoshmda-ops/gestaoigreja/internal/core"
)

// BudgetComparison is one category's actual spend against its configured
// limit for a month.
type BudgetComparison struct {
	Category       string  `json:"category"`
	MonthKey       string  `json:"monthKey"`
	LimitCents     int64   `json:"limitCents"`
	ActualCents    int64   `json:"actualCents"`
	UtilizationPct float64 `json:"utilizationPct"`
	OverBudget     bool    `json:"overBudget"`
}

// CompareBudgets matches actual spend per category against the targets
// configured for the same month. A target applies only to its exact
// (category, monthKey) pair; categories without a target for the month are
// omitted, not treated as zero-limit. Utilization is capped at 100; a zero
// limit yields 0 utilization and overBudget whenever anything was spent.
// Output is sorted by category for deterministic rendering.
func CompareBudgets(actualByCategory map[string]int64, targets []core.BudgetTarget) []BudgetComparison {
	out := make([]BudgetComparison, 0, len(targets))
	for _, tgt := range targets {
		actual := actualByCategory[tgt.Category]
		cmp := BudgetComparison{
			Category:    tgt.Category,
			MonthKey:    tgt.MonthKey,
			LimitCents:  tgt.AmountLimit.Cents,
			ActualCents: actual,
		}
		if tgt.AmountLimit.Cents > 0 {
			pct := float64(actual) / float64(tgt.AmountLimit.Cents) * 100
			if pct > 100 {
				pct = 100
			}
			cmp.UtilizationPct = pct
			cmp.OverBudget = actual > tgt.AmountLimit.Cents
		} else {
			cmp.UtilizationPct = 0
			cmp.OverBudget = actual > 0
		}
		out = append(out, cmp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}
