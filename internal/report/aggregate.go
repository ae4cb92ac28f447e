package report

import (
	"strings"

	"github.com/edukadoshmda-ops/gestaoigreja/internal/core"
)

// MonthBucket is the aggregated totals for one calendar month. All money
// fields are integer cents. Derived and ephemeral: recomputed from the
// current snapshot on every request, never persisted.
type MonthBucket struct {
	MonthKey       string `json:"monthKey"`
	Label          string `json:"label"`
	IncomeCents    int64  `json:"incomeCents"`
	ExpenseCents   int64  `json:"expenseCents"`
	TithesCents    int64  `json:"tithesCents"`
	OfferingsCents int64  `json:"offeringsCents"`
	BalanceCents   int64  `json:"balanceCents"`
}

// AttendanceBucket is the aggregated attendance for one calendar month.
type AttendanceBucket struct {
	MonthKey       string `json:"monthKey"`
	Label          string `json:"label"`
	MembersPresent int    `json:"membersPresent"`
	Visitors       int    `json:"visitors"`
	Total          int    `json:"total"`
	Adults         int    `json:"adults"`
	Youth          int    `json:"youth"`
	Children       int    `json:"children"`
}

// CategoryRule assigns a transaction's category to a named subtotal by
// case-sensitive substring match. Rules are evaluated in slice order and
// the first match wins, so precedence is explicit in the ordering.
type CategoryRule struct {
	Subtotal string
	Contains string
}

// DefaultCategoryRules is the precedence used by the monthly reports:
// tithes are matched before offerings, so a label carrying both substrings
// counts as tithes.
var DefaultCategoryRules = []CategoryRule{
	{Subtotal: SubtotalTithes, Contains: "Dízimos"},
	{Subtotal: SubtotalOfferings, Contains: "Ofertas"},
}

const (
	SubtotalTithes    = "tithes"
	SubtotalOfferings = "offerings"
)

// classify returns the subtotal name for a category, or "" when no rule
// matches.
func classify(category string, rules []CategoryRule) string {
	for _, rule := range rules {
		if strings.Contains(category, rule.Contains) {
			return rule.Subtotal
		}
	}
	return ""
}

// AggregateFinancial computes per-month income/expense sums and the
// tithes/offerings subtotals, ordered ascending by month key. Subtotals
// only count inflows; an outflow labelled "Ofertas" reduces nothing.
// An empty bucket map yields an empty slice.
func AggregateFinancial(buckets map[string][]core.Transaction, rules []CategoryRule) []MonthBucket {
	if rules == nil {
		rules = DefaultCategoryRules
	}
	out := make([]MonthBucket, 0, len(buckets))
	for _, key := range sortedKeys(buckets) {
		mb := MonthBucket{MonthKey: key, Label: core.MonthLabel(key)}
		for _, tx := range buckets[key] {
			switch tx.Kind {
			case core.Inflow:
				mb.IncomeCents += tx.Amount.Cents
				switch classify(tx.Category, rules) {
				case SubtotalTithes:
					mb.TithesCents += tx.Amount.Cents
				case SubtotalOfferings:
					mb.OfferingsCents += tx.Amount.Cents
				}
			case core.Outflow:
				mb.ExpenseCents += tx.Amount.Cents
			}
		}
		out = append(out, mb)
	}
	return out
}

// AggregateAttendance computes per-month attendance totals. Age bands sum
// whatever the reports carry and stay zero when the source does not break
// attendance down further.
func AggregateAttendance(buckets map[string][]core.AttendanceReport) []AttendanceBucket {
	out := make([]AttendanceBucket, 0, len(buckets))
	for _, key := range sortedKeys(buckets) {
		ab := AttendanceBucket{MonthKey: key, Label: core.MonthLabel(key)}
		for _, rep := range buckets[key] {
			ab.MembersPresent += rep.MembersPresent
			ab.Visitors += rep.Visitors
			ab.Adults += rep.Adults
			ab.Youth += rep.Youth
			ab.Children += rep.Children
		}
		ab.Total = ab.MembersPresent + ab.Visitors
		out = append(out, ab)
	}
	return out
}

// WithRunningBalance fills each bucket's balance as the cumulative
// income minus expense across the ordered series, starting from
// openingCents. Buckets must already be in ascending month order.
func WithRunningBalance(buckets []MonthBucket, openingCents int64) []MonthBucket {
	balance := openingCents
	out := make([]MonthBucket, len(buckets))
	for i, mb := range buckets {
		balance += mb.IncomeCents - mb.ExpenseCents
		mb.BalanceCents = balance
		out[i] = mb
	}
	return out
}

// ActualsByCategory sums outflow spend per category for one month bucket.
// Used by the budget comparator.
func ActualsByCategory(records []core.Transaction) map[string]int64 {
	actuals := make(map[string]int64)
	for _, tx := range records {
		if tx.Kind == core.Outflow {
			actuals[tx.Category] += tx.Amount.Cents
		}
	}
	return actuals
}
