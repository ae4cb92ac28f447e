package report

import (
	"testing"

	"github.com/edukadoshmda-ops/gestaoigreja/internal/core"
)

func tx(date core.Date, kind core.Kind, category string, cents int64) core.Transaction {
	return core.Transaction{Date: date, Kind: kind, Category: category, Amount: core.Money{Cents: cents}}
}

func TestAggregateFinancialEndToEnd(t *testing.T) {
	records := []core.Transaction{
		tx(core.NewDate(2024, 1, 5), core.Inflow, "Dízimos", 10000),
		tx(core.NewDate(2024, 1, 10), core.Outflow, "Energia Elétrica", 4000),
		tx(core.NewDate(2024, 2, 1), core.Inflow, "Ofertas - Culto Geral", 3000),
	}
	buckets := AggregateFinancial(BucketTransactionsByMonth(records), nil)
	buckets = WithRunningBalance(buckets, 0)

	if len(buckets) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(buckets))
	}
	jan, feb := buckets[0], buckets[1]
	if jan.MonthKey != "2024-01" || feb.MonthKey != "2024-02" {
		t.Fatalf("wrong order: %s %s", jan.MonthKey, feb.MonthKey)
	}
	if jan.IncomeCents != 10000 || jan.ExpenseCents != 4000 || jan.TithesCents != 10000 || jan.OfferingsCents != 0 {
		t.Fatalf("jan totals wrong: %+v", jan)
	}
	if jan.BalanceCents != 6000 {
		t.Fatalf("jan balance %d, want 6000", jan.BalanceCents)
	}
	if feb.IncomeCents != 3000 || feb.ExpenseCents != 0 || feb.TithesCents != 0 || feb.OfferingsCents != 3000 {
		t.Fatalf("feb totals wrong: %+v", feb)
	}
	if feb.BalanceCents != 9000 {
		t.Fatalf("feb balance %d, want 9000", feb.BalanceCents)
	}
}

func TestRunningBalanceMatchesNetSum(t *testing.T) {
	records := []core.Transaction{
		tx(core.NewDate(2024, 1, 1), core.Inflow, "Dízimos", 500),
		tx(core.NewDate(2024, 2, 1), core.Outflow, "Água", 120),
		tx(core.NewDate(2024, 3, 1), core.Inflow, "Ofertas - Missões", 990),
		tx(core.NewDate(2024, 3, 15), core.Outflow, "Aluguel", 700),
		tx(core.NewDate(2024, 5, 2), core.Outflow, "Energia Elétrica", 45),
	}
	buckets := WithRunningBalance(AggregateFinancial(BucketTransactionsByMonth(records), nil), 0)
	var net int64
	for _, mb := range buckets {
		net += mb.IncomeCents - mb.ExpenseCents
	}
	final := buckets[len(buckets)-1].BalanceCents
	if net != final {
		t.Fatalf("net sum %d != final balance %d", net, final)
	}
}

func TestRunningBalanceOpening(t *testing.T) {
	buckets := []MonthBucket{{MonthKey: "2024-01", IncomeCents: 100, ExpenseCents: 30}}
	out := WithRunningBalance(buckets, 1000)
	if out[0].BalanceCents != 1070 {
		t.Fatalf("got %d, want 1070", out[0].BalanceCents)
	}
	// input slice untouched
	if buckets[0].BalanceCents != 0 {
		t.Fatalf("input mutated")
	}
}

func TestCategoryPrefixRule(t *testing.T) {
	cases := []struct {
		category string
		want     string
	}{
		{"Dízimos", SubtotalTithes},
		{"Ofertas - Missões", SubtotalOfferings},
		{"Ofertas - Culto Geral", SubtotalOfferings},
		{"Dízimos e Ofertas", SubtotalTithes}, // tithes checked first
		{"ofertas", ""},                       // case-sensitive
		{"Energia Elétrica", ""},
	}
	for _, tc := range cases {
		if got := classify(tc.category, DefaultCategoryRules); got != tc.want {
			t.Fatalf("classify(%q) = %q, want %q", tc.category, got, tc.want)
		}
	}
}

func TestSubtotalsOnlyCountInflows(t *testing.T) {
	records := []core.Transaction{
		tx(core.NewDate(2024, 1, 1), core.Outflow, "Ofertas - Missões", 999),
	}
	buckets := AggregateFinancial(BucketTransactionsByMonth(records), nil)
	if buckets[0].OfferingsCents != 0 {
		t.Fatalf("outflow must not count toward offerings: %+v", buckets[0])
	}
	if buckets[0].ExpenseCents != 999 {
		t.Fatalf("expense %d, want 999", buckets[0].ExpenseCents)
	}
}

func TestAggregateEmptyInput(t *testing.T) {
	if got := AggregateFinancial(map[string][]core.Transaction{}, nil); len(got) != 0 {
		t.Fatalf("expected empty slice, got %d", len(got))
	}
	if got := AggregateAttendance(map[string][]core.AttendanceReport{}); len(got) != 0 {
		t.Fatalf("expected empty slice, got %d", len(got))
	}
}

func TestAggregateAttendance(t *testing.T) {
	reports := []core.AttendanceReport{
		{Date: core.NewDate(2024, 4, 7), MembersPresent: 10, Visitors: 2, Adults: 8, Children: 4},
		{Date: core.NewDate(2024, 4, 14), MembersPresent: 12, Visitors: 1, Youth: 5},
		{Date: core.NewDate(2024, 5, 5), MembersPresent: 9, Visitors: 0},
	}
	out := AggregateAttendance(BucketAttendanceByMonth(reports))
	if len(out) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(out))
	}
	apr := out[0]
	if apr.MonthKey != "2024-04" || apr.MembersPresent != 22 || apr.Visitors != 3 || apr.Total != 25 {
		t.Fatalf("april wrong: %+v", apr)
	}
	if apr.Adults != 8 || apr.Youth != 5 || apr.Children != 4 {
		t.Fatalf("age bands wrong: %+v", apr)
	}
	may := out[1]
	if may.Total != 9 || may.Adults != 0 {
		t.Fatalf("may wrong: %+v", may)
	}
}

func TestActualsByCategory(t *testing.T) {
	records := []core.Transaction{
		tx(core.NewDate(2024, 1, 2), core.Outflow, "Água", 100),
		tx(core.NewDate(2024, 1, 9), core.Outflow, "Água", 250),
		tx(core.NewDate(2024, 1, 9), core.Inflow, "Dízimos", 9999),
	}
	actuals := ActualsByCategory(records)
	if actuals["Água"] != 350 {
		t.Fatalf("got %d, want 350", actuals["Água"])
	}
	if _, ok := actuals["Dízimos"]; ok {
		t.Fatalf("inflows must not appear in actual spend")
	}
}
