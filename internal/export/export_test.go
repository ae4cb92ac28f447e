package export

import (
	"strings"
	"testing"

	"github.com/edukadoshmda-ops/gestaoigreja/internal/core"
	"github.com/edukadoshmda-ops/gestaoigreja/internal/report"
)

func sampleBuckets() []report.MonthBucket {
	return []report.MonthBucket{
		{MonthKey: "2024-01", Label: "Jan/24", IncomeCents: 10000, ExpenseCents: 4000, TithesCents: 10000, BalanceCents: 6000},
		{MonthKey: "2024-02", Label: "Fev/24", IncomeCents: 3000, OfferingsCents: 3000, BalanceCents: 9000},
	}
}

func TestDelimitedHeaderAndBOM(t *testing.T) {
	out := Delimited(sampleBuckets(), MonthlyReportColumns())
	if !strings.HasPrefix(out, "\uFEFF") {
		t.Fatalf("missing UTF-8 BOM prefix")
	}
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	header := strings.TrimPrefix(lines[0], "\uFEFF")
	if header != "Mês;Dízimos;Ofertas;Total Entradas;Total Saídas;Saldo" {
		t.Fatalf("unexpected header: %q", header)
	}
	if lines[1] != "Jan/24;R$ 100,00;R$ 0,00;R$ 100,00;R$ 40,00;R$ 60,00" {
		t.Fatalf("unexpected row: %q", lines[1])
	}
}

func TestDelimitedEmptyRows(t *testing.T) {
	out := Delimited(nil, MonthlyReportColumns())
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 1 {
		t.Fatalf("empty input must produce header-only output, got %d lines", len(lines))
	}
}

func TestDelimitedEscaping(t *testing.T) {
	type row struct{ v string }
	cols := []Column[row]{{Label: "a;b", Value: func(r row) string { return r.v }}}
	out := Delimited([]row{{v: `x"y`}, {v: "a;b"}, {v: "line\nbreak"}}, cols)
	body := strings.TrimPrefix(out, "\uFEFF")
	want := "\"a;b\"\n\"x\"\"y\"\n\"a;b\"\n\"line\nbreak\"\n"
	if body != want {
		t.Fatalf("escaping wrong:\ngot  %q\nwant %q", body, want)
	}
}

func TestDelimitedIdempotent(t *testing.T) {
	a := Delimited(sampleBuckets(), MonthlyReportColumns())
	b := Delimited(sampleBuckets(), MonthlyReportColumns())
	if a != b {
		t.Fatalf("same snapshot must render byte-identical output")
	}
}

func cashBookTxs() []core.Transaction {
	return []core.Transaction{
		{Date: core.NewDate(2024, 1, 5), Kind: core.Inflow, Category: "Dízimos", Amount: core.Money{Cents: 10000}, Description: "culto"},
		{Date: core.NewDate(2024, 1, 10), Kind: core.Outflow, Category: "Energia Elétrica", Amount: core.Money{Cents: 4000}, Description: "conta de luz"},
	}
}

func TestCashBookRowsRecomputeBalance(t *testing.T) {
	rows := CashBookRows(cashBookTxs(), 0)
	if len(rows) != 3 { // 2 transactions + totals
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0].BalanceCents != 10000 || rows[1].BalanceCents != 6000 {
		t.Fatalf("running balance wrong: %d %d", rows[0].BalanceCents, rows[1].BalanceCents)
	}
	if !rows[2].TotalsRow || rows[2].BalanceCents != 6000 {
		t.Fatalf("totals row wrong: %+v", rows[2])
	}
	if !strings.Contains(rows[2].TotalsLabel, "R$ 100,00") || !strings.Contains(rows[2].TotalsLabel, "R$ 40,00") {
		t.Fatalf("totals label wrong: %q", rows[2].TotalsLabel)
	}
}

func TestCashBookMarkup(t *testing.T) {
	header := TableHeader{
		ChurchName: "Igreja Batista Central",
		CNPJ:       "00.000.000/0001-00",
		Title:      "Livro Caixa",
		Period:     "Jan/24",
	}
	out := CashBook(header, cashBookTxs(), 0)

	for _, want := range []string{
		"Igreja Batista Central",
		"CNPJ: 00.000.000/0001-00",
		`class="entrada saldo-positivo"`,
		`class="saida saldo-positivo"`,
		`class="saldo-positivo total"`,
		"<th>Saldo</th>",
		"R$ 60,00",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("markup missing %q", want)
		}
	}
}

func TestCashBookNegativeBalanceStyle(t *testing.T) {
	txs := []core.Transaction{
		{Date: core.NewDate(2024, 1, 2), Kind: core.Outflow, Category: "Aluguel", Amount: core.Money{Cents: 5000}},
	}
	out := CashBook(TableHeader{Title: "Livro Caixa"}, txs, 0)
	if !strings.Contains(out, "saldo-negativo") {
		t.Fatalf("negative balance must carry saldo-negativo class")
	}
	if !strings.Contains(out, "-R$ 50,00") {
		t.Fatalf("negative balance formatting missing")
	}
}

func TestStyledTableEscapesCells(t *testing.T) {
	txs := []core.Transaction{
		{Date: core.NewDate(2024, 1, 2), Kind: core.Inflow, Category: "Dízimos", Amount: core.Money{Cents: 100}, Description: `<script>alert("x")</script>`},
	}
	out := CashBook(TableHeader{}, txs, 0)
	if strings.Contains(out, "<script>") {
		t.Fatalf("cell content must be escaped")
	}
}
