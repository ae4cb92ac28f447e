package google

import (
	"testing"

	"github.com/edukadoshmda-ops/gestaoigreja/internal/core"
)

func TestYearPrefixedName(t *testing.T) {
	cases := []struct {
		base string
		year int
		want string
	}{
		{"Livro Caixa", 2024, "2024 Livro Caixa"},
		{"2023 Livro Caixa", 2024, "2023 Livro Caixa"},
		{"  Livro Caixa  ", 2024, "2024 Livro Caixa"},
		{"", 2024, ""},
	}
	for _, c := range cases {
		if got := yearPrefixedName(c.base, c.year); got != c.want {
			t.Errorf("yearPrefixedName(%q, %d) = %q, want %q", c.base, c.year, got, c.want)
		}
	}
}

func TestMirrorRow(t *testing.T) {
	tx := core.Transaction{
		ID:          42,
		Date:        core.NewDate(2024, 1, 7),
		Kind:        core.Inflow,
		Category:    "Dízimos",
		Amount:      core.Money{Cents: 12345},
		Description: "Culto domingo",
	}
	row := mirrorRow(tx)
	if len(row) != 6 {
		t.Fatalf("got %d columns, want 6", len(row))
	}
	if row[0] != "2024-01-07" {
		t.Errorf("date = %v", row[0])
	}
	if row[1] != "Entrada" {
		t.Errorf("kind = %v", row[1])
	}
	if row[3] != 123.45 {
		t.Errorf("amount = %v", row[3])
	}
	if row[5] != int64(42) {
		t.Errorf("id = %v", row[5])
	}
}

func TestKindLabel(t *testing.T) {
	if kindLabel(core.Outflow) != "Saída" {
		t.Errorf("outflow label = %q", kindLabel(core.Outflow))
	}
	if kindLabel(core.Inflow) != "Entrada" {
		t.Errorf("inflow label = %q", kindLabel(core.Inflow))
	}
}
