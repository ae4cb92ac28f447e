package report

import (
	"io"
	"log/slog"
	"testing"

	"github.com/edukadoshmda-ops/gestaoigreja/internal/core"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNormalizeCoercesAmountShapes(t *testing.T) {
	raw := []RawRecord{
		{ID: 1, Date: "2024-01-05", Kind: "inflow", Category: "Dízimos", Amount: "100,50"},
		{ID: 2, Date: "2024-01-06", Kind: "outflow", Category: "Água", Amount: 40.0},
		{ID: 3, Date: "2024-01-07", Kind: "inflow", Category: "Ofertas - Culto Geral", Amount: 30},
	}
	records, skipped := Normalize(raw, discardLogger())
	if skipped != 0 {
		t.Fatalf("expected 0 skipped, got %d", skipped)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	wantCents := []int64{10050, 4000, 3000}
	for i, w := range wantCents {
		if records[i].Amount.Cents != w {
			t.Fatalf("record %d: got %d cents, want %d", i, records[i].Amount.Cents, w)
		}
	}
	if records[0].Kind != core.Inflow || records[1].Kind != core.Outflow {
		t.Fatalf("kinds not preserved: %v %v", records[0].Kind, records[1].Kind)
	}
}

func TestNormalizeDropsAndCounts(t *testing.T) {
	raw := []RawRecord{
		{ID: 1, Date: "2024-01-05", Kind: "inflow", Category: "Dízimos", Amount: "100"},
		{ID: 2, Date: "not-a-date", Kind: "inflow", Category: "Dízimos", Amount: "10"},
		{ID: 3, Date: "2024-01-05", Kind: "transfer", Category: "Dízimos", Amount: "10"},
		{ID: 4, Date: "2024-01-05", Kind: "outflow", Category: "", Amount: "10"},
		{ID: 5, Date: "2024-01-05", Kind: "outflow", Category: "Água", Amount: "-3"},
		{ID: 6, Date: "2024-01-05", Kind: "outflow", Category: "Água", Amount: nil},
	}
	records, skipped := Normalize(raw, discardLogger())
	if len(records) != 1 {
		t.Fatalf("expected 1 surviving record, got %d", len(records))
	}
	if skipped != 5 {
		t.Fatalf("expected 5 skipped, got %d", skipped)
	}
}

func TestNormalizeEmptyInput(t *testing.T) {
	records, skipped := Normalize(nil, discardLogger())
	if len(records) != 0 || skipped != 0 {
		t.Fatalf("empty input must yield empty output, got %d records %d skipped", len(records), skipped)
	}
}

func TestNormalizeDateLayouts(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2024-03-09", "2024-03"},
		{"2024-03-09T23:59:00-03:00", "2024-03"}, // calendar fields win, no UTC shift
		{"09/03/2024", "2024-03"},
	}
	for _, tc := range cases {
		records, skipped := Normalize([]RawRecord{
			{Date: tc.in, Kind: "inflow", Category: "Dízimos", Amount: "1"},
		}, discardLogger())
		if skipped != 0 || len(records) != 1 {
			t.Fatalf("%q: unexpected skip", tc.in)
		}
		if got := records[0].Date.MonthKey(); got != tc.want {
			t.Fatalf("%q: month key %q, want %q", tc.in, got, tc.want)
		}
	}
}
