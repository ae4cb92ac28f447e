// Package report implements the reporting aggregation pipeline: raw record
// normalization, calendar-month bucketing, per-month aggregation with
// running balances, outer-join merging of financial and attendance series,
// and budget-versus-actual comparison.
//
// Every stage is a pure function over immutable snapshots. Empty input is
// always valid and produces empty output; nothing in this package panics
// on messy data.
package report

import (
	"log/slog"
	"time"

	"github.com/edukadoshmda-ops/gestaoigreja/internal/core"
)

// RawRecord is the loose shape records arrive in from the external store.
// Amount may be a string ("12,34") or a number; Description is optional.
type RawRecord struct {
	ID          int64       `json:"id"`
	Date        string      `json:"date"`
	Kind        string      `json:"kind"`
	Category    string      `json:"category"`
	Amount      interface{} `json:"amount"`
	Description string      `json:"description,omitempty"`
}

// dateLayouts accepted from the external store, tried in order.
var dateLayouts = []string{"2006-01-02", "2006-01-02T15:04:05Z07:00", "02/01/2006"}

// Normalize coerces raw records into canonical transactions.
//
// Records with an unparsable date or amount, an unknown kind, or an empty
// category are dropped and counted, never fatal: one bad row must not take
// down a whole report. The skipped count is surfaced to the caller so the
// presentation layer can show a best-effort banner.
func Normalize(raw []RawRecord, logger *slog.Logger) (records []core.Transaction, skipped int) {
	if logger == nil {
		logger = slog.Default()
	}
	records = make([]core.Transaction, 0, len(raw))
	for _, r := range raw {
		tx, err := normalizeOne(r)
		if err != nil {
			skipped++
			logger.Warn("Dropped unparsable ledger record",
				"id", r.ID,
				"date", r.Date,
				"kind", r.Kind,
				"error", err)
			continue
		}
		records = append(records, tx)
	}
	return records, skipped
}

// NormalizeOne coerces a single raw record, returning the reason it
// cannot be accepted. Ingestion endpoints use this to reject a bad
// record outright instead of silently skipping it.
func NormalizeOne(r RawRecord) (core.Transaction, error) {
	return normalizeOne(r)
}

func normalizeOne(r RawRecord) (core.Transaction, error) {
	date, err := parseDate(r.Date)
	if err != nil {
		return core.Transaction{}, err
	}
	cents, err := coerceAmount(r.Amount)
	if err != nil {
		return core.Transaction{}, err
	}
	tx := core.Transaction{
		ID:          r.ID,
		Date:        date,
		Kind:        core.Kind(r.Kind),
		Category:    r.Category,
		Amount:      core.Money{Cents: cents},
		Description: r.Description,
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	return tx, nil
}

func parseDate(s string) (core.Date, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			// Re-anchor on the parsed calendar fields so the month key
			// never shifts with the zone the store happened to send.
			return core.NewDate(t.Year(), int(t.Month()), t.Day()), nil
		}
	}
	return core.Date{}, core.ErrInvalidDate
}

// coerceAmount accepts the shapes the store is known to emit: decimal
// strings, JSON numbers (float64 after unmarshal), and native ints.
func coerceAmount(v interface{}) (int64, error) {
	switch a := v.(type) {
	case string:
		return core.ParseDecimalToCents(a)
	case float64:
		if a < 0 {
			return 0, core.ErrInvalidAmount
		}
		return int64(a*100 + 0.5), nil
	case int64:
		if a < 0 {
			return 0, core.ErrInvalidAmount
		}
		return a * 100, nil
	case int:
		if a < 0 {
			return 0, core.ErrInvalidAmount
		}
		return int64(a) * 100, nil
	case nil:
		return 0, core.ErrInvalidAmount
	default:
		return 0, core.ErrInvalidAmount
	}
}
