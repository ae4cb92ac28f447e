package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/edukadoshmda-ops/gestaoigreja/internal/core"
)

// parseDate parses a date string in YYYY-MM-DD format, re-anchored on the
// calendar fields so month bucketing never shifts with a zone.
func parseDate(dateStr string) (core.Date, error) {
	t, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return core.Date{}, err
	}
	return core.NewDate(t.Year(), int(t.Month()), t.Day()), nil
}

// parseDateRange reads from/to query params. Defaults cover the current
// calendar year up to today.
func parseDateRange(r *http.Request) (from, to core.Date, err error) {
	now := time.Now()
	from = core.NewDate(now.Year(), 1, 1)
	to = core.NewDate(now.Year(), int(now.Month()), now.Day())

	if v := strings.TrimSpace(r.URL.Query().Get("from")); v != "" {
		if from, err = parseDate(v); err != nil {
			return core.Date{}, core.Date{}, err
		}
	}
	if v := strings.TrimSpace(r.URL.Query().Get("to")); v != "" {
		if to, err = parseDate(v); err != nil {
			return core.Date{}, core.Date{}, err
		}
	}
	return from, to, nil
}

// parseOpeningBalance reads the optional opening balance override in
// cents, falling back to the configured default.
func parseOpeningBalance(r *http.Request, defaultCents int64) int64 {
	if v := strings.TrimSpace(r.URL.Query().Get("opening")); v != "" {
		if cents, err := strconv.ParseInt(v, 10, 64); err == nil {
			return cents
		}
	}
	return defaultCents
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func methodNotAllowed(w http.ResponseWriter, allowed string) {
	w.Header().Set("Allow", allowed)
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}
