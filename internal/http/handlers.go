package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/edukadoshmda-ops/gestaoigreja/internal/core"
	"github.com/edukadoshmda-ops/gestaoigreja/internal/export"
	"github.com/edukadoshmda-ops/gestaoigreja/internal/report"
)

const maxBodyBytes = 1 << 20

// handleMonthlyReport returns the per-month financial series with
// running balances for the requested range.
func (s *Server) handleMonthlyReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	from, to, err := parseDateRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date range: use YYYY-MM-DD")
		return
	}
	opening := parseOpeningBalance(r, s.opts.OpeningBalanceCents)

	result, err := s.reports.MonthlySeries(r.Context(), from, to, opening)
	if err != nil {
		slog.ErrorContext(r.Context(), "Monthly report failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to build report")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleMergedReport returns the financial and attendance series joined
// on month key.
func (s *Server) handleMergedReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	from, to, err := parseDateRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date range: use YYYY-MM-DD")
		return
	}
	opening := parseOpeningBalance(r, s.opts.OpeningBalanceCents)

	result, err := s.reports.MergedSeries(r.Context(), from, to, opening)
	if err != nil {
		slog.ErrorContext(r.Context(), "Merged report failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to build report")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleBudgetReport returns budget-versus-actual comparisons for one
// month.
func (s *Server) handleBudgetReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	monthKey := strings.TrimSpace(r.URL.Query().Get("month"))
	if !core.ValidMonthKey(monthKey) {
		writeError(w, http.StatusBadRequest, "invalid month: use YYYY-MM")
		return
	}

	comparisons, err := s.reports.BudgetComparisons(r.Context(), monthKey)
	if err != nil {
		slog.ErrorContext(r.Context(), "Budget report failed", "error", err, "month_key", monthKey)
		writeError(w, http.StatusInternalServerError, "failed to build report")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"monthKey":    monthKey,
		"comparisons": comparisons,
	})
}

// handleExportCSV streams the monthly series as a semicolon-delimited
// file that opens cleanly in pt-BR spreadsheet locales.
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	from, to, err := parseDateRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date range: use YYYY-MM-DD")
		return
	}
	opening := parseOpeningBalance(r, s.opts.OpeningBalanceCents)

	result, err := s.reports.MonthlySeries(r.Context(), from, to, opening)
	if err != nil {
		slog.ErrorContext(r.Context(), "CSV export failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to build export")
		return
	}

	filename := fmt.Sprintf("relatorio-mensal-%s-%s.csv",
		from.Format("2006-01-02"), to.Format("2006-01-02"))
	body := export.Delimited(result.Buckets, export.MonthlyReportColumns())

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, body)
}

// handleExportExcel streams the daily cash book for one month as a styled
// table under the ms-excel MIME type.
func (s *Server) handleExportExcel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	monthKey := strings.TrimSpace(r.URL.Query().Get("month"))
	if !core.ValidMonthKey(monthKey) {
		writeError(w, http.StatusBadRequest, "invalid month: use YYYY-MM")
		return
	}
	opening := parseOpeningBalance(r, s.opts.OpeningBalanceCents)

	txs, _, err := s.reports.MonthTransactions(r.Context(), monthKey)
	if err != nil {
		slog.ErrorContext(r.Context(), "Excel export failed", "error", err, "month_key", monthKey)
		writeError(w, http.StatusInternalServerError, "failed to build export")
		return
	}

	header := export.TableHeader{
		ChurchName: s.opts.ChurchName,
		CNPJ:       s.opts.ChurchCNPJ,
		Title:      "Livro Caixa",
		Period:     core.MonthLabel(monthKey),
	}
	body := export.CashBook(header, txs, opening)

	w.Header().Set("Content-Type", "application/vnd.ms-excel")
	w.Header().Set("Content-Disposition", `attachment; filename="livro-caixa-`+monthKey+`.xls"`)
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, body)
}

// handleTransactions accepts a single raw record or a batch. Batches
// follow skip-and-count: bad rows are dropped and reported, good rows
// are saved. A single bad record is rejected outright.
func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	trimmed := bytes.TrimLeft(body, " \t\r\n")
	batch := len(trimmed) > 0 && trimmed[0] == '['

	var raw []report.RawRecord
	if batch {
		if err := json.Unmarshal(body, &raw); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
	} else {
		var one report.RawRecord
		if err := json.Unmarshal(body, &one); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		raw = []report.RawRecord{one}
	}

	for i := range raw {
		raw[i].Category = sanitizeInput(raw[i].Category)
		raw[i].Description = sanitizeInput(raw[i].Description)
	}

	if !batch {
		tx, err := report.NormalizeOne(raw[0])
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		id, err := s.ledger.AppendTransaction(r.Context(), tx)
		if err != nil {
			slog.ErrorContext(r.Context(), "Transaction append failed", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to save transaction")
			return
		}
		s.audit.LogTransactionRecorded(r.Context(), tx.Description, string(tx.Kind), tx.Category, tx.Amount.Cents)
		writeJSON(w, http.StatusCreated, map[string]any{
			"ids": []int64{id}, "saved": 1, "skippedRecords": 0,
		})
		return
	}

	records, skipped := report.Normalize(raw, slog.Default())
	ids := make([]int64, 0, len(records))
	for _, tx := range records {
		id, err := s.ledger.AppendTransaction(r.Context(), tx)
		if err != nil {
			slog.ErrorContext(r.Context(), "Transaction append failed", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to save transactions")
			return
		}
		ids = append(ids, id)
		s.audit.LogTransactionRecorded(r.Context(), tx.Description, string(tx.Kind), tx.Category, tx.Amount.Cents)
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"ids": ids, "saved": len(ids), "skippedRecords": skipped,
	})
}

type attendanceRequest struct {
	Date           string `json:"date"`
	MembersPresent int    `json:"membersPresent"`
	Visitors       int    `json:"visitors"`
	Adults         int    `json:"adults"`
	Youth          int    `json:"youth"`
	Children       int    `json:"children"`
}

// handleAttendance records one meeting report.
func (s *Server) handleAttendance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}
	var req attendanceRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid date: use YYYY-MM-DD")
		return
	}
	rep := core.AttendanceReport{
		Date:           date,
		MembersPresent: req.MembersPresent,
		Visitors:       req.Visitors,
		Adults:         req.Adults,
		Youth:          req.Youth,
		Children:       req.Children,
	}
	if err := rep.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	id, err := s.ledger.AppendAttendanceReport(r.Context(), rep)
	if err != nil {
		slog.ErrorContext(r.Context(), "Attendance append failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save attendance report")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

type budgetRequest struct {
	Category         string `json:"category"`
	MonthKey         string `json:"monthKey"`
	AmountLimitCents int64  `json:"amountLimitCents"`
}

// handleBudgets upserts one budget target; last write wins.
func (s *Server) handleBudgets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		methodNotAllowed(w, "PUT")
		return
	}
	var req budgetRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	target := core.BudgetTarget{
		Category:    sanitizeInput(req.Category),
		MonthKey:    strings.TrimSpace(req.MonthKey),
		AmountLimit: core.Money{Cents: req.AmountLimitCents},
	}
	if err := target.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := s.ledger.UpsertBudget(r.Context(), target); err != nil {
		slog.ErrorContext(r.Context(), "Budget upsert failed", "error", err,
			"category", target.Category, "month_key", target.MonthKey)
		writeError(w, http.StatusInternalServerError, "failed to save budget")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleCategories lists the income and expense category catalogs.
func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	income, expense, err := s.ledger.ListCategories(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Category list failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list categories")
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{
		"income":  income,
		"expense": expense,
	})
}
