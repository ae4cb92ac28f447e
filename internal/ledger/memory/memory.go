package memory

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/edukadoshmda-ops/gestaoigreja/internal/core"
)

// defaultIncomeCategories and defaultExpenseCategories mirror the catalogs
// the treasury screens offer when no seed files are present.
var (
	defaultIncomeCategories = []string{
		"Dízimos",
		"Ofertas - Culto Geral",
		"Ofertas - Missões",
		"Ofertas - Construção",
		"Doações",
		"Eventos",
	}
	defaultExpenseCategories = []string{
		"Energia Elétrica",
		"Água",
		"Aluguel",
		"Manutenção",
		"Missões",
		"Material de Escritório",
		"Eventos e Conferências",
	}
)

// Store is an in-memory ledger used by tests and local development.
type Store struct {
	mu         sync.Mutex
	nextID     int64
	txs        []core.Transaction
	attendance []core.AttendanceReport
	budgets    map[string]core.BudgetTarget // key: category + "\x00" + monthKey
	income     []string
	expense    []string
}

func New(income, expense []string) *Store {
	if len(income) == 0 {
		income = defaultIncomeCategories
	}
	if len(expense) == 0 {
		expense = defaultExpenseCategories
	}
	return &Store{
		nextID:  1,
		budgets: make(map[string]core.BudgetTarget),
		income:  dedupe(income),
		expense: dedupe(expense),
	}
}

// NewFromFiles seeds the catalogs from optional files under base,
// falling back to the defaults.
func NewFromFiles(base string) *Store {
	income := readLines(filepath.Join(base, "seed_income_categories.txt"))
	expense := readLines(filepath.Join(base, "seed_expense_categories.txt"))
	return New(income, expense)
}

func (s *Store) AppendTransaction(_ context.Context, tx core.Transaction) (int64, error) {
	if err := tx.Validate(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tx.ID = s.nextID
	s.nextID++
	s.txs = append(s.txs, tx)
	return tx.ID, nil
}

func (s *Store) ListTransactions(_ context.Context, rangeStart, rangeEnd core.Date) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, 0, len(s.txs))
	for _, tx := range s.txs {
		if inRange(tx.Date, rangeStart, rangeEnd) {
			out = append(out, tx)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date.Time) })
	return out, nil
}

func (s *Store) AppendAttendanceReport(_ context.Context, rep core.AttendanceReport) (int64, error) {
	if err := rep.Validate(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rep.ID = s.nextID
	s.nextID++
	s.attendance = append(s.attendance, rep)
	return rep.ID, nil
}

func (s *Store) ListAttendanceReports(_ context.Context, rangeStart, rangeEnd core.Date) ([]core.AttendanceReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.AttendanceReport, 0, len(s.attendance))
	for _, rep := range s.attendance {
		if inRange(rep.Date, rangeStart, rangeEnd) {
			out = append(out, rep)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date.Time) })
	return out, nil
}

func (s *Store) UpsertBudget(_ context.Context, target core.BudgetTarget) error {
	if err := target.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.budgets[target.Category+"\x00"+target.MonthKey] = target
	return nil
}

func (s *Store) ListBudgetsForMonth(_ context.Context, monthKey string) ([]core.BudgetTarget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.BudgetTarget, 0)
	for _, b := range s.budgets {
		if b.MonthKey == monthKey {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out, nil
}

func (s *Store) ListCategories(_ context.Context) ([]string, []string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	income := append([]string(nil), s.income...)
	expense := append([]string(nil), s.expense...)
	return income, expense, nil
}

func inRange(d, start, end core.Date) bool {
	if !start.IsZero() && d.Before(start.Time) {
		return false
	}
	if !end.IsZero() && d.After(end.Time) {
		return false
	}
	return true
}

func readLines(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return dedupe(out)
}

func dedupe(in []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	// Preserve input order; catalogs read the way they were seeded.
	return out
}
