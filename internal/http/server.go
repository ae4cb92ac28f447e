// Package http exposes the reporting engine over a JSON API plus the
// CSV and spreadsheet export endpoints.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/edukadoshmda-ops/gestaoigreja/internal/backend"
	applog "github.com/edukadoshmda-ops/gestaoigreja/internal/log"
	"github.com/edukadoshmda-ops/gestaoigreja/internal/middleware/ratelimit"
	"github.com/edukadoshmda-ops/gestaoigreja/internal/middleware/security"
	"github.com/edukadoshmda-ops/gestaoigreja/internal/middleware/trace"
	"github.com/edukadoshmda-ops/gestaoigreja/internal/services"
)

// Options carries the institutional identity and tuning knobs the
// handlers need beyond the backend itself.
type Options struct {
	ChurchName          string
	ChurchCNPJ          string
	OpeningBalanceCents int64
	RateLimitPerMinute  int
}

type Server struct {
	http.Server

	ledger  backend.Backend
	reports *services.ReportService
	opts    Options

	limiter  *ratelimit.Limiter
	detector *security.Detector
	tracer   *trace.Middleware
	audit    *applog.StructuredLogger

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(addr string, be backend.Backend, reports *services.ReportService, opts Options) *Server {
	mux := http.NewServeMux()

	detector := security.NewDetector()
	s := &Server{
		Server: http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		ledger:   be,
		reports:  reports,
		opts:     opts,
		detector: detector,
		limiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: opts.RateLimitPerMinute,
			CleanupInterval:   5 * time.Minute,
		}),
		tracer: trace.NewMiddleware(detector.ExtractClientIP),
	}

	appLogger := applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentHTTP)
	s.audit = applog.NewStructuredLogger(appLogger)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	ctxLogger := applog.Middleware(appLogger)

	api := func(h http.HandlerFunc) http.Handler {
		return s.tracer.Middleware(ctxLogger(headers.Middleware(s.withGuards(h))))
	}

	mux.Handle("/api/reports/monthly", api(s.handleMonthlyReport))
	mux.Handle("/api/reports/merged", api(s.handleMergedReport))
	mux.Handle("/api/reports/budgets", api(s.handleBudgetReport))
	mux.Handle("/api/reports/export/csv", api(s.handleExportCSV))
	mux.Handle("/api/reports/export/excel", api(s.handleExportExcel))
	mux.Handle("/api/transactions", api(s.handleTransactions))
	mux.Handle("/api/attendance", api(s.handleAttendance))
	mux.Handle("/api/budgets", api(s.handleBudgets))
	mux.Handle("/api/categories", api(s.handleCategories))

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)
	mux.HandleFunc("/metrics", s.handleMetrics)

	return s
}

// withGuards applies suspicious-request detection and rate limiting for
// mutating methods before the handler runs.
func (s *Server) withGuards(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		clientIP := s.detector.ExtractClientIP(r)

		if s.detector.DetectSuspiciousRequest(r) {
			slog.WarnContext(ctx, "Suspicious request detected",
				"client_ip", clientIP, "method", r.Method, "path", r.URL.Path)
		}

		if r.Method != http.MethodGet && !s.limiter.Allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded",
				"client_ip", clientIP, "method", r.Method, "path", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		next(w, r)
	})
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.limiter != nil {
			s.limiter.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// handleMetrics exposes request, rate limit and detection counters.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	traceMetrics := s.tracer.GetMetrics()
	limiterMetrics := s.limiter.GetMetrics()
	detectionMetrics := s.detector.GetMetrics()

	payload := map[string]any{
		"http": map[string]int64{
			"total_requests":         traceMetrics.TotalRequests,
			"avg_response_time_usec": traceMetrics.AverageResponseTime,
		},
		"rate_limit": map[string]int64{
			"tracked_clients": limiterMetrics.ClientCount,
		},
		"security": map[string]int64{
			"suspicious_requests": detectionMetrics.SuspiciousRequests,
		},
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(payload)
}
