// Package http exposes the dashboard over a JSON API: monthly reports,
// the month rollover, expense filtering and the entity CRUD surface.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	applog "caixa/internal/log"
	"caixa/internal/services"
	"caixa/internal/store"
)

// ExportPublisher queues a summary export request for a month. A nil
// publisher disables exports without disabling the API.
type ExportPublisher interface {
	PublishSummaryExport(ctx context.Context, month, reason string) error
}

type Server struct {
	http.Server

	store     store.EntityStore
	reports   *services.ReportService
	rollover  *services.RolloverService
	filters   *services.FilterService
	dashboard *services.DashboardService
	publisher ExportPublisher

	rateLimiter  *rateLimiter
	metrics      securityMetrics
	httpLog      *applog.StructuredLogger
	shutdownOnce sync.Once
}

// NewServer wires routes and middleware, returning a ready-to-run
// server. publisher may be nil when AMQP is not configured.
func NewServer(addr string, st store.EntityStore, publisher ExportPublisher) *Server {
	mux := http.NewServeMux()

	reports := services.NewReportService(st, st, st)
	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		store:       st,
		reports:     reports,
		rollover:    services.NewRolloverService(st, st),
		filters:     services.NewFilterService(st),
		dashboard:   services.NewDashboardService(reports, st, st, st),
		publisher:   publisher,
		rateLimiter: newRateLimiter(),
		httpLog: applog.NewStructuredLogger(applog.New(applog.Config{
			Handler:   slog.Default().Handler(),
			Component: applog.ComponentHTTP,
		})),
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("GET /api/reports/summary", s.secured(s.handleMonthlySummary))
	mux.HandleFunc("GET /api/reports/monthly", s.secured(s.handleMonthlyReport))
	mux.HandleFunc("POST /api/rollover", s.secured(s.handleRollover))
	mux.HandleFunc("POST /api/exports", s.secured(s.handleExportRequest))

	mux.HandleFunc("GET /api/expenses", s.secured(s.handleListExpenses))
	mux.HandleFunc("POST /api/expenses", s.secured(s.handleCreateExpense))
	mux.HandleFunc("PUT /api/expenses/{id}", s.secured(s.handleUpdateExpense))
	mux.HandleFunc("DELETE /api/expenses/{id}", s.secured(s.handleDeleteExpense))

	mux.HandleFunc("GET /api/revenues", s.secured(s.handleListRevenues))
	mux.HandleFunc("POST /api/revenues", s.secured(s.handleCreateRevenue))
	mux.HandleFunc("DELETE /api/revenues/{id}", s.secured(s.handleDeleteRevenue))

	mux.HandleFunc("GET /api/purchases", s.secured(s.handleListPurchases))
	mux.HandleFunc("POST /api/purchases", s.secured(s.handleCreatePurchase))
	mux.HandleFunc("DELETE /api/purchases/{id}", s.secured(s.handleDeletePurchase))

	mux.HandleFunc("GET /api/suppliers", s.secured(s.handleListSuppliers))
	mux.HandleFunc("POST /api/suppliers", s.secured(s.handleCreateSupplier))
	mux.HandleFunc("PUT /api/suppliers/{id}", s.secured(s.handleUpdateSupplier))
	mux.HandleFunc("DELETE /api/suppliers/{id}", s.secured(s.handleDeleteSupplier))

	mux.HandleFunc("GET /api/dashboard", s.secured(s.handleDashboard))
	mux.HandleFunc("GET /api/dashboard/bills", s.secured(s.handleUpcomingBills))

	return s
}

// secured adds request tracing, security headers and rate limiting on
// mutating methods.
func (s *Server) secured(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		clientIP := extractClientIP(r)
		requestID := generateRequestID()

		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		if detectSuspiciousRequest(r, &s.metrics) {
			slog.WarnContext(ctx, "Suspicious request",
				"request_id", requestID,
				"method", r.Method,
				"url", r.URL.Path,
				"client_ip", clientIP)
		}

		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP, &s.metrics) {
			slog.WarnContext(ctx, "Rate limit exceeded",
				"client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded, try again later")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Content-Security-Policy", "default-src 'none'")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		s.httpLog.LogHTTPEnd(ctx, r, rw.statusCode, time.Since(start).Milliseconds(), clientIP)
	}
}

type requestIDKey struct{}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Shutdown stops the server and its rate limiter cleanup goroutine.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
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
