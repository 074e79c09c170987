// Package http exposes the ledger as the JSON API used by the browser
// frontend.
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"financas/internal/core"
	"financas/internal/log"
	"financas/internal/middleware/ratelimit"
	"financas/internal/middleware/security"
	"financas/internal/middleware/trace"
	"financas/internal/services"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// Ledger is the set of ledger operations served over HTTP.
type Ledger interface {
	CreateReceivable(ctx context.Context, in services.ReceivableInput) (core.Receivable, error)
	UpdateReceivable(ctx context.Context, id int64, in services.ReceivableInput) (core.Receivable, error)
	SetReceivableStatus(ctx context.Context, id int64, status string) (core.Receivable, error)
	DeleteReceivable(ctx context.Context, id int64) error
	ListReceivables(ctx context.Context, period *core.Period) ([]core.Receivable, error)

	CreatePayable(ctx context.Context, req core.InstallmentRequest) ([]core.Payable, error)
	UpdatePayable(ctx context.Context, id int64, in services.PayableUpdate) (core.Payable, error)
	SetPayableSettled(ctx context.Context, id int64, settled bool) (core.Payable, error)
	DeletePayable(ctx context.Context, id int64) error
	DeleteInstallmentGroup(ctx context.Context, groupID int64) (int64, error)
	ListInstallmentGroup(ctx context.Context, groupID int64) ([]core.Payable, error)
	ListPayables(ctx context.Context, period *core.Period) ([]core.Payable, error)

	Dashboard(ctx context.Context, year, month *int) (core.DashboardSummary, error)
	AvailableMonths(ctx context.Context) ([]core.Period, error)
}

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options configures the server. Zero values get defaults.
type Options struct {
	AllowedOrigins     []string
	RateLimitPerMinute int
	Logger             *log.Logger
	// Database is checked by /readyz when set.
	Database Pinger
}

type Server struct {
	http.Server
	ledger   Ledger
	database Pinger
	logger   *log.Logger
	started  time.Time

	limiter  *ratelimit.Limiter
	detector *security.Detector
	tracer   *trace.Middleware

	shutdownOnce sync.Once
}

// NewServer wires routes and middleware, returning a ready-to-run server.
func NewServer(addr string, ledger Ledger, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	logger = logger.WithComponent(log.ComponentHTTP)
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	s := &Server{
		ledger:   ledger,
		database: opts.Database,
		logger:   logger,
		started:  time.Now(),
		limiter:  ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute}),
		detector: security.NewDetector(),
	}
	s.tracer = trace.NewMiddleware(logger, s.detector.ExtractClientIP)

	var handler http.Handler = s.routes()
	handler = s.limiter.Middleware(s.detector.ExtractClientIP, http.MethodPost, http.MethodPut, http.MethodDelete)(handler)
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = s.detector.Middleware(handler)
	handler = s.tracer.Middleware(handler)
	handler = cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", trace.RequestIDHeader},
		ExposedHeaders: []string{trace.RequestIDHeader},
		MaxAge:         600,
	}).Handler(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusNotFound, "Rota não encontrada")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusMethodNotAllowed, "Método não permitido")
	})

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/readyz", s.handleReady).Methods(http.MethodGet)
	r.HandleFunc("/metrics", s.handleMetrics).Methods(http.MethodGet)

	r.HandleFunc("/entradas", s.handleListReceivables).Methods(http.MethodGet)
	r.HandleFunc("/entradas", s.handleCreateReceivable).Methods(http.MethodPost)
	r.HandleFunc("/entradas/{id:[0-9]+}", s.handleUpdateReceivable).Methods(http.MethodPut)
	r.HandleFunc("/entradas/{id:[0-9]+}", s.handleDeleteReceivable).Methods(http.MethodDelete)
	r.HandleFunc("/entradas/{id:[0-9]+}/status", s.handleSetReceivableStatus).Methods(http.MethodPut)

	r.HandleFunc("/saidas", s.handleListPayables).Methods(http.MethodGet)
	r.HandleFunc("/saidas", s.handleCreatePayable).Methods(http.MethodPost)
	r.HandleFunc("/saidas/{id:[0-9]+}", s.handleUpdatePayable).Methods(http.MethodPut)
	r.HandleFunc("/saidas/{id:[0-9]+}", s.handleDeletePayable).Methods(http.MethodDelete)
	r.HandleFunc("/saidas/{id:[0-9]+}/pago", s.handleSetPayableSettled).Methods(http.MethodPut)
	r.HandleFunc("/saidas/grupo/{id:[0-9]+}", s.handleListInstallmentGroup).Methods(http.MethodGet)
	r.HandleFunc("/saidas/grupo/{id:[0-9]+}", s.handleDeleteInstallmentGroup).Methods(http.MethodDelete)

	r.HandleFunc("/dashboard", s.handleDashboard).Methods(http.MethodGet)
	r.HandleFunc("/meses-disponiveis", s.handleAvailableMonths).Methods(http.MethodGet)
	return r
}

// Shutdown stops background goroutines and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
	})
}

// handleReady checks the database when one is configured.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status, code := "ready", http.StatusOK
	checks := map[string]string{}
	if s.database != nil {
		if err := s.database.Ping(ctx); err != nil {
			checks["database"] = fmt.Sprintf("failed: %v", err)
			status, code = "not_ready", http.StatusServiceUnavailable
		} else {
			checks["database"] = "ok"
		}
	}
	writeJSON(w, code, map[string]any{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	})
}

// handleMetrics writes request and protection counters in the Prometheus
// text format.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	traceMetrics := s.tracer.GetMetrics()
	limitMetrics := s.limiter.GetMetrics()
	securityMetrics := s.detector.GetMetrics()

	metrics := []struct {
		name, kind, help string
		value            int64
	}{
		{"http_requests_total", "counter", "Total number of HTTP requests", traceMetrics.TotalRequests},
		{"http_server_errors_total", "counter", "Responses with a 5xx status", traceMetrics.ServerErrors},
		{"rate_limit_hits_total", "counter", "Requests rejected by the rate limiter", limitMetrics.TotalHits},
		{"rate_limit_clients", "gauge", "Clients tracked by the rate limiter", limitMetrics.ClientCount},
		{"suspicious_requests_total", "counter", "Requests blocked as suspicious", securityMetrics.BlockedRequests},
		{"uptime_seconds", "gauge", "Process uptime in seconds", int64(time.Since(s.started).Seconds())},
	}
	for _, m := range metrics {
		fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s %s\n%s %d\n", m.name, m.help, m.name, m.kind, m.name, m.value)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
