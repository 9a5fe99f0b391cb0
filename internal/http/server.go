// Package http exposes the ledgers and reports as a JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"bilancio/internal/auth"
	"bilancio/internal/log"
	"bilancio/internal/middleware/ratelimit"
	"bilancio/internal/middleware/security"
	"bilancio/internal/middleware/trace"
	"bilancio/internal/services"
)

// Deps bundles everything the server serves.
type Deps struct {
	Auth         *services.AuthService
	Categories   *services.CategoryService
	Transactions *services.TransactionService
	Budgets      *services.BudgetService
	Reports      *services.ReportService
	Tokens       *auth.TokenIssuer
	Logger       *log.Logger
}

// Options tunes the middleware around the routes.
type Options struct {
	RequestsPerMinute int
}

type Server struct {
	http.Server

	authSvc      *services.AuthService
	categories   *services.CategoryService
	transactions *services.TransactionService
	budgets      *services.BudgetService
	reports      *services.ReportService
	tokens       *auth.TokenIssuer
	logger       *log.Logger

	rateLimiter  *ratelimit.Limiter
	tracer       *trace.Middleware
	startedAt    time.Time
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(addr string, deps Deps, opts Options) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server:       http.Server{Addr: addr},
		authSvc:      deps.Auth,
		categories:   deps.Categories,
		transactions: deps.Transactions,
		budgets:      deps.Budgets,
		reports:      deps.Reports,
		tokens:       deps.Tokens,
		logger:       deps.Logger.WithComponent(log.ComponentHTTP),
		rateLimiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: opts.RequestsPerMinute,
		}),
		startedAt: time.Now(),
	}
	s.tracer = trace.NewMiddleware(clientIP, deps.Logger)

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("POST /api/register", s.handleRegister)
	mux.HandleFunc("POST /api/login", s.handleLogin)

	mux.HandleFunc("GET /api/categories", s.requireAuth(s.handleListCategories))
	mux.HandleFunc("POST /api/categories", s.requireAuth(s.handleCreateCategory))
	mux.HandleFunc("GET /api/categories/{id}", s.requireAuth(s.handleGetCategory))
	mux.HandleFunc("PATCH /api/categories/{id}", s.requireAuth(s.handleUpdateCategory))

	mux.HandleFunc("GET /api/transactions", s.requireAuth(s.handleListTransactions))
	mux.HandleFunc("POST /api/transactions", s.requireAuth(s.handleCreateTransaction))
	mux.HandleFunc("GET /api/transactions/export", s.requireAuth(s.handleExportTransactions))
	mux.HandleFunc("GET /api/transactions/{id}", s.requireAuth(s.handleGetTransaction))
	mux.HandleFunc("PATCH /api/transactions/{id}", s.requireAuth(s.handleUpdateTransaction))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.requireAuth(s.handleDeleteTransaction))

	mux.HandleFunc("PUT /api/budgets", s.requireAuth(s.handleUpsertBudget))
	mux.HandleFunc("GET /api/budgets", s.requireAuth(s.handleListBudgets))
	mux.HandleFunc("DELETE /api/budgets/{id}", s.requireAuth(s.handleDeleteBudget))

	mux.HandleFunc("GET /api/reports/monthly", s.requireAuth(s.handleMonthlySummary))
	mux.HandleFunc("GET /api/reports/budget-status", s.requireAuth(s.handleBudgetStatus))
	mux.HandleFunc("GET /api/reports/yearly", s.requireAuth(s.handleYearlySummary))

	var handler http.Handler = mux
	handler = s.rateLimiter.Middleware(clientIP, nil)(handler)
	handler = s.tracer.Middleware(handler)
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = log.Middleware(s.logger)(handler)
	s.Server.Handler = handler

	return s
}

// clientIP resolves the client address, proxies considered.
func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

// Shutdown stops the server and its background routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"uptime":         time.Since(s.startedAt).String(),
		"total_requests": s.tracer.TotalRequests(),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ready"})
}
