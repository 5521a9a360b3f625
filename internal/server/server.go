// Package server is the Washboard reference API server: the REST surface
// the dashboard client consumes, backed by SQLite. List endpoints return
// full collections; all filtering, sorting, and paging happens client-side.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/washboardhq/washboard/internal/services"
	"github.com/washboardhq/washboard/internal/version"
)

// Server is the main Washboard API server.
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
	mux        *http.ServeMux

	auth         *Authenticator
	users        services.UserRepository
	customers    services.CustomerRepository
	transactions services.TransactionRepository
	services     services.ServiceRepository

	// loginLimiter throttles credential guessing across all clients.
	loginLimiter *rate.Limiter
}

// Repositories bundles the data access layer handed to the server.
type Repositories struct {
	Users        services.UserRepository
	Customers    services.CustomerRepository
	Transactions services.TransactionRepository
	Services     services.ServiceRepository
}

// New creates a new Server instance.
func New(addr string, auth *Authenticator, repos Repositories, logger *zap.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      instrument(mux),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger:       logger,
		mux:          mux,
		auth:         auth,
		users:        repos.Users,
		customers:    repos.Customers,
		transactions: repos.Transactions,
		services:     repos.Services,
		loginLimiter: rate.NewLimiter(rate.Every(time.Second), 10),
	}

	s.registerRoutes()

	return s
}

// registerRoutes mounts the public and authenticated API surface.
func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /api/health", s.handleHealth)
	s.mux.Handle("GET /metrics", promhttp.Handler())

	s.mux.HandleFunc("POST /api/auth/login/", s.handleLogin)
	s.mux.HandleFunc("POST /api/auth/refresh/", s.handleRefresh)
	s.mux.HandleFunc("GET /api/auth/me/", s.requireAuth(s.handleMe))

	s.mux.HandleFunc("GET /api/users/", s.requireAuth(s.handleListUsers))
	s.mux.HandleFunc("POST /api/users/", s.requireAuth(s.handleCreateUser))
	s.mux.HandleFunc("PUT /api/users/{id}/", s.requireAuth(s.handleUpdateUser))
	s.mux.HandleFunc("DELETE /api/users/{id}/", s.requireAuth(s.handleDeleteUser))

	s.mux.HandleFunc("GET /api/customers/", s.requireAuth(s.handleListCustomers))
	s.mux.HandleFunc("POST /api/customers/", s.requireAuth(s.handleCreateCustomer))
	s.mux.HandleFunc("PUT /api/customers/{id}/", s.requireAuth(s.handleUpdateCustomer))
	s.mux.HandleFunc("DELETE /api/customers/{id}/", s.requireAuth(s.handleDeleteCustomer))

	s.mux.HandleFunc("GET /api/services/", s.requireAuth(s.handleListServices))
	s.mux.HandleFunc("POST /api/services/", s.requireAuth(s.handleCreateService))
	s.mux.HandleFunc("PUT /api/services/{id}/", s.requireAuth(s.handleUpdateService))
	s.mux.HandleFunc("DELETE /api/services/{id}/", s.requireAuth(s.handleDeleteService))

	s.mux.HandleFunc("GET /api/transactions/", s.requireAuth(s.handleListTransactions))
	s.mux.HandleFunc("POST /api/transactions/", s.requireAuth(s.handleCreateTransaction))
	s.mux.HandleFunc("PUT /api/transactions/{id}/", s.requireAuth(s.handleUpdateTransaction))
	s.mux.HandleFunc("DELETE /api/transactions/{id}/", s.requireAuth(s.handleDeleteTransaction))
	s.mux.HandleFunc("POST /api/transactions/{id}/update-status/", s.requireAuth(s.handleUpdateTransactionStatus))
	s.mux.HandleFunc("POST /api/transactions/{id}/rate/", s.requireAuth(s.handleRateTransaction))
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("HTTP server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the route table, for tests that serve via httptest.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// requireAuth rejects requests without a valid bearer access token.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			Unauthorized(w, "missing bearer token", r.URL.Path)
			return
		}
		claims, err := s.auth.VerifyAccess(token)
		if err != nil {
			Unauthorized(w, "invalid or expired token", r.URL.Path)
			return
		}
		next(w, r.WithContext(withClaims(r.Context(), claims)))
	}
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Washboard-Version", version.Short())
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "washboardd",
		"version": version.Map(),
	})
}
