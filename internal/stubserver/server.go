// Package stubserver is an in-memory stand-in for the portal backend. It
// serves the HR and procurement REST API under /api from a fixtures.State,
// issues HS256 bearer tokens and enforces the backend's role rules. Tests
// run it behind httptest; `portal serve-stub` runs it standalone.
package stubserver

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"

	"github.com/felixgeelhaar/portal/internal/fixtures"
	"github.com/felixgeelhaar/portal/internal/health"
	"github.com/felixgeelhaar/portal/internal/log"
	"github.com/felixgeelhaar/portal/internal/metrics"
	"github.com/felixgeelhaar/portal/internal/version"
)

// Config holds server settings. Zero timeouts take defaults.
type Config struct {
	// Address is the listen address, e.g. ":8001".
	Address string

	// SigningKey signs bearer tokens. A random key is generated when empty.
	SigningKey []byte

	// TokenTTL defaults to seven days.
	TokenTTL time.Duration

	ShutdownTimeout time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
}

// Server serves the stub API.
type Server struct {
	state      *fixtures.State
	tokens     *TokenIssuer
	probes     *health.ProbeManager
	logger     *log.Logger
	metrics    *metrics.Metrics
	exporter   http.Handler
	router     *mux.Router
	httpServer *http.Server

	inShutdown      atomic.Bool
	shutdownTimeout time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithExporter serves h at /metrics.
func WithExporter(h http.Handler) Option {
	return func(s *Server) {
		s.exporter = h
	}
}

// New creates a server over the given store.
func New(state *fixtures.State, cfg Config, opts ...Option) (*Server, error) {
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 30 * time.Second
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 10 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	if cfg.IdleTimeout == 0 {
		cfg.IdleTimeout = 60 * time.Second
	}
	if len(cfg.SigningKey) == 0 {
		cfg.SigningKey = make([]byte, 32)
		if _, err := rand.Read(cfg.SigningKey); err != nil {
			return nil, fmt.Errorf("failed to generate signing key: %w", err)
		}
	}

	s := &Server{
		state:           state,
		tokens:          NewTokenIssuer(cfg.SigningKey, cfg.TokenTTL),
		probes:          health.NewProbeManager(version.GetInfo().Version),
		logger:          log.Discard(),
		metrics:         metrics.Discard(),
		shutdownTimeout: cfg.ShutdownTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.probes.AddChecker(storeChecker{state: state})

	s.router = s.routes()
	s.httpServer = &http.Server{
		Addr:         cfg.Address,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s, nil
}

// Handler returns the root handler, for use with httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Tokens exposes the issuer so tests can mint tokens.
func (s *Server) Tokens() *TokenIssuer {
	return s.tokens
}

// Start blocks serving requests until Shutdown. It returns
// http.ErrServerClosed after a graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("stub backend listening", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown fails readiness, stops keep-alives and drains connections for
// at most the configured shutdown timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	s.inShutdown.Store(true)
	s.probes.MarkShutdown()
	s.httpServer.SetKeepAlivesEnabled(false)

	ctx, cancel := context.WithTimeout(ctx, s.shutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

// IsShuttingDown reports whether Shutdown was called.
func (s *Server) IsShuttingDown() bool {
	return s.inShutdown.Load()
}

func (s *Server) routes() *mux.Router {
	root := mux.NewRouter()
	root.Use(s.instrument)

	root.HandleFunc("/health/live", s.handleLiveness).Methods(http.MethodGet)
	root.HandleFunc("/health/ready", s.handleReadiness).Methods(http.MethodGet)
	if s.exporter != nil {
		root.Handle("/metrics", s.exporter).Methods(http.MethodGet)
	}

	api := root.PathPrefix("/api").Subrouter()
	api.HandleFunc("/", s.handleRoot).Methods(http.MethodGet)

	api.HandleFunc("/auth/signup", s.handleSignup).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)
	api.Handle("/auth/me", s.requireAuth(s.handleMe)).Methods(http.MethodGet)

	// Literal paths are registered before the templates they overlap.
	api.Handle("/dashboard/stats", s.requireAuth(s.handleStats)).Methods(http.MethodGet)
	api.HandleFunc("/policies/categories", s.handlePolicyCategories).Methods(http.MethodGet)

	api.HandleFunc("/employees", s.handleEmployees).Methods(http.MethodGet)
	api.HandleFunc("/employees/{id}", s.handleEmployee).Methods(http.MethodGet)
	api.HandleFunc("/dashboard/{employee_id}", s.handleDashboard).Methods(http.MethodGet)
	api.HandleFunc("/hr-requests", s.handleCreateRequest).Methods(http.MethodPost)
	api.HandleFunc("/hr-requests/{employee_id}", s.handleRequests).Methods(http.MethodGet)
	api.HandleFunc("/hr-requests/{id}/status", s.handleRequestStatus).Methods(http.MethodPut)
	api.HandleFunc("/policies", s.handlePolicies).Methods(http.MethodGet)
	api.HandleFunc("/policies/{id}", s.handlePolicy).Methods(http.MethodGet)
	api.HandleFunc("/chat/message", s.handleChatMessage).Methods(http.MethodPost)
	api.HandleFunc("/chat/history/{employee_id}", s.handleChatHistory).Methods(http.MethodGet)
	api.HandleFunc("/vacation-balance/{employee_id}", s.handleVacationBalance).Methods(http.MethodGet)
	api.HandleFunc("/salary-payments/{employee_id}", s.handleSalaryPayments).Methods(http.MethodGet)

	api.Handle("/rfps", s.requireAuth(s.handleRFPs)).Methods(http.MethodGet)
	api.Handle("/rfps", s.requireAuth(s.handleCreateRFP)).Methods(http.MethodPost)
	api.Handle("/rfps/{id}", s.requireAuth(s.handleRFP)).Methods(http.MethodGet)
	api.Handle("/rfps/{id}/status", s.requireAuth(s.handleRFPStatus)).Methods(http.MethodPut)
	api.Handle("/proposals", s.requireAuth(s.handleProposals)).Methods(http.MethodGet)
	api.Handle("/proposals", s.requireAuth(s.handleSubmitProposal)).Methods(http.MethodPost)
	api.Handle("/proposals/{id}", s.requireAuth(s.handleProposal)).Methods(http.MethodGet)
	api.Handle("/proposals/{id}/evaluate", s.requireAuth(s.handleEvaluate)).Methods(http.MethodPost)
	api.Handle("/contracts", s.requireAuth(s.handleContracts)).Methods(http.MethodGet)
	api.Handle("/contracts/{id}", s.requireAuth(s.handleContract)).Methods(http.MethodGet)
	api.Handle("/contracts/{id}/documents/{doc_id}", s.requireAuth(s.handleContractDocument)).Methods(http.MethodGet)
	api.Handle("/admin/vendors", s.requireAuth(s.handleVendors)).Methods(http.MethodGet)
	api.Handle("/admin/vendors/{id}/approve", s.requireAuth(s.handleVendorApproval(true))).Methods(http.MethodPut)
	api.Handle("/admin/vendors/{id}/reject", s.requireAuth(s.handleVendorApproval(false))).Methods(http.MethodPut)

	return root
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, message{Message: "Portal stub backend"})
}

func (s *Server) handleLiveness(w http.ResponseWriter, r *http.Request) {
	writeProbe(w, s.probes.CheckLiveness(r.Context()))
}

func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	writeProbe(w, s.probes.CheckReadiness(r.Context()))
}

func writeProbe(w http.ResponseWriter, res *health.ProbeResult) {
	status := http.StatusOK
	if res.Status == health.StatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(res)
}

// storeChecker fails readiness when no store is attached.
type storeChecker struct {
	state *fixtures.State
}

func (c storeChecker) Name() string {
	return "fixture-store"
}

func (c storeChecker) Check(ctx context.Context) *health.Result {
	if c.state == nil {
		return health.Unhealthy("no fixture store")
	}
	return health.Healthy("fixture store loaded")
}
