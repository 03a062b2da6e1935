// Package server exposes the benchmark services over HTTP.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/tournevent/freightbench/internal/account"
	"github.com/tournevent/freightbench/internal/benchmark"
	"github.com/tournevent/freightbench/internal/compare"
	"github.com/tournevent/freightbench/internal/graphql"
	"github.com/tournevent/freightbench/internal/telemetry"
	"github.com/tournevent/freightbench/pkg/board"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// Server is the HTTP server for the benchmark service.
type Server struct {
	port       int
	searches   *benchmark.Service
	tracker    *benchmark.Tracker
	registry   *board.Registry
	comparator *compare.Comparator
	accounts   *account.Service
	logger     *otelzap.Logger
	metrics    *telemetry.Metrics
	executor   *graphql.Executor
	handler    http.Handler
}

// Config holds server configuration.
type Config struct {
	Port int
}

// Deps are the services the server exposes.
type Deps struct {
	Searches   *benchmark.Service
	Tracker    *benchmark.Tracker
	Registry   *board.Registry
	Comparator *compare.Comparator
	Accounts   *account.Service
	Logger     *otelzap.Logger
	Metrics    *telemetry.Metrics
}

// New creates a new server instance.
func New(cfg Config, d Deps) *Server {
	metrics := d.Metrics
	if metrics == nil {
		metrics = telemetry.NewMetrics()
	}
	tracker := d.Tracker
	if tracker == nil {
		tracker = benchmark.NewTracker(d.Searches)
	}
	resolver := graphql.NewResolver(d.Searches, tracker, d.Registry, d.Comparator, d.Accounts, d.Logger)

	s := &Server{
		port:       cfg.Port,
		searches:   d.Searches,
		tracker:    tracker,
		registry:   d.Registry,
		comparator: d.Comparator,
		accounts:   d.Accounts,
		logger:     d.Logger,
		metrics:    metrics,
		executor:   graphql.NewExecutor(resolver),
	}
	s.handler = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	r.Post("/graphql", s.handleGraphQL)

	r.Route("/api", func(r chi.Router) {
		r.Post("/search", s.handleSearch)
		r.Get("/search/state", s.handleSearchState)
		r.Get("/search/export.xlsx", s.handleExport)
		r.Post("/compare", s.handleCompare)
		r.Get("/quota", s.handleQuota)
		r.Get("/boards", s.handleBoards)
		r.Get("/plans", s.handlePlans)
		r.Post("/signup", s.handleSignUp)
		r.Post("/login", s.handleLogin)
		r.Get("/account", s.handleAccount)
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeErrorJSON(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeErrorJSON(w, http.StatusNotFound, "resource_not_found", "not found")
	})
	return r
}

// Run starts the HTTP server and blocks until context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting server", zap.Int("port", s.port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleGraphQL(w http.ResponseWriter, r *http.Request) {
	var req graphql.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, graphql.Response{
			Errors: graphqlErrors("Invalid JSON: " + err.Error()),
		})
		return
	}

	resp := s.executor.Execute(r.Context(), req)
	status := http.StatusOK
	if resp.Rejected() {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, resp)
}

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Redirect string `json:"redirect,omitempty"`
}

func writeErrorJSON(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, map[string]any{"error": errorBody{Code: code, Message: message}})
}

// requestIDMiddleware ensures X-Request-ID is set on the response.
// If provided in the request header, it is propagated; otherwise a UUID is generated.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := strings.TrimSpace(r.Header.Get("X-Request-ID"))
		if rid == "" {
			rid = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", rid)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Ctx(r.Context()).Debug("HTTP request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", w.Header().Get("X-Request-ID")),
		)
	})
}
