// Package server exposes the playground over HTTP.
//
// Endpoints:
//
//	GET    /                      Playground page
//	GET    /health                Health check
//	GET    /metrics               Prometheus metrics
//	GET    /api/languages         Supported languages
//	GET    /api/samples/{lang}    Starter snippet for a language
//	POST   /api/samples/switch    Language switch that keeps user edits
//	POST   /api/execute           Stateless run with queued inputs
//	POST   /api/runs              Start an interactive run
//	GET    /api/runs/{id}         Run snapshot (?wait=true blocks until it pauses)
//	POST   /api/runs/{id}/input   Answer the pending prompt
//	DELETE /api/runs/{id}         Cancel a run
//	GET    /api/runs/{id}/ws      Run snapshots and input over a WebSocket
//	POST   /api/share             Create a share link
//	GET    /api/share?code=...    Decode a share parameter
//	POST   /api/share/decode      Decode a full share link
//	POST   /api/download          Code as a code.<ext> attachment
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/caffeineduck/codehub/executor"
	"github.com/caffeineduck/codehub/metrics"
	"github.com/caffeineduck/codehub/web"
)

// Server serves the playground page and API.
type Server struct {
	exec     *executor.Executor
	sessions *sessionManager
	limiter  *clientLimiter
	metrics  *metrics.Collector
	logger   *zap.Logger
	cfg      serverConfig
	handler  http.Handler
}

type serverConfig struct {
	baseURL       string
	runTimeout    time.Duration
	sessionTTL    time.Duration
	sweepInterval time.Duration
	waitTimeout   time.Duration
	ratePerMinute int
	rateBurst     int
	trustProxy    bool
}

func defaultServerConfig() serverConfig {
	return serverConfig{
		runTimeout:    30 * time.Second,
		sessionTTL:    15 * time.Minute,
		sweepInterval: time.Minute,
		waitTimeout:   30 * time.Second,
		ratePerMinute: 120,
		rateBurst:     20,
	}
}

type Option func(*Server)

func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithMetrics records HTTP and session metrics on m and serves /metrics.
// The same collector should observe the Executor.
func WithMetrics(m *metrics.Collector) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithBaseURL sets the address share links point at. When empty, links use
// the scheme and host of the request.
func WithBaseURL(u string) Option {
	return func(s *Server) {
		s.cfg.baseURL = u
	}
}

// WithRunTimeout caps stateless runs. Requests may ask for less, not more.
func WithRunTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.cfg.runTimeout = d
	}
}

// WithSessionTTL sets how long an untouched interactive run is kept.
func WithSessionTTL(d time.Duration) Option {
	return func(s *Server) {
		s.cfg.sessionTTL = d
	}
}

func WithSweepInterval(d time.Duration) Option {
	return func(s *Server) {
		s.cfg.sweepInterval = d
	}
}

// WithWaitTimeout bounds how long a request blocks for a run to pause.
func WithWaitTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.cfg.waitTimeout = d
	}
}

// WithRateLimit allows perMinute API requests per client, with burst.
// Zero disables rate limiting.
func WithRateLimit(perMinute, burst int) Option {
	return func(s *Server) {
		s.cfg.ratePerMinute = perMinute
		s.cfg.rateBurst = burst
	}
}

// WithTrustProxy keys rate limits on the client address a reverse proxy
// reports in X-Forwarded-For instead of the connection's peer address.
func WithTrustProxy(trust bool) Option {
	return func(s *Server) {
		s.cfg.trustProxy = trust
	}
}

// New creates a Server and starts its session sweeper. Call Close to stop it.
func New(exec *executor.Executor, opts ...Option) *Server {
	s := &Server{
		exec:   exec,
		logger: zap.NewNop(),
		cfg:    defaultServerConfig(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cfg.sweepInterval <= 0 {
		s.cfg.sweepInterval = time.Minute
	}

	s.sessions = newSessionManager(s.cfg.sessionTTL, s.logger, s.metrics)
	s.limiter = newClientLimiter(s.cfg.ratePerMinute, s.cfg.rateBurst)
	s.handler = s.routes()

	go s.sessions.cleanup(s.cfg.sweepInterval)
	if s.limiter != nil {
		go s.sweepLimiter()
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := mux.NewRouter()
	r.Use(s.instrumentMiddleware)

	r.Handle("/", web.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/api").Subrouter()
	api.Use(s.rateLimitMiddleware)

	api.HandleFunc("/languages", s.handleLanguages).Methods(http.MethodGet)
	api.HandleFunc("/samples/switch", s.handleSwitch).Methods(http.MethodPost)
	api.HandleFunc("/samples/{lang}", s.handleSample).Methods(http.MethodGet)
	api.HandleFunc("/execute", s.handleExecute).Methods(http.MethodPost)

	api.HandleFunc("/runs", s.handleCreateRun).Methods(http.MethodPost)
	api.HandleFunc("/runs/{id}", s.handleGetRun).Methods(http.MethodGet)
	api.HandleFunc("/runs/{id}", s.handleDeleteRun).Methods(http.MethodDelete)
	api.HandleFunc("/runs/{id}/input", s.handleRunInput).Methods(http.MethodPost)
	api.HandleFunc("/runs/{id}/ws", s.handleRunSocket).Methods(http.MethodGet)

	api.HandleFunc("/share", s.handleShare).Methods(http.MethodPost)
	api.HandleFunc("/share", s.handleShareParam).Methods(http.MethodGet)
	api.HandleFunc("/share/decode", s.handleShareDecode).Methods(http.MethodPost)

	api.HandleFunc("/download", s.handleDownload).Methods(http.MethodPost)

	return requestIDMiddleware(s.recoveryMiddleware(corsMiddleware(r)))
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.logger.Info("server shutting down")
	return srv.Shutdown(shutdownCtx)
}

// Close cancels every interactive run and stops background work.
func (s *Server) Close() {
	s.sessions.closeAll()
}

func (s *Server) sweepLimiter() {
	ticker := time.NewTicker(s.cfg.sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case now := <-ticker.C:
			s.limiter.sweep(now.Add(-10 * time.Minute))
		case <-s.sessions.stop:
			return
		}
	}
}
