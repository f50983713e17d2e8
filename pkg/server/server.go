package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"atomic-explorer/aihub/pkg/config"
	"atomic-explorer/aihub/pkg/gateway"
	"atomic-explorer/aihub/pkg/server/middleware"
	"atomic-explorer/aihub/pkg/telemetry"
	"atomic-explorer/aihub/pkg/telemetry/health"
	"atomic-explorer/aihub/pkg/telemetry/logging"
	"atomic-explorer/aihub/pkg/telemetry/metrics"
	"atomic-explorer/aihub/pkg/telemetry/tracing"
)

// Readiness check names registered by the server.
const (
	CheckRegistry   = "registry"
	CheckCredential = "credential"
)

// Server serves the AI hub HTTP API. The gateway behind it is read from a
// gateway.Holder on every request, so configuration reloads take effect
// without a restart.
type Server struct {
	config       config.ServerConfig
	telemetry    config.TelemetryConfig
	gateways     *gateway.Holder
	logger       *logging.Logger
	collector    *metrics.Collector
	checker      *health.Checker
	version      health.VersionInfo
	httpServer   *http.Server
	listener     net.Listener
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// NewServer creates a server for cfg. tel may be nil, in which case logs are
// discarded and metrics are off.
func NewServer(cfg *config.Config, gateways *gateway.Holder, tel *telemetry.Telemetry, version health.VersionInfo) *Server {
	s := &Server{
		config:    cfg.Server,
		telemetry: cfg.Telemetry,
		gateways:  gateways,
		logger:    logging.Nop(),
		version:   version,
	}
	if tel != nil {
		s.logger = tel.Logger()
		s.collector = tel.Metrics()
		s.checker = tel.Health()
	}
	if s.checker == nil {
		s.checker = health.New(cfg.Telemetry.Health.CheckTimeout)
	}

	s.checker.Register(CheckRegistry, func(context.Context) error {
		if s.gateways.Load().Registry().Len() == 0 {
			return errors.New("no providers configured")
		}
		return nil
	})
	s.checker.Register(CheckCredential, func(context.Context) error {
		if !s.gateways.Load().HasCredential() {
			return errors.New("no API key configured")
		}
		return nil
	})

	return s
}

// Start listens on the configured address and serves until ctx is canceled
// or the server fails.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.ListenAddress)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.ListenAddress, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is canceled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		_ = ln.Close()
		return errors.New("server is already running")
	}

	if s.config.TLS.Enabled {
		tlsLn, err := s.wrapTLS(ctx, ln)
		if err != nil {
			s.mu.Unlock()
			_ = ln.Close()
			return err
		}
		ln = tlsLn
	}

	s.isRunning = true
	s.listener = ln
	s.httpServer = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(s.logger.Slog().Handler(), slog.LevelWarn),
	}
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting api server", "address", ln.Addr().String(), "tls", s.config.TLS.Enabled)
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
		close(errChan)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("context canceled, initiating shutdown")
		return s.Shutdown(context.Background())
	case err, ok := <-errChan:
		if !ok {
			return nil
		}
		return err
	}
}

// wrapTLS loads the configured certificate and returns a TLS listener on
// top of ln. Certificate polling stops when ctx ends.
func (s *Server) wrapTLS(ctx context.Context, ln net.Listener) (net.Listener, error) {
	tlsCfg := s.config.TLS
	reloader := NewCertificateReloader(tlsCfg.CertFile, tlsCfg.KeyFile, tlsCfg.ReloadInterval, s.logger)
	if err := reloader.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to load TLS certificate: %w", err)
	}
	return tls.NewListener(ln, newTLSConfig(tlsCfg, reloader)), nil
}

// Shutdown stops accepting connections and waits up to the configured
// shutdown timeout for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.RLock()
		srv := s.httpServer
		running := s.isRunning
		s.mu.RUnlock()
		if !running || srv == nil {
			return
		}

		s.logger.Info("initiating graceful shutdown", "timeout", s.config.ShutdownTimeout.String())

		shutdownCtx := ctx
		if s.config.ShutdownTimeout > 0 {
			var cancel context.CancelFunc
			shutdownCtx, cancel = context.WithTimeout(ctx, s.config.ShutdownTimeout)
			defer cancel()
		}

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("error during server shutdown", "error", err)
			shutdownErr = fmt.Errorf("server shutdown error: %w", err)
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		s.logger.Info("api server stopped")
	})

	return shutdownErr
}

// IsRunning reports whether the server is serving.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Addr returns the listening address, or nil before Serve.
func (s *Server) Addr() net.Addr {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Handler returns the routed handler with the full middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Only routes that reach providers count against the in-flight cap.
	limit := middleware.InFlight(s.config.MaxInFlight)
	mux.Handle("POST /v1/chat", limit(http.HandlerFunc(s.handleChat)))
	mux.Handle("POST /v1/analysis", limit(http.HandlerFunc(s.handleAnalysis)))
	mux.Handle("GET /v1/elements/{element}/insight", limit(http.HandlerFunc(s.handleInsight)))
	mux.HandleFunc("GET /v1/providers", s.handleProviders)
	mux.HandleFunc("GET /v1/stats", s.handleStats)

	health.Mount(mux, s.telemetry.Health, s.checker, s.version)
	if s.collector != nil && s.telemetry.Metrics.Path != "" {
		mux.Handle(s.telemetry.Metrics.Path, s.collector.Handler())
	}

	// Innermost first. Logging must wrap the mux directly to see the route.
	var handler http.Handler = mux
	handler = middleware.Logging(s.logger, s.collector)(handler)
	handler = middleware.MaxBody(s.config.MaxBodyBytes)(handler)
	handler = middleware.CORS(s.config.AllowedOrigins)(handler)
	handler = tracing.HTTPMiddleware(handler)
	handler = middleware.RequestID(handler)
	handler = middleware.Recovery(s.logger)(handler)

	return handler
}
