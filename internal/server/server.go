package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/cors"

	"github.com/shrreku/ai-studyagent/internal/api"
	"github.com/shrreku/ai-studyagent/internal/config"
	"github.com/shrreku/ai-studyagent/internal/home"
	"github.com/shrreku/ai-studyagent/internal/llmcall"
	"github.com/shrreku/ai-studyagent/internal/metrics"
	"github.com/shrreku/ai-studyagent/internal/providers"
	"github.com/shrreku/ai-studyagent/internal/server/endpoints"
	"github.com/shrreku/ai-studyagent/internal/svcctx"
)

// Server is the main studyagent HTTP server.
// It owns the long-lived pieces (provider registry, call history, snapshot
// sink, metrics) and rebuilds the structuring services on config changes.
type Server struct {
	httpServer *http.Server
	registry   *providers.Registry
	calls      *llmcall.Store
	sink       *llmcall.SnapshotSink
	metrics    *metrics.Recorder
	home       *home.Dir
	configMgr  *config.Manager
	logger     *slog.Logger

	// services holds all core services for context enrichment
	services atomic.Pointer[svcctx.Services]

	// endpoints registry for HTTP routes
	endpointRegistry *api.Registry

	mu      sync.RWMutex
	running bool
	addr    string
}

// Config holds server configuration.
type Config struct {
	// Host is the address to bind to (default: server.host from config)
	Host string
	// Port is the port to listen on (default: server.port from config)
	Port string
	// Home is the studyagent home directory for snapshots and uploads
	Home *home.Dir
	// ConfigManager provides configuration with hot-reload support
	ConfigManager *config.Manager
	// Logger is the structured logger to use
	Logger *slog.Logger
}

// New creates a new Server with the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	appCfg := config.DefaultConfig()
	if cfg.ConfigManager != nil {
		appCfg = cfg.ConfigManager.Get()
	}
	if cfg.Host == "" {
		cfg.Host = appCfg.Server.Host
	}
	if cfg.Port == "" {
		cfg.Port = appCfg.Server.Port
	}

	registry := providers.NewRegistry()
	registry.SetLogger(cfg.Logger)
	registry.Reload(appCfg.ToProviderRegistryConfig())

	s := &Server{
		registry:  registry,
		metrics:   metrics.NewRecorder(),
		home:      cfg.Home,
		configMgr: cfg.ConfigManager,
		logger:    cfg.Logger,
	}
	if appCfg.Structurer.CallHistory > 0 {
		s.calls = llmcall.NewStore(appCfg.Structurer.CallHistory)
	}
	if cfg.Home != nil {
		s.sink = llmcall.NewSnapshotSink(llmcall.SinkConfig{
			Dir:    cfg.Home.SnapshotsPath(),
			Logger: cfg.Logger,
		})
	}

	if err := s.rebuild(appCfg); err != nil {
		return nil, err
	}

	if cfg.ConfigManager != nil {
		cfg.ConfigManager.OnChange(func(c *config.Config) {
			if err := s.reload(c); err != nil {
				cfg.Logger.Error("failed to rebuild services, keeping previous", "error", err)
				return
			}
			cfg.Logger.Info("services reloaded from config")
		})
	}

	// Create endpoint registry and register all endpoints
	s.endpointRegistry = api.NewRegistry()
	for _, ep := range endpoints.All() {
		s.endpointRegistry.Register(ep)
	}

	mux := http.NewServeMux()
	s.endpointRegistry.RegisterRoutes(mux, s.requireInit)

	c := cors.New(cors.Options{
		AllowedOrigins:   appCfg.Server.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	s.httpServer = &http.Server{
		Addr:        net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:     c.Handler(s.withServices(mux)),
		ReadTimeout: 30 * time.Second,
		// Generation makes several sequential model calls.
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// rebuild assembles services from c and swaps them in.
func (s *Server) rebuild(c *config.Config) error {
	svcs, err := s.build(c)
	if err != nil {
		return err
	}
	s.services.Store(svcs)
	return nil
}

// reload applies a changed config. Services are built before the provider
// registry is touched, so a config that fails to build leaves both the
// registry and the running services as they were.
func (s *Server) reload(c *config.Config) error {
	svcs, err := s.build(c)
	if err != nil {
		return err
	}
	s.registry.Reload(c.ToProviderRegistryConfig())
	s.services.Store(svcs)
	return nil
}

func (s *Server) build(c *config.Config) (*svcctx.Services, error) {
	svcs, err := svcctx.Build(svcctx.Options{
		Config:   c,
		Home:     s.home,
		Registry: s.registry,
		Calls:    s.calls,
		Sink:     s.sink,
		Metrics:  s.metrics,
		Logger:   s.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build services: %w", err)
	}
	return svcs, nil
}

// Start starts the server.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}
	s.running = true
	s.mu.Unlock()

	if s.home != nil {
		if err := s.home.EnsureExists(); err != nil {
			s.setNotRunning()
			return fmt.Errorf("failed to create home directory: %w", err)
		}
	}
	if s.sink != nil {
		if err := s.sink.Start(); err != nil {
			s.setNotRunning()
			return fmt.Errorf("failed to start snapshot sink: %w", err)
		}
	}
	if s.configMgr != nil && s.configMgr.ConfigFile() != "" {
		s.configMgr.WatchConfig()
	}

	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		s.stopSink()
		s.setNotRunning()
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	s.mu.Lock()
	s.addr = ln.Addr().String()
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", ln.Addr().String())
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			_ = s.shutdown()
			return fmt.Errorf("HTTP server error: %w", err)
		}
	}

	return s.shutdown()
}

// shutdown stops the HTTP server and drains pending snapshots.
func (s *Server) shutdown() error {
	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
	}
	s.stopSink()

	s.setNotRunning()
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) stopSink() {
	if s.sink != nil {
		s.sink.Stop()
	}
}

func (s *Server) setNotRunning() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// IsRunning returns whether the server is currently running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Addr returns the address the server is listening on, or the configured
// address before Start.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.addr != "" {
		return s.addr
	}
	return s.httpServer.Addr
}

// Handler returns the server's root handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Registry returns the provider registry.
func (s *Server) Registry() *providers.Registry {
	return s.registry
}

// Services returns the current services.
func (s *Server) Services() *svcctx.Services {
	return s.services.Load()
}

// withServices wraps a handler to enrich the request context with services.
func (s *Server) withServices(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svcs := s.services.Load(); svcs != nil {
			ctx = svcctx.WithServices(ctx, svcs)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireInit is middleware that ensures the services are built.
func (s *Server) requireInit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.services.Load() == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"error":"server not fully initialized"}`))
			return
		}
		next(w, r)
	}
}
