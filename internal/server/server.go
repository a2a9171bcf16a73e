// Package server provides the HTTP server for the matchup pages and health checks.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/matchups/internal/config"
	"github.com/yourusername/matchups/internal/logger"
	"github.com/yourusername/matchups/internal/metrics"
	"github.com/yourusername/matchups/internal/service"
	"github.com/yourusername/matchups/internal/views"
)

// Server serves the player index, player detail and health endpoints.
type Server struct {
	serviceName string
	version     string
	commit      string
	cfg         *config.Config
	matchups    *service.MatchupService
	renderer    *views.Renderer
	logger      *logrus.Logger
	reqLogger   *logger.RequestLogger
	router      *mux.Router
	server      *http.Server
	addr        string
	mu          sync.RWMutex
	ready       bool
}

// Options holds the dependencies for the server.
type Options struct {
	ServiceName string
	Version     string
	Commit      string
	Config      *config.Config
	Matchups    *service.MatchupService
	Logger      *logrus.Logger
}

// NewServer creates a new server and builds its routes.
func NewServer(opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = logrus.New()
	}

	serviceName := opts.ServiceName
	if serviceName == "" {
		serviceName = opts.Config.App.Name
	}

	s := &Server{
		serviceName: serviceName,
		version:     opts.Version,
		commit:      opts.Commit,
		cfg:         opts.Config,
		matchups:    opts.Matchups,
		renderer:    views.NewRenderer(RenderOptions(opts.Config)),
		logger:      log,
		reqLogger:   logger.NewRequestLogger(log),
		ready:       true,
	}
	s.router = s.routes()
	return s
}

// RenderOptions maps the render configuration onto view options.
func RenderOptions(cfg *config.Config) views.Options {
	return views.Options{
		Route:          cfg.Render.Route,
		ShowWinPct:     cfg.Render.ShowWinPct,
		WrapDocument:   cfg.Render.WrapDocument,
		LegacyEscaping: cfg.Render.LegacyEscaping,
	}
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// SetReady marks the server as ready to accept traffic.
func (s *Server) SetReady(ready bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = ready
}

// IsReady returns whether the server is ready.
func (s *Server) IsReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.requestMiddleware)

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/live", s.handleLive).Methods(http.MethodGet)
	r.HandleFunc("/ready", s.handleReady).Methods(http.MethodGet)

	if s.cfg.Metrics.Enabled {
		r.Handle(s.cfg.Metrics.Path, metrics.Handler()).Methods(http.MethodGet)
	}

	r.HandleFunc(s.cfg.Render.Route, s.handleMatchups).Methods(http.MethodGet, http.MethodHead)
	if s.cfg.Render.Route != "/" {
		r.HandleFunc("/", s.handleMatchups).Methods(http.MethodGet, http.MethodHead)
	}

	return r
}

// Start binds the listener and serves in the background until Shutdown.
func (s *Server) Start() error {
	addr := s.cfg.GetListenAddress()
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.addr = ln.Addr().String()

	s.server = &http.Server{
		Handler:      s.router,
		ReadTimeout:  time.Duration(s.cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(s.cfg.Server.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:  time.Duration(s.cfg.Server.IdleTimeoutSeconds) * time.Second,
	}

	go func() {
		s.logger.WithFields(logrus.Fields{
			"address": s.addr,
			"service": s.serviceName,
			"route":   s.cfg.Render.Route,
		}).Info("Matchup server starting")

		if err := s.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.WithError(err).Error("Matchup server error")
		}
	}()

	return nil
}

// Addr returns the bound listener address, empty before Start.
func (s *Server) Addr() string {
	return s.addr
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	if s.server == nil {
		return nil
	}

	s.SetReady(false)
	s.logger.Info("Matchup server shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.GetShutdownTimeout())
	defer cancel()

	return s.server.Shutdown(ctx)
}
