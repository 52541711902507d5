// Package server hosts the tutor's HTTP surface: health checks, the
// dashboard and its JSON API.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// DefaultRequestTimeout bounds API requests. Streaming routes are exempt.
const DefaultRequestTimeout = 60 * time.Second

// loopbackHosts are the hostnames the default origin policy admits.
var loopbackHosts = map[string]bool{"localhost": true, "127.0.0.1": true, "::1": true}

// localOrigins is the default CORS allow list.
var localOrigins = []string{"http://localhost:*", "http://127.0.0.1:*", "http://[::1]:*"}

// LocalOrigin reports whether r comes from a page served on a loopback
// host. Requests without an Origin header are not from a browser and pass.
// It has the shape of websocket.Upgrader.CheckOrigin.
func LocalOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}
	return loopbackHosts[u.Hostname()]
}

// Config holds server configuration.
type Config struct {
	Port           int
	AllowAll       bool // allow all CORS origins (dev mode)
	RequestTimeout time.Duration
	Logger         *slog.Logger
}

// Server wraps a chi router and its http.Server.
type Server struct {
	cfg        Config
	logger     *slog.Logger
	router     chi.Router
	api        chi.Router
	httpServer *http.Server
}

// New creates a server with the common middleware stack installed.
func New(cfg Config) *Server {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{cfg: cfg, logger: logger}
	s.router = s.buildRouter()
	s.api = s.router.With(middleware.Timeout(cfg.RequestTimeout))
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	corsOpts := cors.Options{
		AllowedOrigins:   localOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
		corsOpts.AllowCredentials = false
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	return r
}

// Router returns the root router. Routes registered here have no request
// timeout, which long-lived connections such as websockets need.
func (s *Server) Router() chi.Router { return s.router }

// API returns a router whose routes are bounded by the request timeout.
func (s *Server) API() chi.Router { return s.api }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.logger.Info("server listening", "addr", addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
