// Package dashboard serves the browser chat for the writing tutor. Every
// websocket connection gets its own conversation.
package dashboard

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/yuin/goldmark"

	"github.com/ziadkadry99/writetutor/internal/calllog"
	"github.com/ziadkadry99/writetutor/internal/review"
	"github.com/ziadkadry99/writetutor/internal/server"
)

// Config holds the dashboard's dependencies.
type Config struct {
	Analyzer  review.Analyzer
	Explainer review.Explainer
	// Calls backs the call history API. Nil disables it.
	Calls  *calllog.Store
	Logger *slog.Logger
	// AllowAllOrigins lets pages from any origin open the chat socket.
	// Otherwise only loopback origins may.
	AllowAllOrigins bool
}

// Dashboard provides the chat page, its websocket and the call history API.
type Dashboard struct {
	cfg      Config
	logger   *slog.Logger
	md       goldmark.Markdown
	upgrader websocket.Upgrader
}

// New creates a new Dashboard.
func New(cfg Config) *Dashboard {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	checkOrigin := server.LocalOrigin
	if cfg.AllowAllOrigins {
		checkOrigin = func(*http.Request) bool { return true }
	}
	return &Dashboard{
		cfg:      cfg,
		logger:   logger,
		md:       newMarkdown(),
		upgrader: websocket.Upgrader{CheckOrigin: checkOrigin},
	}
}

// RegisterRoutes mounts the page and websocket on r and the JSON API on api.
func (d *Dashboard) RegisterRoutes(r, api chi.Router) {
	r.Get("/", d.ServeIndex)
	r.Get("/ws/chat", d.handleWebSocket)
	api.Get("/api/calls/recent", d.handleRecent)
	api.Get("/api/calls/stats", d.handleStats)
}
