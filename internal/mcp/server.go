package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/writetutor/internal/calllog"
	"github.com/ziadkadry99/writetutor/internal/review"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes the tutor's analysis tools.
type Server struct {
	analyzer  review.Analyzer
	explainer review.Explainer
	calls     *calllog.Store
	mcp       *server.MCPServer
}

// NewServer creates a new MCP server. calls may be nil, in which case the
// call_history tool is not offered.
func NewServer(analyzer review.Analyzer, explainer review.Explainer, calls *calllog.Store) *Server {
	s := &Server{
		analyzer:  analyzer,
		explainer: explainer,
		calls:     calls,
	}

	s.mcp = server.NewMCPServer(
		"writetutor",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

func (s *Server) registerTools() {
	s.mcp.AddTool(analyzeTextTool, s.handleAnalyzeText)
	s.mcp.AddTool(explainCorrectionTool, s.handleExplainCorrection)
	if s.calls != nil {
		s.mcp.AddTool(callHistoryTool, s.handleCallHistory)
	}
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
