package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/writetutor/internal/tutor"
)

// handleAnalyzeText returns the corrections for a text as JSON.
func (s *Server) handleAnalyzeText(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: text"), nil
	}

	corrections, err := s.analyzer.Analyze(ctx, text)
	if err != nil {
		if errors.Is(err, tutor.ErrEmptyText) {
			return mcp.NewToolResultError("text is empty"), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	data, err := json.MarshalIndent(corrections, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding corrections: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// handleExplainCorrection returns a deeper explanation of one correction.
func (s *Server) handleExplainCorrection(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var c tutor.Correction
	var err error
	if c.Rule, err = request.RequireString("rule"); err != nil {
		return mcp.NewToolResultError("missing required parameter: rule"), nil
	}
	if c.OriginalFragment, err = request.RequireString("original_fragment"); err != nil {
		return mcp.NewToolResultError("missing required parameter: original_fragment"), nil
	}
	if c.CorrectedFragment, err = request.RequireString("corrected_fragment"); err != nil {
		return mcp.NewToolResultError("missing required parameter: corrected_fragment"), nil
	}
	c.Explanation = request.GetString("explanation", "")

	text, err := s.explainer.Explain(ctx, c)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("explanation failed: %v", err)), nil
	}
	return mcp.NewToolResultText(text), nil
}

// handleCallHistory reports call totals and the most recent calls.
func (s *Server) handleCallHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := request.GetInt("limit", 10)
	if limit <= 0 {
		limit = 10
	}

	stats, err := s.calls.Stats(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("reading call stats: %v", err)), nil
	}
	recent, err := s.calls.Recent(ctx, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("reading recent calls: %v", err)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Calls: %d (%d analyses, %d explanations, %d failed)\n",
		stats.Total, stats.Analyses, stats.Explanations, stats.Failures)
	fmt.Fprintf(&sb, "Tokens: %d in / %d out, estimated cost $%.4f\n",
		stats.InputTokens, stats.OutputTokens, stats.CostUSD)
	if len(recent) > 0 {
		sb.WriteString("\nRecent:\n")
	}
	for _, c := range recent {
		status := "ok"
		if !c.Success {
			status = "failed: " + c.Error
		}
		fmt.Fprintf(&sb, "- %s %s %s/%s %dms %s\n",
			c.Timestamp.Format("2006-01-02 15:04:05"), c.Kind, c.Provider, c.Model, c.LatencyMs, status)
	}
	return mcp.NewToolResultText(sb.String()), nil
}
