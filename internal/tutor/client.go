package tutor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ziadkadry99/writetutor/internal/calllog"
	"github.com/ziadkadry99/writetutor/internal/llm"
)

// Recorder receives one record per generation call.
type Recorder interface {
	Record(ctx context.Context, c calllog.Call) error
}

// Client sends analysis and explanation requests through an llm.Provider.
// It holds no per-conversation state and is safe for concurrent use.
type Client struct {
	provider    llm.Provider
	model       string
	temperature float64
	maxTokens   int
	recorder    Recorder
	logger      *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithRecorder reports every call to r.
func WithRecorder(r Recorder) Option {
	return func(c *Client) { c.recorder = r }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func WithTemperature(t float64) Option {
	return func(c *Client) { c.temperature = t }
}

func WithMaxTokens(n int) Option {
	return func(c *Client) { c.maxTokens = n }
}

// NewClient creates a Client that uses model on provider.
func NewClient(provider llm.Provider, model string, opts ...Option) *Client {
	c := &Client{
		provider:    provider,
		model:       model,
		temperature: 0.3,
		maxTokens:   4096,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Analyze asks the generation service for corrections to text. An empty
// slice means nothing needs fixing.
func (c *Client) Analyze(ctx context.Context, text string) ([]Correction, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}

	req := llm.CompletionRequest{
		Model: c.model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: systemInstruction},
			{Role: llm.RoleUser, Content: buildAnalysisPrompt(text)},
		},
		MaxTokens:      c.maxTokens,
		Temperature:    c.temperature,
		JSONMode:       true,
		ResponseSchema: CorrectionsSchema,
	}

	start := time.Now()
	resp, err := c.provider.Complete(ctx, req)
	call := c.newCall(calllog.KindAnalysis, start, resp)
	if err != nil {
		call.Error = err.Error()
		c.record(ctx, call)
		c.logger.Warn("analysis request failed", "provider", c.provider.Name(), "error", err)
		return nil, fmt.Errorf("%w: %w", ErrAnalysisUnavailable, err)
	}

	corrections, err := ParseCorrections(resp.Content)
	if err != nil {
		call.Error = err.Error()
		c.record(ctx, call)
		c.logger.Warn("analysis reply rejected", "finish_reason", resp.FinishReason, "error", err)
		return nil, err
	}

	call.Success = true
	call.Corrections = len(corrections)
	c.record(ctx, call)
	c.logger.Debug("analysis complete", "corrections", len(corrections), "latency_ms", call.LatencyMs)
	return corrections, nil
}

// Explain asks for an alternative, more detailed explanation of corr and
// returns it verbatim.
func (c *Client) Explain(ctx context.Context, corr Correction) (string, error) {
	req := llm.CompletionRequest{
		Model: c.model,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildExplanationPrompt(corr)},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}

	start := time.Now()
	resp, err := c.provider.Complete(ctx, req)
	call := c.newCall(calllog.KindExplanation, start, resp)
	if err != nil {
		call.Error = err.Error()
		c.record(ctx, call)
		c.logger.Warn("explanation request failed", "rule", corr.Rule, "error", err)
		return "", fmt.Errorf("%w: %w", ErrExplanationUnavailable, err)
	}
	if strings.TrimSpace(resp.Content) == "" {
		call.Error = "empty explanation"
		c.record(ctx, call)
		return "", fmt.Errorf("%w: empty reply", ErrExplanationUnavailable)
	}

	call.Success = true
	c.record(ctx, call)
	return resp.Content, nil
}

func (c *Client) newCall(kind calllog.Kind, start time.Time, resp *llm.CompletionResponse) calllog.Call {
	call := calllog.Call{
		Timestamp: start.UTC(),
		Kind:      kind,
		Provider:  c.provider.Name(),
		Model:     c.model,
		LatencyMs: time.Since(start).Milliseconds(),
	}
	if resp != nil {
		if resp.Model != "" {
			call.Model = resp.Model
		}
		call.InputTokens = resp.InputTokens
		call.OutputTokens = resp.OutputTokens
		call.CostUSD = llm.EstimateCost(call.Model, resp.InputTokens, resp.OutputTokens)
	}
	return call
}

// record stores call without letting a storage failure reach the user.
func (c *Client) record(ctx context.Context, call calllog.Call) {
	if c.recorder == nil {
		return
	}
	if err := c.recorder.Record(context.WithoutCancel(ctx), call); err != nil {
		c.logger.Error("recording llm call", "kind", call.Kind, "error", err)
	}
}
