// Package calllog records every request the tutor makes to the generation
// service, with token usage and outcome, for traceability and cost tracking.
package calllog

import "time"

// Kind identifies which tutor operation issued a call.
type Kind string

const (
	KindAnalysis    Kind = "analysis"
	KindExplanation Kind = "explanation"
)

// Call is one recorded LLM request.
type Call struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Kind      Kind      `json:"kind"`

	Provider string `json:"provider"`
	Model    string `json:"model"`

	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	CostUSD      float64 `json:"cost_usd"`
	LatencyMs    int64   `json:"latency_ms"`

	// Corrections is the batch size returned by an analysis call.
	Corrections int `json:"corrections"`

	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Stats aggregates all recorded calls.
type Stats struct {
	Total        int     `json:"total"`
	Analyses     int     `json:"analyses"`
	Explanations int     `json:"explanations"`
	Failures     int     `json:"failures"`
	Corrections  int     `json:"corrections"`
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	CostUSD      float64 `json:"cost_usd"`
}
