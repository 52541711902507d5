package calllog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/writetutor/internal/db"
)

// Store persists calls in the llm_calls table.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Record inserts a call. Missing ID and Timestamp are filled in.
func (s *Store) Record(ctx context.Context, c Call) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.Timestamp.IsZero() {
		c.Timestamp = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO llm_calls (
			id, timestamp, kind, provider, model, input_tokens, output_tokens,
			cost_usd, latency_ms, corrections, success, error
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Timestamp, string(c.Kind), c.Provider, c.Model,
		c.InputTokens, c.OutputTokens, c.CostUSD, c.LatencyMs,
		c.Corrections, boolToInt(c.Success), c.Error,
	)
	if err != nil {
		return fmt.Errorf("inserting call: %w", err)
	}
	return nil
}

// Recent returns up to limit calls, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Call, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, timestamp, kind, provider, model, input_tokens, output_tokens,
			   cost_usd, latency_ms, corrections, success, error
		FROM llm_calls ORDER BY timestamp DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying calls: %w", err)
	}
	defer rows.Close()

	var calls []Call
	for rows.Next() {
		var c Call
		var kind string
		var success int
		if err := rows.Scan(&c.ID, &c.Timestamp, &kind, &c.Provider, &c.Model,
			&c.InputTokens, &c.OutputTokens, &c.CostUSD, &c.LatencyMs,
			&c.Corrections, &success, &c.Error); err != nil {
			return nil, fmt.Errorf("scanning call: %w", err)
		}
		c.Kind = Kind(kind)
		c.Success = success != 0
		calls = append(calls, c)
	}
	return calls, rows.Err()
}

// Stats returns totals over every recorded call.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	var st Stats
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			   COALESCE(SUM(kind = 'analysis'), 0),
			   COALESCE(SUM(kind = 'explanation'), 0),
			   COALESCE(SUM(success = 0), 0),
			   COALESCE(SUM(corrections), 0),
			   COALESCE(SUM(input_tokens), 0),
			   COALESCE(SUM(output_tokens), 0),
			   COALESCE(SUM(cost_usd), 0)
		FROM llm_calls`,
	).Scan(&st.Total, &st.Analyses, &st.Explanations, &st.Failures,
		&st.Corrections, &st.InputTokens, &st.OutputTokens, &st.CostUSD)
	if err != nil {
		return nil, fmt.Errorf("aggregating calls: %w", err)
	}
	return &st, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
