package llm

import (
	"context"
	"sync"
)

// MockProvider is a Provider for tests. It records every request and answers
// with Handler when set, otherwise with Err or the next queued reply.
type MockProvider struct {
	ProvName string
	Err      error
	Handler  func(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	mu      sync.Mutex
	calls   []CompletionRequest
	replies []string
}

// NewMockProvider returns a mock that answers with replies in order. The
// last reply is repeated once the queue is drained.
func NewMockProvider(replies ...string) *MockProvider {
	return &MockProvider{ProvName: "mock", replies: replies}
}

func (m *MockProvider) Name() string {
	return m.ProvName
}

func (m *MockProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	handler := m.Handler
	m.mu.Unlock()

	if handler != nil {
		return handler(ctx, req)
	}
	if m.Err != nil {
		return nil, m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	var content string
	if len(m.replies) > 0 {
		content = m.replies[0]
		if len(m.replies) > 1 {
			m.replies = m.replies[1:]
		}
	}
	return &CompletionResponse{
		Content:      content,
		InputTokens:  10,
		OutputTokens: 20,
		Model:        req.Model,
		FinishReason: "stop",
	}, nil
}

// Calls returns a copy of the recorded requests.
func (m *MockProvider) Calls() []CompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]CompletionRequest, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount returns the number of Complete calls so far.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}
