package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	ollama "github.com/ollama/ollama/api"
)

const correctionsSchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"properties": {
			"rule": {"type": "string", "description": "rule name"},
			"explanation": {"type": "string"}
		},
		"required": ["rule", "explanation"],
		"additionalProperties": false
	}
}`

func TestMockProviderRecordsCalls(t *testing.T) {
	mock := NewMockProvider("first", "second")
	ctx := context.Background()

	req := CompletionRequest{
		Model:    "test-model",
		Messages: []Message{{Role: RoleUser, Content: "hola"}},
	}

	for _, want := range []string{"first", "second", "second"} {
		resp, err := mock.Complete(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.Content != want {
			t.Errorf("expected %q, got %q", want, resp.Content)
		}
	}

	if mock.CallCount() != 3 {
		t.Errorf("expected 3 calls, got %d", mock.CallCount())
	}
	if mock.Calls()[0].Model != "test-model" {
		t.Errorf("expected model 'test-model', got %q", mock.Calls()[0].Model)
	}
}

func TestFactoryReturnsErrorForMissingAPIKey(t *testing.T) {
	for _, p := range []string{"google", "openai", "openrouter"} {
		if _, err := NewProvider(p, "some-model", ""); err == nil {
			t.Errorf("expected error for provider %q with missing API key", p)
		}
	}
}

func TestFactoryReturnsErrorForUnknownProvider(t *testing.T) {
	if _, err := NewProvider("unknown", "some-model", "key"); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestFactoryCreatesProviders(t *testing.T) {
	tests := []struct {
		provider string
		model    string
		wantName string
	}{
		{"google", "gemini-2.5-flash", "google"},
		{"openai", "gpt-4o", "openai"},
		{"openrouter", "google/gemini-2.5-flash", "openrouter"},
		{"ollama", "llama3", "ollama"},
	}
	for _, tt := range tests {
		p, err := NewProvider(tt.provider, tt.model, "test-key")
		if err != nil {
			t.Fatalf("NewProvider(%q): %v", tt.provider, err)
		}
		if p.Name() != tt.wantName {
			t.Errorf("expected name %q, got %q", tt.wantName, p.Name())
		}
	}
}

func TestFactoryCreatesOllamaWithDefaultHost(t *testing.T) {
	t.Setenv("OLLAMA_HOST", "")
	provider, err := NewProvider("ollama", "llama3", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ollamaP, ok := provider.(*OllamaProvider)
	if !ok {
		t.Fatal("expected *OllamaProvider")
	}
	if ollamaP.baseURL != defaultOllamaHost {
		t.Errorf("expected default host, got %q", ollamaP.baseURL)
	}
}

func TestGeminiSchemaSanitizes(t *testing.T) {
	out, err := geminiSchema(json.RawMessage(correctionsSchema))
	if err != nil {
		t.Fatalf("geminiSchema: %v", err)
	}

	var root map[string]any
	if err := json.Unmarshal(out, &root); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if root["type"] != "ARRAY" {
		t.Errorf("expected root type ARRAY, got %v", root["type"])
	}
	items := root["items"].(map[string]any)
	if items["type"] != "OBJECT" {
		t.Errorf("expected items type OBJECT, got %v", items["type"])
	}
	if _, ok := items["additionalProperties"]; ok {
		t.Error("additionalProperties should be stripped")
	}
	rule := items["properties"].(map[string]any)["rule"].(map[string]any)
	if rule["type"] != "STRING" || rule["description"] != "rule name" {
		t.Errorf("unexpected rule property: %v", rule)
	}
}

func TestGoogleProviderSendsSchema(t *testing.T) {
	var got struct {
		SystemInstruction *struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"systemInstruction"`
		GenerationConfig struct {
			ResponseMIMEType string          `json:"responseMimeType"`
			ResponseSchema   json.RawMessage `json:"responseSchema"`
		} `json:"generationConfig"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/gemini-2.5-flash:generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("x-goog-api-key") != "secret" {
			t.Errorf("expected api key in header")
		}
		if strings.Contains(r.URL.RawQuery, "secret") {
			t.Errorf("api key leaked into query %q", r.URL.RawQuery)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"candidates": [{"content": {"role": "model", "parts": [{"text": "[]"}]}, "finishReason": "STOP"}],
			"usageMetadata": {"promptTokenCount": 12, "candidatesTokenCount": 3}
		}`))
	}))
	defer srv.Close()

	p := newGoogleProvider("secret", "gemini-2.5-flash", srv.URL+"/")

	resp, err := p.Complete(context.Background(), CompletionRequest{
		Messages: []Message{
			{Role: RoleSystem, Content: "eres un tutor"},
			{Role: RoleUser, Content: "analiza"},
		},
		JSONMode:       true,
		ResponseSchema: json.RawMessage(correctionsSchema),
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if resp.Content != "[]" || resp.InputTokens != 12 || resp.OutputTokens != 3 {
		t.Errorf("unexpected response: %+v", resp)
	}
	if got.SystemInstruction == nil || len(got.SystemInstruction.Parts) == 0 || got.SystemInstruction.Parts[0].Text != "eres un tutor" {
		t.Errorf("system instruction not forwarded: %+v", got.SystemInstruction)
	}
	if got.GenerationConfig.ResponseMIMEType != "application/json" {
		t.Errorf("expected JSON mime type, got %q", got.GenerationConfig.ResponseMIMEType)
	}
	if !strings.Contains(string(got.GenerationConfig.ResponseSchema), `"ARRAY"`) {
		t.Errorf("expected sanitized schema, got %s", got.GenerationConfig.ResponseSchema)
	}
}

func TestGoogleProviderAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error": {"code": 403, "message": "API key not valid", "status": "PERMISSION_DENIED"}}`))
	}))
	defer srv.Close()

	p := newGoogleProvider("bad", "gemini-2.5-flash", srv.URL+"/")

	_, err := p.Complete(context.Background(), CompletionRequest{
		Messages: []Message{{Role: RoleUser, Content: "hola"}},
	})
	if err == nil || !strings.Contains(err.Error(), "PERMISSION_DENIED") {
		t.Fatalf("expected API error, got %v", err)
	}
}

func TestGoogleProviderNetworkErrorOmitsKey(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL + "/"
	srv.Close()

	p := newGoogleProvider("SECRET-KEY-123", "gemini-2.5-flash", base)
	_, err := p.Complete(context.Background(), CompletionRequest{
		Messages: []Message{{Role: RoleUser, Content: "hola"}},
	})
	if err == nil {
		t.Fatal("expected a connection error")
	}
	if strings.Contains(err.Error(), "SECRET-KEY-123") {
		t.Errorf("error exposes the api key: %v", err)
	}
}

func TestOpenAIProviderWrapsArraySchema(t *testing.T) {
	var format map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		format, _ = body["response_format"].(map[string]any)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"model": "gpt-4o-mini",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "{\"items\":[{\"rule\":\"r\",\"explanation\":\"e\"}]}"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 5, "completion_tokens": 7, "total_tokens": 12}
		}`))
	}))
	defer srv.Close()

	p := NewOpenAICompatibleProvider("test", srv.URL, "key", "gpt-4o-mini")
	resp, err := p.Complete(context.Background(), CompletionRequest{
		Messages:       []Message{{Role: RoleUser, Content: "hola"}},
		JSONMode:       true,
		ResponseSchema: json.RawMessage(correctionsSchema),
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}

	if format["type"] != "json_schema" {
		t.Errorf("expected json_schema response format, got %v", format["type"])
	}
	if resp.Content != `[{"rule":"r","explanation":"e"}]` {
		t.Errorf("expected unwrapped array, got %s", resp.Content)
	}
	if resp.InputTokens != 5 || resp.OutputTokens != 7 {
		t.Errorf("unexpected usage: %+v", resp)
	}
}

func TestObjectRootSchemaLeavesObjectsAlone(t *testing.T) {
	raw := json.RawMessage(`{"type":"object","properties":{"a":{"type":"string"}}}`)
	out, wrapped, err := objectRootSchema(raw)
	if err != nil {
		t.Fatalf("objectRootSchema: %v", err)
	}
	if wrapped {
		t.Error("object schema should not be wrapped")
	}
	if string(out) != string(raw) {
		t.Errorf("expected schema unchanged, got %s", out)
	}
}

func TestUnwrapArrayEnvelopePassesThroughGarbage(t *testing.T) {
	for _, in := range []string{"not json", `{"other":1}`, `[1,2]`} {
		if got := unwrapArrayEnvelope(in); got != in {
			t.Errorf("unwrapArrayEnvelope(%q) = %q", in, got)
		}
	}
}

func TestOllamaProviderSendsSchemaAsFormat(t *testing.T) {
	var got ollama.ChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"message": {"role": "assistant", "content": "[]"}, "model": "llama3", "done": true, "prompt_eval_count": 4, "eval_count": 2}`))
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "llama3")
	resp, err := p.Complete(context.Background(), CompletionRequest{
		Messages:       []Message{{Role: RoleUser, Content: "hola"}},
		JSONMode:       true,
		ResponseSchema: json.RawMessage(`{"type":"array"}`),
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if string(got.Format) != `{"type":"array"}` {
		t.Errorf("expected schema as format, got %s", got.Format)
	}
	if got.Stream == nil || *got.Stream {
		t.Error("expected a non-streaming request")
	}
	if resp.Content != "[]" || resp.InputTokens != 4 || resp.OutputTokens != 2 {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestRateLimitDisabled(t *testing.T) {
	mock := NewMockProvider("ok")
	if WithRateLimit(mock, 0) != Provider(mock) {
		t.Error("expected provider to be returned unchanged for rpm=0")
	}
}

func TestRateLimiterPassesThrough(t *testing.T) {
	mock := NewMockProvider("mock response")
	rl := WithRateLimit(mock, 60)

	resp, err := rl.Complete(context.Background(), CompletionRequest{
		Messages: []Message{{Role: RoleUser, Content: "hola"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Content != "mock response" {
		t.Errorf("expected 'mock response', got %q", resp.Content)
	}
	if rl.Name() != "mock" {
		t.Errorf("expected name 'mock', got %q", rl.Name())
	}
}

func TestRateLimiterLimitsRequests(t *testing.T) {
	mock := NewMockProvider("ok")
	rl := WithRateLimit(mock, 2)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	req := CompletionRequest{Messages: []Message{{Role: RoleUser, Content: "hola"}}}

	for i := 0; i < 2; i++ {
		if _, err := rl.Complete(ctx, req); err != nil {
			t.Fatalf("request %d: unexpected error: %v", i, err)
		}
	}

	// The third token is 30s away, past the deadline.
	if _, err := rl.Complete(ctx, req); err == nil {
		t.Error("expected the third request to be refused before the deadline")
	}
	if mock.CallCount() != 2 {
		t.Errorf("expected 2 calls to reach the provider, got %d", mock.CallCount())
	}
}

func TestRateLimiterHonoursCancellation(t *testing.T) {
	mock := NewMockProvider("ok")
	rl := WithRateLimit(mock, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := rl.Complete(ctx, CompletionRequest{Messages: []Message{{Role: RoleUser, Content: "hola"}}})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if mock.CallCount() != 0 {
		t.Errorf("expected no calls, got %d", mock.CallCount())
	}
}

func TestEstimateCost(t *testing.T) {
	// gemini-2.5-flash: $0.30/1M input, $2.50/1M output
	cost := EstimateCost("gemini-2.5-flash", 1_000_000, 1_000_000)
	if cost < 2.79 || cost > 2.81 {
		t.Errorf("expected cost ~$2.80, got $%.2f", cost)
	}
	if c := EstimateCost("unknown-model", 1000, 500); c != 0 {
		t.Errorf("expected 0 for unknown model, got %f", c)
	}
}
