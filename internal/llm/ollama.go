package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	ollama "github.com/ollama/ollama/api"
)

// OllamaProvider implements Provider using the Ollama API client.
type OllamaProvider struct {
	baseURL string
	model   string
	client  *ollama.Client
	initErr error
}

// NewOllamaProvider creates a new Ollama provider.
func NewOllamaProvider(baseURL string, model string) *OllamaProvider {
	p := &OllamaProvider{baseURL: baseURL, model: model}
	base, err := url.Parse(baseURL)
	if err != nil {
		p.initErr = fmt.Errorf("invalid ollama host %q: %w", baseURL, err)
		return p
	}
	p.client = ollama.NewClient(base, http.DefaultClient)
	return p
}

func (p *OllamaProvider) Name() string {
	return "ollama"
}

func (p *OllamaProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	if p.initErr != nil {
		return nil, p.initErr
	}

	model := req.Model
	if model == "" {
		model = p.model
	}

	messages := make([]ollama.Message, 0, len(req.Messages))
	for _, msg := range req.Messages {
		messages = append(messages, ollama.Message{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}

	options := map[string]any{}
	if req.Temperature != 0 {
		options["temperature"] = req.Temperature
	}
	if req.MaxTokens > 0 {
		options["num_predict"] = req.MaxTokens
	}

	stream := false
	chatReq := &ollama.ChatRequest{
		Model:    model,
		Messages: messages,
		Stream:   &stream,
		Options:  options,
	}

	if req.JSONMode {
		// Format is either the string "json" or a JSON Schema document.
		chatReq.Format = json.RawMessage(`"json"`)
		if len(req.ResponseSchema) > 0 {
			chatReq.Format = req.ResponseSchema
		}
	}

	var resp ollama.ChatResponse
	err := p.client.Chat(ctx, chatReq, func(r ollama.ChatResponse) error {
		resp = r
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ollama request failed: %w", err)
	}

	return &CompletionResponse{
		Content:      resp.Message.Content,
		InputTokens:  resp.PromptEvalCount,
		OutputTokens: resp.EvalCount,
		Model:        resp.Model,
		FinishReason: resp.DoneReason,
	}, nil
}
