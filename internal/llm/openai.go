package llm

import (
	"context"
	"encoding/json"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// arrayEnvelopeKey wraps array-shaped response schemas, since OpenAI
// structured output requires an object at the root.
const arrayEnvelopeKey = "items"

// OpenAIProvider implements Provider using the OpenAI Chat Completions API.
// It also serves OpenAI-compatible endpoints such as OpenRouter.
type OpenAIProvider struct {
	name   string
	client *openai.Client
	model  string
}

// NewOpenAIProvider creates a new OpenAI provider.
func NewOpenAIProvider(apiKey string, model string) *OpenAIProvider {
	return &OpenAIProvider{
		name:   "openai",
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// NewOpenAICompatibleProvider creates a provider for any endpoint speaking
// the OpenAI Chat Completions protocol at baseURL.
func NewOpenAICompatibleProvider(name, baseURL, apiKey, model string) *OpenAIProvider {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	return &OpenAIProvider{
		name:   name,
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (p *OpenAIProvider) Name() string {
	return p.name
}

func (p *OpenAIProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	model := req.Model
	if model == "" {
		model = p.model
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = 4096
	}

	var messages []openai.ChatCompletionMessage
	for _, msg := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}

	apiReq := openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: float32(req.Temperature),
	}

	var enveloped bool
	if req.JSONMode {
		apiReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
		if len(req.ResponseSchema) > 0 {
			schema, wrapped, err := objectRootSchema(req.ResponseSchema)
			if err != nil {
				return nil, err
			}
			enveloped = wrapped
			apiReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
				JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
					Name:   "response",
					Schema: schema,
				},
			}
		}
	}

	resp, err := p.client.CreateChatCompletion(ctx, apiReq)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", p.name, err)
	}

	var content, finishReason string
	if len(resp.Choices) > 0 {
		content = resp.Choices[0].Message.Content
		finishReason = string(resp.Choices[0].FinishReason)
	}

	if enveloped {
		content = unwrapArrayEnvelope(content)
	}

	return &CompletionResponse{
		Content:      content,
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
		Model:        resp.Model,
		FinishReason: finishReason,
	}, nil
}

// objectRootSchema returns schema unchanged when its root is an object and
// otherwise nests it under arrayEnvelopeKey. The bool reports whether the
// reply has to be unwrapped.
func objectRootSchema(schema json.RawMessage) (json.RawMessage, bool, error) {
	var root map[string]any
	if err := json.Unmarshal(schema, &root); err != nil {
		return nil, false, fmt.Errorf("invalid response schema: %w", err)
	}
	if t, _ := root["type"].(string); t == "object" {
		return schema, false, nil
	}

	wrapped, err := json.Marshal(map[string]any{
		"type":       "object",
		"properties": map[string]any{arrayEnvelopeKey: root},
		"required":   []string{arrayEnvelopeKey},
	})
	if err != nil {
		return nil, false, fmt.Errorf("wrapping response schema: %w", err)
	}
	return wrapped, true, nil
}

// unwrapArrayEnvelope extracts the enveloped value from content. Content that
// does not look like an envelope is returned as is so the caller's parser
// can report it.
func unwrapArrayEnvelope(content string) string {
	var env map[string]json.RawMessage
	if err := json.Unmarshal([]byte(content), &env); err != nil {
		return content
	}
	inner, ok := env[arrayEnvelopeKey]
	if !ok {
		return content
	}
	return string(inner)
}
