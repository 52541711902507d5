package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GoogleProvider implements Provider using the Google Gemini API. The key
// travels in the x-goog-api-key header, never in the request URL.
type GoogleProvider struct {
	model  string
	client *genai.Client
	// initErr is returned from Complete when the client could not be built.
	initErr error
}

// NewGoogleProvider creates a new Google Gemini provider.
func NewGoogleProvider(apiKey string, model string) *GoogleProvider {
	return newGoogleProvider(apiKey, model, "")
}

// newGoogleProvider targets baseURL instead of the public endpoint when it
// is non-empty.
func newGoogleProvider(apiKey, model, baseURL string) *GoogleProvider {
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: baseURL},
	})
	if err != nil {
		err = fmt.Errorf("creating gemini client: %w", err)
	}
	return &GoogleProvider{model: model, client: client, initErr: err}
}

func (p *GoogleProvider) Name() string {
	return "google"
}

func (p *GoogleProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	if p.initErr != nil {
		return nil, p.initErr
	}

	model := req.Model
	if model == "" {
		model = p.model
	}

	var systemParts []*genai.Part
	var contents []*genai.Content

	for _, msg := range req.Messages {
		switch msg.Role {
		case RoleSystem:
			systemParts = append(systemParts, &genai.Part{Text: msg.Content})
		case RoleUser:
			contents = append(contents, &genai.Content{
				Role:  "user",
				Parts: []*genai.Part{{Text: msg.Content}},
			})
		case RoleAssistant:
			contents = append(contents, &genai.Content{
				Role:  "model",
				Parts: []*genai.Part{{Text: msg.Content}},
			})
		}
	}

	// Gemini rejects a request without contents.
	if len(contents) == 0 {
		contents = append(contents, &genai.Content{
			Role:  "user",
			Parts: []*genai.Part{{Text: ""}},
		})
	}

	temperature := float32(req.Temperature)
	config := &genai.GenerateContentConfig{
		Temperature: &temperature,
	}
	if len(systemParts) > 0 {
		config.SystemInstruction = &genai.Content{Parts: systemParts}
	}
	if req.MaxTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxTokens)
	}

	if req.JSONMode {
		config.ResponseMIMEType = "application/json"
		if len(req.ResponseSchema) > 0 {
			schema, err := geminiResponseSchema(req.ResponseSchema)
			if err != nil {
				return nil, err
			}
			config.ResponseSchema = schema
		}
	}

	resp, err := p.client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}

	var content strings.Builder
	var finishReason string
	if len(resp.Candidates) > 0 {
		if c := resp.Candidates[0].Content; c != nil {
			for _, part := range c.Parts {
				if part != nil {
					content.WriteString(part.Text)
				}
			}
		}
		finishReason = string(resp.Candidates[0].FinishReason)
	}

	var inputTokens, outputTokens int
	if resp.UsageMetadata != nil {
		inputTokens = int(resp.UsageMetadata.PromptTokenCount)
		outputTokens = int(resp.UsageMetadata.CandidatesTokenCount)
	}

	return &CompletionResponse{
		Content:      content.String(),
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
		Model:        model,
		FinishReason: finishReason,
	}, nil
}

// geminiResponseSchema converts a JSON Schema document into a genai.Schema.
func geminiResponseSchema(raw json.RawMessage) (*genai.Schema, error) {
	clean, err := geminiSchema(raw)
	if err != nil {
		return nil, err
	}
	var schema genai.Schema
	if err := json.Unmarshal(clean, &schema); err != nil {
		return nil, fmt.Errorf("invalid gemini schema: %w", err)
	}
	return &schema, nil
}

// geminiSchemaKeys lists the JSON Schema keywords Gemini's OpenAPI-style
// responseSchema accepts. Everything else is dropped.
var geminiSchemaKeys = map[string]bool{
	"type":             true,
	"format":           true,
	"description":      true,
	"nullable":         true,
	"enum":             true,
	"properties":       true,
	"required":         true,
	"items":            true,
	"propertyOrdering": true,
}

// geminiSchema converts a JSON Schema document into the subset Gemini
// accepts: unsupported keywords are removed and type names are upper-cased.
func geminiSchema(raw json.RawMessage) (json.RawMessage, error) {
	var root any
	if err := json.Unmarshal(raw, &root); err != nil {
		return nil, fmt.Errorf("invalid response schema: %w", err)
	}
	out, err := json.Marshal(sanitizeGeminiNode(root))
	if err != nil {
		return nil, fmt.Errorf("serializing gemini schema: %w", err)
	}
	return out, nil
}

func sanitizeGeminiNode(node any) any {
	n, ok := node.(map[string]any)
	if !ok {
		return node
	}
	out := make(map[string]any, len(n))
	for k, v := range n {
		if !geminiSchemaKeys[k] {
			continue
		}
		switch k {
		case "type":
			if s, ok := v.(string); ok {
				v = strings.ToUpper(s)
			}
		case "items":
			v = sanitizeGeminiNode(v)
		case "properties":
			if props, ok := v.(map[string]any); ok {
				clean := make(map[string]any, len(props))
				for name, prop := range props {
					clean[name] = sanitizeGeminiNode(prop)
				}
				v = clean
			}
		}
		out[k] = v
	}
	return out
}
