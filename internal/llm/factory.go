package llm

import (
	"fmt"
	"os"
)

const (
	defaultOllamaHost = "http://localhost:11434"
	openRouterBaseURL = "https://openrouter.ai/api/v1"
)

// NewProvider creates a new LLM provider based on the given provider type and model.
// Supported provider types: "google", "openai", "openrouter", "ollama".
// apiKey is required for every provider except ollama, whose host is read
// from OLLAMA_HOST.
func NewProvider(providerType string, model string, apiKey string) (Provider, error) {
	switch providerType {
	case "google":
		if apiKey == "" {
			return nil, fmt.Errorf("google provider requires an API key")
		}
		return NewGoogleProvider(apiKey, model), nil

	case "openai":
		if apiKey == "" {
			return nil, fmt.Errorf("openai provider requires an API key")
		}
		return NewOpenAIProvider(apiKey, model), nil

	case "openrouter":
		if apiKey == "" {
			return nil, fmt.Errorf("openrouter provider requires an API key")
		}
		return NewOpenAICompatibleProvider("openrouter", openRouterBaseURL, apiKey, model), nil

	case "ollama":
		host := os.Getenv("OLLAMA_HOST")
		if host == "" {
			host = defaultOllamaHost
		}
		return NewOllamaProvider(host, model), nil

	default:
		return nil, fmt.Errorf("unsupported provider type: %s", providerType)
	}
}
