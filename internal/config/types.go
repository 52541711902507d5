package config

// QualityTier picks the preset model when no model is configured explicitly.
type QualityTier string

const (
	QualityLite   QualityTier = "lite"
	QualityNormal QualityTier = "normal"
	QualityMax    QualityTier = "max"
)

// ProviderType identifies an LLM provider.
type ProviderType string

const (
	ProviderGoogle     ProviderType = "google"
	ProviderOpenAI     ProviderType = "openai"
	ProviderOpenRouter ProviderType = "openrouter"
	ProviderOllama     ProviderType = "ollama"
)

// Config is the top-level writetutor configuration, corresponding to .writetutor.yml.
type Config struct {
	Provider     ProviderType `yaml:"provider" koanf:"provider"`
	Model        string       `yaml:"model" koanf:"model"`
	Quality      QualityTier  `yaml:"quality" koanf:"quality"`
	Temperature  float64      `yaml:"temperature" koanf:"temperature"`
	MaxTokens    int          `yaml:"max_tokens" koanf:"max_tokens"`
	RateLimitRPM int          `yaml:"rate_limit_rpm" koanf:"rate_limit_rpm"`
	DataDir      string       `yaml:"data_dir" koanf:"data_dir"`
	RecordCalls  bool         `yaml:"record_calls" koanf:"record_calls"`
	Server       ServerConfig `yaml:"server" koanf:"server"`
}

// ServerConfig holds dashboard server settings.
type ServerConfig struct {
	Port            int  `yaml:"port" koanf:"port"`
	AllowAllOrigins bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}
