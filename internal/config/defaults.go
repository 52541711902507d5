package config

// DefaultFile is the config file looked up when --config is not given.
const DefaultFile = ".writetutor.yml"

// qualityPresets maps each provider+quality combination to a model.
var qualityPresets = map[ProviderType]map[QualityTier]string{
	ProviderGoogle: {
		QualityLite:   "gemini-2.5-flash-lite",
		QualityNormal: "gemini-2.5-flash",
		QualityMax:    "gemini-2.5-pro",
	},
	ProviderOpenAI: {
		QualityLite:   "gpt-4o-mini",
		QualityNormal: "gpt-4.1-mini",
		QualityMax:    "gpt-4.1",
	},
	ProviderOpenRouter: {
		QualityLite:   "google/gemini-2.5-flash-lite",
		QualityNormal: "google/gemini-2.5-flash",
		QualityMax:    "google/gemini-2.5-pro",
	},
	ProviderOllama: {
		QualityLite:   "llama3.2",
		QualityNormal: "llama3.1",
		QualityMax:    "llama3.1:70b",
	},
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Provider:     ProviderGoogle,
		Quality:      QualityNormal,
		Temperature:  0.3,
		MaxTokens:    4096,
		RateLimitRPM: 0,
		DataDir:      ".writetutor",
		RecordCalls:  true,
		Server: ServerConfig{
			Port: 8080,
		},
	}
}

// PresetModel returns the model for the given provider and tier, falling
// back to the normal Google model for unknown combinations.
func PresetModel(provider ProviderType, tier QualityTier) string {
	if tiers, ok := qualityPresets[provider]; ok {
		if model, ok := tiers[tier]; ok {
			return model
		}
	}
	return qualityPresets[ProviderGoogle][QualityNormal]
}
