package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard, saves the result to
// path and returns it.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to writetutor! Let's configure your tutor.")
	fmt.Println()

	providerPrompt := promptui.Select{
		Label: "Select LLM provider",
		Items: []string{"google", "openai", "openrouter", "ollama"},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	provider := ProviderType(providerStr)

	tiers := []QualityTier{QualityLite, QualityNormal, QualityMax}
	qualityPrompt := promptui.Select{
		Label: "Select quality tier",
		Items: []string{
			"lite   (" + PresetModel(provider, QualityLite) + ")",
			"normal (" + PresetModel(provider, QualityNormal) + ")",
			"max    (" + PresetModel(provider, QualityMax) + ")",
		},
		CursorPos: 1,
	}
	qualityIdx, _, err := qualityPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("quality selection: %w", err)
	}

	cfg := DefaultConfig()
	cfg.Provider = provider
	cfg.Quality = tiers[qualityIdx]

	dataPrompt := promptui.Prompt{
		Label:   "Directory for the call log",
		Default: cfg.DataDir,
	}
	if cfg.DataDir, err = dataPrompt.Run(); err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}

	portPrompt := promptui.Prompt{
		Label:   "Dashboard port",
		Default: strconv.Itoa(cfg.Server.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 || n > 65535 {
				return fmt.Errorf("enter a port between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(portStr)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if _, err := RequireCredential(provider); err != nil {
		fmt.Printf("\nNote: set %s in your environment before starting a session.\n", APIKeyEnvVars(provider)[0])
	}
	if provider == ProviderOllama && os.Getenv("OLLAMA_HOST") == "" {
		fmt.Println("\nNote: OLLAMA_HOST is not set; http://localhost:11434 will be used.")
	}

	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}
