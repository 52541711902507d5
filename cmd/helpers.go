package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/ziadkadry99/writetutor/internal/calllog"
	"github.com/ziadkadry99/writetutor/internal/config"
	"github.com/ziadkadry99/writetutor/internal/db"
	"github.com/ziadkadry99/writetutor/internal/llm"
	"github.com/ziadkadry99/writetutor/internal/tutor"
)

// callLogFile is the sqlite database inside the data directory.
const callLogFile = "calls.db"

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `writetutor init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// createProvider builds the configured LLM provider. A missing API key
// aborts before anything else is set up.
func createProvider(cfg *config.Config) (llm.Provider, error) {
	apiKey, err := config.RequireCredential(cfg.Provider)
	if err != nil {
		return nil, err
	}
	provider, err := llm.NewProvider(string(cfg.Provider), cfg.EffectiveModel(), apiKey)
	if err != nil {
		return nil, fmt.Errorf("creating LLM provider: %w", err)
	}
	return llm.WithRateLimit(provider, cfg.RateLimitRPM), nil
}

// openCallLog opens the call log when recording is enabled. The returned
// store is nil otherwise; close is always safe to call.
func openCallLog(cfg *config.Config) (*calllog.Store, func(), error) {
	if !cfg.RecordCalls {
		return nil, func() {}, nil
	}
	database, err := db.Open(filepath.Join(cfg.DataDir, callLogFile))
	if err != nil {
		return nil, nil, fmt.Errorf("opening call log: %w", err)
	}
	return calllog.NewStore(database), func() { database.Close() }, nil
}

// tutorSetup is everything a command needs to talk to the tutor.
type tutorSetup struct {
	cfg    *config.Config
	client *tutor.Client
	calls  *calllog.Store
	close  func()
}

// setupTutor loads config, checks credentials and builds the client.
func setupTutor() (*tutorSetup, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	provider, err := createProvider(cfg)
	if err != nil {
		return nil, err
	}
	calls, closeCalls, err := openCallLog(cfg)
	if err != nil {
		return nil, err
	}

	opts := []tutor.Option{
		tutor.WithLogger(logger),
		tutor.WithTemperature(cfg.Temperature),
		tutor.WithMaxTokens(cfg.MaxTokens),
	}
	if calls != nil {
		opts = append(opts, tutor.WithRecorder(calls))
	}

	logger.Debug("tutor ready", "provider", provider.Name(), "model", cfg.EffectiveModel(), "record_calls", calls != nil)
	return &tutorSetup{
		cfg:    cfg,
		client: tutor.NewClient(provider, cfg.EffectiveModel(), opts...),
		calls:  calls,
		close:  closeCalls,
	}, nil
}
