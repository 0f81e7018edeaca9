package llm

import (
	"os"
)

// DefaultModel is used when neither configuration nor environment names one
const DefaultModel = "Llama-4-Maverick-17B-128E-Instruct-FP8"

// NewProvider creates a provider from configuration. A missing endpoint or
// credential disables the collaborator: the returned provider is nil and no
// network call is ever attempted. Callers treat a nil provider as
// "LLM disabled", resolved once at startup.
func NewProvider(config Config) (Provider, error) {
	if config.BaseURL == "" || config.APIKey == "" {
		return nil, nil
	}
	if config.Model == "" {
		config.Model = DefaultModel
	}
	return NewOpenAIProvider(config)
}

// ConfigFromEnv overlays LLAMA_* environment variables onto config. Values
// already set (from flags or a config file) win over the environment.
func ConfigFromEnv(config Config) Config {
	if config.BaseURL == "" {
		config.BaseURL = os.Getenv("LLAMA_API_BASE")
	}
	if config.APIKey == "" {
		config.APIKey = os.Getenv("LLAMA_API_KEY")
	}
	if config.Model == "" {
		config.Model = os.Getenv("LLAMA_MODEL")
	}
	return config
}
