package llm

import (
	"context"

	"courselens/internal/model"
)

// Message is a single role-tagged chat message
type Message struct {
	Role    string
	Content string
}

// Chat message roles
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Provider defines the interface for language-model collaborators
type Provider interface {
	// Name returns the provider name
	Name() string

	// Chat sends an ordered list of messages and returns the raw response
	// text. The response is untrusted; callers must parse it defensively.
	Chat(ctx context.Context, messages []Message, temperature float32) (string, error)
}

// Config holds provider configuration
type Config struct {
	// BaseURL is an OpenAI-compatible chat completions endpoint
	BaseURL string

	// APIKey authenticates against the endpoint
	APIKey string

	// Model name the endpoint exposes
	Model string

	// Timeout for a single chat call, in seconds
	Timeout int

	// RequestsPerSecond throttles outbound calls
	RequestsPerSecond float64
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(mc model.LLMConfig) Config {
	return Config{
		BaseURL:           mc.BaseURL,
		APIKey:            mc.APIKey,
		Model:             mc.Model,
		Timeout:           mc.Timeout,
		RequestsPerSecond: mc.RequestsPerSecond,
	}
}
