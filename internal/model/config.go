package model

// Config holds the full courselens configuration
type Config struct {
	// DB is the path to the read-only SQLite course database
	DB string `yaml:"db"`

	// Metrics is the path to the metric catalog JSON file
	Metrics string `yaml:"metrics"`

	// LLM configures the optional language-model collaborator
	LLM LLMConfig `yaml:"llm"`

	// Verbose enables progress output on stderr
	Verbose bool `yaml:"verbose"`
}

// LLMConfig holds language-model collaborator settings.
// The collaborator is disabled when BaseURL or APIKey is empty.
type LLMConfig struct {
	// BaseURL is an OpenAI-compatible chat completions endpoint
	BaseURL string `yaml:"base_url"`

	// APIKey authenticates against the endpoint
	APIKey string `yaml:"api_key"`

	// Model is the model name the endpoint exposes
	Model string `yaml:"model"`

	// Timeout bounds a single chat call, in seconds
	Timeout int `yaml:"timeout"`

	// RequestsPerSecond throttles outbound chat calls
	RequestsPerSecond float64 `yaml:"requests_per_second"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		DB:      "course.db",
		Metrics: "metrics.json",
		LLM: LLMConfig{
			Timeout:           30,
			RequestsPerSecond: 2,
		},
	}
}
