package config

// LLMConfig holds the LLM client settings. The per-stage model and options
// come from pkg/pipeline.ModelConfigDefaults, not from this struct.
type LLMConfig struct {
	// APIKeyEnv is the environment variable holding the Anthropic API key.
	APIKeyEnv string `yaml:"api_key_env"`

	// DefaultModel is loaded from config and the environment; no handler or
	// completer reads it.
	DefaultModel string `yaml:"default_model"`

	// MaxRetries is loaded from config; no completer reads it, and
	// AnthropicCompleter.Chat makes a single request per call.
	MaxRetries int `yaml:"max_retries"`
}

// DefaultLLMConfig returns the built-in LLM client defaults.
func DefaultLLMConfig() *LLMConfig {
	return &LLMConfig{
		APIKeyEnv:    "ANTHROPIC_API_KEY",
		DefaultModel: "claude-haiku-4-5-20251001",
		MaxRetries:   2,
	}
}
