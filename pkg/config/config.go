package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config aggregates the process-wide configuration used by cmd/symbology
// and the worker pool it starts.
type Config struct {
	Queue *QueueConfig
	LLM   *LLMConfig
}

// Load reads an optional .env file (missing is not an error) and returns
// configuration built from built-in defaults plus environment overrides.
func Load(envPath string) (*Config, error) {
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
			return nil, err
		}
	}

	cfg := &Config{
		Queue: DefaultQueueConfig(),
		LLM:   DefaultLLMConfig(),
	}

	if v := os.Getenv("ANTHROPIC_API_KEY_ENV"); v != "" {
		cfg.LLM.APIKeyEnv = v
	}
	if v := os.Getenv("DEFAULT_MODEL"); v != "" {
		cfg.LLM.DefaultModel = v
	}

	return cfg, nil
}
