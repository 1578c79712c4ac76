package pipeline

import (
	"context"
	"fmt"

	"github.com/sf1tzp/symbology/ent"
	"github.com/sf1tzp/symbology/ent/prompt"
	"github.com/sf1tzp/symbology/pkg/artifacts"
)

// EnsureModelConfig gets or creates a ModelConfig for the given stage
// default, applying any override. Mirrors
// original_source/server/symbology/worker/pipeline.py's
// ensure_model_config: starts from defaults, applies overrides, then
// delegates to the content-hash dedup store.
func EnsureModelConfig(ctx context.Context, store *artifacts.ModelConfigStore, stage string, maxTokensOverride int) (*ent.ModelConfig, error) {
	defaults, ok := ModelConfigDefaults[stage]
	if !ok {
		return nil, fmt.Errorf("ensure model config: unknown stage %q", stage)
	}
	maxTokens := defaults.MaxTokens
	if maxTokensOverride > 0 {
		maxTokens = maxTokensOverride
	}
	options := map[string]any{
		"max_tokens":  maxTokens,
		"temperature": defaults.Temperature,
	}
	mc, _, err := store.GetOrCreate(ctx, defaults.Model, options)
	if err != nil {
		return nil, fmt.Errorf("ensure model config %q: %w", stage, err)
	}
	return mc, nil
}

// EnsurePrompt loads and upserts the canonical prompt for a pipeline stage
// or document type, by name, from promptsDir.
func EnsurePrompt(ctx context.Context, store *artifacts.PromptStore, promptsDir, name string) (*ent.Prompt, error) {
	return artifacts.EnsurePrompt(ctx, store, promptsDir, name, prompt.RoleSystem)
}
