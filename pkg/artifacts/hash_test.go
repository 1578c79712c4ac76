package artifacts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashContent_Deterministic(t *testing.T) {
	a := HashContent("hello world")
	b := HashContent("hello world")
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
}

func TestHashContent_DistinctInputs(t *testing.T) {
	assert.NotEqual(t, HashContent("a"), HashContent("b"))
}

func TestCanonicalPromptContent_OrderMatters(t *testing.T) {
	out := CanonicalPromptContent("system prompt", []string{"example one", "example two"})
	assert.Equal(t, "system prompt\n\nexample one\n\nexample two", out)
}

func TestCanonicalPromptContent_NoExamples(t *testing.T) {
	out := CanonicalPromptContent("system prompt", nil)
	assert.Equal(t, "system prompt", out)
}

func TestModelConfigHash_KeyOrderIndependent(t *testing.T) {
	h1, err := ModelConfigHash("claude-haiku-4-5-20251001", map[string]any{"temperature": 0.2, "max_tokens": 2048})
	require.NoError(t, err)
	h2, err := ModelConfigHash("claude-haiku-4-5-20251001", map[string]any{"max_tokens": 2048, "temperature": 0.2})
	require.NoError(t, err)
	assert.Equal(t, h1, h2, "canonical JSON must sort keys so map iteration order cannot change the hash")
}

func TestModelConfigHash_DistinctModelsDiffer(t *testing.T) {
	opts := map[string]any{"temperature": 0.2}
	h1, err := ModelConfigHash("claude-haiku-4-5-20251001", opts)
	require.NoError(t, err)
	h2, err := ModelConfigHash("claude-sonnet-4-5-20250929", opts)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}
