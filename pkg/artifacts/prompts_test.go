package artifacts

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sf1tzp/symbology/ent/prompt"
	testdb "github.com/sf1tzp/symbology/test/database"
)

func TestPromptStore_Create_DedupsByContentHash(t *testing.T) {
	client := testdb.NewTestClient(t)
	store := NewPromptStore(client.Client)
	ctx := context.Background()

	p1, created1, err := store.Create(ctx, "risk-factors", prompt.RoleSystem, "", "Summarize the risk factors section.")
	require.NoError(t, err)
	assert.True(t, created1)

	p2, created2, err := store.Create(ctx, "risk-factors-renamed", prompt.RoleSystem, "", "Summarize the risk factors section.")
	require.NoError(t, err)
	assert.False(t, created2, "identical content must collapse to the existing row")
	assert.Equal(t, p1.ID, p2.ID)
	assert.Equal(t, p1.Name, p2.Name, "the first insert's name wins, the second is discarded")
}

func TestPromptStore_Create_DistinctContentInsertsNewRow(t *testing.T) {
	client := testdb.NewTestClient(t)
	store := NewPromptStore(client.Client)
	ctx := context.Background()

	p1, _, err := store.Create(ctx, "a", prompt.RoleSystem, "", "content A")
	require.NoError(t, err)
	p2, _, err := store.Create(ctx, "b", prompt.RoleSystem, "", "content B")
	require.NoError(t, err)

	assert.NotEqual(t, p1.ID, p2.ID)
	assert.NotEqual(t, p1.ContentHash, p2.ContentHash)
}

func TestPromptStore_ByHashPrefix_Ambiguous(t *testing.T) {
	client := testdb.NewTestClient(t)
	store := NewPromptStore(client.Client)
	ctx := context.Background()

	p, _, err := store.Create(ctx, "one", prompt.RoleSystem, "", "distinct body")
	require.NoError(t, err)

	match, err := store.ByHashPrefix(ctx, p.ContentHash[:12])
	require.NoError(t, err)
	assert.Equal(t, p.ID, match.ID)

	_, _, err = store.Create(ctx, "two", prompt.RoleSystem, "", "another distinct body")
	require.NoError(t, err)

	_, err = store.ByHashPrefix(ctx, "")
	assert.ErrorIs(t, err, ErrAmbiguousHash)
}

func TestEnsurePrompt_JoinsExamplesInSortedOrder(t *testing.T) {
	client := testdb.NewTestClient(t)
	store := NewPromptStore(client.Client)
	ctx := context.Background()

	dir := t.TempDir()
	promptDir := filepath.Join(dir, "aggregate-summary")
	examplesDir := filepath.Join(promptDir, "examples")
	require.NoError(t, os.MkdirAll(examplesDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(promptDir, "prompt.md"), []byte("Aggregate the summaries."), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(examplesDir, "b.md"), []byte("example b"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(examplesDir, "a.md"), []byte("example a"), 0o644))

	p, err := EnsurePrompt(ctx, store, dir, "aggregate-summary", prompt.RoleSystem)
	require.NoError(t, err)
	assert.Equal(t, "Aggregate the summaries.\n\nexample a\n\nexample b", p.Content)

	p2, err := EnsurePrompt(ctx, store, dir, "aggregate-summary", prompt.RoleSystem)
	require.NoError(t, err)
	assert.Equal(t, p.ID, p2.ID, "re-running EnsurePrompt against unchanged files must not insert a duplicate")
}
