package artifacts

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/sf1tzp/symbology/ent"
	"github.com/sf1tzp/symbology/ent/prompt"
)

// PromptStore resolves and upserts Prompt artifacts by content hash.
type PromptStore struct {
	client *ent.Client
}

// NewPromptStore wraps an Ent client as a PromptStore.
func NewPromptStore(client *ent.Client) *PromptStore {
	return &PromptStore{client: client}
}

// ByHash resolves a Prompt by its content_hash.
func (s *PromptStore) ByHash(ctx context.Context, hash string) (*ent.Prompt, error) {
	p, err := s.client.Prompt.Query().Where(prompt.ContentHashEQ(hash)).Only(ctx)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, fmt.Errorf("prompt: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("resolve prompt by hash: %w", err)
	}
	return p, nil
}

// ByHashPrefix resolves a Prompt by a (possibly partial) content_hash
// prefix, rejecting ambiguous matches (spec.md §9).
func (s *PromptStore) ByHashPrefix(ctx context.Context, prefix string) (*ent.Prompt, error) {
	matches, err := s.client.Prompt.Query().
		Where(prompt.ContentHashHasPrefix(prefix)).
		Limit(2).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("prompt by hash prefix: %w", err)
	}
	switch len(matches) {
	case 0:
		return nil, ErrNotFound
	case 1:
		return matches[0], nil
	default:
		return nil, ErrAmbiguousHash
	}
}

// Create inserts a prompt, collapsing to the existing (name, content_hash)
// row if one already exists (spec.md §3: "two prompts with identical
// content but different names collapse to the existing record" — read
// literally, the logical key is content_hash alone for collapsing purposes,
// with name retained as a label on first insert).
func (s *PromptStore) Create(ctx context.Context, name string, role prompt.Role, description, content string) (*ent.Prompt, bool, error) {
	hash := HashContent(content)

	existing, err := s.client.Prompt.Query().Where(prompt.ContentHashEQ(hash)).First(ctx)
	if err != nil && !ent.IsNotFound(err) {
		return nil, false, fmt.Errorf("create prompt: lookup: %w", err)
	}
	if existing != nil {
		return existing, false, nil
	}

	create := s.client.Prompt.Create().
		SetID(uuid.New().String()).
		SetName(name).
		SetRole(role).
		SetContent(content).
		SetContentHash(hash)
	if description != "" {
		create = create.SetDescription(description)
	}

	created, err := create.Save(ctx)
	if err != nil {
		if ent.IsConstraintError(err) {
			// Lost a race with a concurrent insert of the same hash.
			existing, findErr := s.client.Prompt.Query().Where(prompt.ContentHashEQ(hash)).Only(ctx)
			if findErr != nil {
				return nil, false, fmt.Errorf("create prompt: re-lookup after race: %w", findErr)
			}
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("create prompt: %w", err)
	}
	return created, true, nil
}

// EnsurePrompt loads {promptsDir}/{name}/prompt.md plus any sorted
// {promptsDir}/{name}/examples/*.md, joins them per spec.md §6's canonical
// form, and upserts the result by content hash. Mirrors
// original_source/server/symbology/worker/pipeline.py's ensure_prompt.
func EnsurePrompt(ctx context.Context, store *PromptStore, promptsDir, name string, role prompt.Role) (*ent.Prompt, error) {
	promptFile := filepath.Join(promptsDir, name, "prompt.md")
	body, err := os.ReadFile(promptFile)
	if err != nil {
		return nil, fmt.Errorf("ensure prompt %q: %w", name, err)
	}

	examplesDir := filepath.Join(promptsDir, name, "examples")
	var examples []string
	entries, err := os.ReadDir(examplesDir)
	if err == nil {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			if !e.IsDir() && strings.HasSuffix(e.Name(), ".md") {
				names = append(names, e.Name())
			}
		}
		sort.Strings(names)
		for _, n := range names {
			exBody, err := os.ReadFile(filepath.Join(examplesDir, n))
			if err != nil {
				return nil, fmt.Errorf("ensure prompt %q: read example %q: %w", name, n, err)
			}
			examples = append(examples, strings.TrimSpace(string(exBody)))
		}
	}

	content := CanonicalPromptContent(strings.TrimSpace(string(body)), examples)

	p, _, err := store.Create(ctx, name, role, fmt.Sprintf("Prompt: %s", name), content)
	if err != nil {
		return nil, fmt.Errorf("ensure prompt %q: %w", name, err)
	}
	return p, nil
}
