package artifacts

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/sf1tzp/symbology/ent"
	"github.com/sf1tzp/symbology/ent/modelconfig"
)

// ModelConfigStore resolves and upserts ModelConfig artifacts by content
// hash.
type ModelConfigStore struct {
	client *ent.Client
}

// NewModelConfigStore wraps an Ent client as a ModelConfigStore.
func NewModelConfigStore(client *ent.Client) *ModelConfigStore {
	return &ModelConfigStore{client: client}
}

// ByHash resolves a ModelConfig by its content_hash.
func (s *ModelConfigStore) ByHash(ctx context.Context, hash string) (*ent.ModelConfig, error) {
	mc, err := s.client.ModelConfig.Query().Where(modelconfig.ContentHashEQ(hash)).Only(ctx)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, fmt.Errorf("model config: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("resolve model config by hash: %w", err)
	}
	return mc, nil
}

// ByIDOrHash resolves a ModelConfig by its primary key or content hash. handle_content_generation
// accepts either a content hash or an id in the model_config_hash field
// (original_source's handlers.py queries ModelConfig.id == model_config_hash
// directly); this mirrors that by trying ID first, then hash.
func (s *ModelConfigStore) ByIDOrHash(ctx context.Context, idOrHash string) (*ent.ModelConfig, error) {
	mc, err := s.client.ModelConfig.Get(ctx, idOrHash)
	if err == nil {
		return mc, nil
	}
	if !ent.IsNotFound(err) {
		return nil, fmt.Errorf("resolve model config by id: %w", err)
	}
	return s.ByHash(ctx, idOrHash)
}

// ByHashPrefix resolves a ModelConfig by a (possibly partial) content_hash
// prefix, rejecting ambiguous matches (spec.md §9).
func (s *ModelConfigStore) ByHashPrefix(ctx context.Context, prefix string) (*ent.ModelConfig, error) {
	matches, err := s.client.ModelConfig.Query().
		Where(modelconfig.ContentHashHasPrefix(prefix)).
		Limit(2).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("model config by hash prefix: %w", err)
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

// GetOrCreate upserts a ModelConfig by the canonical-JSON content hash of
// (model, options). Deduplication is on hash, not id: calling this twice
// with equal canonical options returns the same row both times.
func (s *ModelConfigStore) GetOrCreate(ctx context.Context, model string, options map[string]any) (*ent.ModelConfig, bool, error) {
	hash, err := ModelConfigHash(model, options)
	if err != nil {
		return nil, false, fmt.Errorf("get or create model config: hash: %w", err)
	}

	existing, err := s.client.ModelConfig.Query().Where(modelconfig.ContentHashEQ(hash)).First(ctx)
	if err != nil && !ent.IsNotFound(err) {
		return nil, false, fmt.Errorf("get or create model config: lookup: %w", err)
	}
	if existing != nil {
		return existing, false, nil
	}

	created, err := s.client.ModelConfig.Create().
		SetID(uuid.New().String()).
		SetModel(model).
		SetOptions(options).
		SetContentHash(hash).
		Save(ctx)
	if err != nil {
		if ent.IsConstraintError(err) {
			existing, findErr := s.client.ModelConfig.Query().Where(modelconfig.ContentHashEQ(hash)).Only(ctx)
			if findErr != nil {
				return nil, false, fmt.Errorf("get or create model config: re-lookup after race: %w", findErr)
			}
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("get or create model config: %w", err)
	}
	return created, true, nil
}
