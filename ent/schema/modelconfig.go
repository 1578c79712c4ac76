package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// ModelConfig holds the schema definition for the ModelConfig entity.
// Deduplicated by content_hash = SHA-256(canonical JSON of {model, sorted-options}).
type ModelConfig struct {
	ent.Schema
}

// Fields of the ModelConfig.
func (ModelConfig) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("model_config_id").
			Unique().
			Immutable(),
		field.String("model").
			Comment("e.g. 'claude-haiku-4-5-20251001'").
			Immutable(),
		field.JSON("options", map[string]any{}).
			Comment("temperature, top_k, top_p, max_tokens, seed, context_length").
			Immutable(),
		field.String("content_hash").
			Immutable(),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}

// Edges of the ModelConfig.
func (ModelConfig) Edges() []ent.Edge {
	return []ent.Edge{
		edge.To("generated_content", GeneratedContent.Type),
	}
}

// Indexes of the ModelConfig.
func (ModelConfig) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("content_hash").Unique(),
	}
}
