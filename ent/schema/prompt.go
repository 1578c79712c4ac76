package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Prompt holds the schema definition for the Prompt entity.
// (name, content_hash) is logically unique: two prompts with identical
// content but different names collapse to the existing record (see
// pkg/artifacts.EnsurePrompt).
type Prompt struct {
	ent.Schema
}

// Fields of the Prompt.
func (Prompt) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("prompt_id").
			Unique().
			Immutable(),
		field.String("name"),
		field.Enum("role").
			Values("system", "user", "assistant").
			Default("system"),
		field.String("description").
			Optional().
			Nillable(),
		field.Text("content").
			Immutable(),
		field.String("content_hash").
			Comment("SHA-256 hex of content").
			Immutable(),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}

// Edges of the Prompt.
func (Prompt) Edges() []ent.Edge {
	return []ent.Edge{
		edge.To("generated_content", GeneratedContent.Type),
	}
}

// Indexes of the Prompt.
func (Prompt) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("content_hash"),
		index.Fields("name", "content_hash").Unique(),
	}
}
