package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// GeneratedContent holds the schema definition for the GeneratedContent
// entity — the central artifact produced by the content-generation
// handler. content_hash is globally unique (invariant I3); the
// (system_prompt, model_config, ordered source set) tuple is functionally
// a key (invariant I4), enforced in pkg/artifacts rather than at the SQL
// level since "ordered source set" spans the two M2M association tables.
type GeneratedContent struct {
	ent.Schema
}

// Fields of the GeneratedContent.
func (GeneratedContent) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("content_id").
			Unique().
			Immutable(),
		field.Text("content").
			Immutable(),
		field.Text("summary").
			Optional().
			Nillable().
			Comment("Only mutable field post-insert"),
		field.String("company_id").
			Optional().
			Nillable().
			Immutable(),
		field.String("company_group_id").
			Optional().
			Nillable().
			Immutable(),
		field.String("document_type").
			Optional().
			Nillable().
			Immutable(),
		field.String("form_type").
			Optional().
			Nillable().
			Immutable(),
		field.String("description").
			Optional().
			Nillable().
			Immutable(),
		field.Enum("content_stage").
			Values(
				"single_summary",
				"aggregate_summary",
				"frontpage_summary",
				"company_group_analysis",
				"company_group_frontpage",
			).
			Immutable(),
		field.Enum("source_type").
			Values("documents", "generated_content").
			Immutable(),
		field.String("system_prompt_id").
			Immutable(),
		field.String("model_config_id").
			Immutable(),
		field.String("content_hash").
			Comment("SHA-256 hex of content, globally unique").
			Immutable(),
		field.Float("total_duration_seconds").
			Optional().
			Immutable(),
		field.Int("input_tokens").
			Optional().
			Immutable(),
		field.Int("output_tokens").
			Optional().
			Immutable(),
		field.String("warning").
			Optional().
			Nillable().
			Immutable(),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}

// Edges of the GeneratedContent.
func (GeneratedContent) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("company", Company.Type).
			Ref("generated_content").
			Field("company_id").
			Unique().
			Immutable(),
		edge.From("company_group", CompanyGroup.Type).
			Ref("generated_content").
			Field("company_group_id").
			Unique().
			Immutable(),
		edge.From("system_prompt", Prompt.Type).
			Ref("generated_content").
			Field("system_prompt_id").
			Unique().
			Required().
			Immutable(),
		edge.From("model_config", ModelConfig.Type).
			Ref("generated_content").
			Field("model_config_id").
			Unique().
			Required().
			Immutable(),
		// Polymorphic sources are modeled as two distinct M2M association
		// tables rather than a union type (invariant I5: exactly one side
		// is populated, enforced at insert time in pkg/artifacts).
		edge.To("source_documents", Document.Type).
			Annotations(entsql.Annotation{Table: "generated_content_source_documents"}),
		// Self-referential DAG: a GeneratedContent's sources may themselves
		// be GeneratedContent. Cycles are forbidden at insert time (see
		// pkg/artifacts.checkAcyclic) since the hash-before-insert ordering
		// makes the check cheap.
		edge.To("source_content", GeneratedContent.Type).
			Annotations(entsql.Annotation{Table: "generated_content_source_content"}),
		edge.From("derived_content", GeneratedContent.Type).
			Ref("source_content"),
	}
}

// Indexes of the GeneratedContent.
func (GeneratedContent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("content_hash").Unique(),
		index.Fields("company_id", "content_stage"),
		index.Fields("system_prompt_id", "model_config_id"),
	}
}
