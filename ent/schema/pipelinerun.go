package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// PipelineRun holds the schema definition for the PipelineRun entity — the
// ledger row created by the FULL_PIPELINE handler to track how many jobs it
// fanned out and how many of those completed or failed (invariant I6:
// jobs_completed + jobs_failed <= jobs_created at all times).
type PipelineRun struct {
	ent.Schema
}

// Fields of the PipelineRun.
func (PipelineRun) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("pipeline_run_id").
			Unique().
			Immutable(),
		field.String("company_id").
			Immutable(),
		field.Strings("forms").
			Immutable().
			Comment("e.g. [\"10-K\", \"10-Q\"]"),
		field.Enum("trigger").
			Values("manual", "scheduled").
			Immutable(),
		field.Enum("status").
			Values("pending", "running", "completed", "failed").
			Default("pending"),
		field.Int("jobs_created").
			Default(0),
		field.Int("jobs_completed").
			Default(0),
		field.Int("jobs_failed").
			Default(0),
		field.Time("started_at").
			Optional().
			Nillable(),
		field.Time("completed_at").
			Optional().
			Nillable(),
		field.Text("error").
			Optional().
			Nillable(),
		field.JSON("run_metadata", map[string]any{}).
			Optional(),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}

// Edges of the PipelineRun.
func (PipelineRun) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("company", Company.Type).
			Ref("pipeline_runs").
			Field("company_id").
			Unique().
			Required().
			Immutable(),
	}
}

// Indexes of the PipelineRun.
func (PipelineRun) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("company_id", "created_at"),
		index.Fields("status"),
	}
}
