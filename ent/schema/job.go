package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Job holds the schema definition for the Job entity — the durable queue
// element. Claim/complete/fail/cancel transitions are implemented in
// pkg/queue.Store; this schema only carries the state.
type Job struct {
	ent.Schema
}

// Fields of the Job.
func (Job) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("job_id").
			Unique().
			Immutable(),
		field.Enum("job_type").
			Values(
				"TEST",
				"COMPANY_INGESTION",
				"FILING_INGESTION",
				"CONTENT_GENERATION",
				"BULK_INGEST",
				"COMPANY_GROUP_PIPELINE",
				"INGEST_PIPELINE",
				"FULL_PIPELINE",
			).
			Immutable(),
		field.JSON("params", map[string]any{}).
			Immutable(),
		field.Int("priority").
			Default(5).
			Comment("Smaller = higher priority"),
		field.Enum("status").
			Values("pending", "in_progress", "completed", "failed", "cancelled").
			Default("pending"),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
		field.Time("started_at").
			Optional().
			Nillable(),
		field.Time("completed_at").
			Optional().
			Nillable(),
		field.Time("updated_at").
			Default(time.Now).
			UpdateDefault(time.Now).
			Comment("Bumped by worker heartbeat; drives stale-job detection"),
		field.Int("retry_count").
			Default(0),
		field.Int("max_retries").
			Default(3),
		field.String("worker_id").
			Optional().
			Nillable().
			Comment("Set only while status=in_progress (invariant I1)"),
		field.Text("error").
			Optional().
			Nillable(),
		field.JSON("result", map[string]any{}).
			Optional(),
	}
}

// Indexes of the Job.
func (Job) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("status", "priority", "created_at"),
		index.Fields("job_type"),
	}
}
