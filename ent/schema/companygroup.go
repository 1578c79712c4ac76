package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// CompanyGroup holds the schema definition for the CompanyGroup entity.
// A named, slugged collection of tickers that a cross-company analysis
// attaches to (see original_source server/symbology/database/company_groups.py).
type CompanyGroup struct {
	ent.Schema
}

// Fields of the CompanyGroup.
func (CompanyGroup) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("group_id").
			Unique().
			Immutable(),
		field.String("slug").
			Comment("URL-safe identifier, unique"),
		field.String("name"),
		field.String("description").
			Optional().
			Nillable(),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}

// Edges of the CompanyGroup.
func (CompanyGroup) Edges() []ent.Edge {
	return []ent.Edge{
		edge.To("generated_content", GeneratedContent.Type),
	}
}

// Indexes of the CompanyGroup.
func (CompanyGroup) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("slug").Unique(),
	}
}
