package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Filing holds the schema definition for the Filing entity.
type Filing struct {
	ent.Schema
}

// Fields of the Filing.
func (Filing) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("filing_id").
			Unique().
			Immutable(),
		field.String("company_id").
			Immutable(),
		field.String("accession_number").
			Comment("SEC accession number, unique across all filings"),
		field.String("form").
			Comment("e.g. '10-K', '10-Q'"),
		field.Time("filing_date"),
		field.Time("period_of_report").
			Optional().
			Nillable(),
		field.String("source_url").
			Optional().
			Nillable(),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}

// Edges of the Filing.
func (Filing) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("company", Company.Type).
			Ref("filings").
			Field("company_id").
			Unique().
			Required().
			Immutable(),
		edge.To("documents", Document.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
		edge.To("financial_values", FinancialValue.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
	}
}

// Indexes of the Filing.
func (Filing) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("accession_number").Unique(),
		index.Fields("company_id"),
		index.Fields("company_id", "form"),
	}
}
