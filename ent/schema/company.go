package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Company holds the schema definition for the Company entity.
type Company struct {
	ent.Schema
}

// Fields of the Company.
func (Company) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("company_id").
			Unique().
			Immutable(),
		field.String("ticker").
			Comment("Unique, uppercase ticker symbol, e.g. 'AAPL'"),
		field.String("name"),
		field.Strings("exchanges").
			Optional().
			Comment("Listing exchanges, e.g. ['NASDAQ']"),
		field.String("industry_code").
			Optional().
			Nillable(),
		field.String("fiscal_year_end").
			Optional().
			Nillable().
			Comment("MM-DD, e.g. '12-31'"),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
		field.Time("updated_at").
			Default(time.Now).
			UpdateDefault(time.Now),
	}
}

// Edges of the Company.
func (Company) Edges() []ent.Edge {
	return []ent.Edge{
		edge.To("filings", Filing.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
		edge.To("documents", Document.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
		edge.To("financial_values", FinancialValue.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
		edge.To("generated_content", GeneratedContent.Type),
		edge.To("pipeline_runs", PipelineRun.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
	}
}

// Indexes of the Company.
func (Company) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("ticker").Unique(),
	}
}
