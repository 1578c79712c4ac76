package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"

	"github.com/sf1tzp/symbology/pkg/moneydec"
)

// FinancialValue holds the schema definition for the FinancialValue entity.
// Upserted on (company, concept, value_date, filing-or-null).
type FinancialValue struct {
	ent.Schema
}

// Fields of the FinancialValue.
func (FinancialValue) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("value_id").
			Unique().
			Immutable(),
		field.String("company_id").
			Immutable(),
		field.String("concept_id").
			Immutable(),
		field.String("filing_id").
			Optional().
			Nillable().
			Immutable(),
		field.Time("value_date"),
		field.Other("value", moneydec.Decimal{}).
			SchemaType(map[string]string{
				"postgres": "numeric(28,10)",
			}).
			Comment("Fixed-point decimal value"),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}

// Edges of the FinancialValue.
func (FinancialValue) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("company", Company.Type).
			Ref("financial_values").
			Field("company_id").
			Unique().
			Required().
			Immutable(),
		edge.From("concept", FinancialConcept.Type).
			Ref("financial_values").
			Field("concept_id").
			Unique().
			Required().
			Immutable(),
		edge.From("filing", Filing.Type).
			Ref("financial_values").
			Field("filing_id").
			Unique().
			Immutable(),
	}
}

// Indexes of the FinancialValue.
func (FinancialValue) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("company_id", "concept_id", "value_date", "filing_id").
			Unique().
			Annotations(entsql.IndexWhere("filing_id IS NOT NULL")),
		index.Fields("company_id", "concept_id", "value_date").
			Unique().
			Annotations(entsql.IndexWhere("filing_id IS NULL")),
		index.Fields("value_date"),
	}
}
