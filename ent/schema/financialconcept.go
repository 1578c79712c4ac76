package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// FinancialConcept holds the schema definition for the FinancialConcept entity.
type FinancialConcept struct {
	ent.Schema
}

// Fields of the FinancialConcept.
func (FinancialConcept) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("concept_id").
			Unique().
			Immutable(),
		field.String("name").
			Comment("Unique concept name, e.g. 'Revenue'"),
		field.String("description").
			Optional().
			Nillable(),
		field.Strings("labels").
			Optional().
			Comment("e.g. ['balance_sheet', 'income_statement']"),
	}
}

// Edges of the FinancialConcept.
func (FinancialConcept) Edges() []ent.Edge {
	return []ent.Edge{
		edge.To("financial_values", FinancialValue.Type),
	}
}

// Indexes of the FinancialConcept.
func (FinancialConcept) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("name").Unique(),
	}
}
