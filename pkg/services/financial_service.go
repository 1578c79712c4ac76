package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/sf1tzp/symbology/ent"
	"github.com/sf1tzp/symbology/ent/financialconcept"
	"github.com/sf1tzp/symbology/ent/financialvalue"
	"github.com/sf1tzp/symbology/pkg/ingestion"
	"github.com/sf1tzp/symbology/pkg/moneydec"
)

// FinancialService manages FinancialConcept and FinancialValue upsert and
// lookup (spec.md §3). Ingestion failures here are logged and swallowed by
// the caller (FILING_INGESTION handler), per spec.md §7's documented
// exception to "handlers never swallow unknown exceptions".
type FinancialService struct {
	client *ent.Client
}

// NewFinancialService creates a new FinancialService.
func NewFinancialService(client *ent.Client) *FinancialService {
	return &FinancialService{client: client}
}

// findOrCreateConcept upserts a FinancialConcept by unique name, unioning
// labels with any existing row's set (spec.md §3: "merging two concepts
// with the same name unions their labels").
func (s *FinancialService) findOrCreateConcept(ctx context.Context, name, description string, labels []string) (*ent.FinancialConcept, error) {
	existing, err := s.client.FinancialConcept.Query().
		Where(financialconcept.NameEQ(name)).
		Only(ctx)
	if err != nil && !ent.IsNotFound(err) {
		return nil, fmt.Errorf("find concept: %w", err)
	}

	if existing != nil {
		merged := unionLabels(existing.Labels, labels)
		update := existing.Update().SetLabels(merged)
		if description != "" && existing.Description == nil {
			update = update.SetDescription(description)
		}
		return update.Save(ctx)
	}

	create := s.client.FinancialConcept.Create().
		SetID(uuid.New().String()).
		SetName(name).
		SetLabels(labels)
	if description != "" {
		create = create.SetDescription(description)
	}
	created, err := create.Save(ctx)
	if err != nil {
		if ent.IsConstraintError(err) {
			return s.client.FinancialConcept.Query().Where(financialconcept.NameEQ(name)).Only(ctx)
		}
		return nil, fmt.Errorf("create concept: %w", err)
	}
	return created, nil
}

func unionLabels(a, b []string) []string {
	set := make(map[string]struct{}, len(a)+len(b))
	for _, l := range a {
		set[l] = struct{}{}
	}
	for _, l := range b {
		set[l] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for l := range set {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// ListConcepts returns every registered FinancialConcept.
func (s *FinancialService) ListConcepts(ctx context.Context) ([]*ent.FinancialConcept, error) {
	return s.client.FinancialConcept.Query().Order(ent.Asc(financialconcept.FieldName)).All(ctx)
}

// GetConcept resolves a FinancialConcept by name.
func (s *FinancialService) GetConcept(ctx context.Context, name string) (*ent.FinancialConcept, error) {
	c, err := s.client.FinancialConcept.Query().Where(financialconcept.NameEQ(name)).Only(ctx)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get concept: %w", err)
	}
	return c, nil
}

// UpsertValue upserts a FinancialValue on (company, concept, value_date,
// filing-or-null), per spec.md §3.
func (s *FinancialService) UpsertValue(ctx context.Context, companyID, filingID string, info ingestion.FinancialValueInfo) (*ent.FinancialValue, error) {
	concept, err := s.findOrCreateConcept(ctx, info.ConceptName, info.ConceptDescription, info.ConceptLabels)
	if err != nil {
		return nil, fmt.Errorf("upsert value: %w", err)
	}

	valueDate, err := time.Parse(time.RFC3339, info.ValueDate)
	if err != nil {
		return nil, NewValidationError("value_date", err.Error())
	}

	decimalValue, err := moneydec.NewFromString(info.Value)
	if err != nil {
		return nil, NewValidationError("value", err.Error())
	}

	q := s.client.FinancialValue.Query().
		Where(
			financialvalue.CompanyIDEQ(companyID),
			financialvalue.ConceptIDEQ(concept.ID),
			financialvalue.ValueDateEQ(valueDate),
		)
	if filingID != "" {
		q = q.Where(financialvalue.FilingIDEQ(filingID))
	} else {
		q = q.Where(financialvalue.FilingIDIsNil())
	}

	existing, err := q.Only(ctx)
	if err != nil && !ent.IsNotFound(err) {
		return nil, fmt.Errorf("upsert value: lookup: %w", err)
	}
	if existing != nil {
		return existing.Update().SetValue(decimalValue).Save(ctx)
	}

	create := s.client.FinancialValue.Create().
		SetID(uuid.New().String()).
		SetCompanyID(companyID).
		SetConceptID(concept.ID).
		SetValueDate(valueDate).
		SetValue(decimalValue)
	if filingID != "" {
		create = create.SetFilingID(filingID)
	}

	created, err := create.Save(ctx)
	if err != nil {
		if ent.IsConstraintError(err) {
			return q.Only(ctx)
		}
		return nil, fmt.Errorf("create value: %w", err)
	}
	return created, nil
}

// ListValues returns financial values for a company, optionally filtered by
// concept name.
func (s *FinancialService) ListValues(ctx context.Context, companyID, conceptName string, limit int) ([]*ent.FinancialValue, error) {
	q := s.client.FinancialValue.Query().Where(financialvalue.CompanyIDEQ(companyID))
	if conceptName != "" {
		concept, err := s.GetConcept(ctx, conceptName)
		if err != nil {
			if err == ErrNotFound {
				return nil, nil
			}
			return nil, err
		}
		q = q.Where(financialvalue.ConceptIDEQ(concept.ID))
	}
	q = q.Order(ent.Desc(financialvalue.FieldValueDate))
	if limit > 0 {
		q = q.Limit(limit)
	}
	return q.All(ctx)
}
