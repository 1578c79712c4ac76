package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sf1tzp/symbology/ent"
	"github.com/sf1tzp/symbology/ent/filing"
	"github.com/sf1tzp/symbology/pkg/ingestion"
)

// FilingService manages Filing upsert and lookup.
type FilingService struct {
	client *ent.Client
}

// NewFilingService creates a new FilingService.
func NewFilingService(client *ent.Client) *FilingService {
	return &FilingService{client: client}
}

// Get resolves a filing by id.
func (s *FilingService) Get(ctx context.Context, id string) (*ent.Filing, error) {
	f, err := s.client.Filing.Get(ctx, id)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get filing: %w", err)
	}
	return f, nil
}

// GetByAccessionNumber resolves a filing by its SEC accession number,
// unique across all filings (spec.md §3).
func (s *FilingService) GetByAccessionNumber(ctx context.Context, accession string) (*ent.Filing, error) {
	f, err := s.client.Filing.Query().
		Where(filing.AccessionNumberEQ(accession)).
		Only(ctx)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get filing by accession number: %w", err)
	}
	return f, nil
}

// ListByCompany returns filings for a company, optionally filtered by form,
// newest filing_date first.
func (s *FilingService) ListByCompany(ctx context.Context, companyID, form string, limit int) ([]*ent.Filing, error) {
	q := s.client.Filing.Query().Where(filing.CompanyIDEQ(companyID))
	if form != "" {
		q = q.Where(filing.FormEQ(form))
	}
	q = q.Order(ent.Desc(filing.FieldFilingDate))
	if limit > 0 {
		q = q.Limit(limit)
	}
	return q.All(ctx)
}

// Upsert creates or updates a Filing by accession_number (unique across all
// filings). Used by FILING_INGESTION and BULK_INGEST.
func (s *FilingService) Upsert(ctx context.Context, companyID string, info ingestion.FilingInfo) (*ent.Filing, error) {
	if info.AccessionNumber == "" {
		return nil, NewValidationError("accession_number", "required")
	}

	filingDate, err := parseOptionalTime(info.FilingDate)
	if err != nil {
		return nil, NewValidationError("filing_date", err.Error())
	}

	existing, err := s.GetByAccessionNumber(ctx, info.AccessionNumber)
	if err != nil && err != ErrNotFound {
		return nil, err
	}

	if existing != nil {
		update := existing.Update().SetForm(info.Form)
		if filingDate != nil {
			update = update.SetFilingDate(*filingDate)
		}
		if period, err := parseOptionalTime(info.PeriodOfReport); err == nil && period != nil {
			update = update.SetPeriodOfReport(*period)
		}
		if info.SourceURL != "" {
			update = update.SetSourceURL(info.SourceURL)
		}
		updated, err := update.Save(ctx)
		if err != nil {
			return nil, fmt.Errorf("update filing: %w", err)
		}
		return updated, nil
	}

	create := s.client.Filing.Create().
		SetID(uuid.New().String()).
		SetCompanyID(companyID).
		SetAccessionNumber(info.AccessionNumber).
		SetForm(info.Form)
	if filingDate != nil {
		create = create.SetFilingDate(*filingDate)
	} else {
		create = create.SetFilingDate(time.Now())
	}
	if period, err := parseOptionalTime(info.PeriodOfReport); err == nil && period != nil {
		create = create.SetPeriodOfReport(*period)
	}
	if info.SourceURL != "" {
		create = create.SetSourceURL(info.SourceURL)
	}

	created, err := create.Save(ctx)
	if err != nil {
		if ent.IsConstraintError(err) {
			return s.GetByAccessionNumber(ctx, info.AccessionNumber)
		}
		return nil, fmt.Errorf("create filing: %w", err)
	}
	return created, nil
}

func parseOptionalTime(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
