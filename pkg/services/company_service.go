package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/sf1tzp/symbology/ent"
	"github.com/sf1tzp/symbology/ent/company"
	"github.com/sf1tzp/symbology/pkg/ingestion"
)

// CompanyService manages Company upsert and lookup.
type CompanyService struct {
	client *ent.Client
}

// NewCompanyService creates a new CompanyService.
func NewCompanyService(client *ent.Client) *CompanyService {
	return &CompanyService{client: client}
}

// GetByTicker resolves a company by its (case-insensitive) ticker.
func (s *CompanyService) GetByTicker(ctx context.Context, ticker string) (*ent.Company, error) {
	c, err := s.client.Company.Query().
		Where(company.TickerEQ(strings.ToUpper(ticker))).
		Only(ctx)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get company by ticker: %w", err)
	}
	return c, nil
}

// Get resolves a company by id.
func (s *CompanyService) Get(ctx context.Context, id string) (*ent.Company, error) {
	c, err := s.client.Company.Get(ctx, id)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return c, nil
}

// List returns every company, ordered by ticker.
func (s *CompanyService) List(ctx context.Context) ([]*ent.Company, error) {
	return s.client.Company.Query().Order(ent.Asc(company.FieldTicker)).All(ctx)
}

// Upsert creates or updates a Company from ingestion-sourced metadata,
// keyed on ticker (uppercased per spec.md §3). Used by the COMPANY_INGESTION
// handler.
func (s *CompanyService) Upsert(ctx context.Context, info ingestion.CompanyInfo) (*ent.Company, error) {
	ticker := strings.ToUpper(info.Ticker)
	if ticker == "" {
		return nil, NewValidationError("ticker", "required")
	}

	existing, err := s.GetByTicker(ctx, ticker)
	if err != nil && err != ErrNotFound {
		return nil, err
	}

	if existing != nil {
		update := existing.Update().
			SetName(info.Name).
			SetExchanges(info.Exchanges)
		if info.IndustryCode != "" {
			update = update.SetIndustryCode(info.IndustryCode)
		}
		if info.FiscalYearEnd != "" {
			update = update.SetFiscalYearEnd(info.FiscalYearEnd)
		}
		updated, err := update.Save(ctx)
		if err != nil {
			return nil, fmt.Errorf("update company: %w", err)
		}
		return updated, nil
	}

	create := s.client.Company.Create().
		SetID(uuid.New().String()).
		SetTicker(ticker).
		SetName(info.Name).
		SetExchanges(info.Exchanges)
	if info.IndustryCode != "" {
		create = create.SetIndustryCode(info.IndustryCode)
	}
	if info.FiscalYearEnd != "" {
		create = create.SetFiscalYearEnd(info.FiscalYearEnd)
	}

	created, err := create.Save(ctx)
	if err != nil {
		if ent.IsConstraintError(err) {
			return s.GetByTicker(ctx, ticker)
		}
		return nil, fmt.Errorf("create company: %w", err)
	}
	return created, nil
}
