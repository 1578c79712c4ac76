package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/sf1tzp/symbology/ent"
	"github.com/sf1tzp/symbology/ent/companygroup"
)

// CompanyGroupService manages the supplemental CompanyGroup entity (see
// SPEC_FULL.md §4): a named, slugged collection of tickers that a
// COMPANY_GROUP_PIPELINE result attaches to.
type CompanyGroupService struct {
	client *ent.Client
}

// NewCompanyGroupService creates a new CompanyGroupService.
func NewCompanyGroupService(client *ent.Client) *CompanyGroupService {
	return &CompanyGroupService{client: client}
}

// GetBySlug resolves a CompanyGroup by its unique slug.
func (s *CompanyGroupService) GetBySlug(ctx context.Context, slug string) (*ent.CompanyGroup, error) {
	g, err := s.client.CompanyGroup.Query().Where(companygroup.SlugEQ(slug)).Only(ctx)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get company group by slug: %w", err)
	}
	return g, nil
}

// Create inserts a new CompanyGroup.
func (s *CompanyGroupService) Create(ctx context.Context, slug, name, description string) (*ent.CompanyGroup, error) {
	if slug == "" {
		return nil, NewValidationError("slug", "required")
	}
	create := s.client.CompanyGroup.Create().
		SetID(uuid.New().String()).
		SetSlug(slug).
		SetName(name)
	if description != "" {
		create = create.SetDescription(description)
	}
	g, err := create.Save(ctx)
	if err != nil {
		if ent.IsConstraintError(err) {
			return nil, ErrAlreadyExists
		}
		return nil, fmt.Errorf("create company group: %w", err)
	}
	return g, nil
}

// List returns every company group.
func (s *CompanyGroupService) List(ctx context.Context) ([]*ent.CompanyGroup, error) {
	return s.client.CompanyGroup.Query().Order(ent.Asc(companygroup.FieldSlug)).All(ctx)
}
