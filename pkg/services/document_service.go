package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/sf1tzp/symbology/ent"
	"github.com/sf1tzp/symbology/ent/document"
	"github.com/sf1tzp/symbology/pkg/artifacts"
	"github.com/sf1tzp/symbology/pkg/ingestion"
)

// DocumentService manages Document upsert and lookup. Content is stored and
// loaded eagerly: Get and the List methods all return rows with content
// populated; nothing loads it lazily. content_hash is always computed at
// write time.
type DocumentService struct {
	client *ent.Client
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(client *ent.Client) *DocumentService {
	return &DocumentService{client: client}
}

// Get resolves a document by id, including its content.
func (s *DocumentService) Get(ctx context.Context, id string) (*ent.Document, error) {
	d, err := s.client.Document.Get(ctx, id)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	return d, nil
}

// ListByFiling returns every document belonging to a filing.
func (s *DocumentService) ListByFiling(ctx context.Context, filingID string) ([]*ent.Document, error) {
	return s.client.Document.Query().Where(document.FilingIDEQ(filingID)).All(ctx)
}

// ListByCompany returns documents for a company, optionally filtered by
// document_type.
func (s *DocumentService) ListByCompany(ctx context.Context, companyID, docType string, limit int) ([]*ent.Document, error) {
	q := s.client.Document.Query().Where(document.CompanyIDEQ(companyID))
	if docType != "" {
		q = q.Where(document.DocumentTypeEQ(document.DocumentType(docType)))
	}
	q = q.Order(ent.Desc(document.FieldCreatedAt))
	if limit > 0 {
		q = q.Limit(limit)
	}
	return q.All(ctx)
}

// ByHashPrefix resolves a document by a (possibly partial) content_hash
// prefix, rejecting ambiguous matches per spec.md §9's recommended
// behavior.
func (s *DocumentService) ByHashPrefix(ctx context.Context, prefix string) (*ent.Document, error) {
	matches, err := s.client.Document.Query().
		Where(document.ContentHashHasPrefix(prefix)).
		Limit(2).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("document by hash prefix: %w", err)
	}
	switch len(matches) {
	case 0:
		return nil, ErrNotFound
	case 1:
		return matches[0], nil
	default:
		return nil, ErrAmbiguousHash
	}
}

// Upsert inserts or updates a Document for a filing, keyed on
// (filing_id, document_type) — a filing has at most one document of each
// type. content_hash is recomputed from content on every write.
func (s *DocumentService) Upsert(ctx context.Context, companyID, filingID string, info ingestion.DocumentInfo) (*ent.Document, error) {
	if info.DocumentType == "" {
		return nil, NewValidationError("document_type", "required")
	}

	hash := artifacts.HashContent(info.Content)

	existing, err := s.client.Document.Query().
		Where(
			document.FilingIDEQ(filingID),
			document.DocumentTypeEQ(document.DocumentType(info.DocumentType)),
		).
		Only(ctx)
	if err != nil && !ent.IsNotFound(err) {
		return nil, fmt.Errorf("upsert document: lookup: %w", err)
	}

	if existing != nil {
		update := existing.Update().
			SetContent(info.Content).
			SetContentHash(hash)
		if info.Title != "" {
			update = update.SetTitle(info.Title)
		}
		updated, err := update.Save(ctx)
		if err != nil {
			return nil, fmt.Errorf("update document: %w", err)
		}
		return updated, nil
	}

	create := s.client.Document.Create().
		SetID(uuid.New().String()).
		SetFilingID(filingID).
		SetCompanyID(companyID).
		SetDocumentType(document.DocumentType(info.DocumentType)).
		SetContent(info.Content).
		SetContentHash(hash)
	if info.Title != "" {
		create = create.SetTitle(info.Title)
	}

	created, err := create.Save(ctx)
	if err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}
	return created, nil
}
