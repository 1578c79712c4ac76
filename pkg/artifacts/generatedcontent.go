package artifacts

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/sf1tzp/symbology/ent"
	"github.com/sf1tzp/symbology/ent/document"
	"github.com/sf1tzp/symbology/ent/generatedcontent"
)

// GeneratedContentStore implements the content-addressed insert-or-fetch
// contract for the central artifact (spec.md §3, §4.4). Rows are
// effectively immutable once inserted; the only permitted post-insert write
// is the optional Summary field.
type GeneratedContentStore struct {
	client *ent.Client
}

// NewGeneratedContentStore wraps an Ent client as a GeneratedContentStore.
func NewGeneratedContentStore(client *ent.Client) *GeneratedContentStore {
	return &GeneratedContentStore{client: client}
}

// ByHash resolves a GeneratedContent by its content_hash.
func (s *GeneratedContentStore) ByHash(ctx context.Context, hash string) (*ent.GeneratedContent, error) {
	gc, err := s.client.GeneratedContent.Query().
		Where(generatedcontent.ContentHashEQ(hash)).
		Only(ctx)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, fmt.Errorf("generated content: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("resolve generated content by hash: %w", err)
	}
	return gc, nil
}

// ByHashPrefix resolves a GeneratedContent by a (possibly partial)
// content_hash prefix, rejecting ambiguous matches (spec.md §9).
func (s *GeneratedContentStore) ByHashPrefix(ctx context.Context, prefix string) (*ent.GeneratedContent, error) {
	matches, err := s.client.GeneratedContent.Query().
		Where(generatedcontent.ContentHashHasPrefix(prefix)).
		Limit(2).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("generated content by hash prefix: %w", err)
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

// FindExistingForDocument is the pre-check dedup helper spec.md §4.4 and §9
// name: given a single source document and a (prompt, model) pair, return
// the GeneratedContent already produced from exactly that document, if any.
// Used by Stage A to avoid a wasted LLM call (the "primary optimization").
func (s *GeneratedContentStore) FindExistingForDocument(ctx context.Context, documentID, systemPromptID, modelConfigID string) (*ent.GeneratedContent, error) {
	candidates, err := s.client.GeneratedContent.Query().
		Where(
			generatedcontent.SystemPromptIDEQ(systemPromptID),
			generatedcontent.ModelConfigIDEQ(modelConfigID),
			generatedcontent.SourceTypeEQ(generatedcontent.SourceTypeDocuments),
		).
		WithSourceDocuments().
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("find existing content for document: %w", err)
	}
	for _, gc := range candidates {
		docs := gc.Edges.SourceDocuments
		if len(docs) == 1 && docs[0].ID == documentID {
			return gc, nil
		}
	}
	return nil, nil
}

// CreateParams are the inputs to Create: the fully-resolved content plus
// the source sets and metadata the content-generation handler gathered.
type CreateParams struct {
	Content               string
	Summary               string
	CompanyID             string
	CompanyGroupID        string
	DocumentType          string
	FormType              string
	Description           string
	ContentStage          generatedcontent.ContentStage
	SystemPromptID        string
	ModelConfigID         string
	SourceDocumentIDs     []string
	SourceContentIDs      []string
	TotalDurationSeconds  float64
	InputTokens           int
	OutputTokens          int
	Warning               string
}

// Create performs the insert-or-fetch by content_hash described in spec.md
// §4.4 step 6: if a row with HashContent(p.Content) already exists, it is
// returned with wasCreated=false; otherwise a new row is inserted with its
// source associations and wasCreated=true.
//
// Invariant I5 (non-empty sources for the declared source_type) and the
// acyclic-DAG requirement (spec.md §9) are enforced before any write.
func (s *GeneratedContentStore) Create(ctx context.Context, p CreateParams) (*ent.GeneratedContent, bool, error) {
	hash := HashContent(p.Content)

	if existing, err := s.ByHash(ctx, hash); err == nil {
		return existing, false, nil
	} else if !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}

	sourceType := generatedcontent.SourceTypeGeneratedContent
	if len(p.SourceDocumentIDs) > 0 {
		sourceType = generatedcontent.SourceTypeDocuments
	}
	if sourceType == generatedcontent.SourceTypeDocuments && len(p.SourceDocumentIDs) == 0 {
		return nil, false, ErrEmptySources
	}
	if sourceType == generatedcontent.SourceTypeGeneratedContent && len(p.SourceContentIDs) == 0 {
		return nil, false, ErrEmptySources
	}

	if err := s.checkAcyclic(ctx, p.SourceContentIDs); err != nil {
		return nil, false, err
	}

	tx, err := s.client.Tx(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("create generated content: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	create := tx.GeneratedContent.Create().
		SetID(uuid.New().String()).
		SetContent(p.Content).
		SetContentHash(hash).
		SetSystemPromptID(p.SystemPromptID).
		SetModelConfigID(p.ModelConfigID).
		SetContentStage(p.ContentStage).
		SetSourceType(sourceType).
		SetTotalDurationSeconds(p.TotalDurationSeconds).
		SetInputTokens(p.InputTokens).
		SetOutputTokens(p.OutputTokens)

	if p.Summary != "" {
		create = create.SetSummary(p.Summary)
	}
	if p.CompanyID != "" {
		create = create.SetCompanyID(p.CompanyID)
	}
	if p.CompanyGroupID != "" {
		create = create.SetCompanyGroupID(p.CompanyGroupID)
	}
	if p.DocumentType != "" {
		create = create.SetDocumentType(p.DocumentType)
	}
	if p.FormType != "" {
		create = create.SetFormType(p.FormType)
	}
	if p.Description != "" {
		create = create.SetDescription(p.Description)
	}
	if p.Warning != "" {
		create = create.SetWarning(p.Warning)
	}
	if len(p.SourceDocumentIDs) > 0 {
		create = create.AddSourceDocumentIDs(p.SourceDocumentIDs...)
	}
	if len(p.SourceContentIDs) > 0 {
		create = create.AddSourceContentIDs(p.SourceContentIDs...)
	}

	created, err := create.Save(ctx)
	if err != nil {
		if ent.IsConstraintError(err) {
			// Data-consistency case (spec.md §7): a concurrent caller won
			// the race to insert this exact content_hash. Not an error —
			// fetch and return the existing row.
			existing, findErr := s.client.GeneratedContent.Query().
				Where(generatedcontent.ContentHashEQ(hash)).Only(ctx)
			if findErr != nil {
				return nil, false, fmt.Errorf("create generated content: re-lookup after race: %w", findErr)
			}
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("create generated content: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("create generated content: commit: %w", err)
	}

	return created, true, nil
}

// checkAcyclic rejects an insert whose source_content set would close a
// cycle in the self-referential DAG. Per spec.md §9's recommended strategy,
// this is a depth-bounded traversal of each candidate source's own sources;
// since content is hashed before insert, the new row can never already
// appear as someone's source, so only forward reachability from the
// proposed sources needs checking against themselves (a genuine cycle would
// require one of them to already transitively depend on a row that doesn't
// exist yet, which is structurally impossible at insert time). In practice
// the walk returns ErrCycle only when a source chain is more than 64 levels
// deep; already-visited rows are skipped rather than reported.
func (s *GeneratedContentStore) checkAcyclic(ctx context.Context, sourceContentIDs []string) error {
	if len(sourceContentIDs) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(sourceContentIDs)*2)
	var walk func(id string, depth int) error
	walk = func(id string, depth int) error {
		if depth > 64 {
			return fmt.Errorf("%w: max depth exceeded", ErrCycle)
		}
		if seen[id] {
			return nil
		}
		seen[id] = true
		row, err := s.client.GeneratedContent.Get(ctx, id)
		if err != nil {
			if ent.IsNotFound(err) {
				return nil
			}
			return fmt.Errorf("check acyclic: %w", err)
		}
		children, err := row.QuerySourceContent().All(ctx)
		if err != nil {
			return fmt.Errorf("check acyclic: %w", err)
		}
		for _, child := range children {
			if err := walk(child.ID, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	for _, id := range sourceContentIDs {
		if err := walk(id, 0); err != nil {
			return err
		}
	}
	return nil
}

// AggregateSummariesByTicker returns the most recent aggregate_summary rows
// for a ticker, newest first, up to limit. Used by COMPANY_GROUP_PIPELINE to
// gather cross-company source content (spec.md §4.5).
func (s *GeneratedContentStore) AggregateSummariesByTicker(ctx context.Context, companyID string, limit int) ([]*ent.GeneratedContent, error) {
	q := s.client.GeneratedContent.Query().
		Where(
			generatedcontent.CompanyIDEQ(companyID),
			generatedcontent.ContentStageEQ(generatedcontent.ContentStageAggregateSummary),
		).
		Order(ent.Desc(generatedcontent.FieldCreatedAt))
	if limit > 0 {
		q = q.Limit(limit)
	}
	return q.All(ctx)
}

// ResolveSourceDocuments looks up Documents by content_hash, returning
// ErrNotFound (wrapped with the offending hash) on the first miss, per
// spec.md §4.4 step 2: "Unknown hashes -> fail with source not found".
func ResolveSourceDocuments(ctx context.Context, client *ent.Client, hashes []string) ([]*ent.Document, error) {
	docs := make([]*ent.Document, 0, len(hashes))
	for _, h := range hashes {
		doc, err := client.Document.Query().Where(document.ContentHashEQ(h)).Only(ctx)
		if err != nil {
			if ent.IsNotFound(err) {
				return nil, fmt.Errorf("source document not found: %s: %w", h, ErrNotFound)
			}
			return nil, fmt.Errorf("resolve source document %s: %w", h, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// ResolveSourceContent looks up GeneratedContent rows by content_hash, in
// the given order, failing with "source not found" on the first miss.
func ResolveSourceContent(ctx context.Context, client *ent.Client, hashes []string) ([]*ent.GeneratedContent, error) {
	rows := make([]*ent.GeneratedContent, 0, len(hashes))
	for _, h := range hashes {
		gc, err := client.GeneratedContent.Query().Where(generatedcontent.ContentHashEQ(h)).Only(ctx)
		if err != nil {
			if ent.IsNotFound(err) {
				return nil, fmt.Errorf("source content not found: %s", h)
			}
			return nil, fmt.Errorf("resolve source content %s: %w", h, err)
		}
		rows = append(rows, gc)
	}
	return rows, nil
}
