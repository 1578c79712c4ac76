package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sf1tzp/symbology/ent"
	"github.com/sf1tzp/symbology/ent/document"
	"github.com/sf1tzp/symbology/pkg/artifacts"
)

// GenerateParams are the inputs a Generator needs to produce one
// content-generation call — the same shape as the CONTENT_GENERATION job's
// params (spec.md §6), passed in-process rather than through the queue.
type GenerateParams struct {
	SystemPromptHash     string
	ModelConfigHash      string
	SourceDocumentHashes []string
	SourceContentHashes  []string
	CompanyID            string
	CompanyGroupID       string
	CompanyTicker        string
	Description          string
	DocumentType         string
	FormType             string
	ContentStage         string
}

// GenerateResult is what a Generator call returns on success.
type GenerateResult struct {
	ContentID   string
	ContentHash string
	WasCreated  bool
}

// Generator invokes the content-generation handler's core logic. Stage
// functions depend on this rather than pkg/handlers directly, to avoid a
// package import cycle (pkg/handlers orchestrates pipeline stages, so
// pipeline cannot import handlers back). pkg/handlers supplies the
// concrete implementation.
type Generator func(ctx context.Context, params GenerateParams) (GenerateResult, error)

// StagePrompt identifies a Prompt by both its id (used for the
// pre-check dedup lookup) and its content hash (used for the
// content-generation call itself).
type StagePrompt struct {
	ID   string
	Hash string
}

// StageModelConfig identifies a ModelConfig by both its id and content
// hash, symmetric to StagePrompt.
type StageModelConfig struct {
	ID   string
	Hash string
}

// SingleSummaryParams are the inputs to Stage A.
type SingleSummaryParams struct {
	CompanyID    string
	Ticker       string
	Form         string
	DocumentType string
	Filings      []*ent.Filing // each must have Edges.Documents populated
	Prompt       StagePrompt
	ModelConfig  StageModelConfig
	Force        bool
}

// GenerateSingleSummaries is Stage A (spec.md §4.5): for each filing,
// locate its document of the target type and either reuse an existing
// single summary or invoke the generator. Failures of individual documents
// do not abort the stage. Mirrors
// original_source/server/symbology/worker/pipeline.py's
// generate_single_summaries.
func GenerateSingleSummaries(ctx context.Context, gc *artifacts.GeneratedContentStore, generate Generator, p SingleSummaryParams) (hashes []string, newCount, reusedCount, failedCount int) {
	for _, f := range p.Filings {
		var doc *ent.Document
		for _, d := range f.Edges.Documents {
			if string(d.DocumentType) == p.DocumentType {
				doc = d
				break
			}
		}
		if doc == nil || doc.ContentHash == "" {
			continue
		}

		if !p.Force {
			existing, err := gc.FindExistingForDocument(ctx, doc.ID, p.Prompt.ID, p.ModelConfig.ID)
			if err != nil {
				slog.Error("pipeline stage A dedup lookup failed", "document_id", doc.ID, "error", err)
			} else if existing != nil {
				hashes = append(hashes, existing.ContentHash)
				reusedCount++
				continue
			}
		}

		result, err := generate(ctx, GenerateParams{
			SystemPromptHash:     p.Prompt.Hash,
			ModelConfigHash:      p.ModelConfig.Hash,
			SourceDocumentHashes: []string{doc.ContentHash},
			CompanyID:            p.CompanyID,
			CompanyTicker:        p.Ticker,
			Description:          fmt.Sprintf("%s_single_summary", p.DocumentType),
			DocumentType:         p.DocumentType,
			FormType:             p.Form,
			ContentStage:         "single_summary",
		})
		if err != nil {
			failedCount++
			slog.Error("pipeline stage A generation failed", "filing_id", f.ID, "document_type", p.DocumentType, "error", err)
			continue
		}
		hashes = append(hashes, result.ContentHash)
		newCount++
	}
	return hashes, newCount, reusedCount, failedCount
}

// AggregateParams are the inputs to Stage B.
type AggregateParams struct {
	CompanyID           string
	Ticker              string
	Form                string
	DocumentType        string
	SingleSummaryHashes []string
	// NewCount is Stage A's new_count for this document type. When it is
	// zero and Force is false, the aggregate already exists deterministically
	// (spec.md §4.5) and Stage B is skipped rather than re-invoked.
	NewCount    int
	Force       bool
	Prompt      StagePrompt
	ModelConfig StageModelConfig
}

// GenerateAggregateSummary is Stage B (spec.md §4.5): synthesize the single
// summaries from Stage A into one aggregate. Skipped (ok=false, no error)
// if there are no single summaries to aggregate, or if Stage A's new_count
// is zero and Force is false.
func GenerateAggregateSummary(ctx context.Context, generate Generator, p AggregateParams) (hash string, ok bool, err error) {
	if len(p.SingleSummaryHashes) == 0 {
		return "", false, nil
	}
	if p.NewCount == 0 && !p.Force {
		return "", false, nil
	}
	result, err := generate(ctx, GenerateParams{
		SystemPromptHash:    p.Prompt.Hash,
		ModelConfigHash:     p.ModelConfig.Hash,
		SourceContentHashes: p.SingleSummaryHashes,
		CompanyID:           p.CompanyID,
		CompanyTicker:       p.Ticker,
		Description:         fmt.Sprintf("%s_aggregate_summary", p.DocumentType),
		DocumentType:        p.DocumentType,
		FormType:            p.Form,
		ContentStage:        "aggregate_summary",
	})
	if err != nil {
		return "", false, fmt.Errorf("generate aggregate summary: %w", err)
	}
	return result.ContentHash, true, nil
}

// FrontpageParams are the inputs to Stage C.
type FrontpageParams struct {
	CompanyID     string
	Ticker        string
	Form          string
	DocumentType  string
	AggregateHash string
	Prompt        StagePrompt
	ModelConfig   StageModelConfig
}

// GenerateFrontpageSummary is Stage C (spec.md §4.5): condense the
// aggregate summary into a one-line frontpage summary.
func GenerateFrontpageSummary(ctx context.Context, generate Generator, p FrontpageParams) (hash string, ok bool, err error) {
	result, err := generate(ctx, GenerateParams{
		SystemPromptHash:    p.Prompt.Hash,
		ModelConfigHash:     p.ModelConfig.Hash,
		SourceContentHashes: []string{p.AggregateHash},
		CompanyID:           p.CompanyID,
		CompanyTicker:       p.Ticker,
		Description:         fmt.Sprintf("%s_frontpage_summary", p.DocumentType),
		DocumentType:        p.DocumentType,
		FormType:            p.Form,
		ContentStage:        "frontpage_summary",
	})
	if err != nil {
		return "", false, fmt.Errorf("generate frontpage summary: %w", err)
	}
	return result.ContentHash, true, nil
}

// GroupAnalysisParams are the inputs to the cross-company analysis step.
type GroupAnalysisParams struct {
	CompanyGroupID      string
	SingleSummaryHashes []string // aggregate summaries gathered across the group's tickers
	Prompt              StagePrompt
	ModelConfig         StageModelConfig
}

// GenerateGroupAnalysis synthesizes the aggregate summaries of every
// company in a group into one cross-company analysis (spec.md §4.5).
// Warns, via the result's Warning passthrough, when the combined source
// length exceeds LargeGroupInputThreshold.
func GenerateGroupAnalysis(ctx context.Context, generate Generator, p GroupAnalysisParams) (hash string, ok bool, err error) {
	if len(p.SingleSummaryHashes) == 0 {
		return "", false, nil
	}
	result, err := generate(ctx, GenerateParams{
		SystemPromptHash:    p.Prompt.Hash,
		ModelConfigHash:     p.ModelConfig.Hash,
		SourceContentHashes: p.SingleSummaryHashes,
		CompanyGroupID:      p.CompanyGroupID,
		Description:         "company_group_analysis",
		ContentStage:        "company_group_analysis",
	})
	if err != nil {
		return "", false, fmt.Errorf("generate group analysis: %w", err)
	}
	return result.ContentHash, true, nil
}

// GroupFrontpageParams are the inputs to the cross-company frontpage step.
type GroupFrontpageParams struct {
	CompanyGroupID string
	AnalysisHash   string
	Prompt         StagePrompt
	ModelConfig    StageModelConfig
}

// GenerateGroupFrontpageSummary condenses a company-group analysis into a
// one-line frontpage summary, chained optionally at the end of
// COMPANY_GROUP_PIPELINE.
func GenerateGroupFrontpageSummary(ctx context.Context, generate Generator, p GroupFrontpageParams) (hash string, ok bool, err error) {
	result, err := generate(ctx, GenerateParams{
		SystemPromptHash:    p.Prompt.Hash,
		ModelConfigHash:     p.ModelConfig.Hash,
		SourceContentHashes: []string{p.AnalysisHash},
		CompanyGroupID:      p.CompanyGroupID,
		Description:         "company_group_frontpage",
		ContentStage:        "company_group_frontpage",
	})
	if err != nil {
		return "", false, fmt.Errorf("generate group frontpage summary: %w", err)
	}
	return result.ContentHash, true, nil
}

// documentTypeIsKnown guards against a caller-supplied document_type not in
// the enum closed set (spec.md §3), used by the FULL_PIPELINE handler before
// it looks up a per-document-type prompt.
func documentTypeIsKnown(docType string) bool {
	switch document.DocumentType(docType) {
	case document.DocumentTypeManagementDiscussion,
		document.DocumentTypeRiskFactors,
		document.DocumentTypeBusinessDescription,
		document.DocumentTypeControlsProcedures,
		document.DocumentTypeLegalProceedings,
		document.DocumentTypeMarketRisk,
		document.DocumentTypeExecutiveCompensation,
		document.DocumentTypeDirectorsOfficers:
		return true
	default:
		return false
	}
}

// DocumentTypeIsKnown exports documentTypeIsKnown for callers in other
// packages (pkg/handlers validates document_types params with it).
func DocumentTypeIsKnown(docType string) bool {
	return documentTypeIsKnown(docType)
}
