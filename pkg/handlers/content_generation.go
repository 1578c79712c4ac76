package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/sf1tzp/symbology/ent/generatedcontent"
	"github.com/sf1tzp/symbology/pkg/artifacts"
	"github.com/sf1tzp/symbology/pkg/llmclient"
	"github.com/sf1tzp/symbology/pkg/pipeline"
)

// sourceSeparator joins multiple source texts into one user prompt body.
const sourceSeparator = "\n\n---\n\n"

// GenerateContent is the content-generation core: resolve the prompt,
// model config, and source set by hash, invoke the completer, and
// insert-or-fetch the resulting GeneratedContent. It satisfies
// pipeline.Generator so pipeline's stage functions can call it directly
// in-process, and ContentGeneration below adapts it to the CONTENT_GENERATION
// job handler contract. Mirrors
// original_source/server/symbology/worker/handlers.py's
// handle_content_generation.
func (d *Deps) GenerateContent(ctx context.Context, p pipeline.GenerateParams) (pipeline.GenerateResult, error) {
	prompt, err := d.Prompts.ByHash(ctx, p.SystemPromptHash)
	if err != nil {
		return pipeline.GenerateResult{}, fmt.Errorf("generate content: resolve prompt: %w", err)
	}
	modelConfig, err := d.ModelConfigs.ByIDOrHash(ctx, p.ModelConfigHash)
	if err != nil {
		return pipeline.GenerateResult{}, fmt.Errorf("generate content: resolve model config: %w", err)
	}

	companyID := p.CompanyID
	if companyID == "" && p.CompanyTicker != "" {
		company, err := d.Companies.GetByTicker(ctx, p.CompanyTicker)
		if err != nil {
			return pipeline.GenerateResult{}, fmt.Errorf("generate content: resolve company_ticker: %w", err)
		}
		companyID = company.ID
	}

	var sourceDocIDs, sourceContentIDs, sourceTexts []string

	if len(p.SourceDocumentHashes) > 0 {
		docs, err := artifacts.ResolveSourceDocuments(ctx, d.Client, p.SourceDocumentHashes)
		if err != nil {
			return pipeline.GenerateResult{}, fmt.Errorf("generate content: %w", err)
		}
		for _, doc := range docs {
			sourceDocIDs = append(sourceDocIDs, doc.ID)
			sourceTexts = append(sourceTexts, doc.Content)
		}
	}
	if len(p.SourceContentHashes) > 0 {
		rows, err := artifacts.ResolveSourceContent(ctx, d.Client, p.SourceContentHashes)
		if err != nil {
			return pipeline.GenerateResult{}, fmt.Errorf("generate content: %w", err)
		}
		for _, row := range rows {
			sourceContentIDs = append(sourceContentIDs, row.ID)
			if row.Summary != nil && *row.Summary != "" {
				sourceTexts = append(sourceTexts, *row.Summary)
			} else {
				sourceTexts = append(sourceTexts, row.Content)
			}
		}
	}

	userContent := strings.Join(sourceTexts, sourceSeparator)

	opts := llmclient.ModelOptions{
		Model:       modelConfig.Model,
		MaxTokens:   getInt(modelConfig.Options, "max_tokens", 2048),
		Temperature: getFloat(modelConfig.Options, "temperature", 0.2),
	}

	resp, err := d.Completer.Chat(ctx, prompt.Content, userContent, opts)
	if err != nil {
		return pipeline.GenerateResult{}, fmt.Errorf("generate content: chat completion: %w", err)
	}

	warning := resp.Warning
	if p.ContentStage == "company_group_analysis" && len(userContent) > pipeline.LargeGroupInputThreshold {
		sizeWarning := fmt.Sprintf("combined source length %d exceeds %d char threshold", len(userContent), pipeline.LargeGroupInputThreshold)
		if warning == "" {
			warning = sizeWarning
		} else {
			warning = warning + "; " + sizeWarning
		}
	}

	created, wasCreated, err := d.GeneratedContent.Create(ctx, artifacts.CreateParams{
		Content:              resp.Text,
		CompanyID:            companyID,
		CompanyGroupID:       p.CompanyGroupID,
		DocumentType:         p.DocumentType,
		FormType:             p.FormType,
		Description:          p.Description,
		ContentStage:         generatedcontent.ContentStage(p.ContentStage),
		SystemPromptID:       prompt.ID,
		ModelConfigID:        modelConfig.ID,
		SourceDocumentIDs:    sourceDocIDs,
		SourceContentIDs:     sourceContentIDs,
		TotalDurationSeconds: resp.TotalDurationSeconds,
		InputTokens:          resp.InputTokens,
		OutputTokens:         resp.OutputTokens,
		Warning:              warning,
	})
	if err != nil {
		return pipeline.GenerateResult{}, fmt.Errorf("generate content: %w", err)
	}

	return pipeline.GenerateResult{
		ContentID:   created.ID,
		ContentHash: created.ContentHash,
		WasCreated:  wasCreated,
	}, nil
}

// ContentGeneration is the CONTENT_GENERATION job handler (spec.md §6): a
// thin adapter unmarshaling the job's params map and delegating to
// GenerateContent. Every other handler that composes pipeline stages calls
// GenerateContent directly in-process instead of enqueuing a job for each
// LLM call (see DESIGN.md's Open Question decision).
func (d *Deps) ContentGeneration(ctx context.Context, params map[string]any) (map[string]any, error) {
	result, err := d.GenerateContent(ctx, pipeline.GenerateParams{
		SystemPromptHash:     getString(params, "system_prompt_hash"),
		ModelConfigHash:      getString(params, "model_config_hash"),
		SourceDocumentHashes: getStringSlice(params, "source_document_hashes"),
		SourceContentHashes:  getStringSlice(params, "source_content_hashes"),
		CompanyTicker:        getString(params, "company_ticker"),
		DocumentType:         getString(params, "document_type"),
		FormType:             getString(params, "form_type"),
		Description:          getString(params, "description"),
		ContentStage:         getString(params, "content_stage"),
	})
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"content_id":   result.ContentID,
		"content_hash": result.ContentHash,
		"was_created":  result.WasCreated,
	}, nil
}
