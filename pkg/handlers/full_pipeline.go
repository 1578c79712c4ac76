package handlers

import (
	"context"
	"fmt"

	"github.com/sf1tzp/symbology/ent"
	"github.com/sf1tzp/symbology/ent/filing"
	"github.com/sf1tzp/symbology/ent/pipelinerun"
	"github.com/sf1tzp/symbology/pkg/pipeline"
	"github.com/sf1tzp/symbology/pkg/services"
)

// FullPipeline is the FULL_PIPELINE job handler, the top-level orchestrator
// (spec.md §4.5, §6): runs INGEST_PIPELINE for the ticker and forms,
// creates a pipeline-run ledger row, then for every requested form and
// document type (the optional document_types param, else the form's
// defaults) runs Stage A/B/C, tallying units attempted/completed/failed,
// and always flushes final counters on the ledger row even when a fatal
// error aborts the run partway. Mirrors
// original_source/server/symbology/worker/handlers.py's
// handle_full_pipeline.
func (d *Deps) FullPipeline(ctx context.Context, params map[string]any) (map[string]any, error) {
	ticker := getString(params, "ticker")
	if ticker == "" {
		return nil, fmt.Errorf("full pipeline: ticker is required")
	}
	forms := getStringSlice(params, "forms")
	if len(forms) == 0 {
		forms = []string{"10-K", "10-Q"}
	}
	force := getBool(params, "force")
	docTypesParam := getStringSlice(params, "document_types")
	for _, dt := range docTypesParam {
		if !pipeline.DocumentTypeIsKnown(dt) {
			return nil, fmt.Errorf("full pipeline: unknown document_type %q", dt)
		}
	}

	if _, err := d.IngestPipeline(ctx, map[string]any{"ticker": ticker, "forms": forms}); err != nil {
		return nil, fmt.Errorf("full pipeline: ingest: %w", err)
	}

	company, err := d.Companies.GetByTicker(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("full pipeline: resolve company: %w", err)
	}

	run, err := d.PipelineRuns.Create(ctx, services.CreateRunParams{
		CompanyID: company.ID,
		Forms:     forms,
		Trigger:   pipelinerun.TriggerManual,
	})
	if err != nil {
		return nil, fmt.Errorf("full pipeline: create run: %w", err)
	}
	if _, err := d.PipelineRuns.Start(ctx, run.ID); err != nil {
		return nil, fmt.Errorf("full pipeline: start run: %w", err)
	}

	jobsCreated, jobsCompleted, jobsFailed := 0, 0, 0
	results := make(map[string]any)

	fail := func(cause error) (map[string]any, error) {
		if _, runErr := d.PipelineRuns.Fail(ctx, run.ID, cause.Error(), jobsCreated, jobsCompleted, jobsFailed); runErr != nil {
			return nil, fmt.Errorf("full pipeline: %w (and failed to flush run: %v)", cause, runErr)
		}
		return nil, fmt.Errorf("full pipeline: %w", cause)
	}

	for _, form := range forms {
		docTypes, ok := pipeline.FormDocumentTypes[form]
		if !ok {
			return fail(fmt.Errorf("unknown form %q", form))
		}
		if len(docTypesParam) > 0 {
			docTypes = docTypesParam
		}

		count := pipeline.DefaultFilingCounts[form]
		filings, err := d.Client.Filing.Query().
			Where(filing.CompanyIDEQ(company.ID), filing.FormEQ(form)).
			WithDocuments().
			Order(ent.Desc(filing.FieldFilingDate)).
			Limit(count).
			All(ctx)
		if err != nil {
			return fail(fmt.Errorf("list filings for %s: %w", form, err))
		}

		for _, docType := range docTypes {
			singlePrompt, err := pipeline.EnsurePrompt(ctx, d.Prompts, d.PromptsDir, docType)
			if err != nil {
				return fail(fmt.Errorf("ensure prompt %s: %w", docType, err))
			}
			singleModel, err := pipeline.EnsureModelConfig(ctx, d.ModelConfigs, "single_summary", 0)
			if err != nil {
				return fail(fmt.Errorf("ensure model config single_summary: %w", err))
			}

			hashes, newCount, reusedCount, failedCount := pipeline.GenerateSingleSummaries(ctx, d.GeneratedContent, d.GenerateContent, pipeline.SingleSummaryParams{
				CompanyID:    company.ID,
				Ticker:       ticker,
				Form:         form,
				DocumentType: docType,
				Filings:      filings,
				Prompt:       pipeline.StagePrompt{ID: singlePrompt.ID, Hash: singlePrompt.ContentHash},
				ModelConfig:  pipeline.StageModelConfig{ID: singleModel.ID, Hash: singleModel.ContentHash},
				Force:        force,
			})
			jobsCreated += newCount + reusedCount + failedCount
			jobsCompleted += newCount + reusedCount
			jobsFailed += failedCount

			key := fmt.Sprintf("%s/%s", form, docType)
			entry := map[string]any{"new": newCount, "reused": reusedCount, "failed": failedCount}

			if len(hashes) == 0 {
				results[key] = entry
				continue
			}

			if newCount == 0 && !force {
				// Stage A reused every single summary, so the aggregate
				// already exists deterministically (spec.md §4.5); skip
				// Stage B/C rather than re-invoking them.
				results[key] = entry
				continue
			}

			aggPrompt, err := pipeline.EnsurePrompt(ctx, d.Prompts, d.PromptsDir, pipeline.PromptNames["aggregate_summary"])
			if err != nil {
				return fail(fmt.Errorf("ensure prompt aggregate_summary: %w", err))
			}
			aggModel, err := pipeline.EnsureModelConfig(ctx, d.ModelConfigs, "aggregate_summary", 0)
			if err != nil {
				return fail(fmt.Errorf("ensure model config aggregate_summary: %w", err))
			}

			jobsCreated++
			aggHash, ok, err := pipeline.GenerateAggregateSummary(ctx, d.GenerateContent, pipeline.AggregateParams{
				CompanyID:           company.ID,
				Ticker:              ticker,
				Form:                form,
				DocumentType:        docType,
				SingleSummaryHashes: hashes,
				NewCount:            newCount,
				Force:               force,
				Prompt:              pipeline.StagePrompt{ID: aggPrompt.ID, Hash: aggPrompt.ContentHash},
				ModelConfig:         pipeline.StageModelConfig{ID: aggModel.ID, Hash: aggModel.ContentHash},
			})
			if err != nil {
				jobsFailed++
				entry["aggregate_error"] = err.Error()
				results[key] = entry
				continue
			}
			jobsCompleted++
			entry["aggregate_hash"] = aggHash

			if ok {
				fpPrompt, err := pipeline.EnsurePrompt(ctx, d.Prompts, d.PromptsDir, pipeline.PromptNames["frontpage_summary"])
				if err != nil {
					return fail(fmt.Errorf("ensure prompt frontpage_summary: %w", err))
				}
				fpModel, err := pipeline.EnsureModelConfig(ctx, d.ModelConfigs, "frontpage_summary", 0)
				if err != nil {
					return fail(fmt.Errorf("ensure model config frontpage_summary: %w", err))
				}

				jobsCreated++
				fpHash, _, err := pipeline.GenerateFrontpageSummary(ctx, d.GenerateContent, pipeline.FrontpageParams{
					CompanyID:     company.ID,
					Ticker:        ticker,
					Form:          form,
					DocumentType:  docType,
					AggregateHash: aggHash,
					Prompt:        pipeline.StagePrompt{ID: fpPrompt.ID, Hash: fpPrompt.ContentHash},
					ModelConfig:   pipeline.StageModelConfig{ID: fpModel.ID, Hash: fpModel.ContentHash},
				})
				if err != nil {
					jobsFailed++
					entry["frontpage_error"] = err.Error()
				} else {
					jobsCompleted++
					entry["frontpage_hash"] = fpHash
				}
			}

			results[key] = entry
		}
	}

	if _, err := d.PipelineRuns.Complete(ctx, run.ID, jobsCreated, jobsCompleted, jobsFailed); err != nil {
		return nil, fmt.Errorf("full pipeline: complete run: %w", err)
	}

	return map[string]any{
		"pipeline_run_id": run.ID,
		"jobs_created":    jobsCreated,
		"jobs_completed":  jobsCompleted,
		"jobs_failed":     jobsFailed,
		"results":         results,
	}, nil
}
