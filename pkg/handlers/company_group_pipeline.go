package handlers

import (
	"context"
	"fmt"

	"github.com/sf1tzp/symbology/ent"
	"github.com/sf1tzp/symbology/pkg/pipeline"
	"github.com/sf1tzp/symbology/pkg/services"
)

// CompanyGroupPipeline is the COMPANY_GROUP_PIPELINE job handler: gathers
// up to max_per_ticker (default 3) of each member ticker's most recent
// aggregate summaries, synthesizes a
// cross-company analysis, and chains an optional frontpage condensation.
// Mirrors original_source/server/symbology/worker/handlers.py's
// handle_company_group_pipeline.
func (d *Deps) CompanyGroupPipeline(ctx context.Context, params map[string]any) (map[string]any, error) {
	tickers := getStringSlice(params, "tickers")
	if len(tickers) == 0 {
		return nil, fmt.Errorf("company group pipeline: tickers is required")
	}
	slug := getString(params, "group_slug")
	maxPerTicker := getInt(params, "max_per_ticker", 3)

	var group *ent.CompanyGroup
	if slug != "" {
		var err error
		group, err = d.CompanyGroups.GetBySlug(ctx, slug)
		if err != nil {
			if err != services.ErrNotFound {
				return nil, fmt.Errorf("company group pipeline: resolve group: %w", err)
			}
			group, err = d.CompanyGroups.Create(ctx, slug, slug, "")
			if err != nil {
				return nil, fmt.Errorf("company group pipeline: create group: %w", err)
			}
		}
	}

	var sourceHashes []string
	missingTickers := make([]string, 0)
	for _, ticker := range tickers {
		company, err := d.Companies.GetByTicker(ctx, ticker)
		if err != nil {
			missingTickers = append(missingTickers, ticker)
			continue
		}
		summaries, err := d.GeneratedContent.AggregateSummariesByTicker(ctx, company.ID, maxPerTicker)
		if err != nil {
			return nil, fmt.Errorf("company group pipeline: gather aggregate summary for %s: %w", ticker, err)
		}
		if len(summaries) == 0 {
			missingTickers = append(missingTickers, ticker)
			continue
		}
		for _, s := range summaries {
			sourceHashes = append(sourceHashes, s.ContentHash)
		}
	}

	if len(sourceHashes) == 0 {
		return nil, fmt.Errorf("company group pipeline: no aggregate summaries available for any of %v", tickers)
	}

	analysisPrompt, err := pipeline.EnsurePrompt(ctx, d.Prompts, d.PromptsDir, pipeline.PromptNames["company_group_analysis"])
	if err != nil {
		return nil, fmt.Errorf("company group pipeline: ensure prompt: %w", err)
	}
	analysisModel, err := pipeline.EnsureModelConfig(ctx, d.ModelConfigs, "company_group_analysis", 0)
	if err != nil {
		return nil, fmt.Errorf("company group pipeline: ensure model config: %w", err)
	}

	groupID := ""
	if group != nil {
		groupID = group.ID
	}

	jobsCreated, jobsCompleted, jobsFailed := 1, 0, 0
	analysisHash, ok, err := pipeline.GenerateGroupAnalysis(ctx, d.GenerateContent, pipeline.GroupAnalysisParams{
		CompanyGroupID:      groupID,
		SingleSummaryHashes: sourceHashes,
		Prompt:              pipeline.StagePrompt{ID: analysisPrompt.ID, Hash: analysisPrompt.ContentHash},
		ModelConfig:         pipeline.StageModelConfig{ID: analysisModel.ID, Hash: analysisModel.ContentHash},
	})
	if err != nil {
		jobsFailed++
		return map[string]any{
			"group_id":        groupID,
			"jobs_created":    jobsCreated,
			"jobs_completed":  jobsCompleted,
			"jobs_failed":     jobsFailed,
			"missing_tickers": missingTickers,
			"analysis_error":  err.Error(),
		}, nil
	}
	jobsCompleted++

	result := map[string]any{
		"group_id":        groupID,
		"analysis_hash":   analysisHash,
		"missing_tickers": missingTickers,
	}

	if ok {
		fpPrompt, err := pipeline.EnsurePrompt(ctx, d.Prompts, d.PromptsDir, pipeline.PromptNames["company_group_frontpage"])
		if err != nil {
			return nil, fmt.Errorf("company group pipeline: ensure frontpage prompt: %w", err)
		}
		fpModel, err := pipeline.EnsureModelConfig(ctx, d.ModelConfigs, "company_group_frontpage", 0)
		if err != nil {
			return nil, fmt.Errorf("company group pipeline: ensure frontpage model config: %w", err)
		}

		jobsCreated++
		fpHash, _, err := pipeline.GenerateGroupFrontpageSummary(ctx, d.GenerateContent, pipeline.GroupFrontpageParams{
			CompanyGroupID: groupID,
			AnalysisHash:   analysisHash,
			Prompt:         pipeline.StagePrompt{ID: fpPrompt.ID, Hash: fpPrompt.ContentHash},
			ModelConfig:    pipeline.StageModelConfig{ID: fpModel.ID, Hash: fpModel.ContentHash},
		})
		if err != nil {
			jobsFailed++
			result["frontpage_error"] = err.Error()
		} else {
			jobsCompleted++
			result["frontpage_hash"] = fpHash
		}
	}

	result["jobs_created"] = jobsCreated
	result["jobs_completed"] = jobsCompleted
	result["jobs_failed"] = jobsFailed
	return result, nil
}
