package handlers

import (
	"context"
	"fmt"

	"github.com/sf1tzp/symbology/pkg/pipeline"
)

// IngestPipeline is the INGEST_PIPELINE job handler: the ingestion half of
// FULL_PIPELINE split out on its own, for callers who only want fresh data
// without triggering content generation. Ingests the company plus its
// recent filings and their financial values (and, unless
// include_documents is false, their documents) for every requested form.
func (d *Deps) IngestPipeline(ctx context.Context, params map[string]any) (map[string]any, error) {
	ticker := getString(params, "ticker")
	if ticker == "" {
		return nil, fmt.Errorf("ingest pipeline: ticker is required")
	}
	forms := getStringSlice(params, "forms")
	if len(forms) == 0 {
		forms = []string{"10-K", "10-Q"}
	}
	includeDocuments := true
	if _, ok := params["include_documents"]; ok {
		includeDocuments = getBool(params, "include_documents")
	}

	if _, err := d.CompanyIngestion(ctx, map[string]any{"ticker": ticker}); err != nil {
		return nil, fmt.Errorf("ingest pipeline: company ingestion: %w", err)
	}

	filingResults := make(map[string]any, len(forms))
	for _, form := range forms {
		count := pipeline.DefaultFilingCounts[form]
		if count == 0 {
			count = 1
		}
		if override := getInt(params, "count", 0); override > 0 {
			count = override
		}
		result, err := d.FilingIngestion(ctx, map[string]any{
			"ticker":            ticker,
			"form":              form,
			"count":             count,
			"include_documents": includeDocuments,
		})
		if err != nil {
			return nil, fmt.Errorf("ingest pipeline: filing ingestion %s: %w", form, err)
		}
		filingResults[form] = result
	}

	return map[string]any{
		"ticker": ticker,
		"forms":  filingResults,
	}, nil
}
