package handlers

import (
	"context"
	"fmt"
)

// CompanyIngestion is the COMPANY_INGESTION job handler: resolves a
// ticker's metadata from the configured ingestion.Source and upserts it.
func (d *Deps) CompanyIngestion(ctx context.Context, params map[string]any) (map[string]any, error) {
	ticker := getString(params, "ticker")
	if ticker == "" {
		return nil, fmt.Errorf("company ingestion: ticker is required")
	}

	info, err := d.Source.FetchCompany(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("company ingestion: fetch company: %w", err)
	}

	company, err := d.Companies.Upsert(ctx, info)
	if err != nil {
		return nil, fmt.Errorf("company ingestion: upsert: %w", err)
	}

	return map[string]any{
		"company_id": company.ID,
		"ticker":     company.Ticker,
	}, nil
}
