package handlers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sf1tzp/symbology/pkg/ingestion"
	"github.com/sf1tzp/symbology/pkg/services"
)

// BulkIngest is the BULK_INGEST job handler: ingests an arbitrary batch of
// filings addressed individually by accession number, used to backfill
// historical filings the form/count-based FILING_INGESTION can't target.
// Each entry is independent; one entry's failure doesn't abort the batch.
// Shares FilingIngestion's swallow-on-financial-failure policy.
func (d *Deps) BulkIngest(ctx context.Context, params map[string]any) (map[string]any, error) {
	raw, _ := params["filings"].([]any)
	if len(raw) == 0 {
		return nil, fmt.Errorf("bulk ingest: filings is required and must be non-empty")
	}
	includeDocuments := true
	if _, ok := params["include_documents"]; ok {
		includeDocuments = getBool(params, "include_documents")
	}

	results := make([]map[string]any, 0, len(raw))
	errorCount := 0

	for _, item := range raw {
		entry, ok := item.(map[string]any)
		if !ok {
			results = append(results, map[string]any{"error": "malformed filing entry"})
			errorCount++
			continue
		}

		result, err := d.bulkIngestOne(ctx, entry, includeDocuments)
		if err != nil {
			slog.Error("bulk ingest: entry failed, continuing", "accession_number", getString(entry, "accession_number"), "error", err)
			results = append(results, map[string]any{
				"accession_number": getString(entry, "accession_number"),
				"error":            err.Error(),
			})
			errorCount++
			continue
		}
		results = append(results, result)
	}

	return map[string]any{
		"results":     results,
		"error_count": errorCount,
	}, nil
}

func (d *Deps) bulkIngestOne(ctx context.Context, entry map[string]any, includeDocuments bool) (map[string]any, error) {
	ticker := getString(entry, "ticker")
	cik := getString(entry, "cik")
	companyName := getString(entry, "company_name")
	accessionNumber := getString(entry, "accession_number")
	form := getString(entry, "form")
	if ticker == "" || accessionNumber == "" {
		return nil, fmt.Errorf("ticker and accession_number are required")
	}

	company, err := d.Companies.GetByTicker(ctx, ticker)
	if err != nil {
		if err != services.ErrNotFound {
			return nil, fmt.Errorf("resolve company: %w", err)
		}
		if companyName == "" {
			return nil, fmt.Errorf("company %s not found and no company_name given to create it", ticker)
		}
		company, err = d.Companies.Upsert(ctx, ingestion.CompanyInfo{Ticker: ticker, Name: companyName})
		if err != nil {
			return nil, fmt.Errorf("create company: %w", err)
		}
	}

	fi, err := d.Source.FetchFiling(ctx, cik, accessionNumber)
	if err != nil {
		return nil, fmt.Errorf("fetch filing: %w", err)
	}
	if form != "" {
		fi.Form = form
	}

	filing, err := d.Filings.Upsert(ctx, company.ID, fi)
	if err != nil {
		return nil, fmt.Errorf("upsert filing: %w", err)
	}

	documentCount, financialValueCount := 0, 0
	if includeDocuments {
		docs, err := d.Source.FetchDocuments(ctx, ticker, fi)
		if err != nil {
			return nil, fmt.Errorf("fetch documents: %w", err)
		}
		for _, docInfo := range docs {
			if _, err := d.Documents.Upsert(ctx, company.ID, filing.ID, docInfo); err != nil {
				return nil, fmt.Errorf("upsert document %s: %w", docInfo.DocumentType, err)
			}
			documentCount++
		}

		values, err := d.Source.FetchFinancialValues(ctx, ticker, fi)
		if err != nil {
			slog.Error("bulk ingest: fetch financial values failed, continuing", "accession_number", accessionNumber, "error", err)
		} else {
			for _, v := range values {
				if _, err := d.Financials.UpsertValue(ctx, company.ID, filing.ID, v); err != nil {
					slog.Error("bulk ingest: upsert financial value failed, continuing", "accession_number", accessionNumber, "concept", v.ConceptName, "error", err)
					continue
				}
				financialValueCount++
			}
		}
	}

	return map[string]any{
		"company_id":            company.ID,
		"filing_id":             filing.ID,
		"accession_number":      accessionNumber,
		"document_count":        documentCount,
		"financial_value_count": financialValueCount,
	}, nil
}
