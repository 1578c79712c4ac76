package handlers

import (
	"context"
	"fmt"
	"log/slog"
)

// FilingIngestion is the FILING_INGESTION job handler: fetches a ticker's
// recent filings of one form, upserts them, their financial values, and
// (unless include_documents is false) their documents. Financial-value
// extraction failures are
// logged and swallowed rather than failing the job (spec.md §7): SEC
// statement data is frequently malformed or absent, and a bad value table
// should not block the text summaries the rest of the pipeline depends on.
func (d *Deps) FilingIngestion(ctx context.Context, params map[string]any) (map[string]any, error) {
	ticker := getString(params, "ticker")
	if ticker == "" {
		return nil, fmt.Errorf("filing ingestion: ticker is required")
	}
	form := getString(params, "form")
	if form == "" {
		form = "10-K"
	}
	count := getInt(params, "count", 5)
	includeDocuments := true
	if _, ok := params["include_documents"]; ok {
		includeDocuments = getBool(params, "include_documents")
	}

	company, err := d.Companies.GetByTicker(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("filing ingestion: resolve company: %w", err)
	}

	filingInfos, err := d.Source.FetchFilings(ctx, ticker, form, count)
	if err != nil {
		return nil, fmt.Errorf("filing ingestion: fetch filings: %w", err)
	}

	filingIDs := make([]string, 0, len(filingInfos))
	documentCount, financialValueCount := 0, 0

	for _, fi := range filingInfos {
		filing, err := d.Filings.Upsert(ctx, company.ID, fi)
		if err != nil {
			return nil, fmt.Errorf("filing ingestion: upsert filing %s: %w", fi.AccessionNumber, err)
		}
		filingIDs = append(filingIDs, filing.ID)

		// Financial-value extraction runs unconditionally, independent of
		// include_documents: only document-section ingestion is gated by
		// that flag, while financial data is always attempted (and its
		// failures are best-effort, per the doc comment above).
		values, err := d.Source.FetchFinancialValues(ctx, ticker, fi)
		if err != nil {
			slog.Error("filing ingestion: fetch financial values failed, continuing", "accession_number", fi.AccessionNumber, "error", err)
			values = nil
		}
		for _, v := range values {
			if _, err := d.Financials.UpsertValue(ctx, company.ID, filing.ID, v); err != nil {
				slog.Error("filing ingestion: upsert financial value failed, continuing", "accession_number", fi.AccessionNumber, "concept", v.ConceptName, "error", err)
				continue
			}
			financialValueCount++
		}

		if !includeDocuments {
			continue
		}

		docs, err := d.Source.FetchDocuments(ctx, ticker, fi)
		if err != nil {
			return nil, fmt.Errorf("filing ingestion: fetch documents for %s: %w", fi.AccessionNumber, err)
		}
		for _, docInfo := range docs {
			if _, err := d.Documents.Upsert(ctx, company.ID, filing.ID, docInfo); err != nil {
				return nil, fmt.Errorf("filing ingestion: upsert document %s/%s: %w", fi.AccessionNumber, docInfo.DocumentType, err)
			}
			documentCount++
		}
	}

	return map[string]any{
		"company_id":            company.ID,
		"filing_ids":            filingIDs,
		"document_count":        documentCount,
		"financial_value_count": financialValueCount,
	}, nil
}
