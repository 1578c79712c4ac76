// Package ingestion defines the IngestionSource interface the core consumes
// to obtain SEC filing data. The concrete EDGAR fetcher and section
// extractor are out of scope for this module (spec.md §1); handlers depend
// only on this interface so they can be tested against a fake.
package ingestion

import "context"

// CompanyInfo is the company metadata an IngestionSource resolves for a
// ticker.
type CompanyInfo struct {
	Ticker        string
	Name          string
	Exchanges     []string
	IndustryCode  string
	FiscalYearEnd string // MM-DD, empty if unknown
}

// FilingInfo describes a single filing as returned by the source, before
// any of its documents or financial values have been fetched.
type FilingInfo struct {
	AccessionNumber string
	Form            string
	FilingDate      string // RFC3339
	PeriodOfReport  string // RFC3339, optional
	SourceURL       string
}

// DocumentInfo is one extracted textual section of a filing.
type DocumentInfo struct {
	Title        string
	DocumentType string // one of the eight closed enum values in spec.md §3
	Content      string
}

// FinancialValueInfo is one fixed-point value extracted from a filing's
// statement tables.
type FinancialValueInfo struct {
	ConceptName        string
	ConceptDescription string
	ConceptLabels      []string
	ValueDate          string // RFC3339
	Value              string // decimal literal, parsed with moneydec.NewFromString
}

// Source yields company, filing, document, and financial-value records for
// a ticker. Concrete implementations (the EDGAR fetcher/extractor) live
// outside this module; handlers in pkg/handlers depend only on this
// interface. Errors bubble up unwrapped to the caller, which surfaces them
// through the job store's fail path.
type Source interface {
	// FetchCompany resolves a ticker to company metadata.
	FetchCompany(ctx context.Context, ticker string) (CompanyInfo, error)

	// FetchFilings returns up to count of the most recent filings of the
	// given form for a ticker, newest first.
	FetchFilings(ctx context.Context, ticker, form string, count int) ([]FilingInfo, error)

	// FetchFiling resolves a single filing by its SEC accession number,
	// used by BULK_INGEST.
	FetchFiling(ctx context.Context, cik, accessionNumber string) (FilingInfo, error)

	// FetchDocuments extracts every recognized textual section from a
	// filing. Implementations return only the document types actually
	// present; callers must not assume all eight are returned.
	FetchDocuments(ctx context.Context, ticker string, filing FilingInfo) ([]DocumentInfo, error)

	// FetchFinancialValues extracts the four statement tables (balance
	// sheet, income statement, cash flow, cover page) for a filing.
	FetchFinancialValues(ctx context.Context, ticker string, filing FilingInfo) ([]FinancialValueInfo, error)
}
