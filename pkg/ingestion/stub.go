package ingestion

import (
	"context"
	"fmt"
)

// StubSource is a deterministic Source used by tests and as the CLI's
// default when no concrete EDGAR adapter is configured. It never makes a
// network call; every method derives its result from its inputs alone, so
// repeated ingestion of the same ticker/filing is idempotent end to end.
// Mirrors llmclient.StubCompleter's role as a deterministic test double.
type StubSource struct{}

// NewStubSource returns a StubSource.
func NewStubSource() *StubSource {
	return &StubSource{}
}

// FetchCompany synthesizes company metadata from the ticker alone.
func (s *StubSource) FetchCompany(_ context.Context, ticker string) (CompanyInfo, error) {
	return CompanyInfo{
		Ticker:        ticker,
		Name:          fmt.Sprintf("%s Inc.", ticker),
		Exchanges:     []string{"NASDAQ"},
		IndustryCode:  "0000",
		FiscalYearEnd: "12-31",
	}, nil
}

// FetchFilings synthesizes count filings, newest first, one per year
// walking backward from 2024.
func (s *StubSource) FetchFilings(_ context.Context, ticker, form string, count int) ([]FilingInfo, error) {
	filings := make([]FilingInfo, 0, count)
	for i := 0; i < count; i++ {
		year := 2024 - i
		filings = append(filings, FilingInfo{
			AccessionNumber: fmt.Sprintf("%s-%s-%d-%06d", ticker, form, year, i),
			Form:            form,
			FilingDate:      fmt.Sprintf("%d-03-01T00:00:00Z", year),
			PeriodOfReport:  fmt.Sprintf("%d-12-31T00:00:00Z", year-1),
			SourceURL:       fmt.Sprintf("https://example.invalid/%s/%s/%d", ticker, form, year),
		})
	}
	return filings, nil
}

// FetchFiling synthesizes a single filing from its accession number.
func (s *StubSource) FetchFiling(_ context.Context, _, accessionNumber string) (FilingInfo, error) {
	return FilingInfo{
		AccessionNumber: accessionNumber,
		Form:            "10-K",
		FilingDate:      "2024-03-01T00:00:00Z",
		PeriodOfReport:  "2023-12-31T00:00:00Z",
		SourceURL:       fmt.Sprintf("https://example.invalid/filing/%s", accessionNumber),
	}, nil
}

// stubDocumentTypes are the section types FetchDocuments synthesizes.
var stubDocumentTypes = []string{
	"management_discussion",
	"risk_factors",
	"business_description",
}

// FetchDocuments synthesizes one document per entry in stubDocumentTypes,
// with content that deterministically varies per filing.
func (s *StubSource) FetchDocuments(_ context.Context, ticker string, filing FilingInfo) ([]DocumentInfo, error) {
	docs := make([]DocumentInfo, 0, len(stubDocumentTypes))
	for _, docType := range stubDocumentTypes {
		docs = append(docs, DocumentInfo{
			Title:        fmt.Sprintf("%s %s", ticker, docType),
			DocumentType: docType,
			Content:      fmt.Sprintf("stub %s content for %s filing %s", docType, ticker, filing.AccessionNumber),
		})
	}
	return docs, nil
}

// FetchFinancialValues synthesizes a single revenue figure per filing.
func (s *StubSource) FetchFinancialValues(_ context.Context, ticker string, filing FilingInfo) ([]FinancialValueInfo, error) {
	return []FinancialValueInfo{
		{
			ConceptName:        "Revenues",
			ConceptDescription: "Total revenues for the period",
			ConceptLabels:      []string{"Revenue", "Total Revenue"},
			ValueDate:          filing.PeriodOfReport,
			Value:              "1000000.00",
		},
	}, nil
}
