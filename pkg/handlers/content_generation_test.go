package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sf1tzp/symbology/ent/prompt"
	"github.com/sf1tzp/symbology/pkg/ingestion"
	"github.com/sf1tzp/symbology/pkg/llmclient"
	"github.com/sf1tzp/symbology/pkg/pipeline"
	testdb "github.com/sf1tzp/symbology/test/database"
)

func TestGenerateContent_CollidesToSameHashOnRepeat(t *testing.T) {
	client := testdb.NewTestClient(t)
	ctx := context.Background()
	deps := NewDeps(client.Client, ingestion.NewStubSource(), llmclient.NewStubCompleter(), "")

	company, err := deps.Companies.Upsert(ctx, ingestion.CompanyInfo{
		Ticker: "ACME", Name: "Acme Inc.", Exchanges: []string{"NASDAQ"}, IndustryCode: "1234",
	})
	require.NoError(t, err)

	filing, err := deps.Filings.Upsert(ctx, company.ID, ingestion.FilingInfo{
		AccessionNumber: "0000000000-24-000001",
		Form:            "10-K",
		FilingDate:      "2024-03-01T00:00:00Z",
	})
	require.NoError(t, err)

	doc, err := deps.Documents.Upsert(ctx, company.ID, filing.ID, ingestion.DocumentInfo{
		Title: "Risk Factors", DocumentType: "risk_factors", Content: "our business faces many risks",
	})
	require.NoError(t, err)

	p, _, err := deps.Prompts.Create(ctx, "risk-factors", prompt.RoleSystem, "", "Summarize the risk factors section.")
	require.NoError(t, err)

	mc, _, err := deps.ModelConfigs.GetOrCreate(ctx, "claude-haiku-4-5-20251001", map[string]any{"max_tokens": 2048, "temperature": 0.2})
	require.NoError(t, err)

	params := pipeline.GenerateParams{
		SystemPromptHash:     p.ContentHash,
		ModelConfigHash:      mc.ID,
		SourceDocumentHashes: []string{doc.ContentHash},
		CompanyID:            company.ID,
		DocumentType:         "risk_factors",
		FormType:             "10-K",
		ContentStage:         "single_summary",
	}

	first, err := deps.GenerateContent(ctx, params)
	require.NoError(t, err)
	assert.True(t, first.WasCreated)

	second, err := deps.GenerateContent(ctx, params)
	require.NoError(t, err)
	assert.False(t, second.WasCreated, "identical prompt/model/source set must collapse to the existing row by content hash")
	assert.Equal(t, first.ContentID, second.ContentID)
	assert.Equal(t, first.ContentHash, second.ContentHash)
}

func TestGenerateContent_DifferentSourceProducesDifferentHash(t *testing.T) {
	client := testdb.NewTestClient(t)
	ctx := context.Background()
	deps := NewDeps(client.Client, ingestion.NewStubSource(), llmclient.NewStubCompleter(), "")

	company, err := deps.Companies.Upsert(ctx, ingestion.CompanyInfo{Ticker: "ACME", Name: "Acme Inc.", Exchanges: []string{"NASDAQ"}, IndustryCode: "1234"})
	require.NoError(t, err)
	filing, err := deps.Filings.Upsert(ctx, company.ID, ingestion.FilingInfo{AccessionNumber: "0000000000-24-000001", Form: "10-K", FilingDate: "2024-03-01T00:00:00Z"})
	require.NoError(t, err)

	docA, err := deps.Documents.Upsert(ctx, company.ID, filing.ID, ingestion.DocumentInfo{Title: "Risk Factors", DocumentType: "risk_factors", Content: "risk body A"})
	require.NoError(t, err)
	docB, err := deps.Documents.Upsert(ctx, company.ID, filing.ID, ingestion.DocumentInfo{Title: "Risk Factors 2", DocumentType: "risk_factors", Content: "risk body B"})
	require.NoError(t, err)

	p, _, err := deps.Prompts.Create(ctx, "risk-factors", prompt.RoleSystem, "", "Summarize the risk factors section.")
	require.NoError(t, err)
	mc, _, err := deps.ModelConfigs.GetOrCreate(ctx, "claude-haiku-4-5-20251001", map[string]any{"max_tokens": 2048, "temperature": 0.2})
	require.NoError(t, err)

	resultA, err := deps.GenerateContent(ctx, pipeline.GenerateParams{
		SystemPromptHash: p.ContentHash, ModelConfigHash: mc.ID,
		SourceDocumentHashes: []string{docA.ContentHash}, CompanyID: company.ID,
		DocumentType: "risk_factors", ContentStage: "single_summary",
	})
	require.NoError(t, err)

	resultB, err := deps.GenerateContent(ctx, pipeline.GenerateParams{
		SystemPromptHash: p.ContentHash, ModelConfigHash: mc.ID,
		SourceDocumentHashes: []string{docB.ContentHash}, CompanyID: company.ID,
		DocumentType: "risk_factors", ContentStage: "single_summary",
	})
	require.NoError(t, err)

	assert.NotEqual(t, resultA.ContentHash, resultB.ContentHash)
}
