package pipeline_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sf1tzp/symbology/ent"
	"github.com/sf1tzp/symbology/ent/prompt"
	"github.com/sf1tzp/symbology/pkg/handlers"
	"github.com/sf1tzp/symbology/pkg/ingestion"
	"github.com/sf1tzp/symbology/pkg/llmclient"
	"github.com/sf1tzp/symbology/pkg/pipeline"
	testdb "github.com/sf1tzp/symbology/test/database"
)

// TestGenerateSingleSummaries_ReusesOnSecondRun exercises the Stage A
// pre-check dedup (spec.md §4.4's "primary optimization"): the second pass
// over the same filing must find the existing GeneratedContent row via
// FindExistingForDocument and never re-invoke the generator.
func TestGenerateSingleSummaries_ReusesOnSecondRun(t *testing.T) {
	client := testdb.NewTestClient(t)
	ctx := context.Background()
	deps := handlers.NewDeps(client.Client, ingestion.NewStubSource(), llmclient.NewStubCompleter(), "")

	company, err := deps.Companies.Upsert(ctx, ingestion.CompanyInfo{Ticker: "ACME", Name: "Acme Inc.", Exchanges: []string{"NASDAQ"}, IndustryCode: "1234"})
	require.NoError(t, err)
	filing, err := deps.Filings.Upsert(ctx, company.ID, ingestion.FilingInfo{AccessionNumber: "0000000000-24-000001", Form: "10-K", FilingDate: "2024-03-01T00:00:00Z"})
	require.NoError(t, err)
	_, err = deps.Documents.Upsert(ctx, company.ID, filing.ID, ingestion.DocumentInfo{Title: "Risk Factors", DocumentType: "risk_factors", Content: "risk body"})
	require.NoError(t, err)

	docs, err := deps.Documents.ListByCompany(ctx, company.ID, "risk_factors", 0)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	filingWithDocs := filing
	filingWithDocs.Edges.Documents = docs

	p, _, err := deps.Prompts.Create(ctx, "risk-factors", prompt.RoleSystem, "", "Summarize the risk factors section.")
	require.NoError(t, err)
	mc, _, err := deps.ModelConfigs.GetOrCreate(ctx, "claude-haiku-4-5-20251001", map[string]any{"max_tokens": 2048, "temperature": 0.2})
	require.NoError(t, err)

	params := pipeline.SingleSummaryParams{
		CompanyID:    company.ID,
		Ticker:       "ACME",
		Form:         "10-K",
		DocumentType: "risk_factors",
		Filings:      []*ent.Filing{filingWithDocs},
		Prompt:       pipeline.StagePrompt{ID: p.ID, Hash: p.ContentHash},
		ModelConfig:  pipeline.StageModelConfig{ID: mc.ID, Hash: mc.ContentHash},
	}

	hashes1, newCount1, reusedCount1, failed1 := pipeline.GenerateSingleSummaries(ctx, deps.GeneratedContent, deps.GenerateContent, params)
	require.Equal(t, 0, failed1)
	require.Len(t, hashes1, 1)
	assert.Equal(t, 1, newCount1)
	assert.Equal(t, 0, reusedCount1)

	hashes2, newCount2, reusedCount2, failed2 := pipeline.GenerateSingleSummaries(ctx, deps.GeneratedContent, deps.GenerateContent, params)
	require.Equal(t, 0, failed2)
	assert.Equal(t, 0, newCount2, "second pass must reuse, not re-generate")
	assert.Equal(t, 1, reusedCount2)
	assert.Equal(t, hashes1, hashes2)
}

// TestGenerateAggregateSummary_SkipsWhenNoNewSingles covers spec.md §4.5's
// Stage B skip rule: "A stage-B invocation is also skipped if new_count
// from Stage A is zero and force is false (the aggregate already exists
// deterministically)." The generator must not be invoked in that case.
func TestGenerateAggregateSummary_SkipsWhenNoNewSingles(t *testing.T) {
	ctx := context.Background()
	called := false
	generate := func(ctx context.Context, params pipeline.GenerateParams) (pipeline.GenerateResult, error) {
		called = true
		return pipeline.GenerateResult{ContentID: "x", ContentHash: "hash"}, nil
	}

	hash, ok, err := pipeline.GenerateAggregateSummary(ctx, generate, pipeline.AggregateParams{
		CompanyID:           "company-1",
		Ticker:              "ACME",
		Form:                "10-K",
		DocumentType:        "risk_factors",
		SingleSummaryHashes: []string{"single-hash-1"},
		NewCount:            0,
		Force:               false,
		Prompt:              pipeline.StagePrompt{ID: "prompt-1", Hash: "prompt-hash"},
		ModelConfig:         pipeline.StageModelConfig{ID: "mc-1", Hash: "mc-hash"},
	})
	require.NoError(t, err)
	assert.False(t, ok, "stage B must be skipped when new_count is zero and force is false")
	assert.Empty(t, hash)
	assert.False(t, called, "the generator must not be invoked on the skip path")
}

// TestGenerateAggregateSummary_ForceOverridesSkip ensures the skip rule is
// only applied when force is false: a forced re-run regenerates even if
// every single summary was reused.
func TestGenerateAggregateSummary_ForceOverridesSkip(t *testing.T) {
	ctx := context.Background()
	called := false
	generate := func(ctx context.Context, params pipeline.GenerateParams) (pipeline.GenerateResult, error) {
		called = true
		return pipeline.GenerateResult{ContentID: "x", ContentHash: "hash"}, nil
	}

	hash, ok, err := pipeline.GenerateAggregateSummary(ctx, generate, pipeline.AggregateParams{
		CompanyID:           "company-1",
		Ticker:              "ACME",
		Form:                "10-K",
		DocumentType:        "risk_factors",
		SingleSummaryHashes: []string{"single-hash-1"},
		NewCount:            0,
		Force:               true,
		Prompt:              pipeline.StagePrompt{ID: "prompt-1", Hash: "prompt-hash"},
		ModelConfig:         pipeline.StageModelConfig{ID: "mc-1", Hash: "mc-hash"},
	})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "hash", hash)
	assert.True(t, called, "force=true must bypass the skip and invoke the generator")
}
