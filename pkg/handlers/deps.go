package handlers

import (
	"github.com/sf1tzp/symbology/ent"
	"github.com/sf1tzp/symbology/pkg/artifacts"
	"github.com/sf1tzp/symbology/pkg/ingestion"
	"github.com/sf1tzp/symbology/pkg/llmclient"
	"github.com/sf1tzp/symbology/pkg/services"
)

// Deps bundles every dependency a handler needs. One Deps is built at
// startup and shared by every worker in the pool; handlers are stateless
// functions closing over it.
type Deps struct {
	Client *ent.Client

	Prompts          *artifacts.PromptStore
	ModelConfigs     *artifacts.ModelConfigStore
	GeneratedContent *artifacts.GeneratedContentStore

	Companies     *services.CompanyService
	Filings       *services.FilingService
	Documents     *services.DocumentService
	Financials    *services.FinancialService
	CompanyGroups *services.CompanyGroupService
	PipelineRuns  *services.PipelineRunService

	Source    ingestion.Source
	Completer llmclient.Completer

	// PromptsDir is the filesystem root under which pipeline.EnsurePrompt
	// looks up {name}/prompt.md and {name}/examples/*.md.
	PromptsDir string
}

// NewDeps wires every store and service off a single Ent client.
func NewDeps(client *ent.Client, source ingestion.Source, completer llmclient.Completer, promptsDir string) *Deps {
	return &Deps{
		Client:           client,
		Prompts:          artifacts.NewPromptStore(client),
		ModelConfigs:     artifacts.NewModelConfigStore(client),
		GeneratedContent: artifacts.NewGeneratedContentStore(client),
		Companies:        services.NewCompanyService(client),
		Filings:          services.NewFilingService(client),
		Documents:        services.NewDocumentService(client),
		Financials:       services.NewFinancialService(client),
		CompanyGroups:    services.NewCompanyGroupService(client),
		PipelineRuns:     services.NewPipelineRunService(client),
		Source:           source,
		Completer:        completer,
		PromptsDir:       promptsDir,
	}
}
