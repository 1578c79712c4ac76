// Package pipeline composes the three content-summarization stages
// (single -> aggregate -> frontpage) plus the cross-company stage, on top
// of the content-addressed artifact store in pkg/artifacts. Grounded
// line-for-line on original_source/server/symbology/worker/pipeline.py.
package pipeline

// StageDefaults is the model tier and option set used for one pipeline
// stage when a caller doesn't override it. Mirrors
// original_source/server/symbology/worker/pipeline.py's
// PIPELINE_MODEL_CONFIGS.
type StageDefaults struct {
	Model       string
	MaxTokens   int
	Temperature float64
}

// ModelConfigDefaults maps each content_stage to its default model tier.
var ModelConfigDefaults = map[string]StageDefaults{
	"single_summary":          {Model: "claude-haiku-4-5-20251001", MaxTokens: 2048, Temperature: 0.2},
	"aggregate_summary":       {Model: "claude-sonnet-4-5-20250929", MaxTokens: 4096, Temperature: 0.3},
	"frontpage_summary":       {Model: "claude-haiku-4-5-20251001", MaxTokens: 512, Temperature: 0.3},
	"company_group_analysis":  {Model: "claude-sonnet-4-5-20250929", MaxTokens: 8192, Temperature: 0.3},
	"company_group_frontpage": {Model: "claude-haiku-4-5-20251001", MaxTokens: 512, Temperature: 0.3},
}

// PromptNames maps each non-document-specific content_stage to the prompt
// directory name it loads. single_summary uses the document_type itself as
// the prompt name (each document type has its own prompt). Mirrors
// PIPELINE_PROMPTS.
var PromptNames = map[string]string{
	"aggregate_summary":       "aggregate-summary",
	"frontpage_summary":       "general-summary",
	"company_group_analysis":  "company-group-analysis",
	"company_group_frontpage": "company-group-frontpage",
}

// FormDocumentTypes maps a filing form to the document types its
// single-summary stage covers, mirroring FORM_DOCUMENT_TYPES.
var FormDocumentTypes = map[string][]string{
	"10-K": {"business_description", "risk_factors", "management_discussion", "controls_procedures"},
	"10-Q": {"risk_factors", "management_discussion", "controls_procedures", "market_risk"},
}

// DefaultFilingCounts maps a form to how many recent filings FULL_PIPELINE
// ingests when the caller doesn't specify counts.
var DefaultFilingCounts = map[string]int{
	"10-K": 5,
	"10-Q": 6,
}

// LargeGroupInputThreshold is the concatenated-source-length threshold
// above which the company_group_analysis content records a warning on its
// GeneratedContent row (spec.md §4.5).
const LargeGroupInputThreshold = 200_000
