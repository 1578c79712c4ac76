// Package llmclient defines the ChatCompleter interface the content
// generation handler uses to invoke an LLM, plus a concrete Anthropic
// adapter and a deterministic stub used in tests.
package llmclient

import "context"

// Response is the result of a single chat completion call: response text,
// observed duration, and token counts, per spec.md §6.
type Response struct {
	Text                  string
	TotalDurationSeconds  float64
	InputTokens           int
	OutputTokens          int
	Warning               string // opaque; propagated verbatim to GeneratedContent.warning
}

// ModelOptions carries the subset of a ModelConfig's options the completer
// needs to execute a call.
type ModelOptions struct {
	Model       string
	MaxTokens   int
	Temperature float64
	TopP        float64
	TopK        int
	Seed        int64
}

// Completer is the consumed external interface for LLM transport (spec.md
// §1, §6). The core never reasons about prompt engineering or retries on
// content quality; it only invokes this interface with a resolved system
// prompt, user prompt, and model config, and records whatever comes back.
type Completer interface {
	Chat(ctx context.Context, system, user string, opts ModelOptions) (Response, error)
}
