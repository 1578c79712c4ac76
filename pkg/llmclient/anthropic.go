package llmclient

import (
	"context"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicCompleter is the default Completer, backed by
// github.com/anthropics/anthropic-sdk-go. The original pipeline's model
// identifiers (claude-haiku-4-5-20251001, claude-sonnet-4-5-20250929) are
// passed straight through as the Model field of ModelOptions.
type AnthropicCompleter struct {
	client anthropic.Client
}

// NewAnthropicCompleter builds a completer that authenticates with the given
// API key (the CLI reads it from the variable named by
// config.LLMConfig.APIKeyEnv).
func NewAnthropicCompleter(apiKey string) *AnthropicCompleter {
	return &AnthropicCompleter{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
	}
}

// Chat issues a single, non-streaming message completion and translates the
// SDK's usage accounting into the Completer contract.
func (c *AnthropicCompleter) Chat(ctx context.Context, system, user string, opts ModelOptions) (Response, error) {
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 2048
	}

	start := time.Now()
	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(opts.Model),
		MaxTokens: int64(maxTokens),
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
		Temperature: anthropic.Float(opts.Temperature),
	})
	duration := time.Since(start)
	if err != nil {
		return Response{}, fmt.Errorf("anthropic chat: %w", err)
	}

	var text string
	for _, block := range msg.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}

	return Response{
		Text:                 text,
		TotalDurationSeconds: duration.Seconds(),
		InputTokens:          int(msg.Usage.InputTokens),
		OutputTokens:         int(msg.Usage.OutputTokens),
	}, nil
}
