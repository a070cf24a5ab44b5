package llm

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultAnthropicModel = "claude-sonnet-4-5-20250929"

// AnthropicClassifier asks an Anthropic model for the question category.
type AnthropicClassifier struct {
	client anthropic.Client
	model  string
}

func NewAnthropicClassifier(apiKey, model string) *AnthropicClassifier {
	if model == "" {
		model = defaultAnthropicModel
	}
	return &AnthropicClassifier{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

func (c *AnthropicClassifier) ClassifyIntent(ctx context.Context, question string) (string, error) {
	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: 16,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(buildPrompt(question))),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic API error: %w", err)
	}
	for _, block := range message.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("no text content in Anthropic response")
}
