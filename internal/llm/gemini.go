package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.0-flash"

// GeminiClassifier asks a Gemini model for the question category.
type GeminiClassifier struct {
	client *genai.Client
	model  string
}

func NewGeminiClassifier(ctx context.Context, apiKey, model string) (*GeminiClassifier, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if model == "" {
		model = defaultGeminiModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  strings.TrimSpace(apiKey),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &GeminiClassifier{client: client, model: model}, nil
}

func (c *GeminiClassifier) ClassifyIntent(ctx context.Context, question string) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model,
		genai.Text(buildPrompt(question)), nil)
	if err != nil {
		return "", fmt.Errorf("gemini API error: %w", err)
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no text content in Gemini response")
	}
	return text, nil
}
