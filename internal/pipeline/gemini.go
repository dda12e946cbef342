package pipeline

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiClient implements ModelClient against the Gemini API. The API key is
// picked up by the genai SDK from the environment.
type GeminiClient struct {
	model string
}

// NewGeminiClient creates a client for the given model name.
func NewGeminiClient(model string) *GeminiClient {
	return &GeminiClient{model: model}
}

// GenerateStructured sends a single-turn structured-extraction request,
// optionally with an inline binary part (receipt image).
func (c *GeminiClient) GenerateStructured(ctx context.Context, prompt string, blob *Blob) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return "", fmt.Errorf("GenerateStructured: create genai client: %w", err)
	}

	parts := []*genai.Part{{Text: prompt}}
	if blob != nil {
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{
				MIMEType: blob.MIMEType,
				Data:     blob.Data,
			},
		})
	}
	contents := []*genai.Content{{Role: "user", Parts: parts}}

	resp, err := client.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("GenerateStructured: generate content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("GenerateStructured: empty response from model")
	}
	return text, nil
}

// GenerateWithSearch sends a single-turn request with the Google Search tool
// enabled, so the model can look up unfamiliar merchants before answering.
func (c *GeminiClient) GenerateWithSearch(ctx context.Context, prompt string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return "", fmt.Errorf("GenerateWithSearch: create genai client: %w", err)
	}

	cfg := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	}

	resp, err := client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("GenerateWithSearch: generate content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("GenerateWithSearch: empty response from model")
	}
	return text, nil
}
