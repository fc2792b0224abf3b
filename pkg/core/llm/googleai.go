package llm

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GoogleAIProvider is a second Gemini path built on the older
// generative-ai-go SDK. Kept for the short, latency-sensitive calls (the
// navigation assistant) where the client is reused across requests.
type GoogleAIProvider struct {
	Model  string
	client *genai.Client
}

var _ Provider = (*GoogleAIProvider)(nil)

// NewGoogleAIProvider creates the provider and its shared client.
func NewGoogleAIProvider(ctx context.Context, model string) (*GoogleAIProvider, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Google AI client: %w", err)
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &GoogleAIProvider{Model: model, client: client}, nil
}

func (p *GoogleAIProvider) GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error) {
	modelName := ResolveModel(p.Model, options, "gemini-2.0-flash")

	if p.client == nil {
		created, err := NewGoogleAIProvider(ctx, modelName)
		if err != nil {
			return "", err
		}
		p.client = created.client
	}

	model := p.client.GenerativeModel(modelName)
	if systemPrompt != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(systemPrompt)},
		}
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("google ai generation failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("google ai returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return sb.String(), nil
}
