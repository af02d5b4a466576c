package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GoogleAIProvider implements Provider on the older generative-ai-go SDK.
// Kept alongside GeminiProvider for environments pinned to the legacy client;
// selectable through the agent config.
type GoogleAIProvider struct {
	APIKey string
	Model  string
}

var _ Provider = (*GoogleAIProvider)(nil)

// NewGoogleAIProvider validates the credential up front.
func NewGoogleAIProvider(apiKey, model string) (*GoogleAIProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY_MISSING: googleai provider requires an API key")
	}
	return &GoogleAIProvider{APIKey: apiKey, Model: model}, nil
}

func (p *GoogleAIProvider) GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(p.APIKey))
	if err != nil {
		return "", fmt.Errorf("failed to create Gemini client: %v", err)
	}
	defer client.Close()

	modelName := p.Model
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}
	if val, ok := options["model"].(string); ok && val != "" {
		modelName = val
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0)
	if systemPrompt != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(systemPrompt)},
		}
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("googleai generation failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("googleai returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String(), nil
}
