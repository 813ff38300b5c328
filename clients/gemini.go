package clients

import (
	"context"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"foodintel/apperr"
)

// GeminiClient generates report prose with a Gemini model.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient creates a Gemini client for the given model.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	const op = "gemini.NewClient"
	if apiKey == "" {
		return nil, apperr.Config(op, "Gemini API key is not configured")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, apperr.Transport(op, err)
	}
	return &GeminiClient{client: client, model: model}, nil
}

// Model is the model name reports are generated with.
func (g *GeminiClient) Model() string {
	return g.model
}

// Generate sends prompt and returns the concatenated text parts of the first
// candidate.
func (g *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	const op = "gemini.Generate"

	model := g.client.GenerativeModel(g.model)
	model.SafetySettings = []*genai.SafetySetting{
		{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockNone},
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		if isTimeout(err) {
			return "", apperr.Timeout(op, 1, err)
		}
		return "", apperr.Transport(op, err)
	}

	text := responseText(resp)
	if text == "" {
		return "", apperr.Provider(op, "no text content received from AI")
	}
	return text, nil
}

// Close releases the underlying connection.
func (g *GeminiClient) Close() error {
	return g.client.Close()
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	return strings.TrimSpace(b.String())
}
