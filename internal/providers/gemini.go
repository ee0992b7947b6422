package providers

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	log "github.com/sirupsen/logrus"
	"golang.org/x/text/language"
	"google.golang.org/api/option"

	"suggestbox/internal/models"
)

const DefaultGeminiModel = "gemini-1.5-flash"

// ContentGenerator is the part of *genai.GenerativeModel the translator uses.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// GeminiTranslator translates text with the Google Gemini API.
type GeminiTranslator struct {
	client *genai.Client
	model  ContentGenerator
}

func NewGeminiTranslator(ctx context.Context, apiKey, modelName string) (*GeminiTranslator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if modelName == "" {
		modelName = DefaultGeminiModel
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	model := client.GenerativeModel(modelName)
	model.SetTemperature(0)

	log.Infof("Gemini translator initialized with model %s", modelName)
	return &GeminiTranslator{client: client, model: model}, nil
}

func newGeminiTranslatorWithModel(model ContentGenerator) *GeminiTranslator {
	return &GeminiTranslator{model: model}
}

func (g *GeminiTranslator) Translate(ctx context.Context, text string, source, target language.Tag) (string, error) {
	prompt := fmt.Sprintf(translatePrompt, source.String(), target.String()) + "\n\n" + text
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("%w: gemini generate content failed: %w", models.ErrExternalService, err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("%w: no candidates returned from Gemini", models.ErrExternalService)
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return strings.TrimSpace(b.String()), nil
}

func (g *GeminiTranslator) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}
