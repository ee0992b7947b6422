package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	log "github.com/sirupsen/logrus"
	"golang.org/x/text/language"

	"suggestbox/internal/costtracker"
	"suggestbox/internal/models"
)

// ChatCompletionCreator defines the minimal interface for OpenAI chat completions.
type ChatCompletionCreator interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

const (
	detectPrompt = `Identify the language of the user's message. ` +
		`Reply with JSON only: {"language": "<ISO 639-1 code>"}. Use "und" if you cannot tell.`
	translatePrompt = `Translate the user's message from %s into %s. ` +
		`Reply with the translation only, without quotes or commentary.`
	polarityPrompt = `Rate the sentiment of the user's message as a polarity between -1.0 (very negative) ` +
		`and 1.0 (very positive). Reply with JSON only: {"polarity": <number>}.`
)

// OpenAIProvider implements language detection, translation and polarity
// analysis on top of an OpenAI-compatible chat completion API.
type OpenAIProvider struct {
	client ChatCompletionCreator
	model  string
	usage  costtracker.CostTracker
}

func NewOpenAIProvider(client ChatCompletionCreator, model string) *OpenAIProvider {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIProvider{client: client, model: model}
}

// WithUsageTracker records the token usage of every successful call.
func (p *OpenAIProvider) WithUsageTracker(t costtracker.CostTracker) *OpenAIProvider {
	p.usage = t
	return p
}

// NewOpenAIClient builds a client whose HTTP transport gives up after timeout.
func NewOpenAIClient(apiKey, baseURL string, timeout time.Duration) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	cfg.HTTPClient = &http.Client{Timeout: timeout}
	return openai.NewClientWithConfig(cfg)
}

func (p *OpenAIProvider) Detect(ctx context.Context, text string) (language.Tag, error) {
	content, err := p.complete(ctx, "detect", detectPrompt, text)
	if err != nil {
		return language.Und, err
	}

	var parsed struct {
		Language string `json:"language"`
	}
	if err := json.Unmarshal([]byte(stripCodeFence(content)), &parsed); err != nil {
		return language.Und, fmt.Errorf("%w: failed to parse detection response %q: %v", models.ErrExternalService, content, err)
	}
	code := strings.TrimSpace(parsed.Language)
	if code == "" || strings.EqualFold(code, "und") {
		return language.Und, nil
	}
	tag, err := language.Parse(code)
	if err != nil {
		return language.Und, fmt.Errorf("%w: unrecognized language code %q", models.ErrExternalService, code)
	}
	return tag, nil
}

func (p *OpenAIProvider) Translate(ctx context.Context, text string, source, target language.Tag) (string, error) {
	return p.complete(ctx, "translate", fmt.Sprintf(translatePrompt, source.String(), target.String()), text)
}

func (p *OpenAIProvider) Polarity(ctx context.Context, text string) (float64, error) {
	content, err := p.complete(ctx, "polarity", polarityPrompt, text)
	if err != nil {
		return 0, err
	}
	var parsed struct {
		Polarity *float64 `json:"polarity"`
	}
	if err := json.Unmarshal([]byte(stripCodeFence(content)), &parsed); err != nil {
		return 0, fmt.Errorf("%w: failed to parse polarity response %q: %v", models.ErrExternalService, content, err)
	}
	if parsed.Polarity == nil {
		return 0, fmt.Errorf("%w: polarity missing from response %q", models.ErrExternalService, content)
	}
	return *parsed.Polarity, nil
}

func (p *OpenAIProvider) complete(ctx context.Context, operation, system, user string) (string, error) {
	if p.client == nil {
		return "", fmt.Errorf("%w: OpenAI client is not initialized", models.ErrExternalService)
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: openai chat completion failed: %w", models.ErrExternalService, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned from OpenAI", models.ErrExternalService)
	}

	log.Debugf("OpenAI usage: operation=%s model=%s prompt_tokens=%d completion_tokens=%d",
		operation, p.model, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
	if p.usage != nil {
		p.usage.Record(ctx, costtracker.UsageEvent{
			Operation:        operation,
			Model:            p.model,
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
		})
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// stripCodeFence removes a surrounding ```json fence some models add.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
