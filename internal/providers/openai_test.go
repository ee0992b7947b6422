package providers

import (
	"context"
	"errors"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"suggestbox/internal/costtracker"
	"suggestbox/internal/models"
)

// --- Mock OpenAI Client ---
type mockOpenAIClient struct {
	mockResponse openai.ChatCompletionResponse
	mockError    error
	lastRequest  openai.ChatCompletionRequest
}

func (m *mockOpenAIClient) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	m.lastRequest = req
	if m.mockError != nil {
		return openai.ChatCompletionResponse{}, m.mockError
	}
	return m.mockResponse, nil
}

func replyWith(content string) *mockOpenAIClient {
	return &mockOpenAIClient{
		mockResponse: openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Content: content}},
			},
		},
	}
}

// --- End Mock OpenAI Client ---

func TestOpenAIProvider_Detect(t *testing.T) {
	testCases := []struct {
		name     string
		reply    string
		expected language.Tag
	}{
		{name: "plain json", reply: `{"language": "es"}`, expected: language.Spanish},
		{name: "fenced json", reply: "```json\n{\"language\": \"de\"}\n```", expected: language.German},
		{name: "undetermined", reply: `{"language": "und"}`, expected: language.Und},
		{name: "empty code", reply: `{"language": ""}`, expected: language.Und},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			client := replyWith(tc.reply)
			p := NewOpenAIProvider(client, "gpt-test")

			tag, err := p.Detect(context.Background(), "Hola equipo")
			require.NoError(t, err)
			assert.Equal(t, tc.expected, tag)
			assert.Equal(t, "gpt-test", client.lastRequest.Model)
			require.Len(t, client.lastRequest.Messages, 2)
			assert.Equal(t, "Hola equipo", client.lastRequest.Messages[1].Content)
		})
	}
}

func TestOpenAIProvider_DetectInvalidResponse(t *testing.T) {
	p := NewOpenAIProvider(replyWith("Spanish, probably."), "gpt-test")
	_, err := p.Detect(context.Background(), "Hola")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrExternalService)
	assert.Contains(t, err.Error(), "failed to parse detection response")
}

func TestOpenAIProvider_Translate(t *testing.T) {
	client := replyWith("  The food is terrible  ")
	p := NewOpenAIProvider(client, "")

	out, err := p.Translate(context.Background(), "La comida es terrible", language.Spanish, language.English)
	require.NoError(t, err)
	assert.Equal(t, "The food is terrible", out)
	assert.Equal(t, openai.GPT4oMini, client.lastRequest.Model)
	assert.Contains(t, client.lastRequest.Messages[0].Content, "from es into en")
}

func TestOpenAIProvider_Polarity(t *testing.T) {
	p := NewOpenAIProvider(replyWith(`{"polarity": -0.75}`), "gpt-test")
	score, err := p.Polarity(context.Background(), "The food is terrible")
	require.NoError(t, err)
	assert.Equal(t, -0.75, score)

	p = NewOpenAIProvider(replyWith(`{}`), "gpt-test")
	_, err = p.Polarity(context.Background(), "The food is terrible")
	assert.ErrorIs(t, err, models.ErrExternalService)
}

func TestOpenAIProvider_APIError(t *testing.T) {
	mockErr := errors.New("simulated API error 429 Too Many Requests")
	p := NewOpenAIProvider(&mockOpenAIClient{mockError: mockErr}, "gpt-test")

	_, err := p.Translate(context.Background(), "Hallo", language.German, language.English)
	require.Error(t, err)
	assert.ErrorIs(t, err, mockErr, "Returned error should wrap the original API error")
	assert.ErrorIs(t, err, models.ErrExternalService)
	assert.Contains(t, err.Error(), "openai chat completion failed")
}

func TestOpenAIProvider_EmptyResponse(t *testing.T) {
	p := NewOpenAIProvider(&mockOpenAIClient{}, "gpt-test")
	_, err := p.Polarity(context.Background(), "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices returned from OpenAI")
}

func TestOpenAIProvider_RecordsUsage(t *testing.T) {
	client := replyWith(`{"polarity": 0.4}`)
	client.mockResponse.Usage = openai.Usage{PromptTokens: 42, CompletionTokens: 6}
	tracker := costtracker.New()
	p := NewOpenAIProvider(client, "gpt-test").WithUsageTracker(tracker)

	_, err := p.Polarity(context.Background(), "Nice desks")
	require.NoError(t, err)
	assert.Equal(t, []costtracker.Totals{
		{Operation: "polarity", Calls: 1, PromptTokens: 42, CompletionTokens: 6},
	}, tracker.Totals())
}
