package providers

import (
	"context"
	"fmt"

	"golang.org/x/text/language"

	"suggestbox/internal/models"
)

// NoopTranslator is used when no translation provider is configured. Every
// call fails, so foreign text falls back to the original.
type NoopTranslator struct{}

func (NoopTranslator) Translate(ctx context.Context, text string, source, target language.Tag) (string, error) {
	return "", fmt.Errorf("%w: translation is disabled", models.ErrExternalService)
}

func NewNoopTranslator() NoopTranslator {
	return NoopTranslator{}
}
