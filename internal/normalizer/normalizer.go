package normalizer

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"golang.org/x/text/language"

	"suggestbox/internal/models"
)

// Detector identifies the language of a text. language.Und means the
// detector could not decide.
type Detector interface {
	Detect(ctx context.Context, text string) (language.Tag, error)
}

// Translator translates text from source into target.
type Translator interface {
	Translate(ctx context.Context, text string, source, target language.Tag) (string, error)
}

// Result is the outcome of normalizing one text.
type Result struct {
	Language               string // ISO 639-1 code or models.LanguageUnknown
	Text                   string // English text, or the input on fallback
	TranslationUnavailable bool
}

// Normalizer turns arbitrary-language input into English. It makes a single
// attempt per provider call and never mutates local state.
type Normalizer struct {
	detector   Detector
	translator Translator
}

func New(detector Detector, translator Translator) *Normalizer {
	return &Normalizer{detector: detector, translator: translator}
}

func (n *Normalizer) Normalize(ctx context.Context, raw string) (Result, error) {
	if strings.TrimSpace(raw) == "" {
		return Result{}, fmt.Errorf("%w: text is empty", models.ErrInvalidInput)
	}

	tag, ok := n.detect(ctx, raw)
	if !ok {
		return Result{Language: models.LanguageUnknown, Text: raw}, nil
	}

	code := baseCode(tag)
	if code == baseCode(language.English) {
		return Result{Language: code, Text: raw}, nil
	}

	translated, err := n.translate(ctx, raw, tag)
	if err != nil {
		log.WithField("language", code).Warnf("Translation unavailable, keeping original text: %v", err)
		return Result{Language: code, Text: raw, TranslationUnavailable: true}, nil
	}
	return Result{Language: code, Text: translated}, nil
}

func (n *Normalizer) detect(ctx context.Context, raw string) (language.Tag, bool) {
	if n.detector == nil {
		return language.Und, false
	}
	tag, err := n.detector.Detect(ctx, raw)
	if err != nil {
		log.Warnf("Language detection failed: %v", err)
		return language.Und, false
	}
	if tag == language.Und {
		log.Debug("Language detection inconclusive")
		return language.Und, false
	}
	return tag, true
}

func (n *Normalizer) translate(ctx context.Context, raw string, source language.Tag) (string, error) {
	if n.translator == nil {
		return "", fmt.Errorf("%w: no translator configured", models.ErrExternalService)
	}
	out, err := n.translator.Translate(ctx, raw, source, language.English)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(out) == "" {
		return "", fmt.Errorf("%w: empty translation", models.ErrExternalService)
	}
	return strings.TrimSpace(out), nil
}

// baseCode reduces a tag such as "pt-BR" to its base language code "pt".
func baseCode(tag language.Tag) string {
	base, _ := tag.Base()
	return base.String()
}
