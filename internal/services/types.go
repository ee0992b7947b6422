package services

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"suggestbox/internal/models"
	"suggestbox/internal/normalizer"
)

// TextNormalizer converts raw input into English.
type TextNormalizer interface {
	Normalize(ctx context.Context, raw string) (normalizer.Result, error)
}

// SentimentClassifier labels English text.
type SentimentClassifier interface {
	Classify(ctx context.Context, text string) (models.Sentiment, error)
}

// Summary aggregates the suggestion collection. Every category and
// sentiment is present, with zero counts where nothing matched.
type Summary struct {
	Total       int
	ByCategory  map[models.Category]int
	BySentiment map[models.Sentiment]int
}

func newSummary() Summary {
	s := Summary{
		ByCategory:  make(map[models.Category]int, len(models.Categories())),
		BySentiment: make(map[models.Sentiment]int, len(models.Sentiments())),
	}
	for _, c := range models.Categories() {
		s.ByCategory[c] = 0
	}
	for _, st := range models.Sentiments() {
		s.BySentiment[st] = 0
	}
	return s
}

func defaultNewID() string { return uuid.NewString() }

func defaultNow() time.Time { return time.Now().UTC() }

func defaultPick(n int) int { return rand.Intn(n) }
