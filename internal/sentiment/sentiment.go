package sentiment

import (
	"context"
	"fmt"
	"math"

	"suggestbox/internal/models"
)

// Both thresholds are exclusive: a score of exactly 0.1 or -0.1 is neutral.
const (
	PositiveThreshold = 0.1
	NegativeThreshold = -0.1
)

// Analyzer computes a polarity score in [-1, 1] for English text.
type Analyzer interface {
	Polarity(ctx context.Context, text string) (float64, error)
}

// Label maps a polarity score to a sentiment.
func Label(score float64) models.Sentiment {
	switch {
	case score > PositiveThreshold:
		return models.SentimentPositive
	case score < NegativeThreshold:
		return models.SentimentNegative
	default:
		return models.SentimentNeutral
	}
}

type Classifier struct {
	analyzer Analyzer
}

func NewClassifier(analyzer Analyzer) *Classifier {
	return &Classifier{analyzer: analyzer}
}

// Classify labels text. Any analyzer failure, including a NaN score, is
// reported as models.ErrClassification; the caller decides the fallback.
func (c *Classifier) Classify(ctx context.Context, text string) (models.Sentiment, error) {
	if c.analyzer == nil {
		return "", fmt.Errorf("%w: no analyzer configured", models.ErrClassification)
	}
	score, err := c.analyzer.Polarity(ctx, text)
	if err != nil {
		return "", fmt.Errorf("%w: %w", models.ErrClassification, err)
	}
	if math.IsNaN(score) {
		return "", fmt.Errorf("%w: analyzer returned NaN", models.ErrClassification)
	}
	return Label(clamp(score)), nil
}

func clamp(score float64) float64 {
	return math.Max(-1, math.Min(1, score))
}
