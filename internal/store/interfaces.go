package store

import (
	"context"

	"suggestbox/internal/models"
)

// --- Suggestion Store ---

// SuggestionStore persists the whole suggestion collection. A missing or
// empty backing resource loads as an empty collection.
type SuggestionStore interface {
	LoadSuggestions(ctx context.Context) ([]models.Suggestion, error)
	SaveSuggestions(ctx context.Context, suggestions []models.Suggestion) error
	ClearSuggestions(ctx context.Context) error
}

// --- Question Store ---

type QuestionStore interface {
	LoadQuestions(ctx context.Context) ([]models.Question, error)
	SaveQuestions(ctx context.Context, questions []models.Question) error
	ClearQuestions(ctx context.Context) error
}

// Store is implemented by every backend.
type Store interface {
	SuggestionStore
	QuestionStore

	// Describe returns a short human readable location for diagnostics.
	Describe() string
	Close() error
}
