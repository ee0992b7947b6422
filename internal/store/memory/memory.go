package memory

import (
	"context"

	"suggestbox/internal/models"
	"suggestbox/internal/store"
)

// Store is an in-memory backend for tests. SaveErr, when set, is returned by
// every save and clear call.
type Store struct {
	Suggestions []models.Suggestion
	Questions   []models.Question
	SaveErr     error
	Saves       int
}

var _ store.Store = (*Store)(nil)

func New() *Store { return &Store{} }

func (s *Store) Describe() string { return "memory" }
func (s *Store) Close() error     { return nil }

func (s *Store) LoadSuggestions(ctx context.Context) ([]models.Suggestion, error) {
	return append([]models.Suggestion(nil), s.Suggestions...), nil
}

func (s *Store) SaveSuggestions(ctx context.Context, suggestions []models.Suggestion) error {
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.Saves++
	s.Suggestions = append([]models.Suggestion(nil), suggestions...)
	return nil
}

func (s *Store) ClearSuggestions(ctx context.Context) error {
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.Suggestions = nil
	return nil
}

func (s *Store) LoadQuestions(ctx context.Context) ([]models.Question, error) {
	return cloneQuestions(s.Questions), nil
}

func (s *Store) SaveQuestions(ctx context.Context, questions []models.Question) error {
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.Saves++
	s.Questions = cloneQuestions(questions)
	return nil
}

func (s *Store) ClearQuestions(ctx context.Context) error {
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.Questions = nil
	return nil
}

func cloneQuestions(in []models.Question) []models.Question {
	if in == nil {
		return nil
	}
	out := make([]models.Question, len(in))
	for i, q := range in {
		out[i] = q.Clone()
	}
	return out
}
