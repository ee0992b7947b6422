package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"suggestbox/internal/models"
	"suggestbox/internal/store"
	categorizer "suggestbox/pkg/categorizer"
)

type SuggestionServiceDeps struct {
	Store       store.SuggestionStore
	Normalizer  TextNormalizer
	Classifier  SentimentClassifier
	Categorizer categorizer.ContentCategorizer

	// Optional; defaults are uuid, time.Now in UTC and math/rand/v2.
	NewID func() string
	Now   func() time.Time
	Pick  func(n int) int
}

// SuggestionService owns the in-memory suggestion collection and keeps the
// backing store in step with it.
type SuggestionService struct {
	store       store.SuggestionStore
	normalizer  TextNormalizer
	classifier  SentimentClassifier
	categorizer categorizer.ContentCategorizer
	newID       func() string
	now         func() time.Time
	pick        func(n int) int

	items []models.Suggestion
}

func NewSuggestionService(deps SuggestionServiceDeps) *SuggestionService {
	s := &SuggestionService{
		store:       deps.Store,
		normalizer:  deps.Normalizer,
		classifier:  deps.Classifier,
		categorizer: deps.Categorizer,
		newID:       deps.NewID,
		now:         deps.Now,
		pick:        deps.Pick,
	}
	if s.newID == nil {
		s.newID = defaultNewID
	}
	if s.now == nil {
		s.now = defaultNow
	}
	if s.pick == nil {
		s.pick = defaultPick
	}
	return s
}

// Load replaces the in-memory collection with the persisted one.
func (s *SuggestionService) Load(ctx context.Context) error {
	items, err := s.store.LoadSuggestions(ctx)
	if err != nil {
		return fmt.Errorf("failed to load suggestions: %w", err)
	}
	s.items = items
	log.Debugf("Loaded %d suggestions", len(items))
	return nil
}

// Add runs the raw text through normalization, sentiment classification
// and categorization, then persists the new suggestion. Provider failures
// degrade the record instead of failing the submission.
func (s *SuggestionService) Add(ctx context.Context, raw string) (models.Suggestion, error) {
	if strings.TrimSpace(raw) == "" {
		return models.Suggestion{}, fmt.Errorf("%w: suggestion text is empty", models.ErrInvalidInput)
	}

	norm, err := s.normalizer.Normalize(ctx, raw)
	if err != nil {
		return models.Suggestion{}, err
	}

	var flags []models.Flag
	if norm.TranslationUnavailable {
		flags = append(flags, models.FlagTranslationUnavailable)
	}

	sentiment, err := s.classifier.Classify(ctx, norm.Text)
	if err != nil {
		if !errors.Is(err, models.ErrClassification) {
			return models.Suggestion{}, err
		}
		log.Warnf("Sentiment unavailable, recording as %s: %v", models.SentimentNeutral, err)
		sentiment = models.SentimentNeutral
		flags = append(flags, models.FlagSentimentUnavailable)
	}

	suggestion := models.Suggestion{
		ID:               s.newID(),
		OriginalText:     raw,
		TranslatedText:   norm.Text,
		DetectedLanguage: norm.Language,
		Sentiment:        sentiment,
		Category:         s.categorizer.Categorize(norm.Text),
		CreatedAt:        s.now().UTC(),
		Flags:            flags,
	}

	s.items = append(s.items, suggestion)
	if err := s.store.SaveSuggestions(ctx, s.items); err != nil {
		s.items = s.items[:len(s.items)-1]
		return models.Suggestion{}, fmt.Errorf("failed to persist suggestion: %w", err)
	}

	log.WithFields(log.Fields{
		"id":        suggestion.ID,
		"language":  suggestion.DetectedLanguage,
		"sentiment": suggestion.Sentiment,
		"category":  suggestion.Category,
	}).Info("Suggestion recorded")
	return suggestion, nil
}

func (s *SuggestionService) Summarize() Summary {
	sum := newSummary()
	sum.Total = len(s.items)
	for _, item := range s.items {
		sum.ByCategory[item.Category]++
		sum.BySentiment[item.Sentiment]++
	}
	return sum
}

// Sample returns a uniformly random suggestion.
func (s *SuggestionService) Sample() (models.Suggestion, error) {
	if len(s.items) == 0 {
		return models.Suggestion{}, models.ErrEmptyCollection
	}
	return s.items[s.pick(len(s.items))].Clone(), nil
}

// ByCategory returns the suggestions filed under category, oldest first.
func (s *SuggestionService) ByCategory(category models.Category) []models.Suggestion {
	var out []models.Suggestion
	for _, item := range s.items {
		if item.Category == category {
			out = append(out, item.Clone())
		}
	}
	return out
}

func (s *SuggestionService) List() []models.Suggestion {
	out := make([]models.Suggestion, len(s.items))
	for i, item := range s.items {
		out[i] = item.Clone()
	}
	return out
}

func (s *SuggestionService) Count() int { return len(s.items) }

// DeleteAll clears the collection and its persisted storage.
func (s *SuggestionService) DeleteAll(ctx context.Context) error {
	if err := s.store.ClearSuggestions(ctx); err != nil {
		return fmt.Errorf("failed to clear suggestions: %w", err)
	}
	n := len(s.items)
	s.items = nil
	log.Infof("Deleted %d suggestions", n)
	return nil
}
