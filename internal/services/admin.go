package services

import (
	"context"
	"crypto/subtle"
	"errors"

	log "github.com/sirupsen/logrus"

	"suggestbox/internal/models"
)

// AdminGate grants AdminSessions to callers presenting the shared secret.
type AdminGate struct {
	secret      []byte
	suggestions *SuggestionService
	questions   *QuestionService
}

func NewAdminGate(secret string, suggestions *SuggestionService, questions *QuestionService) *AdminGate {
	return &AdminGate{secret: []byte(secret), suggestions: suggestions, questions: questions}
}

// Login compares input with the configured secret in constant time. An
// unset secret denies everyone.
func (g *AdminGate) Login(input string) (*AdminSession, error) {
	if len(g.secret) == 0 || subtle.ConstantTimeCompare([]byte(input), g.secret) != 1 {
		log.Warn("Admin login rejected")
		return nil, models.ErrAuth
	}
	return &AdminSession{suggestions: g.suggestions, questions: g.questions}, nil
}

// AdminSession exposes the admin-only operations.
type AdminSession struct {
	suggestions *SuggestionService
	questions   *QuestionService
}

type AdminSummary struct {
	Suggestions Summary
	Questions   int
	Answers     int
}

func (a *AdminSession) Summary() AdminSummary {
	return AdminSummary{
		Suggestions: a.suggestions.Summarize(),
		Questions:   a.questions.Count(),
		Answers:     a.questions.AnswerCount(),
	}
}

func (a *AdminSession) Browse(category models.Category) []models.Suggestion {
	return a.suggestions.ByCategory(category)
}

func (a *AdminSession) Questions() []models.Question {
	return a.questions.List()
}

// DeleteAll removes every suggestion and question. Both collections are
// attempted even when the first one fails.
func (a *AdminSession) DeleteAll(ctx context.Context) error {
	return errors.Join(a.suggestions.DeleteAll(ctx), a.questions.DeleteAll(ctx))
}
