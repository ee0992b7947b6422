package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"suggestbox/internal/models"
	"suggestbox/internal/store"
)

type QuestionServiceDeps struct {
	Store      store.QuestionStore
	Normalizer TextNormalizer
	NewID      func() string
	Now        func() time.Time
}

// QuestionService manages questions and their append-only answers.
type QuestionService struct {
	store      store.QuestionStore
	normalizer TextNormalizer
	newID      func() string
	now        func() time.Time

	items []models.Question
}

func NewQuestionService(deps QuestionServiceDeps) *QuestionService {
	s := &QuestionService{
		store:      deps.Store,
		normalizer: deps.Normalizer,
		newID:      deps.NewID,
		now:        deps.Now,
	}
	if s.newID == nil {
		s.newID = defaultNewID
	}
	if s.now == nil {
		s.now = defaultNow
	}
	return s
}

func (s *QuestionService) Load(ctx context.Context) error {
	items, err := s.store.LoadQuestions(ctx)
	if err != nil {
		return fmt.Errorf("failed to load questions: %w", err)
	}
	s.items = items
	log.Debugf("Loaded %d questions", len(items))
	return nil
}

// Add stores a new question in English. A question whose English text
// matches an existing one, ignoring case, is rejected with ErrDuplicate.
func (s *QuestionService) Add(ctx context.Context, text string) (models.Question, error) {
	if strings.TrimSpace(text) == "" {
		return models.Question{}, fmt.Errorf("%w: question text is empty", models.ErrInvalidInput)
	}

	norm, err := s.normalizer.Normalize(ctx, text)
	if err != nil {
		return models.Question{}, err
	}
	english := strings.TrimSpace(norm.Text)

	for _, q := range s.items {
		if strings.EqualFold(strings.TrimSpace(q.Text), english) {
			return models.Question{}, fmt.Errorf("%w: question %s already asks this", models.ErrDuplicate, q.ID)
		}
	}

	question := models.Question{ID: s.newID(), Text: english}
	s.items = append(s.items, question)
	if err := s.store.SaveQuestions(ctx, s.items); err != nil {
		s.items = s.items[:len(s.items)-1]
		return models.Question{}, fmt.Errorf("failed to persist question: %w", err)
	}

	log.WithField("id", question.ID).Info("Question recorded")
	return question.Clone(), nil
}

func (s *QuestionService) FindByID(id string) (models.Question, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return models.Question{}, false
	}
	return s.items[i].Clone(), true
}

// List returns every question in insertion order.
func (s *QuestionService) List() []models.Question {
	out := make([]models.Question, len(s.items))
	for i, q := range s.items {
		out[i] = q.Clone()
	}
	return out
}

// Search returns questions whose text or answers contain term, ignoring
// case. An empty term matches everything.
func (s *QuestionService) Search(term string) []models.Question {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return s.List()
	}
	var out []models.Question
	for _, q := range s.items {
		if matchesQuestion(q, term) {
			out = append(out, q.Clone())
		}
	}
	return out
}

func matchesQuestion(q models.Question, term string) bool {
	if strings.Contains(strings.ToLower(q.Text), term) {
		return true
	}
	for _, a := range q.Answers {
		if strings.Contains(strings.ToLower(a.Text), term) {
			return true
		}
	}
	return false
}

// AddAnswer appends an answer to an existing question. Unknown ids yield
// ErrNotFound and leave the collection untouched.
func (s *QuestionService) AddAnswer(ctx context.Context, questionID, text string) (models.Answer, error) {
	if strings.TrimSpace(text) == "" {
		return models.Answer{}, fmt.Errorf("%w: answer text is empty", models.ErrInvalidInput)
	}
	i := s.indexOf(questionID)
	if i < 0 {
		return models.Answer{}, fmt.Errorf("%w: question %q", models.ErrNotFound, questionID)
	}

	answer := models.Answer{Text: text, CreatedAt: s.now().UTC()}
	n := len(s.items[i].Answers)
	s.items[i].Answers = append(s.items[i].Answers, answer)
	if err := s.store.SaveQuestions(ctx, s.items); err != nil {
		s.items[i].Answers = s.items[i].Answers[:n]
		return models.Answer{}, fmt.Errorf("failed to persist answer: %w", err)
	}

	log.WithField("question_id", questionID).Info("Answer recorded")
	return answer, nil
}

func (s *QuestionService) Count() int { return len(s.items) }

// AnswerCount is the total number of answers across all questions.
func (s *QuestionService) AnswerCount() int {
	n := 0
	for _, q := range s.items {
		n += len(q.Answers)
	}
	return n
}

func (s *QuestionService) DeleteAll(ctx context.Context) error {
	if err := s.store.ClearQuestions(ctx); err != nil {
		return fmt.Errorf("failed to clear questions: %w", err)
	}
	n := len(s.items)
	s.items = nil
	log.Infof("Deleted %d questions", n)
	return nil
}

func (s *QuestionService) indexOf(id string) int {
	for i, q := range s.items {
		if q.ID == id {
			return i
		}
	}
	return -1
}
