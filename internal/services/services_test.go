package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"suggestbox/internal/models"
	"suggestbox/internal/normalizer"
	"suggestbox/internal/providers"
	"suggestbox/internal/sentiment"
	"suggestbox/internal/store/filestore"
	"suggestbox/internal/store/memory"
	categorizer "suggestbox/pkg/categorizer"
)

var fixedNow = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func offlineNormalizer() *normalizer.Normalizer {
	return normalizer.New(providers.NewLocalDetector(), providers.NewNoopTranslator())
}

func newTestSuggestionService(t *testing.T, st *memory.Store) *SuggestionService {
	t.Helper()
	analyzer, err := providers.NewLexiconAnalyzer()
	require.NoError(t, err)
	return NewSuggestionService(SuggestionServiceDeps{
		Store:       st,
		Normalizer:  offlineNormalizer(),
		Classifier:  sentiment.NewClassifier(analyzer),
		Categorizer: categorizer.NewDefault(),
		NewID:       sequentialIDs("s"),
		Now:         func() time.Time { return fixedNow },
	})
}

func newTestQuestionService(st *memory.Store) *QuestionService {
	return NewQuestionService(QuestionServiceDeps{
		Store:      st,
		Normalizer: offlineNormalizer(),
		NewID:      sequentialIDs("q"),
		Now:        func() time.Time { return fixedNow },
	})
}

type failingClassifier struct{}

func (failingClassifier) Classify(ctx context.Context, text string) (models.Sentiment, error) {
	return "", fmt.Errorf("%w: analyzer offline", models.ErrClassification)
}

func TestSuggestionService_AddCafeteriaComplaint(t *testing.T) {
	st := memory.New()
	svc := newTestSuggestionService(t, st)

	s, err := svc.Add(context.Background(), "The cafeteria food is terrible")
	require.NoError(t, err)

	assert.Equal(t, "s-1", s.ID)
	assert.Equal(t, "en", s.DetectedLanguage)
	assert.Equal(t, "The cafeteria food is terrible", s.TranslatedText)
	assert.Equal(t, models.CategoryFacility, s.Category)
	assert.Equal(t, models.SentimentNegative, s.Sentiment)
	assert.Equal(t, fixedNow, s.CreatedAt)
	assert.False(t, s.Degraded())

	require.Len(t, st.Suggestions, 1)
	assert.Equal(t, s, st.Suggestions[0])
}

func TestSuggestionService_AddTranslationUnavailable(t *testing.T) {
	st := memory.New()
	svc := newTestSuggestionService(t, st)

	raw := "La comida de la cafetería es terrible"
	s, err := svc.Add(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, "es", s.DetectedLanguage)
	assert.Equal(t, raw, s.OriginalText)
	assert.Equal(t, raw, s.TranslatedText)
	assert.True(t, s.HasFlag(models.FlagTranslationUnavailable))
	assert.True(t, s.Sentiment.Valid())
	assert.True(t, s.Category.Valid())

	require.Len(t, st.Suggestions, 1)
	assert.True(t, st.Suggestions[0].HasFlag(models.FlagTranslationUnavailable))
}

func TestSuggestionService_AddClassifierFailureRecordsNeutral(t *testing.T) {
	st := memory.New()
	svc := NewSuggestionService(SuggestionServiceDeps{
		Store:       st,
		Normalizer:  offlineNormalizer(),
		Classifier:  failingClassifier{},
		Categorizer: categorizer.NewDefault(),
	})

	s, err := svc.Add(context.Background(), "We need more parking spaces")
	require.NoError(t, err)
	assert.Equal(t, models.SentimentNeutral, s.Sentiment)
	assert.True(t, s.HasFlag(models.FlagSentimentUnavailable))
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, time.UTC, s.CreatedAt.Location())
}

func TestSuggestionService_AddRejectsBlank(t *testing.T) {
	st := memory.New()
	svc := newTestSuggestionService(t, st)

	for _, raw := range []string{"", "   ", "\n\t"} {
		_, err := svc.Add(context.Background(), raw)
		assert.ErrorIs(t, err, models.ErrInvalidInput)
	}
	assert.Zero(t, svc.Count())
	assert.Zero(t, st.Saves)
}

func TestSuggestionService_AddRollsBackOnSaveFailure(t *testing.T) {
	st := memory.New()
	svc := newTestSuggestionService(t, st)
	_, err := svc.Add(context.Background(), "The desks are great")
	require.NoError(t, err)

	st.SaveErr = errors.New("disk full")
	_, err = svc.Add(context.Background(), "The parking is bad")
	require.Error(t, err)
	assert.ErrorIs(t, err, st.SaveErr)
	assert.Equal(t, 1, svc.Count())
}

func TestSuggestionService_Summarize(t *testing.T) {
	svc := newTestSuggestionService(t, memory.New())

	empty := svc.Summarize()
	assert.Zero(t, empty.Total)
	assert.Len(t, empty.ByCategory, len(models.Categories()))
	assert.Len(t, empty.BySentiment, len(models.Sentiments()))

	ctx := context.Background()
	for _, text := range []string{
		"The cafeteria food is terrible",
		"The new office chairs are great",
		"Please reduce the number of meetings",
		"Our health insurance is excellent",
	} {
		_, err := svc.Add(ctx, text)
		require.NoError(t, err)
	}

	sum := svc.Summarize()
	assert.Equal(t, 4, sum.Total)
	assert.Equal(t, 2, sum.ByCategory[models.CategoryFacility])
	assert.Equal(t, 1, sum.ByCategory[models.CategoryWorkProcess])
	assert.Equal(t, 1, sum.ByCategory[models.CategoryBenefits])
	assert.Equal(t, 0, sum.ByCategory[models.CategoryOther])
	assert.Equal(t, 2, sum.BySentiment[models.SentimentPositive])
	assert.Equal(t, 1, sum.BySentiment[models.SentimentNeutral])
	assert.Equal(t, 1, sum.BySentiment[models.SentimentNegative])

	facility := svc.ByCategory(models.CategoryFacility)
	require.Len(t, facility, 2)
	assert.Equal(t, "s-1", facility[0].ID)
	assert.Equal(t, "s-2", facility[1].ID)
}

func TestSuggestionService_Sample(t *testing.T) {
	svc := newTestSuggestionService(t, memory.New())

	_, err := svc.Sample()
	assert.ErrorIs(t, err, models.ErrEmptyCollection)

	ctx := context.Background()
	ids := map[string]bool{}
	for _, text := range []string{"The desks are great", "The parking is bad", "More training please"} {
		s, err := svc.Add(ctx, text)
		require.NoError(t, err)
		ids[s.ID] = true
	}

	for i := 0; i < 20; i++ {
		s, err := svc.Sample()
		require.NoError(t, err)
		assert.True(t, ids[s.ID], "sample %s must come from the collection", s.ID)
	}
}

func TestSuggestionService_LoadAndDeleteAll(t *testing.T) {
	st := memory.New()
	st.Suggestions = []models.Suggestion{{
		ID: "existing", OriginalText: "x", TranslatedText: "x", DetectedLanguage: "en",
		Sentiment: models.SentimentNeutral, Category: models.CategoryOther, CreatedAt: fixedNow,
	}}
	svc := newTestSuggestionService(t, st)
	require.NoError(t, svc.Load(context.Background()))
	assert.Equal(t, 1, svc.Count())

	require.NoError(t, svc.DeleteAll(context.Background()))
	assert.Zero(t, svc.Count())
	assert.Empty(t, st.Suggestions)
	_, err := svc.Sample()
	assert.ErrorIs(t, err, models.ErrEmptyCollection)
}

func TestSuggestionService_ReturnedValuesAreCopies(t *testing.T) {
	svc := newTestSuggestionService(t, memory.New())
	s, err := svc.Add(context.Background(), "La comida de la cafetería es terrible")
	require.NoError(t, err)
	require.NotEmpty(t, s.Flags)

	svc.List()[0].Flags[0] = "tampered"
	svc.ByCategory(s.Category)[0].Flags[0] = "tampered"
	sampled, err := svc.Sample()
	require.NoError(t, err)
	sampled.Flags[0] = "tampered"

	assert.Equal(t, models.FlagTranslationUnavailable, svc.List()[0].Flags[0])
}

func TestSuggestionService_LongSuggestionSurvivesReload(t *testing.T) {
	st, err := filestore.New(t.TempDir(), "", "")
	require.NoError(t, err)
	analyzer, err := providers.NewLexiconAnalyzer()
	require.NoError(t, err)
	deps := SuggestionServiceDeps{
		Store:       st,
		Normalizer:  offlineNormalizer(),
		Classifier:  sentiment.NewClassifier(analyzer),
		Categorizer: categorizer.NewDefault(),
	}
	ctx := context.Background()

	raw := "The office is " + strings.Repeat("very ", 500_000) + "nice"
	added, err := NewSuggestionService(deps).Add(ctx, raw)
	require.NoError(t, err)

	reloaded := NewSuggestionService(deps)
	require.NoError(t, reloaded.Load(ctx))
	require.Equal(t, 1, reloaded.Count())
	assert.Equal(t, added.ID, reloaded.List()[0].ID)
	assert.Equal(t, raw, reloaded.List()[0].OriginalText)
}

func TestQuestionService_AddAndAnswer(t *testing.T) {
	st := memory.New()
	svc := newTestQuestionService(st)
	ctx := context.Background()

	q, err := svc.Add(ctx, "When is the next team offsite?")
	require.NoError(t, err)
	assert.Equal(t, "q-1", q.ID)
	assert.Empty(t, q.Answers)

	a, err := svc.AddAnswer(ctx, q.ID, "Probably in June")
	require.NoError(t, err)
	assert.Equal(t, fixedNow, a.CreatedAt)

	found, ok := svc.FindByID(q.ID)
	require.True(t, ok)
	require.Len(t, found.Answers, 1)
	assert.Equal(t, "Probably in June", found.Answers[0].Text)

	require.Len(t, st.Questions, 1)
	assert.Len(t, st.Questions[0].Answers, 1)
	assert.Equal(t, 1, svc.AnswerCount())
}

func TestQuestionService_AddAnswerUnknownID(t *testing.T) {
	st := memory.New()
	svc := newTestQuestionService(st)
	ctx := context.Background()
	_, err := svc.Add(ctx, "Can we get standing desks?")
	require.NoError(t, err)
	before := svc.List()
	saves := st.Saves

	_, err = svc.AddAnswer(ctx, "missing", "Yes")
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Equal(t, before, svc.List())
	assert.Equal(t, saves, st.Saves)
}

func TestQuestionService_RejectsDuplicates(t *testing.T) {
	svc := newTestQuestionService(memory.New())
	ctx := context.Background()

	_, err := svc.Add(ctx, "Is there free parking?")
	require.NoError(t, err)
	_, err = svc.Add(ctx, "  is there FREE parking?  ")
	assert.ErrorIs(t, err, models.ErrDuplicate)
	assert.Equal(t, 1, svc.Count())
}

func TestQuestionService_ListKeepsInsertionOrder(t *testing.T) {
	svc := newTestQuestionService(memory.New())
	ctx := context.Background()
	for _, text := range []string{"First question?", "Second question?", "Third question?"} {
		_, err := svc.Add(ctx, text)
		require.NoError(t, err)
	}

	list := svc.List()
	require.Len(t, list, 3)
	assert.Equal(t, []string{"q-1", "q-2", "q-3"}, []string{list[0].ID, list[1].ID, list[2].ID})

	_, ok := svc.FindByID("q-9")
	assert.False(t, ok)
}

func TestQuestionService_Search(t *testing.T) {
	svc := newTestQuestionService(memory.New())
	ctx := context.Background()
	q1, err := svc.Add(ctx, "Is there free parking?")
	require.NoError(t, err)
	_, err = svc.Add(ctx, "When do bonuses get paid?")
	require.NoError(t, err)
	_, err = svc.AddAnswer(ctx, q1.ID, "Only in the garage")
	require.NoError(t, err)

	assert.Len(t, svc.Search("PARKING"), 1)
	assert.Len(t, svc.Search("garage"), 1)
	assert.Len(t, svc.Search(""), 2)
	assert.Empty(t, svc.Search("cafeteria"))
}

func TestQuestionService_ReturnedValuesAreCopies(t *testing.T) {
	svc := newTestQuestionService(memory.New())
	ctx := context.Background()
	q, err := svc.Add(ctx, "Any news on remote work?")
	require.NoError(t, err)
	_, err = svc.AddAnswer(ctx, q.ID, "Soon")
	require.NoError(t, err)

	list := svc.List()
	list[0].Answers[0].Text = "changed"
	found, _ := svc.FindByID(q.ID)
	assert.Equal(t, "Soon", found.Answers[0].Text)
}

func TestAdminGate_Login(t *testing.T) {
	ctx := context.Background()
	suggestions := newTestSuggestionService(t, memory.New())
	questions := newTestQuestionService(memory.New())
	for _, text := range []string{"The cafeteria food is terrible", "The new office chairs are great"} {
		_, err := suggestions.Add(ctx, text)
		require.NoError(t, err)
	}
	q, err := questions.Add(ctx, "Is there free parking?")
	require.NoError(t, err)
	_, err = questions.AddAnswer(ctx, q.ID, "Yes")
	require.NoError(t, err)

	gate := NewAdminGate("s3cret", suggestions, questions)

	session, err := gate.Login("wrong")
	assert.ErrorIs(t, err, models.ErrAuth)
	assert.Nil(t, session)
	assert.NotContains(t, err.Error(), "s3cret")

	session, err = gate.Login("s3cret")
	require.NoError(t, err)
	sum := session.Summary()
	assert.Equal(t, 2, sum.Suggestions.Total)
	assert.Equal(t, 2, sum.Suggestions.ByCategory[models.CategoryFacility])
	assert.Equal(t, 1, sum.Questions)
	assert.Equal(t, 1, sum.Answers)
	assert.Len(t, session.Browse(models.CategoryFacility), 2)
	assert.Empty(t, session.Browse(models.CategoryBenefits))
	assert.Len(t, session.Questions(), 1)

	require.NoError(t, session.DeleteAll(ctx))
	assert.Zero(t, suggestions.Count())
	assert.Zero(t, questions.Count())
}

func TestAdminGate_EmptySecretDeniesEveryone(t *testing.T) {
	gate := NewAdminGate("", newTestSuggestionService(t, memory.New()), newTestQuestionService(memory.New()))
	_, err := gate.Login("")
	assert.ErrorIs(t, err, models.ErrAuth)
}

func TestAdminSession_DeleteAllReportsFailures(t *testing.T) {
	sst := memory.New()
	qst := memory.New()
	qst.SaveErr = errors.New("read-only filesystem")
	gate := NewAdminGate("pw", newTestSuggestionService(t, sst), newTestQuestionService(qst))
	session, err := gate.Login("pw")
	require.NoError(t, err)

	err = session.DeleteAll(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, qst.SaveErr)
}
