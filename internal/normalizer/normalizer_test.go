package normalizer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"suggestbox/internal/models"
)

type mockDetector struct {
	mock.Mock
}

func (m *mockDetector) Detect(ctx context.Context, text string) (language.Tag, error) {
	args := m.Called(ctx, text)
	return args.Get(0).(language.Tag), args.Error(1)
}

type mockTranslator struct {
	mock.Mock
}

func (m *mockTranslator) Translate(ctx context.Context, text string, source, target language.Tag) (string, error) {
	args := m.Called(ctx, text, source, target)
	return args.String(0), args.Error(1)
}

func TestNormalize_EnglishSkipsTranslation(t *testing.T) {
	det := new(mockDetector)
	tr := new(mockTranslator)
	det.On("Detect", mock.Anything, "The cafeteria food is terrible").Return(language.AmericanEnglish, nil)

	res, err := New(det, tr).Normalize(context.Background(), "The cafeteria food is terrible")
	require.NoError(t, err)
	assert.Equal(t, Result{Language: "en", Text: "The cafeteria food is terrible"}, res)
	tr.AssertNotCalled(t, "Translate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	det.AssertExpectations(t)
}

func TestNormalize_TranslatesForeignText(t *testing.T) {
	det := new(mockDetector)
	tr := new(mockTranslator)
	det.On("Detect", mock.Anything, "La comida es terrible").Return(language.Spanish, nil)
	tr.On("Translate", mock.Anything, "La comida es terrible", language.Spanish, language.English).
		Return("  The food is terrible ", nil)

	res, err := New(det, tr).Normalize(context.Background(), "La comida es terrible")
	require.NoError(t, err)
	assert.Equal(t, Result{Language: "es", Text: "The food is terrible"}, res)
	tr.AssertExpectations(t)
}

func TestNormalize_TranslationFallback(t *testing.T) {
	testCases := []struct {
		name   string
		out    string
		outErr error
	}{
		{name: "provider error", outErr: errors.New("503 service unavailable")},
		{name: "empty translation", out: "   "},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			det := new(mockDetector)
			tr := new(mockTranslator)
			det.On("Detect", mock.Anything, mock.Anything).Return(language.German, nil)
			tr.On("Translate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(tc.out, tc.outErr)

			res, err := New(det, tr).Normalize(context.Background(), "Das Essen ist schrecklich")
			require.NoError(t, err)
			assert.Equal(t, "de", res.Language)
			assert.Equal(t, "Das Essen ist schrecklich", res.Text)
			assert.True(t, res.TranslationUnavailable)
		})
	}
}

func TestNormalize_NoTranslatorConfigured(t *testing.T) {
	det := new(mockDetector)
	det.On("Detect", mock.Anything, mock.Anything).Return(language.French, nil)

	res, err := New(det, nil).Normalize(context.Background(), "La cantine est nulle")
	require.NoError(t, err)
	assert.Equal(t, Result{Language: "fr", Text: "La cantine est nulle", TranslationUnavailable: true}, res)
}

func TestNormalize_DetectionFailureSkipsTranslation(t *testing.T) {
	testCases := []struct {
		name string
		tag  language.Tag
		err  error
	}{
		{name: "detector error", tag: language.Und, err: errors.New("timeout")},
		{name: "inconclusive", tag: language.Und},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			det := new(mockDetector)
			tr := new(mockTranslator)
			det.On("Detect", mock.Anything, mock.Anything).Return(tc.tag, tc.err)

			res, err := New(det, tr).Normalize(context.Background(), "???")
			require.NoError(t, err)
			assert.Equal(t, Result{Language: models.LanguageUnknown, Text: "???"}, res)
			tr.AssertNotCalled(t, "Translate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestNormalize_RejectsBlankInput(t *testing.T) {
	for _, in := range []string{"", "   ", "\n\t"} {
		_, err := New(nil, nil).Normalize(context.Background(), in)
		assert.ErrorIs(t, err, models.ErrInvalidInput)
	}
}
