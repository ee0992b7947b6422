package providers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestLocalDetector_Detect(t *testing.T) {
	testCases := []struct {
		name     string
		text     string
		expected language.Tag
	}{
		{name: "english", text: "The cafeteria food is terrible", expected: language.English},
		{name: "spanish", text: "La comida de la cafetería es terrible", expected: language.Spanish},
		{name: "german", text: "Das Essen ist schrecklich", expected: language.German},
		{name: "french", text: "Nous voulons plus de réunions avec le chef", expected: language.French},
		{name: "russian", text: "Еда в столовой ужасная", expected: language.Russian},
		{name: "japanese", text: "食堂のご飯はまずいです", expected: language.Japanese},
		{name: "chinese", text: "食堂的饭菜很难吃", expected: language.Chinese},
		{name: "korean", text: "식당 음식이 맛없어요", expected: language.Korean},
		{name: "english no", text: "No parking at the back on Fridays", expected: language.English},
		{name: "spanish no", text: "No hay café en la cocina", expected: language.Spanish},
		{name: "no signal", text: "xyzzy plugh", expected: language.Und},
		{name: "digits only", text: "12345 !!!", expected: language.Und},
	}

	d := NewLocalDetector()
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := d.Detect(context.Background(), tc.text)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestLocalDetector_TieIsInconclusive(t *testing.T) {
	// "de" and "que" are shared by Spanish, French and Portuguese.
	got, err := NewLocalDetector().Detect(context.Background(), "de que")
	require.NoError(t, err)
	assert.Equal(t, language.Und, got)
}
