package providers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"suggestbox/internal/models"
)

type countingTranslator struct {
	calls int
	err   error
}

func (c *countingTranslator) Translate(ctx context.Context, text string, source, target language.Tag) (string, error) {
	c.calls++
	if c.err != nil {
		return "", c.err
	}
	return "translated", nil
}

type countingAnalyzer struct {
	calls int
	err   error
}

func (c *countingAnalyzer) Polarity(ctx context.Context, text string) (float64, error) {
	c.calls++
	return 0.5, c.err
}

func TestGuardTranslator_OpensAfterConsecutiveFailures(t *testing.T) {
	inner := &countingTranslator{err: errors.New("connection refused")}
	guarded := GuardTranslator(inner, BreakerConfig{Enabled: true, MaxFailures: 2, OpenTimeout: time.Minute})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := guarded.Translate(ctx, "Hallo", language.German, language.English)
		require.Error(t, err)
		assert.False(t, IsCircuitOpen(err))
	}

	_, err := guarded.Translate(ctx, "Hallo", language.German, language.English)
	require.Error(t, err)
	assert.True(t, IsCircuitOpen(err))
	assert.ErrorIs(t, err, models.ErrExternalService)
	assert.Equal(t, 2, inner.calls, "open breaker must not call the provider")
}

func TestGuardTranslator_PassesThroughSuccess(t *testing.T) {
	inner := &countingTranslator{}
	guarded := GuardTranslator(inner, DefaultBreakerConfig())

	out, err := guarded.Translate(context.Background(), "Hallo", language.German, language.English)
	require.NoError(t, err)
	assert.Equal(t, "translated", out)
}

func TestGuardDisabledReturnsInner(t *testing.T) {
	inner := &countingAnalyzer{}
	assert.Same(t, inner, GuardAnalyzer(inner, BreakerConfig{Enabled: false}))

	d := NewLocalDetector()
	assert.Same(t, d, GuardDetector(d, BreakerConfig{}))
}

func TestGuardAnalyzer_OpensAndFailsFast(t *testing.T) {
	inner := &countingAnalyzer{err: errors.New("timeout")}
	guarded := GuardAnalyzer(inner, BreakerConfig{Enabled: true, MaxFailures: 1, OpenTimeout: time.Minute})

	_, err := guarded.Polarity(context.Background(), "text")
	require.Error(t, err)
	_, err = guarded.Polarity(context.Background(), "text")
	assert.True(t, IsCircuitOpen(err))
	assert.Equal(t, 1, inner.calls)
}
