package providers

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/text/language"

	"suggestbox/internal/models"
	"suggestbox/internal/normalizer"
	"suggestbox/internal/sentiment"
)

// BreakerConfig controls the circuit breaker placed in front of each
// provider. While a breaker is open, calls fail immediately instead of
// waiting for the transport timeout; the pipeline then falls back.
type BreakerConfig struct {
	Enabled     bool
	MaxFailures uint32        // consecutive failures that open the breaker
	OpenTimeout time.Duration // time before a half-open probe
}

func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Enabled:     true,
		MaxFailures: 3,
		OpenTimeout: 30 * time.Second,
	}
}

func (c BreakerConfig) normalize() BreakerConfig {
	def := DefaultBreakerConfig()
	if c.MaxFailures == 0 {
		c.MaxFailures = def.MaxFailures
	}
	if c.OpenTimeout <= 0 {
		c.OpenTimeout = def.OpenTimeout
	}
	return c
}

func newBreaker[T any](name string, cfg BreakerConfig) *gobreaker.CircuitBreaker[T] {
	return gobreaker.NewCircuitBreaker[T](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.WithFields(log.Fields{"provider": name, "from": from.String(), "to": to.String()}).
				Warn("Provider circuit breaker changed state")
		},
	})
}

func breakerError(name string, err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %s circuit open: %w", models.ErrExternalService, name, err)
	}
	return err
}

// IsCircuitOpen reports whether err came from an open breaker.
func IsCircuitOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

type guardedDetector struct {
	inner normalizer.Detector
	cb    *gobreaker.CircuitBreaker[language.Tag]
}

func GuardDetector(d normalizer.Detector, cfg BreakerConfig) normalizer.Detector {
	if !cfg.Enabled || d == nil {
		return d
	}
	return &guardedDetector{inner: d, cb: newBreaker[language.Tag]("detector", cfg.normalize())}
}

func (g *guardedDetector) Detect(ctx context.Context, text string) (language.Tag, error) {
	tag, err := g.cb.Execute(func() (language.Tag, error) {
		return g.inner.Detect(ctx, text)
	})
	return tag, breakerError("detector", err)
}

type guardedTranslator struct {
	inner normalizer.Translator
	cb    *gobreaker.CircuitBreaker[string]
}

func GuardTranslator(t normalizer.Translator, cfg BreakerConfig) normalizer.Translator {
	if !cfg.Enabled || t == nil {
		return t
	}
	return &guardedTranslator{inner: t, cb: newBreaker[string]("translator", cfg.normalize())}
}

func (g *guardedTranslator) Translate(ctx context.Context, text string, source, target language.Tag) (string, error) {
	out, err := g.cb.Execute(func() (string, error) {
		return g.inner.Translate(ctx, text, source, target)
	})
	return out, breakerError("translator", err)
}

type guardedAnalyzer struct {
	inner sentiment.Analyzer
	cb    *gobreaker.CircuitBreaker[float64]
}

func GuardAnalyzer(a sentiment.Analyzer, cfg BreakerConfig) sentiment.Analyzer {
	if !cfg.Enabled || a == nil {
		return a
	}
	return &guardedAnalyzer{inner: a, cb: newBreaker[float64]("sentiment", cfg.normalize())}
}

func (g *guardedAnalyzer) Polarity(ctx context.Context, text string) (float64, error) {
	score, err := g.cb.Execute(func() (float64, error) {
		return g.inner.Polarity(ctx, text)
	})
	return score, breakerError("sentiment", err)
}
