package models

import (
	"time"
)

// Suggestion is an anonymous feedback entry together with the metadata
// derived by the normalization pipeline.
type Suggestion struct {
	ID               string
	OriginalText     string
	TranslatedText   string    // English text; equals OriginalText on fallback
	DetectedLanguage string    // ISO 639-1 code or LanguageUnknown
	Sentiment        Sentiment
	Category         Category
	CreatedAt        time.Time
	Flags            []Flag // nil when the pipeline ran without degradation
}

// HasFlag reports whether the suggestion carries the given degradation flag.
func (s Suggestion) HasFlag(f Flag) bool {
	for _, existing := range s.Flags {
		if existing == f {
			return true
		}
	}
	return false
}

// Degraded reports whether any pipeline stage fell back while creating s.
func (s Suggestion) Degraded() bool {
	return len(s.Flags) > 0
}

// Clone returns a copy whose flag slice does not alias s's.
func (s Suggestion) Clone() Suggestion {
	out := s
	if s.Flags != nil {
		out.Flags = append([]Flag(nil), s.Flags...)
	}
	return out
}

type Question struct {
	ID      string
	Text    string
	Answers []Answer
}

// Clone returns a copy whose answer slice does not alias q's.
func (q Question) Clone() Question {
	out := q
	if q.Answers != nil {
		out.Answers = make([]Answer, len(q.Answers))
		copy(out.Answers, q.Answers)
	}
	return out
}

type Answer struct {
	Text      string
	CreatedAt time.Time
}
