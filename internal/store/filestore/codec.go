package filestore

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"suggestbox/internal/models"
)

// Records are one per line. Fields are separated by U+001F (UNIT SEPARATOR),
// which does not occur in typed feedback; the escapes below keep a stray
// separator or a line break inside a field from splitting the record.
const (
	fieldSep   = "\x1f"
	timeLayout = time.RFC3339Nano
	flagSep    = ","

	suggestionHeader = "# suggestbox suggestions v1"
	questionHeader   = "# suggestbox questions v1"
)

var fieldEscaper = strings.NewReplacer(
	`\`, `\\`,
	"\n", `\n`,
	"\r", `\r`,
	fieldSep, `\u`,
)

func escapeField(s string) string {
	return fieldEscaper.Replace(s)
}

func unescapeField(s string) (string, error) {
	if !strings.Contains(s, `\`) {
		return s, nil
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i == len(s) {
			return "", errors.New("dangling escape at end of field")
		}
		switch s[i] {
		case '\\':
			b.WriteByte('\\')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 'u':
			b.WriteString(fieldSep)
		default:
			return "", fmt.Errorf("unknown escape sequence \\%c", s[i])
		}
	}
	return b.String(), nil
}

func joinFields(fields ...string) string {
	escaped := make([]string, len(fields))
	for i, f := range fields {
		escaped[i] = escapeField(f)
	}
	return strings.Join(escaped, fieldSep)
}

func splitFields(line string) ([]string, error) {
	raw := strings.Split(line, fieldSep)
	out := make([]string, len(raw))
	for i, f := range raw {
		v, err := unescapeField(f)
		if err != nil {
			return nil, fmt.Errorf("field %d: %w", i+1, err)
		}
		out[i] = v
	}
	return out, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}

// id | originalText | translatedText | detectedLanguage | sentiment | category | timestamp | flags
func encodeSuggestion(s models.Suggestion) string {
	flags := make([]string, len(s.Flags))
	for i, f := range s.Flags {
		flags[i] = string(f)
	}
	return joinFields(
		s.ID,
		s.OriginalText,
		s.TranslatedText,
		s.DetectedLanguage,
		string(s.Sentiment),
		string(s.Category),
		formatTime(s.CreatedAt),
		strings.Join(flags, flagSep),
	)
}

func decodeSuggestion(line string) (models.Suggestion, error) {
	fields, err := splitFields(line)
	if err != nil {
		return models.Suggestion{}, err
	}
	// The trailing flags field is optional.
	if len(fields) != 7 && len(fields) != 8 {
		return models.Suggestion{}, fmt.Errorf("expected 7 or 8 fields, got %d", len(fields))
	}

	s := models.Suggestion{
		ID:               fields[0],
		OriginalText:     fields[1],
		TranslatedText:   fields[2],
		DetectedLanguage: fields[3],
		Sentiment:        models.Sentiment(fields[4]),
		Category:         models.Category(fields[5]),
	}
	if s.ID == "" {
		return models.Suggestion{}, errors.New("empty id")
	}
	if s.TranslatedText == "" {
		return models.Suggestion{}, errors.New("empty translated text")
	}
	if s.DetectedLanguage == "" {
		return models.Suggestion{}, errors.New("empty detected language")
	}
	if !s.Sentiment.Valid() {
		return models.Suggestion{}, fmt.Errorf("unknown sentiment %q", fields[4])
	}
	if !s.Category.Valid() {
		return models.Suggestion{}, fmt.Errorf("unknown category %q", fields[5])
	}
	if s.CreatedAt, err = parseTime(fields[6]); err != nil {
		return models.Suggestion{}, err
	}
	if len(fields) == 8 && fields[7] != "" {
		for _, raw := range strings.Split(fields[7], flagSep) {
			f := models.Flag(raw)
			if !f.Valid() {
				return models.Suggestion{}, fmt.Errorf("unknown flag %q", raw)
			}
			s.Flags = append(s.Flags, f)
		}
	}
	return s, nil
}

// id | text
func encodeQuestion(q models.Question) string {
	return joinFields(q.ID, q.Text)
}

// id | answerText | timestamp, where id is the parent question's id.
func encodeAnswer(questionID string, a models.Answer) string {
	return joinFields(questionID, a.Text, formatTime(a.CreatedAt))
}

// questionDecoder rebuilds questions from their line sequence. A two-field
// line opens a question; three-field lines attach answers to it.
type questionDecoder struct {
	questions []models.Question
	seen      map[string]bool
}

func newQuestionDecoder() *questionDecoder {
	return &questionDecoder{seen: map[string]bool{}}
}

func (d *questionDecoder) decodeLine(line string) error {
	fields, err := splitFields(line)
	if err != nil {
		return err
	}

	switch len(fields) {
	case 2:
		id, text := fields[0], fields[1]
		if id == "" {
			return errors.New("empty question id")
		}
		if text == "" {
			return errors.New("empty question text")
		}
		if d.seen[id] {
			return fmt.Errorf("duplicate question id %q", id)
		}
		d.seen[id] = true
		d.questions = append(d.questions, models.Question{ID: id, Text: text})
		return nil

	case 3:
		if len(d.questions) == 0 {
			return errors.New("answer line before any question")
		}
		current := &d.questions[len(d.questions)-1]
		if fields[0] != current.ID {
			return fmt.Errorf("answer for question %q follows question %q", fields[0], current.ID)
		}
		createdAt, err := parseTime(fields[2])
		if err != nil {
			return err
		}
		current.Answers = append(current.Answers, models.Answer{Text: fields[1], CreatedAt: createdAt})
		return nil

	default:
		return fmt.Errorf("expected 2 or 3 fields, got %d", len(fields))
	}
}
