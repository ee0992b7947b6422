package filestore

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"suggestbox/internal/models"
	"suggestbox/internal/store"
)

const (
	DefaultSuggestionsFile = "suggestions.txt"
	DefaultQuestionsFile   = "questions.txt"
)

// Store keeps each collection in its own line-oriented text file. Saves
// rewrite the whole file through a temp file and a rename so an interrupted
// write never leaves a half-written file behind.
type Store struct {
	suggestionsPath string
	questionsPath   string
}

var _ store.Store = (*Store)(nil)

func New(dir, suggestionsFile, questionsFile string) (*Store, error) {
	if suggestionsFile == "" {
		suggestionsFile = DefaultSuggestionsFile
	}
	if questionsFile == "" {
		questionsFile = DefaultQuestionsFile
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &Store{
		suggestionsPath: filepath.Join(dir, suggestionsFile),
		questionsPath:   filepath.Join(dir, questionsFile),
	}, nil
}

func (s *Store) Describe() string {
	return fmt.Sprintf("files %s, %s", s.suggestionsPath, s.questionsPath)
}

func (s *Store) Close() error { return nil }

func (s *Store) LoadSuggestions(ctx context.Context) ([]models.Suggestion, error) {
	var out []models.Suggestion
	err := readLines(s.suggestionsPath, func(lineNo int, line string) error {
		sug, err := decodeSuggestion(line)
		if err != nil {
			return &store.CorruptStoreError{Collection: "suggestions", Path: s.suggestionsPath, Line: lineNo, Err: err}
		}
		out = append(out, sug)
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Debugf("Loaded %d suggestions from %s", len(out), s.suggestionsPath)
	return out, nil
}

func (s *Store) SaveSuggestions(ctx context.Context, suggestions []models.Suggestion) error {
	return writeAtomic(s.suggestionsPath, func(w *bufio.Writer) error {
		if _, err := w.WriteString(suggestionHeader + "\n"); err != nil {
			return err
		}
		for _, sug := range suggestions {
			if _, err := w.WriteString(encodeSuggestion(sug) + "\n"); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) ClearSuggestions(ctx context.Context) error {
	return removeIfExists(s.suggestionsPath)
}

func (s *Store) LoadQuestions(ctx context.Context) ([]models.Question, error) {
	dec := newQuestionDecoder()
	err := readLines(s.questionsPath, func(lineNo int, line string) error {
		if err := dec.decodeLine(line); err != nil {
			return &store.CorruptStoreError{Collection: "questions", Path: s.questionsPath, Line: lineNo, Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Debugf("Loaded %d questions from %s", len(dec.questions), s.questionsPath)
	return dec.questions, nil
}

func (s *Store) SaveQuestions(ctx context.Context, questions []models.Question) error {
	return writeAtomic(s.questionsPath, func(w *bufio.Writer) error {
		if _, err := w.WriteString(questionHeader + "\n"); err != nil {
			return err
		}
		for _, q := range questions {
			if _, err := w.WriteString(encodeQuestion(q) + "\n"); err != nil {
				return err
			}
			for _, a := range q.Answers {
				if _, err := w.WriteString(encodeAnswer(q.ID, a) + "\n"); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func (s *Store) ClearQuestions(ctx context.Context) error {
	return removeIfExists(s.questionsPath)
}

// readLines calls fn for every record line of path. Blank lines and '#'
// headers are skipped. A missing file yields no lines. Lines have no length
// limit.
func readLines(path string, fn func(lineNo int, line string) error) error {
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	r := bufio.NewReader(file)
	lineNo := 0
	for {
		raw, readErr := r.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return fmt.Errorf("read %s: %w", path, readErr)
		}
		if raw == "" && readErr != nil {
			return nil
		}
		lineNo++
		line := strings.TrimSuffix(strings.TrimSuffix(raw, "\n"), "\r")
		if strings.TrimSpace(line) != "" && !strings.HasPrefix(line, "#") {
			if err := fn(lineNo, line); err != nil {
				return err
			}
		}
		if readErr != nil {
			return nil
		}
	}
}

func writeAtomic(path string, write func(w *bufio.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	w := bufio.NewWriter(tmp)
	if err := write(w); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("flush %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("sync %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return syncDir(filepath.Dir(path))
}

// syncDir flushes the directory entry so the rename survives a crash.
func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return fmt.Errorf("open %s: %w", dir, err)
	}
	defer d.Close()
	if err := d.Sync(); err != nil && !errors.Is(err, os.ErrInvalid) {
		return fmt.Errorf("sync %s: %w", dir, err)
	}
	return nil
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}
