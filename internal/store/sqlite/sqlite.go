package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	log "github.com/sirupsen/logrus"

	"suggestbox/internal/models"
	"suggestbox/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS suggestions (
	seq               INTEGER PRIMARY KEY AUTOINCREMENT,
	id                TEXT NOT NULL UNIQUE,
	original_text     TEXT NOT NULL,
	translated_text   TEXT NOT NULL,
	detected_language TEXT NOT NULL,
	sentiment         TEXT NOT NULL,
	category          TEXT NOT NULL,
	created_at        TEXT NOT NULL,
	flags             TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS questions (
	seq  INTEGER PRIMARY KEY AUTOINCREMENT,
	id   TEXT NOT NULL UNIQUE,
	text TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS answers (
	seq         INTEGER PRIMARY KEY AUTOINCREMENT,
	question_id TEXT NOT NULL REFERENCES questions(id) ON DELETE CASCADE,
	text        TEXT NOT NULL,
	created_at  TEXT NOT NULL
);`

const timeLayout = time.RFC3339Nano

// Store keeps both collections in a single SQLite database file. Every save
// replaces the collection inside one transaction.
type Store struct {
	db   *sql.DB
	path string
}

var _ store.Store = (*Store)(nil)

func New(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// Single operator, single connection.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply sqlite schema: %w", err)
	}

	log.Debugf("Opened sqlite store at %s", path)
	return &Store{db: db, path: path}, nil
}

func (s *Store) Describe() string { return "sqlite " + s.path }

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *Store) LoadSuggestions(ctx context.Context) ([]models.Suggestion, error) {
	if s.db == nil {
		return nil, store.ErrClosed
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, original_text, translated_text, detected_language, sentiment, category, created_at, flags
		FROM suggestions ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query suggestions: %w", err)
	}
	defer rows.Close()

	var out []models.Suggestion
	row := 0
	for rows.Next() {
		row++
		var (
			sug       models.Suggestion
			sentiment string
			category  string
			createdAt string
			flags     string
		)
		if err := rows.Scan(&sug.ID, &sug.OriginalText, &sug.TranslatedText, &sug.DetectedLanguage,
			&sentiment, &category, &createdAt, &flags); err != nil {
			return nil, s.corrupt("suggestions", row, err)
		}
		sug.Sentiment = models.Sentiment(sentiment)
		sug.Category = models.Category(category)
		if err := validateSuggestion(&sug, createdAt, flags); err != nil {
			return nil, s.corrupt("suggestions", row, err)
		}
		out = append(out, sug)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate suggestions: %w", err)
	}
	return out, nil
}

func (s *Store) SaveSuggestions(ctx context.Context, suggestions []models.Suggestion) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM suggestions`); err != nil {
			return fmt.Errorf("clear suggestions: %w", err)
		}
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO suggestions (id, original_text, translated_text, detected_language, sentiment, category, created_at, flags)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare suggestion insert: %w", err)
		}
		defer stmt.Close()

		for _, sug := range suggestions {
			flags := make([]string, len(sug.Flags))
			for i, f := range sug.Flags {
				flags[i] = string(f)
			}
			if _, err := stmt.ExecContext(ctx, sug.ID, sug.OriginalText, sug.TranslatedText, sug.DetectedLanguage,
				string(sug.Sentiment), string(sug.Category), sug.CreatedAt.UTC().Format(timeLayout),
				strings.Join(flags, ",")); err != nil {
				return fmt.Errorf("insert suggestion %s: %w", sug.ID, err)
			}
		}
		return nil
	})
}

func (s *Store) ClearSuggestions(ctx context.Context) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `DELETE FROM suggestions`)
		return err
	})
}

func (s *Store) LoadQuestions(ctx context.Context) ([]models.Question, error) {
	if s.db == nil {
		return nil, store.ErrClosed
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id, text FROM questions ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	var out []models.Question
	index := map[string]int{}
	row := 0
	for rows.Next() {
		row++
		var q models.Question
		if err := rows.Scan(&q.ID, &q.Text); err != nil {
			rows.Close()
			return nil, s.corrupt("questions", row, err)
		}
		if q.ID == "" || q.Text == "" {
			rows.Close()
			return nil, s.corrupt("questions", row, errors.New("empty question id or text"))
		}
		index[q.ID] = len(out)
		out = append(out, q)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate questions: %w", err)
	}

	answers, err := s.db.QueryContext(ctx, `SELECT question_id, text, created_at FROM answers ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query answers: %w", err)
	}
	defer answers.Close()
	row = 0
	for answers.Next() {
		row++
		var questionID, text, createdAt string
		if err := answers.Scan(&questionID, &text, &createdAt); err != nil {
			return nil, s.corrupt("answers", row, err)
		}
		i, ok := index[questionID]
		if !ok {
			return nil, s.corrupt("answers", row, fmt.Errorf("answer references unknown question %q", questionID))
		}
		ts, err := time.Parse(timeLayout, createdAt)
		if err != nil {
			return nil, s.corrupt("answers", row, fmt.Errorf("invalid timestamp %q: %w", createdAt, err))
		}
		out[i].Answers = append(out[i].Answers, models.Answer{Text: text, CreatedAt: ts.UTC()})
	}
	if err := answers.Err(); err != nil {
		return nil, fmt.Errorf("iterate answers: %w", err)
	}
	return out, nil
}

func (s *Store) SaveQuestions(ctx context.Context, questions []models.Question) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM answers`); err != nil {
			return fmt.Errorf("clear answers: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM questions`); err != nil {
			return fmt.Errorf("clear questions: %w", err)
		}
		for _, q := range questions {
			if _, err := tx.ExecContext(ctx, `INSERT INTO questions (id, text) VALUES (?, ?)`, q.ID, q.Text); err != nil {
				return fmt.Errorf("insert question %s: %w", q.ID, err)
			}
			for _, a := range q.Answers {
				if _, err := tx.ExecContext(ctx, `INSERT INTO answers (question_id, text, created_at) VALUES (?, ?, ?)`,
					q.ID, a.Text, a.CreatedAt.UTC().Format(timeLayout)); err != nil {
					return fmt.Errorf("insert answer for question %s: %w", q.ID, err)
				}
			}
		}
		return nil
	})
}

func (s *Store) ClearQuestions(ctx context.Context) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM answers`); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM questions`)
		return err
	})
}

func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	if s.db == nil {
		return store.ErrClosed
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Errorf("Failed to roll back sqlite transaction: %v", rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (s *Store) corrupt(collection string, row int, err error) error {
	return &store.CorruptStoreError{Collection: collection, Path: s.path, Line: row, Err: err}
}

func validateSuggestion(sug *models.Suggestion, createdAt, flags string) error {
	if sug.ID == "" || sug.TranslatedText == "" || sug.DetectedLanguage == "" {
		return errors.New("missing required field")
	}
	if !sug.Sentiment.Valid() {
		return fmt.Errorf("unknown sentiment %q", sug.Sentiment)
	}
	if !sug.Category.Valid() {
		return fmt.Errorf("unknown category %q", sug.Category)
	}
	ts, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return fmt.Errorf("invalid timestamp %q: %w", createdAt, err)
	}
	sug.CreatedAt = ts.UTC()
	if flags != "" {
		for _, raw := range strings.Split(flags, ",") {
			f := models.Flag(raw)
			if !f.Valid() {
				return fmt.Errorf("unknown flag %q", raw)
			}
			sug.Flags = append(sug.Flags, f)
		}
	}
	return nil
}
