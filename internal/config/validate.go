package config

import (
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
)

/*
Validation checks the selected backend and providers, and that every
remote provider that is switched on has the credentials it needs.
*/

func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case "file":
		if c.Storage.SuggestionsFile == "" || c.Storage.QuestionsFile == "" {
			return errors.New("storage.suggestions_file and storage.questions_file are required for the file backend")
		}
		if c.Storage.SuggestionsFile == c.Storage.QuestionsFile {
			return errors.New("storage.suggestions_file and storage.questions_file must differ")
		}
	case "sqlite":
		if c.Storage.SQLitePath == "" {
			return errors.New("storage.sqlite_path is required for the sqlite backend")
		}
	default:
		return fmt.Errorf("storage.backend must be 'file' or 'sqlite', got '%s'", c.Storage.Backend)
	}

	if err := oneOf("providers.detector", c.Providers.Detector, "local", "openai"); err != nil {
		return err
	}
	if err := oneOf("providers.translator", c.Providers.Translator, "none", "openai", "gemini"); err != nil {
		return err
	}
	if err := oneOf("providers.sentiment", c.Providers.Sentiment, "local", "openai"); err != nil {
		return err
	}

	if c.usesOpenAI() && c.OpenAI.APIKey == "" {
		return errors.New("openai.api_key (or OPENAI_API_KEY) is required when an openai provider is selected")
	}
	if c.Providers.Translator == "gemini" && c.Gemini.APIKey == "" {
		return errors.New("gemini.api_key (or GEMINI_API_KEY) is required when providers.translator is 'gemini'")
	}

	if c.Providers.Timeout <= 0 {
		return errors.New("providers.timeout must be positive")
	}
	if c.Providers.Breaker.Enabled {
		if c.Providers.Breaker.MaxFailures == 0 {
			return errors.New("providers.breaker.max_failures must be positive when the breaker is enabled")
		}
		if c.Providers.Breaker.OpenTimeout <= 0 {
			return errors.New("providers.breaker.open_timeout must be positive when the breaker is enabled")
		}
	}

	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if err := oneOf("log.format", c.Log.Format, "text", "json"); err != nil {
		return err
	}

	return nil
}

func (c *Config) usesOpenAI() bool {
	return c.Providers.Detector == "openai" || c.Providers.Translator == "openai" || c.Providers.Sentiment == "openai"
}

func oneOf(key, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("%s must be one of %s, got '%s'", key, strings.Join(allowed, ", "), value)
}
