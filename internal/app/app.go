package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"

	"suggestbox/internal/config"
	"suggestbox/internal/costtracker"
	"suggestbox/internal/normalizer"
	"suggestbox/internal/providers"
	"suggestbox/internal/sentiment"
	"suggestbox/internal/services"
	"suggestbox/internal/store"
	"suggestbox/internal/store/filestore"
	"suggestbox/internal/store/sqlite"
	"suggestbox/pkg/categorizer"
)

// ProviderNames records which implementation backs each pipeline stage.
type ProviderNames struct {
	Detector   string
	Translator string
	Sentiment  string
}

type App struct {
	Config *config.Config
	Store  store.Store

	Detector    normalizer.Detector
	Translator  normalizer.Translator
	Analyzer    sentiment.Analyzer
	Providers   ProviderNames
	Usage       costtracker.CostTracker
	Normalizer  *normalizer.Normalizer
	Classifier  *sentiment.Classifier
	Categorizer categorizer.ContentCategorizer

	// --- Initialized Services ---
	Suggestions *services.SuggestionService
	Questions   *services.QuestionService
	Admin       *services.AdminGate

	openai  *providers.OpenAIProvider
	closers []io.Closer
}

// NewApp wires the store, the providers and the services from cfg, then
// loads both collections. A corrupt store aborts start-up with a
// *store.CorruptStoreError in the chain.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{Config: cfg, Usage: costtracker.New()}

	if err := app.initStore(ctx); err != nil {
		return nil, err
	}
	if err := app.initProviders(ctx); err != nil {
		app.cleanupPartialInit()
		return nil, err
	}
	app.initPipeline()
	app.initServices()
	if err := app.load(ctx); err != nil {
		app.cleanupPartialInit()
		return nil, err
	}

	log.Debug("Application initialization complete.")
	return app, nil
}

// --- Private Helper Methods ---

func (a *App) initStore(ctx context.Context) error {
	cfg := a.Config.Storage
	dir, err := config.ResolveDataDir(cfg.Dir)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}

	switch cfg.Backend {
	case "sqlite":
		st, err := sqlite.New(ctx, config.ResolveFile(dir, cfg.SQLitePath))
		if err != nil {
			return fmt.Errorf("init sqlite store: %w", err)
		}
		a.Store = st
	case "file", "":
		st, err := filestore.New(dir, cfg.SuggestionsFile, cfg.QuestionsFile)
		if err != nil {
			return fmt.Errorf("init file store: %w", err)
		}
		a.Store = st
	default:
		return fmt.Errorf("unknown storage backend '%s'", cfg.Backend)
	}
	log.Debugf("Using store: %s", a.Store.Describe())
	return nil
}

func (a *App) breakerConfig() providers.BreakerConfig {
	b := a.Config.Providers.Breaker
	return providers.BreakerConfig{Enabled: b.Enabled, MaxFailures: b.MaxFailures, OpenTimeout: b.OpenTimeout}
}

func (a *App) openAIProvider() (*providers.OpenAIProvider, error) {
	if a.openai != nil {
		return a.openai, nil
	}
	cfg := a.Config.OpenAI
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required but not set (openai.api_key)")
	}
	client := providers.NewOpenAIClient(cfg.APIKey, cfg.BaseURL, a.Config.Providers.Timeout)
	a.openai = providers.NewOpenAIProvider(client, cfg.Model).WithUsageTracker(a.Usage)
	log.Debugf("Initialized OpenAI provider (Model: %s)", cfg.Model)
	return a.openai, nil
}

func (a *App) initProviders(ctx context.Context) error {
	cfg := a.Config.Providers
	bc := a.breakerConfig()

	switch cfg.Detector {
	case "openai":
		p, err := a.openAIProvider()
		if err != nil {
			return fmt.Errorf("init detector: %w", err)
		}
		a.Detector = providers.GuardDetector(p, bc)
	default:
		a.Detector = providers.NewLocalDetector()
	}

	switch cfg.Translator {
	case "openai":
		p, err := a.openAIProvider()
		if err != nil {
			return fmt.Errorf("init translator: %w", err)
		}
		a.Translator = providers.GuardTranslator(p, bc)
	case "gemini":
		g, err := providers.NewGeminiTranslator(ctx, a.Config.Gemini.APIKey, a.Config.Gemini.Model)
		if err != nil {
			return fmt.Errorf("init translator: %w", err)
		}
		a.closers = append(a.closers, g)
		a.Translator = providers.GuardTranslator(g, bc)
	default:
		a.Translator = providers.NewNoopTranslator()
	}

	switch cfg.Sentiment {
	case "openai":
		p, err := a.openAIProvider()
		if err != nil {
			return fmt.Errorf("init sentiment analyzer: %w", err)
		}
		a.Analyzer = providers.GuardAnalyzer(p, bc)
	default:
		lex, err := providers.NewLexiconAnalyzer()
		if err != nil {
			return fmt.Errorf("init lexicon analyzer: %w", err)
		}
		a.Analyzer = lex
	}

	a.Providers = ProviderNames{
		Detector:   orDefault(cfg.Detector, "local"),
		Translator: orDefault(cfg.Translator, "none"),
		Sentiment:  orDefault(cfg.Sentiment, "local"),
	}
	return nil
}

func (a *App) initPipeline() {
	a.Normalizer = normalizer.New(a.Detector, a.Translator)
	a.Classifier = sentiment.NewClassifier(a.Analyzer)
	a.Categorizer = categorizer.NewDefault()
}

func (a *App) initServices() {
	a.Suggestions = services.NewSuggestionService(services.SuggestionServiceDeps{
		Store:       a.Store,
		Normalizer:  a.Normalizer,
		Classifier:  a.Classifier,
		Categorizer: a.Categorizer,
	})
	a.Questions = services.NewQuestionService(services.QuestionServiceDeps{
		Store:      a.Store,
		Normalizer: a.Normalizer,
	})
	a.Admin = services.NewAdminGate(a.Config.Admin.Password, a.Suggestions, a.Questions)
}

func (a *App) load(ctx context.Context) error {
	if err := a.Suggestions.Load(ctx); err != nil {
		return describeLoadError(err)
	}
	if err := a.Questions.Load(ctx); err != nil {
		return describeLoadError(err)
	}
	return nil
}

func describeLoadError(err error) error {
	var corrupt *store.CorruptStoreError
	if errors.As(err, &corrupt) {
		log.WithFields(log.Fields{
			"collection": corrupt.Collection,
			"path":       corrupt.Path,
			"line":       corrupt.Line,
		}).Error("Persisted data is corrupt; refusing to start")
	}
	return err
}

// Close releases the store and any provider clients.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	if a.Store != nil {
		errs = append(errs, a.Store.Close())
	}
	return errors.Join(errs...)
}

func (a *App) cleanupPartialInit() {
	if err := a.Close(); err != nil {
		log.Warnf("Error during cleanup: %v", err)
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
