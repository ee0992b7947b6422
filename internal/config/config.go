package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// BreakerConfig controls the circuit breaker placed around remote providers.
type BreakerConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	MaxFailures uint32        `mapstructure:"max_failures"`
	OpenTimeout time.Duration `mapstructure:"open_timeout"`
}

type Config struct {
	Storage struct {
		Backend         string `mapstructure:"backend"` // "file" or "sqlite"
		Dir             string `mapstructure:"dir"`     // empty means ~/.config/suggestbox/data
		SuggestionsFile string `mapstructure:"suggestions_file"`
		QuestionsFile   string `mapstructure:"questions_file"`
		SQLitePath      string `mapstructure:"sqlite_path"` // relative paths resolve against Dir
	} `mapstructure:"storage"`

	Providers struct {
		Detector   string        `mapstructure:"detector"`   // "local" or "openai"
		Translator string        `mapstructure:"translator"` // "none", "openai" or "gemini"
		Sentiment  string        `mapstructure:"sentiment"`  // "local" or "openai"
		Timeout    time.Duration `mapstructure:"timeout"`
		Breaker    BreakerConfig `mapstructure:"breaker"`
	} `mapstructure:"providers"`

	OpenAI struct {
		APIKey  string `mapstructure:"api_key"`
		Model   string `mapstructure:"model"`
		BaseURL string `mapstructure:"base_url"`
	} `mapstructure:"openai"`

	Gemini struct {
		APIKey string `mapstructure:"api_key"`
		Model  string `mapstructure:"model"`
	} `mapstructure:"gemini"`

	Admin struct {
		Password string `mapstructure:"password"`
	} `mapstructure:"admin"`

	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"` // "text" or "json"
	} `mapstructure:"log"`

	UI struct {
		Language string `mapstructure:"language"`
	} `mapstructure:"ui"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("storage.backend", "file")
	v.SetDefault("storage.dir", "")
	v.SetDefault("storage.suggestions_file", "suggestions.txt")
	v.SetDefault("storage.questions_file", "questions.txt")
	v.SetDefault("storage.sqlite_path", "suggestbox.db")

	v.SetDefault("providers.detector", "local")
	v.SetDefault("providers.translator", "none")
	v.SetDefault("providers.sentiment", "local")
	v.SetDefault("providers.timeout", 15*time.Second)
	v.SetDefault("providers.breaker.enabled", true)
	v.SetDefault("providers.breaker.max_failures", 3)
	v.SetDefault("providers.breaker.open_timeout", 30*time.Second)

	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("gemini.model", "gemini-1.5-flash")

	v.SetDefault("admin.password", "")
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")
	v.SetDefault("ui.language", "en")
}

// LoadConfig reads config.yaml from the working directory or
// ~/.config/suggestbox, then applies SUGGESTBOX_* environment overrides.
// A .env file in the working directory is loaded first when present.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err == nil {
		log.Debug("Loaded environment from .env")
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/suggestbox")

	v.SetEnvPrefix("SUGGESTBOX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The provider SDKs' conventional variables work without the prefix.
	_ = v.BindEnv("openai.api_key", "SUGGESTBOX_OPENAI_API_KEY", "OPENAI_API_KEY")
	_ = v.BindEnv("gemini.api_key", "SUGGESTBOX_GEMINI_API_KEY", "GEMINI_API_KEY")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		log.Debugf("Using config file: %s", v.ConfigFileUsed())
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &config, nil
}
