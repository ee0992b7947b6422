package locales

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	log "github.com/sirupsen/logrus"
	"golang.org/x/text/language"
)

//go:embed *.json
var localeFS embed.FS

// Catalog resolves interactive-menu messages for one preferred language,
// falling back to English for anything the language lacks.
type Catalog struct {
	localizer *i18n.Localizer
	fallback  *i18n.Localizer
	tag       language.Tag
}

// NewCatalog loads every embedded message file. Unparseable or unknown
// language codes select English.
func NewCatalog(langCode string) (*Catalog, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir(".")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded locales: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		if _, err := bundle.LoadMessageFileFS(localeFS, entry.Name()); err != nil {
			return nil, fmt.Errorf("failed to load message file '%s': %w", entry.Name(), err)
		}
	}

	tag, err := language.Parse(langCode)
	if err != nil {
		log.Warnf("Unknown UI language '%s', using English", langCode)
		tag = language.English
	}
	matched, _, _ := language.NewMatcher(bundle.LanguageTags()).Match(tag)

	return &Catalog{
		localizer: i18n.NewLocalizer(bundle, tag.String()),
		fallback:  i18n.NewLocalizer(bundle, language.English.String()),
		tag:       matched,
	}, nil
}

// Language is the bundle language closest to the requested one.
func (c *Catalog) Language() language.Tag { return c.tag }

// T returns the message for id, rendered with data. Unknown ids come back
// verbatim.
func (c *Catalog) T(id string, data map[string]any) string {
	cfg := &i18n.LocalizeConfig{MessageID: id, TemplateData: data}
	msg, err := c.localizer.Localize(cfg)
	if err == nil {
		return msg
	}
	msg, err = c.fallback.Localize(cfg)
	if err == nil {
		return msg
	}
	log.Debugf("No message for id '%s'", id)
	return id
}
