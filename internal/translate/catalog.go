package translate

import (
	"embed"
	"encoding/json"
	"path"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	"github.com/tphakala/smartwaste/internal/conf"
	"github.com/tphakala/smartwaste/internal/errors"
	"github.com/tphakala/smartwaste/internal/logger"
)

//go:embed locales/*.json
var localeFS embed.FS

// Catalog holds the static interface strings for every supported language.
type Catalog struct {
	bundle     *i18n.Bundle
	mu         sync.RWMutex
	localizers map[string]*i18n.Localizer
}

var (
	defaultCatalog     *Catalog
	defaultCatalogErr  error
	defaultCatalogOnce sync.Once
)

// DefaultCatalog returns the catalog built from the embedded locale files.
func DefaultCatalog() (*Catalog, error) {
	defaultCatalogOnce.Do(func() {
		defaultCatalog, defaultCatalogErr = NewCatalog()
	})
	return defaultCatalog, defaultCatalogErr
}

// NewCatalog loads every embedded locale file into a fresh bundle.
func NewCatalog() (*Catalog, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, errors.New(err).
			Component("translate").
			Category(errors.CategoryFileIO).
			Build()
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, err := bundle.LoadMessageFileFS(localeFS, path.Join("locales", entry.Name())); err != nil {
			return nil, errors.New(err).
				Component("translate").
				Category(errors.CategoryFileIO).
				Context("file", entry.Name()).
				Build()
		}
	}

	return &Catalog{bundle: bundle, localizers: make(map[string]*i18n.Localizer)}, nil
}

func (c *Catalog) localizer(lang string) *i18n.Localizer {
	c.mu.RLock()
	l, ok := c.localizers[lang]
	c.mu.RUnlock()
	if ok {
		return l
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if l, ok = c.localizers[lang]; ok {
		return l
	}
	l = i18n.NewLocalizer(c.bundle, lang, conf.DefaultLanguage)
	c.localizers[lang] = l
	return l
}

// Localize renders messageID in lang. Unknown languages fall back to English
// and unknown IDs render as the ID itself.
func (c *Catalog) Localize(lang, messageID string, data map[string]any) string {
	lang = conf.NormalizeLanguage(lang)
	cfg := &i18n.LocalizeConfig{MessageID: messageID, TemplateData: data}

	msg, err := c.localizer(lang).Localize(cfg)
	if err == nil {
		return msg
	}
	if lang != conf.DefaultLanguage {
		if msg, err = c.localizer(conf.DefaultLanguage).Localize(cfg); err == nil {
			return msg
		}
	}
	GetLogger().Debug("missing message", logger.String("id", messageID), logger.String("lang", lang))
	return messageID
}

// Has reports whether messageID exists in the English catalog.
func (c *Catalog) Has(messageID string) bool {
	_, err := c.localizer(conf.DefaultLanguage).Localize(&i18n.LocalizeConfig{MessageID: messageID})
	return err == nil
}
