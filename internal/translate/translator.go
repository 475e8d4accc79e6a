package translate

import (
	"context"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/tphakala/smartwaste/internal/conf"
	"github.com/tphakala/smartwaste/internal/logger"
)

// Translator renders dynamic text in the user's language. It never fails:
// on any problem the original text is returned.
type Translator interface {
	Translate(ctx context.Context, text, lang string) string
}

// Recorder receives translation outcomes.
type Recorder interface {
	RecordTranslation(lang string, cached bool, err error)
}

// Service caches provider results per language.
type Service struct {
	provider Provider
	cache    *cache.Cache
	recorder Recorder
}

// Passthrough is a Translator that returns text unchanged.
type Passthrough struct{}

// Translate returns text.
func (Passthrough) Translate(_ context.Context, text, _ string) string { return text }

// NewService wraps provider with a result cache. cleanupInterval 0 disables
// the background janitor.
func NewService(provider Provider, ttl, cleanupInterval time.Duration) *Service {
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	return &Service{provider: provider, cache: cache.New(ttl, cleanupInterval)}
}

// New returns the configured Translator: a cached LibreTranslate client when
// translation is enabled, otherwise Passthrough.
func New(settings *conf.TranslationSettings) Translator {
	if settings == nil || !settings.Enabled || settings.Endpoint == "" {
		return Passthrough{}
	}
	return NewService(NewLibreTranslate(settings), settings.CacheTTL, settings.CacheTTL)
}

// SetRecorder attaches a metrics recorder.
func (s *Service) SetRecorder(r Recorder) { s.recorder = r }

// Translate implements Translator.
func (s *Service) Translate(ctx context.Context, text, lang string) string {
	lang = conf.NormalizeLanguage(lang)
	if lang == conf.DefaultLanguage || strings.TrimSpace(text) == "" {
		return text
	}

	key := lang + "\x00" + text
	if v, ok := s.cache.Get(key); ok {
		s.record(lang, true, nil)
		return v.(string)
	}

	out, err := s.provider.Translate(ctx, text, lang)
	s.record(lang, false, err)
	if err != nil {
		GetLogger().Debug("translation failed, using original text",
			logger.String("lang", lang),
			logger.Error(err))
		return text
	}
	s.cache.SetDefault(key, out)
	return out
}

func (s *Service) record(lang string, cached bool, err error) {
	if s.recorder != nil {
		s.recorder.RecordTranslation(lang, cached, err)
	}
}
