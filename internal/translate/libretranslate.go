package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/tphakala/smartwaste/internal/conf"
	"github.com/tphakala/smartwaste/internal/errors"
	"github.com/tphakala/smartwaste/internal/privacy"
)

const maxResponseBytes = 1 << 20

// Provider translates English text into a target language.
type Provider interface {
	Translate(ctx context.Context, text, target string) (string, error)
}

// LibreTranslate calls a LibreTranslate compatible /translate endpoint.
type LibreTranslate struct {
	Endpoint string
	APIKey   string
	Client   *http.Client
	limiter  *rate.Limiter
}

type libreRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

type libreResponse struct {
	TranslatedText string `json:"translatedText"`
	Error          string `json:"error,omitempty"`
}

// NewLibreTranslate builds a provider from settings. A zero rate limit means
// unlimited.
func NewLibreTranslate(settings *conf.TranslationSettings) *LibreTranslate {
	limit := rate.Inf
	if settings.RateLimit > 0 {
		limit = rate.Limit(settings.RateLimit)
	}
	burst := max(settings.Burst, 1)
	timeout := settings.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &LibreTranslate{
		Endpoint: settings.Endpoint,
		APIKey:   settings.APIKey,
		Client:   &http.Client{Timeout: timeout},
		limiter:  rate.NewLimiter(limit, burst),
	}
}

// Translate sends one request, waiting for the rate limiter first.
func (p *LibreTranslate) Translate(ctx context.Context, text, target string) (string, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return "", errors.New(err).
				Component("translate").
				Category(errors.CategoryTimeout).
				Build()
		}
	}

	body, err := json.Marshal(libreRequest{
		Q:      text,
		Source: conf.DefaultLanguage,
		Target: target,
		Format: "text",
		APIKey: p.APIKey,
	})
	if err != nil {
		return "", errors.New(err).Component("translate").Category(errors.CategoryTranslation).Build()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", errors.New(privacy.WrapError(err)).
			Component("translate").
			Category(errors.CategoryConfiguration).
			Build()
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		return "", errors.New(privacy.WrapError(err)).
			Component("translate").
			Category(errors.CategoryNetwork).
			Context("endpoint", privacy.RedactURL(p.Endpoint)).
			Build()
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", errors.New(err).Component("translate").Category(errors.CategoryNetwork).Build()
	}
	if resp.StatusCode != http.StatusOK {
		return "", errors.Newf("translation endpoint returned %d", resp.StatusCode).
			Component("translate").
			Category(errors.CategoryHTTP).
			Context("status", resp.StatusCode).
			Context("target", target).
			Build()
	}

	var out libreResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", errors.New(fmt.Errorf("decode response: %w", err)).
			Component("translate").
			Category(errors.CategoryTranslation).
			Build()
	}
	if strings.TrimSpace(out.TranslatedText) == "" {
		return "", errors.Newf("empty translation").
			Component("translate").
			Category(errors.CategoryTranslation).
			Context("target", target).
			Build()
	}
	return out.TranslatedText, nil
}
