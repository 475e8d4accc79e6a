package httpcontroller

import (
	"context"
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/tphakala/smartwaste/internal/conf"
	"github.com/tphakala/smartwaste/internal/logger"
	"github.com/tphakala/smartwaste/internal/notification"
	"github.com/tphakala/smartwaste/internal/session"
	"github.com/tphakala/smartwaste/internal/translate"
)

// Flash carries the one-shot outcome of the action that produced the page.
type Flash struct {
	ErrorID     string   // catalog id of an inline warning
	Suggestions []string // shown after accepting a recommendation
	IdeasLink   string
	SearchLink  string // shown after submitting a location
	LinkLabelID string
}

// PredictionView is a prediction with its display strings in the page language.
type PredictionView struct {
	Class        string
	Category     string
	Method       string
	Verb         string
	Confidence   int
	OffersChoice bool
	Disposable   bool
}

// ToastView is a rendered reward toast.
type ToastView struct {
	Message string
	Badge   string
	Style   string
}

// IdeaView is one forum entry.
type IdeaView struct {
	Author string
	Idea   string
}

// PageData is everything the index template renders.
type PageData struct {
	Lang       string
	Languages  []conf.Language
	CSRF       string
	View       session.View
	Level      string
	LevelEmoji string
	Remaining  int
	Prediction *PredictionView
	Flash      Flash
	Toasts     []ToastView
	Ideas      []IdeaView

	catalog *translate.Catalog
}

// T renders a catalog message. Template data is given as key, value pairs.
func (p *PageData) T(id string, kv ...any) string {
	if p.catalog == nil {
		return id
	}
	var data map[string]any
	if len(kv) > 1 {
		data = make(map[string]any, len(kv)/2)
		for i := 0; i+1 < len(kv); i += 2 {
			data[fmt.Sprint(kv[i])] = kv[i+1]
		}
	}
	return p.catalog.Localize(p.Lang, id, data)
}

// Stage helpers keep the template free of numeric comparisons.
func (p *PageData) LoggedIn() bool        { return p.View.Stage != session.StageLoggedOut }
func (p *PageData) FollowUpPending() bool { return p.View.Stage == session.StageFollowUpPending }
func (p *PageData) TopLevel() bool        { return p.View.Standing.NextLevelAt == 0 }

// buildPage assembles the page for sess. Toasts are drained here, so each one
// is shown exactly once.
func (s *Server) buildPage(c echo.Context, sess *session.Session, flash Flash) *PageData {
	ctx := c.Request().Context()
	view := sess.Snapshot()
	lang := view.Language

	p := &PageData{
		Lang:      lang,
		Languages: conf.SupportedLanguages,
		View:      view,
		Flash:     flash,
		catalog:   s.deps.Catalog,
	}
	if token, ok := c.Get(CSRFContextKey).(string); ok {
		p.CSRF = token
	}

	standing := view.Standing
	p.Level = string(standing.Level)
	p.LevelEmoji = standing.Level.Emoji()
	if standing.NextLevelAt > 0 {
		p.Remaining = standing.NextLevelAt - standing.Points
	}

	if pred := view.Prediction; pred != nil {
		p.Prediction = &PredictionView{
			Class:        string(pred.Class),
			Category:     s.tr(ctx, string(pred.Category), lang),
			Method:       s.tr(ctx, string(pred.Method), lang),
			Verb:         s.tr(ctx, pred.Verb(), lang),
			Confidence:   int(pred.Confidence*100 + 0.5),
			OffersChoice: pred.OffersChoice(),
			Disposable:   pred.IsDisposable(),
		}
	}

	for i, sug := range p.Flash.Suggestions {
		p.Flash.Suggestions[i] = s.tr(ctx, sug, lang)
	}

	for _, t := range sess.DrainToasts() {
		p.Toasts = append(p.Toasts, s.toastView(ctx, t, lang))
	}

	if view.Stage != session.StageLoggedOut && s.deps.Forum != nil {
		ideas, err := s.deps.Forum.ListAll(ctx)
		if err != nil {
			GetLogger().Warn("failed to list community ideas", logger.Error(err))
		}
		for _, idea := range ideas {
			p.Ideas = append(p.Ideas, IdeaView{Author: idea.Author, Idea: s.tr(ctx, idea.Idea, lang)})
		}
	}
	return p
}

func (s *Server) toastView(ctx context.Context, t notification.Toast, lang string) ToastView {
	data := map[string]any{"Points": t.Points}
	if t.Verb != "" {
		data["Verb"] = s.tr(ctx, t.Verb, lang)
	}
	return ToastView{
		Message: s.deps.Catalog.Localize(lang, t.MessageID, data),
		Badge:   s.deps.Catalog.Localize(lang, "badge", map[string]any{"Points": t.Points}),
		Style:   t.Style(),
	}
}

func (s *Server) tr(ctx context.Context, text, lang string) string {
	return s.deps.Translator.Translate(ctx, text, lang)
}
