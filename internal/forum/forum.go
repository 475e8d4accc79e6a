// Package forum implements the community idea board: validated submissions
// are stored, rewarded and announced, and the full list is read back in
// submission order.
package forum

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tphakala/smartwaste/internal/datastore"
	"github.com/tphakala/smartwaste/internal/errors"
	"github.com/tphakala/smartwaste/internal/logger"
	"github.com/tphakala/smartwaste/internal/mqtt"
	"github.com/tphakala/smartwaste/internal/notification"
	"github.com/tphakala/smartwaste/internal/rewards"
	"github.com/tphakala/smartwaste/internal/session"
)

// ErrIncompleteIdea is returned when the author or idea text is blank.
var ErrIncompleteIdea = errors.NewStd("please enter both your name and an idea to submit")

// Store is the persistence the forum needs.
type Store interface {
	SaveIdea(ctx context.Context, idea *datastore.CommunityIdea) error
	ListIdeas(ctx context.Context) ([]datastore.CommunityIdea, error)
}

// Recorder receives submission counts.
type Recorder interface {
	RecordIdeaSubmitted()
	RecordPointsAwarded(kind string, points int)
}

// Service coordinates idea submissions.
type Service struct {
	store     Store
	push      *notification.Dispatcher
	publisher *mqtt.Publisher
	recorder  Recorder
}

// Option configures a Service.
type Option func(*Service)

// WithPush announces new ideas through d.
func WithPush(d *notification.Dispatcher) Option {
	return func(s *Service) { s.push = d }
}

// WithPublisher publishes new ideas as MQTT events.
func WithPublisher(p *mqtt.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

// NewService creates a forum backed by store.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{store: store}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit stores an idea and credits IdeaPoints to sess. Blank fields are
// rejected without a write or a credit, and the draft is kept so the form can
// be shown again.
func (s *Service) Submit(ctx context.Context, sess *session.Session, author, idea string) (datastore.CommunityIdea, error) {
	if sess.Stage() == session.StageLoggedOut {
		return datastore.CommunityIdea{}, errors.New(session.ErrNotLoggedIn).
			Component("forum").
			Category(errors.CategoryState).
			Build()
	}

	author, idea = strings.TrimSpace(author), strings.TrimSpace(idea)
	if author == "" || idea == "" {
		sess.SetDraft(author, idea)
		return datastore.CommunityIdea{}, errors.New(ErrIncompleteIdea).
			Component("forum").
			Category(errors.CategoryValidation).
			Build()
	}

	record := datastore.CommunityIdea{Author: author, Idea: idea}
	if err := s.store.SaveIdea(ctx, &record); err != nil {
		sess.SetDraft(author, idea)
		return datastore.CommunityIdea{}, err
	}

	if _, err := sess.Reward(rewards.IdeaPoints, notification.NewToast(notification.ToastIdea, rewards.IdeaPoints)); err != nil {
		// The session logged out between the check and the credit; the idea stays stored.
		GetLogger().Warn("idea stored but not rewarded", logger.Uint64("idea_id", uint64(record.ID)), logger.Error(err))
	} else if s.recorder != nil {
		s.recorder.RecordPointsAwarded(string(notification.ToastIdea), rewards.IdeaPoints)
	}
	sess.ClearDraft()

	if s.recorder != nil {
		s.recorder.RecordIdeaSubmitted()
	}
	s.announce(ctx, record)

	GetLogger().Info("community idea submitted",
		logger.Uint64("idea_id", uint64(record.ID)),
		logger.String("session_id", sess.ID()))
	return record, nil
}

func (s *Service) announce(ctx context.Context, record datastore.CommunityIdea) {
	if s.push.Enabled() {
		n := notification.NewNotification(notification.TypeIdea,
			"New community idea",
			fmt.Sprintf("%s: %s", record.Author, record.Idea)).
			WithComponent("forum").
			WithMetadata("idea_id", record.ID)
		s.push.Enqueue(n)
	}
	s.publisher.PublishIdea(ctx, mqtt.IdeaEvent{
		ID:        record.ID,
		Author:    record.Author,
		Idea:      record.Idea,
		Timestamp: record.CreatedAt.UTC().Truncate(time.Second),
	})
}

// ListAll returns every stored idea ordered by id.
func (s *Service) ListAll(ctx context.Context) ([]datastore.CommunityIdea, error) {
	return s.store.ListIdeas(ctx)
}
