package forum

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/smartwaste/internal/conf"
	"github.com/tphakala/smartwaste/internal/datastore"
	"github.com/tphakala/smartwaste/internal/errors"
	"github.com/tphakala/smartwaste/internal/mqtt"
	"github.com/tphakala/smartwaste/internal/notification"
	"github.com/tphakala/smartwaste/internal/session"
)

func createStore(t *testing.T) *datastore.SQLiteStore {
	t.Helper()
	settings := &conf.Settings{}
	settings.Output.SQLite.Enabled = true
	settings.Output.SQLite.Path = filepath.Join(t.TempDir(), "forum.db")
	store := &datastore.SQLiteStore{Settings: settings}
	require.NoError(t, store.Open())
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func loggedInSession(t *testing.T) *session.Session {
	t.Helper()
	s := session.NewStore(time.Hour, 0).Create()
	require.NoError(t, s.Login("jane"))
	return s
}

type fakeMQTT struct {
	mu     sync.Mutex
	topics []string
}

func (f *fakeMQTT) Connect(context.Context) error { return nil }
func (f *fakeMQTT) IsConnected() bool             { return true }
func (f *fakeMQTT) Disconnect()                   {}
func (f *fakeMQTT) Publish(_ context.Context, topic, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.topics = append(f.topics, topic)
	return nil
}

type pushCounter struct {
	mu   sync.Mutex
	sent []*notification.Notification
}

func (p *pushCounter) GetName() string                     { return "counter" }
func (p *pushCounter) ValidateConfig() error               { return nil }
func (p *pushCounter) IsEnabled() bool                     { return true }
func (p *pushCounter) SupportsType(notification.Type) bool { return true }
func (p *pushCounter) Send(_ context.Context, n *notification.Notification) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, n)
	return nil
}
func (p *pushCounter) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.sent)
}

type ideaRecorder struct {
	ideas, points int
}

func (r *ideaRecorder) RecordIdeaSubmitted()                { r.ideas++ }
func (r *ideaRecorder) RecordPointsAwarded(_ string, p int) { r.points += p }

func TestSubmit_ValidIdea(t *testing.T) {
	store := createStore(t)
	sess := loggedInSession(t)

	mq := &fakeMQTT{}
	push := &pushCounter{}
	dispatcher := notification.NewDispatcher([]notification.Provider{push}, 4, time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() { defer close(done); _ = dispatcher.Run(ctx) }()
	t.Cleanup(func() { cancel(); <-done })

	rec := &ideaRecorder{}
	svc := NewService(store,
		WithPush(dispatcher),
		WithPublisher(mqtt.NewPublisher(mq, "waste")),
		WithRecorder(rec))

	saved, err := svc.Submit(context.Background(), sess, " Jane ", " Bottle planters ")
	require.NoError(t, err)
	assert.NotZero(t, saved.ID)
	assert.Equal(t, "Jane", saved.Author)
	assert.Equal(t, "Bottle planters", saved.Idea)

	assert.Equal(t, 20, sess.Standing().Points)
	toasts := sess.DrainToasts()
	require.Len(t, toasts, 1)
	assert.Equal(t, notification.ToastIdea, toasts[0].Kind)
	assert.Equal(t, 20, toasts[0].Points)

	ideas, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, ideas, 1)

	assert.Equal(t, []string{"waste/idea"}, mq.topics)
	assert.Eventually(t, func() bool { return push.count() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, rec.ideas)
	assert.Equal(t, 20, rec.points)
	assert.Empty(t, sess.Snapshot().DraftIdea)
}

func TestSubmit_IncompleteIdea(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name, author, idea string
	}{
		{"empty author", "", "Reuse jars"},
		{"whitespace author", "   ", "Reuse jars"},
		{"empty idea", "Jane", ""},
		{"whitespace idea", "Jane", "\t\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := createStore(t)
			sess := loggedInSession(t)
			svc := NewService(store)

			_, err := svc.Submit(context.Background(), sess, tt.author, tt.idea)
			require.ErrorIs(t, err, ErrIncompleteIdea)
			assert.True(t, errors.IsValidation(err))

			ideas, err := svc.ListAll(context.Background())
			require.NoError(t, err)
			assert.Empty(t, ideas)
			assert.Zero(t, sess.Standing().Points)
			assert.Empty(t, sess.DrainToasts())
		})
	}
}

func TestSubmit_KeepsDraftOnFailure(t *testing.T) {
	t.Parallel()

	svc := NewService(createStore(t))
	sess := loggedInSession(t)

	_, err := svc.Submit(context.Background(), sess, "Jane", "  ")
	require.Error(t, err)
	assert.Equal(t, "Jane", sess.Snapshot().DraftAuthor)
}

func TestSubmit_RequiresLogin(t *testing.T) {
	t.Parallel()

	svc := NewService(createStore(t))
	sess := session.NewStore(time.Hour, 0).Create()

	_, err := svc.Submit(context.Background(), sess, "Jane", "Idea")
	require.ErrorIs(t, err, session.ErrNotLoggedIn)

	ideas, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ideas)
}

func TestSubmit_EachSubmissionCredits(t *testing.T) {
	t.Parallel()

	svc := NewService(createStore(t))
	sess := loggedInSession(t)

	for range 3 {
		_, err := svc.Submit(context.Background(), sess, "Jane", "Same idea")
		require.NoError(t, err)
	}
	assert.Equal(t, 60, sess.Standing().Points)

	ideas, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, ideas, 3)
}
