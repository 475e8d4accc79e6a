package session

import (
	"crypto/sha256"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/patrickmn/go-cache"

	"github.com/tphakala/smartwaste/internal/errors"
	"github.com/tphakala/smartwaste/internal/logger"
)

// Store keeps sessions in memory and expires them after ttl of inactivity.
type Store struct {
	cache *cache.Cache
	ttl   time.Duration
}

// NewStore creates a store. A cleanupInterval of zero disables the
// background janitor; expired sessions are then only dropped on access.
func NewStore(ttl, cleanupInterval time.Duration) *Store {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &Store{cache: cache.New(ttl, cleanupInterval), ttl: ttl}
}

// Create starts a new logged-out session.
func (st *Store) Create() *Session {
	s := newSession(uuid.New().String())
	st.cache.Set(s.id, s, cache.DefaultExpiration)
	return s
}

// Get returns the session for id and extends its lifetime.
func (st *Store) Get(id string) (*Session, bool) {
	v, found := st.cache.Get(id)
	if !found {
		return nil, false
	}
	s, ok := v.(*Session)
	if !ok {
		return nil, false
	}
	st.cache.Set(id, s, cache.DefaultExpiration)
	return s, true
}

// Delete removes the session for id.
func (st *Store) Delete(id string) {
	st.cache.Delete(id)
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	return st.cache.ItemCount()
}

const (
	cookieName = "smartwaste_session"
	idKey      = "sid"
)

// Manager binds sessions to browsers through a signed cookie holding only
// the session id.
type Manager struct {
	store   *Store
	cookies *sessions.CookieStore
}

// NewManager creates a manager signing cookies with a key derived from secret.
func NewManager(store *Store, secret string, secure bool) *Manager {
	key := sha256.Sum256([]byte(secret))
	cookies := sessions.NewCookieStore(key[:])
	cookies.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(store.ttl.Seconds()),
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &Manager{store: store, cookies: cookies}
}

// Load returns the session bound to r, creating one and setting the cookie
// when the request carries none or an expired one.
func (m *Manager) Load(w http.ResponseWriter, r *http.Request) (*Session, error) {
	// A bad signature yields a fresh cookie session with err set; that is
	// handled like a missing cookie.
	cs, err := m.cookies.Get(r, cookieName)
	if err != nil {
		GetLogger().Debug("discarding invalid session cookie", logger.Error(err))
	}

	if id, ok := cs.Values[idKey].(string); ok {
		if s, found := m.store.Get(id); found {
			return s, nil
		}
	}

	s := m.store.Create()
	cs.Values[idKey] = s.id
	if err := cs.Save(r, w); err != nil {
		return nil, errors.New(err).
			Component("session").
			Category(errors.CategoryHTTP).
			Context("operation", "save-cookie").
			Build()
	}
	GetLogger().Debug("session created", logger.String("session_id", s.id))
	return s, nil
}

// Store returns the backing store.
func (m *Manager) Store() *Store {
	return m.store
}
