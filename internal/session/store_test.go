package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_CreateGetDelete(t *testing.T) {
	t.Parallel()

	st := NewStore(time.Hour, 0)
	s := st.Create()
	require.NotEmpty(t, s.ID())

	got, ok := st.Get(s.ID())
	require.True(t, ok)
	assert.Same(t, s, got)
	assert.Equal(t, 1, st.Len())

	st.Delete(s.ID())
	_, ok = st.Get(s.ID())
	assert.False(t, ok)
}

func TestStore_Expiry(t *testing.T) {
	t.Parallel()

	st := NewStore(20*time.Millisecond, 0)
	s := st.Create()
	time.Sleep(40 * time.Millisecond)
	_, ok := st.Get(s.ID())
	assert.False(t, ok)
}

func TestStore_SessionsAreIsolated(t *testing.T) {
	t.Parallel()

	st := NewStore(time.Hour, 0)
	a, b := st.Create(), st.Create()
	require.NoError(t, a.Login("alice"))
	assert.Equal(t, StageLoggedOut, b.Stage())
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestManager_CookieRoundTrip(t *testing.T) {
	t.Parallel()

	m := NewManager(NewStore(time.Hour, 0), "test-secret", false)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	first, err := m.Load(rec, req)
	require.NoError(t, err)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, cookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	req2 := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	req2.AddCookie(cookies[0])
	second, err := m.Load(httptest.NewRecorder(), req2)
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestManager_ForeignCookieGetsNewSession(t *testing.T) {
	t.Parallel()

	issuer := NewManager(NewStore(time.Hour, 0), "other-secret", false)
	rec := httptest.NewRecorder()
	_, err := issuer.Load(rec, httptest.NewRequest(http.MethodGet, "/", http.NoBody))
	require.NoError(t, err)
	forged := rec.Result().Cookies()[0]

	m := NewManager(NewStore(time.Hour, 0), "test-secret", false)
	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	req.AddCookie(forged)
	s, err := m.Load(httptest.NewRecorder(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, m.Store().Len())
	assert.Equal(t, StageLoggedOut, s.Stage())
}
