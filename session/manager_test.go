package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akinalp/brickdepot/config"
	"github.com/akinalp/brickdepot/models"
	"github.com/akinalp/brickdepot/pkg/logger"
)

func newTestManager(now *time.Time) *Manager {
	m := NewManager(config.SessionConfig{
		Secret:         "test-secret-test-secret-test-secret",
		Duration:       24 * time.Hour,
		ActiveDuration: 5 * time.Minute,
	}, logger.Nop())
	m.now = func() time.Time { return *now }
	return m
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == CookieName {
			return c
		}
	}
	t.Fatalf("no %q cookie set", CookieName)
	return nil
}

// capture runs the middleware and returns the session the handler saw.
func capture(m *Manager, r *http.Request) (models.Session, *httptest.ResponseRecorder) {
	var got models.Session
	rec := httptest.NewRecorder()
	m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = FromContext(r.Context())
	})).ServeHTTP(rec, r)
	return got, rec
}

func loginCookie(t *testing.T, m *Manager, user models.SessionUser) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/login", nil)
	sess, err := m.Login(rec, r, user)
	require.NoError(t, err)
	require.True(t, sess.IsAuthenticated())
	return sessionCookie(t, rec)
}

func TestManager_AnonymousWithoutCookie(t *testing.T) {
	now := time.Now()
	m := newTestManager(&now)

	sess, rec := capture(m, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, sess.IsAuthenticated())
	assert.Empty(t, rec.Result().Cookies())
}

func TestManager_LoginRoundTrip(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	m := newTestManager(&now)

	user := models.SessionUser{
		UserName:     "alice",
		Email:        "alice@example.com",
		ProfileImage: models.DefaultProfileImage,
		LoginHistory: []models.LoginEntry{{DateTime: now, UserAgent: "test"}},
	}
	cookie := loginCookie(t, m, user)
	assert.True(t, cookie.HttpOnly)

	r := httptest.NewRequest(http.MethodGet, "/lego/sets", nil)
	r.AddCookie(cookie)
	sess, _ := capture(m, r)

	require.True(t, sess.IsAuthenticated())
	assert.Equal(t, "alice", sess.User.UserName)
	assert.Equal(t, "alice@example.com", sess.User.Email)
	require.Len(t, sess.User.LoginHistory, 1)
	assert.True(t, sess.User.LoginHistory[0].DateTime.Equal(now))
	assert.Equal(t, now.Add(24*time.Hour).Unix(), sess.ExpiresAt.Unix())
}

func TestManager_ExpiryAndExtension(t *testing.T) {
	start := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	now := start
	m := newTestManager(&now)
	cookie := loginCookie(t, m, models.SessionUser{UserName: "alice"})

	// Inside the active window: extended by five minutes and re-issued.
	now = start.Add(24*time.Hour - 2*time.Minute)
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(cookie)
	sess, rec := capture(m, r)
	require.True(t, sess.IsAuthenticated())
	assert.Equal(t, start.Add(24*time.Hour+5*time.Minute).Unix(), sess.ExpiresAt.Unix())
	extended := sessionCookie(t, rec)

	// The old cookie is expired by now; the extended one is not.
	now = start.Add(24*time.Hour + time.Minute)
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(cookie)
	sess, _ = capture(m, r)
	assert.False(t, sess.IsAuthenticated())

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(extended)
	sess, _ = capture(m, r)
	assert.True(t, sess.IsAuthenticated())
}

func TestManager_TamperedCookie(t *testing.T) {
	now := time.Now()
	m := newTestManager(&now)
	cookie := loginCookie(t, m, models.SessionUser{UserName: "alice"})
	cookie.Value = cookie.Value[:len(cookie.Value)-4] + "AAAA"

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(cookie)
	sess, _ := capture(m, r)
	assert.False(t, sess.IsAuthenticated())
}

func TestManager_Reset(t *testing.T) {
	now := time.Now()
	m := newTestManager(&now)
	cookie := loginCookie(t, m, models.SessionUser{UserName: "alice"})

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/logout", nil)
	r.AddCookie(cookie)
	require.NoError(t, m.Reset(rec, r))

	cleared := sessionCookie(t, rec)
	assert.Less(t, cleared.MaxAge, 0)
}

func TestFromContext_DefaultsToAnonymous(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.False(t, FromContext(r.Context()).IsAuthenticated())
}
