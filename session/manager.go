// Package session keeps the logged-in user in a signed cookie.
//
// There is no server-side store. The cookie named "session" carries the
// SessionUser projection as JSON plus an absolute expiry. A request arriving
// with less than ActiveDuration left pushes the expiry out by ActiveDuration.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/sessions"

	"github.com/akinalp/brickdepot/config"
	"github.com/akinalp/brickdepot/models"
	"github.com/akinalp/brickdepot/pkg/logger"
)

// CookieName is the session cookie's name.
const CookieName = "session"

const (
	keyUser    = "user"
	keyExpires = "expires"
)

// Manager reads and writes the session cookie.
type Manager struct {
	store          *sessions.CookieStore
	duration       time.Duration
	activeDuration time.Duration
	log            *logger.Logger
	now            func() time.Time
}

// NewManager builds a Manager from cfg. A non-empty EncryptionKey also
// encrypts the cookie; otherwise it is only signed.
func NewManager(cfg config.SessionConfig, log *logger.Logger) *Manager {
	keys := [][]byte{[]byte(cfg.Secret)}
	if cfg.EncryptionKey != "" {
		keys = append(keys, []byte(cfg.EncryptionKey))
	}

	store := sessions.NewCookieStore(keys...)
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	// Cookie and codec lifetime cover the longest possible session.
	store.MaxAge(int((cfg.Duration + cfg.ActiveDuration).Seconds()))

	return &Manager{
		store:          store,
		duration:       cfg.Duration,
		activeDuration: cfg.ActiveDuration,
		log:            log.Named("session"),
		now:            time.Now,
	}
}

// Middleware loads the session, extends it when close to expiry, and puts it
// in the request context for FromContext.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := m.load(r)

		if sess.IsAuthenticated() {
			if remaining := sess.ExpiresAt.Sub(m.now()); remaining < m.activeDuration {
				sess.ExpiresAt = sess.ExpiresAt.Add(m.activeDuration)
				if err := m.save(w, r, *sess.User, sess.ExpiresAt); err != nil {
					m.log.Warnw("failed to extend session", "error", err)
				}
			}
		}

		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
	})
}

// Login stores user in the cookie with a fresh expiry and returns the new
// session.
func (m *Manager) Login(w http.ResponseWriter, r *http.Request, user models.SessionUser) (models.Session, error) {
	expiresAt := m.now().Add(m.duration)
	if err := m.save(w, r, user, expiresAt); err != nil {
		return models.AnonymousSession(), err
	}
	return models.AuthenticatedSession(user, expiresAt), nil
}

// Reset deletes the cookie.
func (m *Manager) Reset(w http.ResponseWriter, r *http.Request) error {
	s, _ := m.store.Get(r, CookieName)
	s.Values = map[any]any{}
	s.Options.MaxAge = -1
	if err := s.Save(r, w); err != nil {
		return fmt.Errorf("failed to reset session: %w", err)
	}
	return nil
}

func (m *Manager) load(r *http.Request) models.Session {
	// A cookie that fails to decode (tampered, wrong key, expired codec)
	// yields an empty session and an error; both mean anonymous.
	s, err := m.store.Get(r, CookieName)
	if err != nil || s.IsNew {
		return models.AnonymousSession()
	}

	raw, _ := s.Values[keyUser].(string)
	expires, _ := s.Values[keyExpires].(int64)
	if raw == "" || expires == 0 {
		return models.AnonymousSession()
	}

	expiresAt := time.Unix(expires, 0)
	if !m.now().Before(expiresAt) {
		return models.AnonymousSession()
	}

	var user models.SessionUser
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		m.log.Warnw("discarding undecodable session user", "error", err)
		return models.AnonymousSession()
	}
	return models.AuthenticatedSession(user, expiresAt)
}

func (m *Manager) save(w http.ResponseWriter, r *http.Request, user models.SessionUser, expiresAt time.Time) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode session user: %w", err)
	}

	s, _ := m.store.Get(r, CookieName)
	s.Values[keyUser] = string(raw)
	s.Values[keyExpires] = expiresAt.Unix()
	if err := s.Save(r, w); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

type contextKey struct{}

// WithSession returns ctx carrying sess.
func WithSession(ctx context.Context, sess models.Session) context.Context {
	return context.WithValue(ctx, contextKey{}, sess)
}

// FromContext returns the request's session, anonymous if none was attached.
func FromContext(ctx context.Context) models.Session {
	if sess, ok := ctx.Value(contextKey{}).(models.Session); ok {
		return sess
	}
	return models.AnonymousSession()
}
