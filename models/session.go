package models

import "time"

// SessionState is either Anonymous or Authenticated.
type SessionState int

const (
	Anonymous SessionState = iota
	Authenticated
)

func (s SessionState) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "anonymous"
}

// SessionHistoryLimit caps how many login entries travel in the cookie.
// Storage keeps the full history; the cookie has a 4KB ceiling.
const SessionHistoryLimit = 8

// SessionUser is the projection of a User kept in the session cookie.
// It never holds the password hash.
type SessionUser struct {
	UserName     string       `json:"userName"`
	Email        string       `json:"email"`
	ProfileImage string       `json:"profileImage"`
	LoginHistory []LoginEntry `json:"loginHistory"`
}

// NewSessionUser projects u for the session, keeping the most recent
// SessionHistoryLimit login entries.
func NewSessionUser(u *User) SessionUser {
	history := u.LoginHistory
	if len(history) > SessionHistoryLimit {
		history = history[:SessionHistoryLimit]
	}
	return SessionUser{
		UserName:     u.UserName,
		Email:        u.Email,
		ProfileImage: u.ProfileImage,
		LoginHistory: append([]LoginEntry(nil), history...),
	}
}

// Session is the per-request view of the signed session cookie.
// User is non-nil exactly when State is Authenticated.
type Session struct {
	State     SessionState
	User      *SessionUser
	ExpiresAt time.Time
}

// AnonymousSession returns a session with no user.
func AnonymousSession() Session {
	return Session{State: Anonymous}
}

// AuthenticatedSession returns a session for u expiring at expiresAt.
func AuthenticatedSession(u SessionUser, expiresAt time.Time) Session {
	return Session{State: Authenticated, User: &u, ExpiresAt: expiresAt}
}

// IsAuthenticated reports whether a user is logged in.
func (s Session) IsAuthenticated() bool {
	return s.State == Authenticated && s.User != nil
}
