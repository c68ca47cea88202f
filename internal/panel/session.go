package panel

import (
	"sync"
	"time"

	"adminpanel/internal/domain"
)

// Session is the signed-in user of one browser session. Modules receive it at
// mount time instead of reading global state.
type Session struct {
	Principal domain.Principal

	mu   sync.RWMutex
	user *domain.User
}

func NewSession(p domain.Principal, u *domain.User) *Session {
	return &Session{Principal: p, user: u}
}

// ID returns the session id carried by the token.
func (s *Session) ID() string {
	return s.Principal.SessionID
}

// Expired reports whether the token behind s has expired at now. A zero expiry never expires.
func (s *Session) Expired(now time.Time) bool {
	exp := s.Principal.ExpiresAt
	return !exp.IsZero() && !now.Before(exp)
}

func (s *Session) User() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// SetUser replaces the displayed user record, e.g. after the user edits themself.
func (s *Session) SetUser(u *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
}
