package auth

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session is one live OAuth login. Tokens are opaque; everything the
// middleware needs is kept server-side.
type Session struct {
	Token     string
	UserID    uint
	Email     string
	Role      string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// SessionStore holds OAuth sessions in memory with a fixed TTL. It is built
// in main and injected wherever sessions are needed; nothing else in the
// process keeps session state.
type SessionStore struct {
	mu       sync.RWMutex
	ttl      time.Duration
	sessions map[string]Session
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		ttl:      ttl,
		sessions: make(map[string]Session),
	}
}

// Create issues a fresh session for the user and returns it.
func (s *SessionStore) Create(userID uint, email, role string) Session {
	now := time.Now()
	sess := Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		Email:     email,
		Role:      role,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	s.mu.Lock()
	s.sessions[sess.Token] = sess
	s.mu.Unlock()
	return sess
}

// Get returns the session for a token. Expired sessions are dropped on read.
func (s *SessionStore) Get(token string) (Session, bool) {
	s.mu.RLock()
	sess, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok {
		return Session{}, false
	}
	if time.Now().After(sess.ExpiresAt) {
		s.Invalidate(token)
		return Session{}, false
	}
	return sess, true
}

// Invalidate removes a session (logout).
func (s *SessionStore) Invalidate(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// Sweep drops every expired session and reports how many went. Wired to the
// cron scheduler so abandoned logins do not pile up.
func (s *SessionStore) Sweep() int {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for token, sess := range s.sessions {
		if now.After(sess.ExpiresAt) {
			delete(s.sessions, token)
			removed++
		}
	}
	return removed
}
