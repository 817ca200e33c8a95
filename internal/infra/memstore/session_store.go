// Package memstore holds process-local implementations of the domain stores.
package memstore

import (
	"context"
	"sync"
	"time"

	"daily_report_bot/internal/domain/session"
)

// SessionStore keeps submission sessions in memory. Expired sessions are
// dropped lazily whenever a session is saved.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]session.Session
	now      func() time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]session.Session),
		now:      time.Now,
	}
}

func (s *SessionStore) Save(_ context.Context, sess *session.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked()
	s.sessions[sess.Token] = clone(sess)
	return nil
}

func (s *SessionStore) Get(_ context.Context, token string) (*session.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok {
		return nil, session.ErrNotFound
	}
	c := clone(&sess)
	return &c, nil
}

func (s *SessionStore) Take(_ context.Context, token string) (*session.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok {
		return nil, session.ErrNotFound
	}
	delete(s.sessions, token)
	return &sess, nil
}

// Len returns the number of stored sessions, expired ones included.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *SessionStore) sweepLocked() {
	now := s.now()
	for token, sess := range s.sessions {
		if sess.Expired(now) {
			delete(s.sessions, token)
		}
	}
}

func clone(sess *session.Session) session.Session {
	c := *sess
	c.OfferedDates = append([]string(nil), sess.OfferedDates...)
	return c
}
