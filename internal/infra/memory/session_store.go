package memory

import (
	"context"
	"sync"
	"time"
)

// SessionStore is an in-process token store used when no Redis address is
// configured. Tokens expire after the configured TTL.
type SessionStore struct {
	ttl   time.Duration
	clock func() time.Time

	mu       sync.RWMutex
	sessions map[string]sessionEntry
}

type sessionEntry struct {
	userID    string
	expiresAt time.Time
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		ttl:      ttl,
		clock:    time.Now,
		sessions: make(map[string]sessionEntry),
	}
}

func (s *SessionStore) Put(_ context.Context, token, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = sessionEntry{userID: userID, expiresAt: s.clock().Add(s.ttl)}
	return nil
}

func (s *SessionStore) Lookup(_ context.Context, token string) (string, bool, error) {
	s.mu.RLock()
	entry, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok {
		return "", false, nil
	}
	if s.clock().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return "", false, nil
	}
	return entry.userID, true, nil
}

func (s *SessionStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}
