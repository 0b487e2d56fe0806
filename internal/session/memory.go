package session

import (
	"context"
	"sync"
)

// MemoryStore is an in-process Store for development and tests. It holds the
// same state the Redis store does, without expiry.
type MemoryStore struct {
	mu       sync.Mutex
	identity map[string]string   // session ID -> username
	sessions map[string][]string // username -> session IDs
	flashes  map[string][]Flash
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		identity: make(map[string]string),
		sessions: make(map[string][]string),
		flashes:  make(map[string][]Flash),
	}
}

func (s *MemoryStore) SetIdentity(_ context.Context, sessionID, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Drop any previous identity first so the reverse index never holds a
	// session under a username it no longer belongs to.
	s.removeLocked(sessionID)
	s.identity[sessionID] = username
	s.sessions[username] = append(s.sessions[username], sessionID)
	return nil
}

func (s *MemoryStore) Identity(_ context.Context, sessionID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity[sessionID], nil
}

func (s *MemoryStore) ClearIdentity(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(sessionID)
	return nil
}

func (s *MemoryStore) ClearByIdentity(_ context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sessionID := range s.sessions[username] {
		delete(s.identity, sessionID)
	}
	delete(s.sessions, username)
	return nil
}

func (s *MemoryStore) AddFlash(_ context.Context, sessionID string, flash Flash) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flashes[sessionID] = append(s.flashes[sessionID], flash)
	return nil
}

func (s *MemoryStore) PopFlashes(_ context.Context, sessionID string) ([]Flash, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	flashes := s.flashes[sessionID]
	delete(s.flashes, sessionID)
	return flashes, nil
}

func (s *MemoryStore) removeLocked(sessionID string) {
	username, ok := s.identity[sessionID]
	if !ok {
		return
	}
	delete(s.identity, sessionID)

	ids := s.sessions[username]
	for i, id := range ids {
		if id == sessionID {
			s.sessions[username] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	if len(s.sessions[username]) == 0 {
		delete(s.sessions, username)
	}
}
