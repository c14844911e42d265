// Package session holds the process-local token -> identity mapping.
// It is intentionally unpersisted and has no expiry; it is unrelated to
// the online flag on the user entity. The mutex makes concurrent
// handler access safe.
package session

import (
	"sync"

	"users-service/internal/domain/user"
)

type Identity struct {
	ID   user.ID
	Name string
}

type Store struct {
	mu       sync.RWMutex
	sessions map[string]Identity
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]Identity)}
}

func (s *Store) Set(token string, identity Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = identity
}

func (s *Store) Get(token string) (Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	identity, ok := s.sessions[token]
	return identity, ok
}

func (s *Store) Remove(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
