package gate

import (
	"sync"
)

// ReturnPathStore holds the single post-login redirect path. It is
// deliberately ephemeral — never persisted — and exists to survive the
// third-party social-login round trip: the path is stored before handing
// control to the provider and consumed exactly once on callback.
type ReturnPathStore struct {
	mu   sync.Mutex
	path string
}

// NewReturnPathStore creates an empty store.
func NewReturnPathStore() *ReturnPathStore {
	return &ReturnPathStore{}
}

// Set records the path to return to after login.
func (s *ReturnPathStore) Set(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.path = path
}

// Consume returns the stored path and clears it. The fallback is returned
// when nothing was stored.
func (s *ReturnPathStore) Consume(fallback string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	path := s.path
	s.path = ""
	if path == "" {
		return fallback
	}
	return path
}
