// Package tokenstore persists the bearer token between runs. It only stores and
// returns the raw string; expiry and decoding belong to the session package.
package tokenstore

import "sync"

// Key is the fixed storage key the token lives under.
const Key = "auth_token"

type Store interface {
	Save(token string) error
	// Read reports ok=false when no token is stored.
	Read() (token string, ok bool, err error)
	Clear() error
}

// MemoryStore keeps the token in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	token string
	set   bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
	s.set = true
	return nil
}

func (s *MemoryStore) Read() (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.token, s.set, nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	s.set = false
	return nil
}
