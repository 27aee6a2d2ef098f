// Package memory implements the storage port as an in-process map.
// Nothing survives a restart, which is exactly the behavior a
// non-interactive environment (tests, prerender) should see.
package memory

import (
	"sync"

	"github.com/rsjournalism/student-portal/internal/storage"
)

// Store is an in-memory storage.Store.
type Store struct {
	mu   sync.RWMutex
	data map[string]string
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{data: make(map[string]string)}
}

func (s *Store) Get(key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.data[key]
	if !ok {
		return "", storage.ErrNotFound
	}
	return value, nil
}

func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *Store) Close() error { return nil }
