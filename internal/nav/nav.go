// Package nav tracks the active navigation item for the UI shell,
// persisted so the highlighted entry survives a reload.
package nav

import (
	"strings"
	"sync"

	"github.com/rsjournalism/student-portal/internal/storage"
)

// defaultItem is where navigation lands when nothing is stored.
const defaultItem = "/dashboard"

// Store holds the active navigation path.
type Store struct {
	mu      sync.RWMutex
	storage storage.Store
	active  string
}

// New creates the navigation store, restoring the last active item from
// durable storage or defaulting to the dashboard.
func New(st storage.Store) *Store {
	active := defaultItem
	if stored, err := st.Get(storage.KeyActiveNavItem); err == nil && stored != "" {
		active = stored
	}
	return &Store{storage: st, active: active}
}

// Active returns the current navigation path.
func (s *Store) Active() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// SetActive updates the navigation path and persists it.
func (s *Store) SetActive(path string) error {
	s.mu.Lock()
	s.active = path
	s.mu.Unlock()
	return s.storage.Set(storage.KeyActiveNavItem, path)
}

// IsActive reports whether path matches the active item exactly or is a
// parent of it (e.g. /courses is active for /courses/123).
func (s *Store) IsActive(path string) bool {
	current := s.Active()
	if path == current {
		return true
	}
	return path != "/" && strings.HasPrefix(current, path)
}
