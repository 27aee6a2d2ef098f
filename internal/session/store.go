// Package session holds the reactive session state: the current identity
// snapshot, an authenticated flag, and its mirror in durable storage.
//
// The store is an explicit object owned by whoever composes the
// application - there is no package-level singleton. UI roots observe
// changes through Subscribe.
package session

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/rsjournalism/student-portal/internal/core/domain"
	"github.com/rsjournalism/student-portal/internal/storage"
)

// Listener receives the session after every state change. A nil session
// means logged out.
type Listener func(s *domain.Session, authenticated bool)

// Store holds the current session and mirrors it into durable storage.
// All mutation is last-writer-wins; at most one logical session exists
// per store.
type Store struct {
	mu            sync.RWMutex
	storage       storage.Store
	logger        *zap.Logger
	current       *domain.Session
	authenticated bool
	loading       bool
	listeners     []Listener

	// onClear runs after Clear empties the state. The gateway uses it to
	// send the acting caller back to the unauthenticated entry point; the
	// store itself knows nothing about HTTP.
	onClear func()
}

// New creates a store backed by st and immediately attempts rehydration.
func New(st storage.Store, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{storage: st, logger: logger}
	s.rehydrate()
	return s
}

// rehydrate restores the session from durable storage. Both the stored
// session and the stored token must be present - a session without its
// credential is not proof of authentication. A malformed stored session
// is discarded and the store stays logged out: fail open, never crash.
func (s *Store) rehydrate() {
	stored, err := s.storage.Get(storage.KeyCurrentUser)
	if err != nil {
		return
	}
	if _, err := s.storage.Get(storage.KeyAuthToken); err != nil {
		return
	}

	var sess domain.Session
	if err := json.Unmarshal([]byte(stored), &sess); err != nil {
		s.logger.Warn("Discarding malformed stored session", zap.Error(err))
		_ = s.storage.Delete(storage.KeyCurrentUser)
		return
	}

	s.current = &sess
	s.authenticated = true
	s.logger.Info("Session restored from storage", zap.String("user_id", sess.UserID))
}

// Set replaces the session, marks the store authenticated, and writes the
// serialized copy to durable storage.
func (s *Store) Set(sess domain.Session) error {
	encoded, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	if err := s.storage.Set(storage.KeyCurrentUser, string(encoded)); err != nil {
		return err
	}

	s.mu.Lock()
	copied := sess
	s.current = &copied
	s.authenticated = true
	s.mu.Unlock()

	s.notify()
	return nil
}

// Clear empties the session, marks the store unauthenticated, and removes
// the stored session and profile shadow. Storage errors are logged, not
// returned - a failed delete must not keep the UI logged in.
func (s *Store) Clear() {
	if err := s.storage.Delete(storage.KeyCurrentUser); err != nil {
		s.logger.Warn("Failed to remove stored session", zap.Error(err))
	}
	if err := s.storage.Delete(storage.KeyProfileData); err != nil {
		s.logger.Warn("Failed to remove profile shadow", zap.Error(err))
	}

	s.mu.Lock()
	s.current = nil
	s.authenticated = false
	onClear := s.onClear
	s.mu.Unlock()

	s.notify()
	if onClear != nil {
		onClear()
	}
}

// Current returns a copy of the session, or nil when logged out.
func (s *Store) Current() *domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	copied := *s.current
	return &copied
}

// IsAuthenticated reports whether a session is present.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

// SetLoading flags an auth operation in flight, for UI spinners.
func (s *Store) SetLoading(loading bool) {
	s.mu.Lock()
	s.loading = loading
	s.mu.Unlock()
}

// Loading reports whether an auth operation is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Subscribe registers a listener invoked after every Set and Clear.
// Listeners are called outside the store's lock.
func (s *Store) Subscribe(fn Listener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// OnClear registers the hook invoked after Clear. Only one hook is kept;
// the composing root decides what "redirect to login" means.
func (s *Store) OnClear(fn func()) {
	s.mu.Lock()
	s.onClear = fn
	s.mu.Unlock()
}

func (s *Store) notify() {
	s.mu.RLock()
	listeners := make([]Listener, len(s.listeners))
	copy(listeners, s.listeners)
	current := s.current
	authenticated := s.authenticated
	s.mu.RUnlock()

	var snapshot *domain.Session
	if current != nil {
		copied := *current
		snapshot = &copied
	}
	for _, fn := range listeners {
		fn(snapshot, authenticated)
	}
}
