// Package storage defines the durable key-value port the portal state
// mirrors into. It is the Go stand-in for the browser's localStorage:
// string keys to string values, writes atomic at the key level.
//
// Depending on the interface rather than a concrete backend lets a
// non-interactive environment (tests, prerender) supply the in-memory
// implementation while the portal binary uses the SQLite file store.
package storage

import "errors"

// Well-known keys. The portal owns the first three; activeNavItem belongs
// to the navigation collaborator but lives in the same store.
const (
	KeyAuthToken     = "authToken"
	KeyCurrentUser   = "currentUser"
	KeyProfileData   = "profileData"
	KeyActiveNavItem = "activeNavItem"
)

// ErrNotFound indicates the key has no stored value.
var ErrNotFound = errors.New("storage: key not found")

// Store is the durable key-value contract.
// Get returns ErrNotFound for absent keys. Set overwrites unconditionally.
// Delete of an absent key is a no-op, not an error.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
	Close() error
}
