package memory

import (
	"errors"
	"testing"

	"github.com/rsjournalism/student-portal/internal/storage"
)

func TestStoreContract(t *testing.T) {
	s := New()

	if _, err := s.Get("missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing key, got %v", err)
	}

	if err := s.Set("k", "v1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := s.Get("k")
	if err != nil || got != "v1" {
		t.Fatalf("expected v1, got %q (err %v)", got, err)
	}

	// Set overwrites unconditionally.
	if err := s.Set("k", "v2"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if got, _ := s.Get("k"); got != "v2" {
		t.Fatalf("expected v2 after overwrite, got %q", got)
	}

	if err := s.Delete("k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Get("k"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}

	// Deleting an absent key is a no-op.
	if err := s.Delete("k"); err != nil {
		t.Fatalf("delete absent key: %v", err)
	}
}
