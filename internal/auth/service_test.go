package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rsjournalism/student-portal/config"
	"github.com/rsjournalism/student-portal/internal/api"
	"github.com/rsjournalism/student-portal/internal/session"
	"github.com/rsjournalism/student-portal/internal/storage"
	"github.com/rsjournalism/student-portal/internal/storage/memory"
)

func newTestService(t *testing.T, backend http.Handler) (*Service, *session.Store, *memory.Store) {
	t.Helper()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	kv := memory.New()
	sessions := session.New(kv, nil)
	client := api.NewClient(srv.URL, 5*time.Second, api.TokenFromStorage(kv), nil)
	svc := NewService(client, sessions, kv, &config.APIConfig{}, nil)
	return svc, sessions, kv
}

func TestVerifyOTPEstablishesSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/request-otp", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":200,"message":"OTP sent"}`))
	})
	mux.HandleFunc("POST /api/auth/verify-otp", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":200,"data":{"access_token":"tok1","user":{"_id":"u1","email":"a@b.com","role":"student"}}}`))
	})
	// Enrichment fails here; the provisional session must survive.
	mux.HandleFunc("GET /api/users/get/u1", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	svc, sessions, kv := newTestService(t, mux)

	env, err := svc.RequestOTP(context.Background(), "a@b.com")
	if err != nil {
		t.Fatalf("request otp: %v", err)
	}
	if env.Message != "OTP sent" {
		t.Fatalf("expected backend message surfaced, got %q", env.Message)
	}

	if _, err := svc.VerifyOTP(context.Background(), "a@b.com", "123456"); err != nil {
		t.Fatalf("verify otp: %v", err)
	}
	svc.WaitEnrichments()

	sess := sessions.Current()
	if sess == nil {
		t.Fatal("expected session after verification")
	}
	if sess.UserID != "u1" || sess.DisplayName != "a" || sess.Email != "a@b.com" {
		t.Fatalf("unexpected provisional session: %+v", sess)
	}
	if !sessions.IsAuthenticated() {
		t.Fatal("expected authenticated after verification")
	}
	token, err := kv.Get(storage.KeyAuthToken)
	if err != nil || token != "tok1" {
		t.Fatalf("expected stored token tok1, got %q (err %v)", token, err)
	}
	if !svc.IsAuthenticated() {
		t.Fatal("IsAuthenticated should see the stored token")
	}
}

func TestVerifyOTPWithoutTokenCreatesNoSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/verify-otp", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":200,"message":"pending","data":{"user":{"_id":"u1","email":"a@b.com","role":"student"}}}`))
	})

	svc, sessions, kv := newTestService(t, mux)

	env, err := svc.VerifyOTP(context.Background(), "a@b.com", "123456")
	if err != nil {
		t.Fatalf("verify otp: %v", err)
	}
	if env.Message != "pending" {
		t.Fatalf("expected raw envelope back, got %+v", env)
	}

	if sessions.Current() != nil || sessions.IsAuthenticated() {
		t.Fatal("token-less response must not create a session")
	}
	if _, err := kv.Get(storage.KeyAuthToken); !errors.Is(err, storage.ErrNotFound) {
		t.Fatal("no token should be stored")
	}
}

func TestEnrichmentFillsSessionAndShadow(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/verify-otp", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"access_token":"tok1","user":{"_id":"u1","email":"a@b.com","role":"student"}}}`))
	})
	mux.HandleFunc("GET /api/users/get/u1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"_id":"u1","email":"a@b.com","firstName":"Alice","lastName":"Bond","role":"student",` +
			`"profileData":{"personal":{"profilePhoto":"http://cdn/p.png","phone":"123"}}}}`))
	})

	svc, sessions, kv := newTestService(t, mux)

	if _, err := svc.VerifyOTP(context.Background(), "a@b.com", "123456"); err != nil {
		t.Fatalf("verify otp: %v", err)
	}
	svc.WaitEnrichments()

	sess := sessions.Current()
	if sess == nil {
		t.Fatal("expected session")
	}
	if sess.DisplayName != "Alice Bond" {
		t.Fatalf("expected enriched display name, got %q", sess.DisplayName)
	}
	if sess.AvatarURL != "http://cdn/p.png" || sess.Phone != "123" {
		t.Fatalf("expected avatar and phone from profile, got %+v", sess)
	}

	shadow, err := kv.Get(storage.KeyProfileData)
	if err != nil {
		t.Fatalf("expected profile shadow, got %v", err)
	}
	if shadow == "" {
		t.Fatal("shadow should not be empty")
	}
}

func TestLogoutRemovesAllKeys(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/verify-otp", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"access_token":"tok1","user":{"_id":"u1","email":"a@b.com","role":"student"}}}`))
	})
	mux.HandleFunc("GET /api/users/get/u1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"_id":"u1","email":"a@b.com","role":"student","profileData":{"personal":{}}}}`))
	})

	svc, sessions, kv := newTestService(t, mux)

	if _, err := svc.VerifyOTP(context.Background(), "a@b.com", "123456"); err != nil {
		t.Fatalf("verify otp: %v", err)
	}
	svc.WaitEnrichments()

	svc.Logout()

	for _, key := range []string{storage.KeyAuthToken, storage.KeyCurrentUser, storage.KeyProfileData} {
		if _, err := kv.Get(key); !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("expected %s removed after logout", key)
		}
	}
	if sessions.Current() != nil || sessions.IsAuthenticated() {
		t.Fatal("expected logged-out state after logout")
	}
	if svc.IsAuthenticated() {
		t.Fatal("IsAuthenticated must be false after logout")
	}
}

func TestEmailLocalPart(t *testing.T) {
	if got := emailLocalPart("a@b.com"); got != "a" {
		t.Fatalf("expected a, got %q", got)
	}
	if got := emailLocalPart("no-at-sign"); got != "no-at-sign" {
		t.Fatalf("expected passthrough, got %q", got)
	}
}
