// Package auth orchestrates the OTP login flow: request an OTP for an
// email, verify it, capture the bearer token, populate the session, and
// enrich it from the full profile in the background.
package auth

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/rsjournalism/student-portal/config"
	"github.com/rsjournalism/student-portal/internal/api"
	"github.com/rsjournalism/student-portal/internal/core/domain"
	"github.com/rsjournalism/student-portal/internal/session"
	"github.com/rsjournalism/student-portal/internal/storage"
	"github.com/rsjournalism/student-portal/middleware"
)

// enrichTimeout bounds the detached profile-enrichment fetch. The caller's
// context does not apply - the caller has already returned by then.
const enrichTimeout = 30 * time.Second

type otpRequest struct {
	Email string `json:"email"`
}

type otpVerification struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// Service runs the authentication flow against the remote backend.
type Service struct {
	api       *api.Client
	sessions  *session.Store
	store     storage.Store
	endpoints *config.APIConfig
	logger    *zap.Logger

	enrichments sync.WaitGroup
}

// NewService creates the auth flow service.
func NewService(client *api.Client, sessions *session.Store, store storage.Store, endpoints *config.APIConfig, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		api:       client,
		sessions:  sessions,
		store:     store,
		endpoints: endpoints,
		logger:    logger,
	}
}

// RequestOTP asks the backend to issue a one-time password to email.
// No local state changes; the backend's answer is surfaced as-is.
func (s *Service) RequestOTP(ctx context.Context, email string) (*api.Envelope, error) {
	ctx, span := middleware.StartSpan(ctx, "auth.request_otp", trace.WithAttributes(
		attribute.String("layer", "flow"),
	))
	defer span.End()

	env, err := s.api.Post(ctx, s.endpoints.RequestOTPPath(), otpRequest{Email: email}, nil)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return env, nil
}

// VerifyOTP exchanges email+otp for a bearer token. On a token-carrying
// success it stores the token, sets a provisional session (display name
// derived from the email local-part), and kicks off a detached
// best-effort profile enrichment. A 2xx response without a token creates
// no session; the raw envelope is returned unchanged and callers must
// check token presence themselves.
func (s *Service) VerifyOTP(ctx context.Context, email, otp string) (*api.Envelope, error) {
	ctx, span := middleware.StartSpan(ctx, "auth.verify_otp", trace.WithAttributes(
		attribute.String("layer", "flow"),
	))
	defer span.End()

	var authResp domain.AuthResponse
	env, err := s.api.Post(ctx, s.endpoints.VerifyOTPPath(), otpVerification{Email: email, OTP: otp}, &authResp)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if authResp.AccessToken == "" {
		span.SetAttributes(attribute.Bool("auth.token_present", false))
		s.logger.Warn("Verify response carried no access token", zap.String("email", email))
		return env, nil
	}
	span.SetAttributes(attribute.Bool("auth.token_present", true))

	if err := s.store.Set(storage.KeyAuthToken, authResp.AccessToken); err != nil {
		span.RecordError(err)
		return nil, err
	}

	// Provisional identity until the full profile arrives.
	sess := domain.Session{
		UserID:      authResp.User.ID,
		DisplayName: emailLocalPart(authResp.User.Email),
		Email:       authResp.User.Email,
	}
	if err := s.sessions.Set(sess); err != nil {
		span.RecordError(err)
		return nil, err
	}
	s.logger.Info("Session established", zap.String("user_id", sess.UserID))

	// Detached enrichment: the caller is authenticated from this point;
	// a failed enrichment never rolls that back. The merge is idempotent
	// and only ever adds fields, so racing the caller's read is harmless.
	s.enrichments.Add(1)
	go func(userID string) {
		defer s.enrichments.Done()
		enrichCtx, cancel := context.WithTimeout(context.Background(), enrichTimeout)
		defer cancel()
		if err := s.RefreshSession(enrichCtx, userID); err != nil {
			s.logger.Warn("Profile enrichment failed", zap.String("user_id", userID), zap.Error(err))
		}
	}(sess.UserID)

	return env, nil
}

// RefreshSession fetches the full user record and folds it into the
// session: display name becomes "first last" when both are present,
// avatar and phone come from the personal profile section, and the
// returned sections are written to the profile shadow.
func (s *Service) RefreshSession(ctx context.Context, userID string) error {
	ctx, span := middleware.StartSpan(ctx, "auth.refresh_session", trace.WithAttributes(
		attribute.String("layer", "flow"),
		attribute.String("user.id", userID),
	))
	defer span.End()

	var record domain.UserRecord
	if _, err := s.api.Get(ctx, s.endpoints.UserGetPath(userID), &record); err != nil {
		span.RecordError(err)
		return err
	}

	sess := domain.Session{
		UserID:      record.ID,
		DisplayName: displayName(&record),
		Email:       record.Email,
	}
	if record.ProfileData != nil && record.ProfileData.Personal != nil {
		sess.AvatarURL = record.ProfileData.Personal.ProfilePhoto
		sess.Phone = record.ProfileData.Personal.Phone
	}
	if err := s.sessions.Set(sess); err != nil {
		span.RecordError(err)
		return err
	}

	if record.ProfileData != nil {
		if err := writeShadow(s.store, record.ProfileData); err != nil {
			s.logger.Warn("Failed to cache profile shadow", zap.Error(err))
		}
	}

	return nil
}

// IsAuthenticated reports whether a bearer token is present in durable
// storage. The token, not the in-memory session, is the proof.
func (s *Service) IsAuthenticated() bool {
	_, err := s.store.Get(storage.KeyAuthToken)
	return err == nil
}

// Logout removes the token and profile shadow from durable storage and
// clears the session store.
func (s *Service) Logout() {
	if err := s.store.Delete(storage.KeyAuthToken); err != nil {
		s.logger.Warn("Failed to remove stored token", zap.Error(err))
	}
	if err := s.store.Delete(storage.KeyProfileData); err != nil {
		s.logger.Warn("Failed to remove profile shadow", zap.Error(err))
	}
	s.sessions.Clear()
	s.logger.Info("Logged out")
}

// WaitEnrichments blocks until all detached enrichment tasks finish.
// Used by the gateway on shutdown and by tests needing determinism.
func (s *Service) WaitEnrichments() {
	s.enrichments.Wait()
}

// emailLocalPart derives the provisional display name from an email.
func emailLocalPart(email string) string {
	if i := strings.Index(email, "@"); i > 0 {
		return email[:i]
	}
	return email
}

// displayName prefers "first last", falling back to the email local-part.
func displayName(record *domain.UserRecord) string {
	if record.FirstName != "" && record.LastName != "" {
		return record.FirstName + " " + record.LastName
	}
	return emailLocalPart(record.Email)
}

// writeShadow serializes sections into the profileData key.
func writeShadow(store storage.Store, data *domain.ProfileData) error {
	encoded, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return store.Set(storage.KeyProfileData, string(encoded))
}
