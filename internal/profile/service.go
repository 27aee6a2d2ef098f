// Package profile implements the profile flow: read-through fetch,
// section update with session/shadow reconciliation, and the local-only
// avatar placeholder.
package profile

import (
	"context"
	"encoding/json"
	"path"

	"github.com/google/uuid"
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

// AvatarUpload is the result of an avatar upload attempt. The URL is a
// local-only placeholder reference - it is not durable and the remote
// service never sees it.
type AvatarUpload struct {
	AvatarURL string `json:"avatarUrl"`
}

// Service runs profile operations against the remote backend.
type Service struct {
	api       *api.Client
	sessions  *session.Store
	store     storage.Store
	endpoints *config.APIConfig
	logger    *zap.Logger
}

// NewService creates the profile flow service.
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

// Get fetches the user record and returns it unchanged. It never touches
// the session store - callers decide whether to cache.
func (s *Service) Get(ctx context.Context, userID string) (*domain.UserRecord, error) {
	ctx, span := middleware.StartSpan(ctx, "profile.get", trace.WithAttributes(
		attribute.String("layer", "flow"),
		attribute.String("user.id", userID),
	))
	defer span.End()

	var record domain.UserRecord
	if _, err := s.api.Get(ctx, s.endpoints.UserGetPath(userID), &record); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return &record, nil
}

// Update sends the given sections to the backend. On success the returned
// avatar reference is merged into the current session - every other
// session field is preserved - and the returned sections overwrite the
// profile shadow. With no session present the merge is skipped and the
// update still succeeds.
func (s *Service) Update(ctx context.Context, userID string, sections domain.ProfileData) (*domain.UserRecord, error) {
	ctx, span := middleware.StartSpan(ctx, "profile.update", trace.WithAttributes(
		attribute.String("layer", "flow"),
		attribute.String("user.id", userID),
	))
	defer span.End()

	var record domain.UserRecord
	req := domain.ProfileUpdateRequest{ProfileData: sections}
	if _, err := s.api.Post(ctx, s.endpoints.UserUpdatePath(userID), req, &record); err != nil {
		span.RecordError(err)
		return nil, err
	}

	if current := s.sessions.Current(); current != nil {
		merged := *current
		merged.AvatarURL = ""
		if record.ProfileData != nil && record.ProfileData.Personal != nil {
			merged.AvatarURL = record.ProfileData.Personal.ProfilePhoto
		}
		if err := s.sessions.Set(merged); err != nil {
			s.logger.Warn("Failed to merge avatar into session", zap.Error(err))
		}
	}

	if record.ProfileData != nil {
		encoded, err := json.Marshal(record.ProfileData)
		if err == nil {
			err = s.store.Set(storage.KeyProfileData, string(encoded))
		}
		if err != nil {
			s.logger.Warn("Failed to cache profile shadow", zap.Error(err))
		}
	}

	s.logger.Info("Profile updated", zap.String("user_id", userID))
	return &record, nil
}

// UploadAvatar synthesizes a local-only placeholder reference for the
// given file. The real backend has no upload endpoint in this contract,
// so the reference is good for preview only - callers must not assume it
// is durable or server-visible.
func (s *Service) UploadAvatar(filename string) (*AvatarUpload, error) {
	ref := "local://avatars/" + uuid.NewString() + path.Ext(filename)
	s.logger.Warn("Avatar upload not implemented against the backend; returning local placeholder",
		zap.String("file", filename),
		zap.String("ref", ref),
	)
	return &AvatarUpload{AvatarURL: ref}, nil
}
