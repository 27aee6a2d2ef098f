// Package payment implements the payment-history flow: a pure
// pass-through read with no caching and no session interaction.
package payment

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/rsjournalism/student-portal/config"
	"github.com/rsjournalism/student-portal/internal/api"
	"github.com/rsjournalism/student-portal/internal/core/domain"
	"github.com/rsjournalism/student-portal/middleware"
)

// Service fetches payment history from the remote backend.
type Service struct {
	api       *api.Client
	endpoints *config.APIConfig
}

// NewService creates the payment flow service.
func NewService(client *api.Client, endpoints *config.APIConfig) *Service {
	return &Service{api: client, endpoints: endpoints}
}

// History returns the user's admission and course-fee payments. Callers
// are responsible for verifying a session exists before invoking this.
func (s *Service) History(ctx context.Context, userID string) (*domain.PaymentHistory, error) {
	ctx, span := middleware.StartSpan(ctx, "payment.history", trace.WithAttributes(
		attribute.String("layer", "flow"),
		attribute.String("user.id", userID),
	))
	defer span.End()

	var history domain.PaymentHistory
	if _, err := s.api.Get(ctx, s.endpoints.PaymentHistoryPath(userID), &history); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return &history, nil
}
