// Package loader holds the page data loaders: total functions from the
// ambient session state to renderable page data. A loader never lets an
// error escape its boundary - the UI always receives either data or an
// error placeholder string.
package loader

import (
	"context"

	"go.uber.org/zap"

	"github.com/rsjournalism/student-portal/internal/api"
	"github.com/rsjournalism/student-portal/internal/core/domain"
	"github.com/rsjournalism/student-portal/internal/payment"
	"github.com/rsjournalism/student-portal/internal/profile"
	"github.com/rsjournalism/student-portal/internal/session"
)

// Placeholder error strings rendered by the UI.
const (
	ErrMsgNotAuthenticated = "User not authenticated"
	errMsgProfileFailed    = "Failed to load profile data"
	errMsgPaymentsFailed   = "Failed to load payment history"
)

// PageData is the loader result contract: Data on success, a non-empty
// Error string otherwise, never both.
type PageData struct {
	Data  any    `json:"data"`
	Error string `json:"error,omitempty"`
}

// ProfilePageData is the profile route's data shape.
type ProfilePageData struct {
	Profile *domain.UserRecord `json:"profile"`
}

// PaymentsPageData is the payments route's data shape.
type PaymentsPageData struct {
	PaymentHistory *domain.PaymentHistory `json:"paymentHistory"`
}

// Loaders wires the flows behind the page entry points.
type Loaders struct {
	sessions *session.Store
	profiles *profile.Service
	payments *payment.Service
	logger   *zap.Logger
}

// New creates the page data loaders.
func New(sessions *session.Store, profiles *profile.Service, payments *payment.Service, logger *zap.Logger) *Loaders {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loaders{
		sessions: sessions,
		profiles: profiles,
		payments: payments,
		logger:   logger,
	}
}

// ProfilePage loads the profile route. With no session present it returns
// the unauthenticated placeholder without any network call.
func (l *Loaders) ProfilePage(ctx context.Context) PageData {
	sess := l.sessions.Current()
	if sess == nil {
		return PageData{Error: ErrMsgNotAuthenticated}
	}

	record, err := l.profiles.Get(ctx, sess.UserID)
	if err != nil {
		l.logger.Error("Profile page load failed", zap.String("user_id", sess.UserID), zap.Error(err))
		return PageData{Error: errorMessage(err, errMsgProfileFailed)}
	}

	return PageData{Data: ProfilePageData{Profile: record}}
}

// PaymentsPage loads the payments route. With no session present it
// returns the unauthenticated placeholder without any network call.
func (l *Loaders) PaymentsPage(ctx context.Context) PageData {
	sess := l.sessions.Current()
	if sess == nil {
		return PageData{Error: ErrMsgNotAuthenticated}
	}

	history, err := l.payments.History(ctx, sess.UserID)
	if err != nil {
		l.logger.Error("Payments page load failed", zap.String("user_id", sess.UserID), zap.Error(err))
		return PageData{Error: errorMessage(err, errMsgPaymentsFailed)}
	}

	return PageData{Data: PaymentsPageData{PaymentHistory: history}}
}

// errorMessage prefers the backend's own message, falling back to the
// route's placeholder string.
func errorMessage(err error, fallback string) string {
	if apiErr, ok := api.AsError(err); ok && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
