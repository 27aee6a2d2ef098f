// Package v1 exposes the portal state over HTTP for the UI shell. The
// handlers are thin: bind, call the flow or loader, map errors. Loader
// endpoints always answer 200 - the error placeholder is part of the
// page data contract, not an HTTP failure.
package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rsjournalism/student-portal/internal/api"
	"github.com/rsjournalism/student-portal/internal/auth"
	"github.com/rsjournalism/student-portal/internal/core/domain"
	"github.com/rsjournalism/student-portal/internal/loader"
	"github.com/rsjournalism/student-portal/internal/nav"
	"github.com/rsjournalism/student-portal/internal/profile"
	"github.com/rsjournalism/student-portal/internal/session"
	"github.com/rsjournalism/student-portal/middleware"
)

// Handler carries the flows behind the HTTP surface.
type Handler struct {
	auth     *auth.Service
	profiles *profile.Service
	loaders  *loader.Loaders
	sessions *session.Store
	nav      *nav.Store
}

// NewHandler creates the v1 handler set.
func NewHandler(authSvc *auth.Service, profiles *profile.Service, loaders *loader.Loaders, sessions *session.Store, navStore *nav.Store) *Handler {
	return &Handler{
		auth:     authSvc,
		profiles: profiles,
		loaders:  loaders,
		sessions: sessions,
		nav:      navStore,
	}
}

type otpRequestBody struct {
	Email string `json:"email" binding:"required,email"`
}

type otpVerifyBody struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required"`
}

type navBody struct {
	Path string `json:"path" binding:"required"`
}

// RequestOTP handles POST /api/v1/auth/request-otp
func (h *Handler) RequestOTP(c *gin.Context) {
	logger := middleware.GetLoggerFromGinContext(c)

	var body otpRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindErrorMessage(err)})
		return
	}

	env, err := h.auth.RequestOTP(c.Request.Context(), body.Email)
	if err != nil {
		logger.Error("OTP request failed", zap.Error(err))
		writeFlowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": env.Message})
}

// VerifyOTP handles POST /api/v1/auth/verify-otp
func (h *Handler) VerifyOTP(c *gin.Context) {
	logger := middleware.GetLoggerFromGinContext(c)

	var body otpVerifyBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindErrorMessage(err)})
		return
	}

	env, err := h.auth.VerifyOTP(c.Request.Context(), body.Email, body.OTP)
	if err != nil {
		logger.Error("OTP verification failed", zap.Error(err))
		writeFlowError(c, err)
		return
	}

	// A 2xx backend answer without a token leaves the caller
	// unauthenticated; surface the raw outcome and let the UI decide.
	c.JSON(http.StatusOK, gin.H{
		"authenticated": h.sessions.IsAuthenticated(),
		"session":       h.sessions.Current(),
		"message":       env.Message,
	})
}

// Logout handles POST /api/v1/auth/logout
func (h *Handler) Logout(c *gin.Context) {
	h.auth.Logout()
	c.JSON(http.StatusOK, gin.H{"redirect": "/login"})
}

// GetSession handles GET /api/v1/session
func (h *Handler) GetSession(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"session":       h.sessions.Current(),
		"authenticated": h.sessions.IsAuthenticated(),
		"loading":       h.sessions.Loading(),
	})
}

// ProfilePage handles GET /api/v1/pages/profile
func (h *Handler) ProfilePage(c *gin.Context) {
	c.JSON(http.StatusOK, h.loaders.ProfilePage(c.Request.Context()))
}

// PaymentsPage handles GET /api/v1/pages/payments
func (h *Handler) PaymentsPage(c *gin.Context) {
	c.JSON(http.StatusOK, h.loaders.PaymentsPage(c.Request.Context()))
}

// UpdateProfile handles PUT /api/v1/profile
func (h *Handler) UpdateProfile(c *gin.Context) {
	logger := middleware.GetLoggerFromGinContext(c)

	sess := h.sessions.Current()
	if sess == nil {
		writeFlowError(c, domain.ErrNotAuthenticated)
		return
	}

	var sections domain.ProfileData
	if err := c.ShouldBindJSON(&sections); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindErrorMessage(err)})
		return
	}

	record, err := h.profiles.Update(c.Request.Context(), sess.UserID, sections)
	if err != nil {
		logger.Error("Profile update failed", zap.String("user_id", sess.UserID), zap.Error(err))
		writeFlowError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

// UploadAvatar handles POST /api/v1/profile/avatar
func (h *Handler) UploadAvatar(c *gin.Context) {
	if h.sessions.Current() == nil {
		writeFlowError(c, domain.ErrNotAuthenticated)
		return
	}

	file, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "avatar file is required"})
		return
	}

	upload, err := h.profiles.UploadAvatar(file.Filename)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, upload)
}

// GetNav handles GET /api/v1/nav
func (h *Handler) GetNav(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"active": h.nav.Active()})
}

// SetNav handles PUT /api/v1/nav
func (h *Handler) SetNav(c *gin.Context) {
	var body navBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindErrorMessage(err)})
		return
	}
	if err := h.nav.SetActive(body.Path); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"active": h.nav.Active()})
}

// writeFlowError maps a flow failure onto the HTTP response: domain
// sentinels get their documented status, the normalized API error keeps
// its remote status and message, anything else is an opaque 500.
func writeFlowError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": loader.ErrMsgNotAuthenticated})
	default:
		if apiErr, ok := api.AsError(err); ok {
			c.JSON(apiErr.Status, gin.H{"error": apiErr.Message})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
