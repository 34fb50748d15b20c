package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/vindepemarte/Kiro-App-1-sub000/internal/adapter/dto"
	"github.com/vindepemarte/Kiro-App-1-sub000/internal/infrastructure/http/middleware"
	"github.com/vindepemarte/Kiro-App-1-sub000/internal/usecase/user"
)

// Profile exposes user profile endpoints.
type Profile struct {
	service user.Service
	logger  *zap.Logger
}

// NewProfile creates the profile handler.
func NewProfile(service user.Service, logger *zap.Logger) *Profile {
	return &Profile{service: service, logger: logger}
}

// Get handles GET /v1/profile
//
// The profile is created on first access so clients never see a 404 for
// their own account.
func (h *Profile) Get(c echo.Context) error {
	profile, err := h.service.EnsureProfile(c.Request().Context(), middleware.UserID(c), middleware.UserEmail(c), "")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, profile)
}

// Update handles PUT /v1/profile
func (h *Profile) Update(c echo.Context) error {
	var req dto.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, err)
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, err)
	}

	profile, err := h.service.UpdateProfile(c.Request().Context(), middleware.UserID(c), user.UpdateProfileInput{
		DisplayName: req.DisplayName,
		PhotoURL:    req.PhotoURL,
		Theme:       req.Theme,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, profile)
}

// UpdatePreferences handles PUT /v1/profile/preferences
func (h *Profile) UpdatePreferences(c echo.Context) error {
	var req dto.UpdatePreferencesRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, err)
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, err)
	}

	profile, err := h.service.UpdatePreferences(c.Request().Context(), middleware.UserID(c), req.Preferences)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, profile)
}
