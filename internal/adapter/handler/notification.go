package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/vindepemarte/Kiro-App-1-sub000/internal/infrastructure/http/middleware"
	"github.com/vindepemarte/Kiro-App-1-sub000/internal/usecase/notification"
)

// Notification exposes notification endpoints.
type Notification struct {
	service notification.Service
	logger  *zap.Logger
}

// NewNotification creates the notification handler.
func NewNotification(service notification.Service, logger *zap.Logger) *Notification {
	return &Notification{service: service, logger: logger}
}

// List handles GET /v1/notifications
func (h *Notification) List(c echo.Context) error {
	notifications, err := h.service.List(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, notifications)
}

// MarkRead handles PUT /v1/notifications/:id/read
func (h *Notification) MarkRead(c echo.Context) error {
	err := h.service.MarkRead(c.Request().Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, nil)
}

// Delete handles DELETE /v1/notifications/:id
func (h *Notification) Delete(c echo.Context) error {
	err := h.service.Delete(c.Request().Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, nil)
}
