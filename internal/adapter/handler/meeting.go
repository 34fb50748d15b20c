package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/vindepemarte/Kiro-App-1-sub000/internal/adapter/dto"
	"github.com/vindepemarte/Kiro-App-1-sub000/internal/domain/entities"
	"github.com/vindepemarte/Kiro-App-1-sub000/internal/infrastructure/http/middleware"
	"github.com/vindepemarte/Kiro-App-1-sub000/internal/usecase/meeting"
)

// Meeting exposes meeting endpoints.
type Meeting struct {
	service meeting.Service
	logger  *zap.Logger
}

// NewMeeting creates the meeting handler.
func NewMeeting(service meeting.Service, logger *zap.Logger) *Meeting {
	return &Meeting{service: service, logger: logger}
}

// Process handles POST /v1/meetings/process
func (h *Meeting) Process(c echo.Context) error {
	var req dto.ProcessTranscriptRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(400, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(400, err.Error())
	}

	m, err := h.service.ProcessTranscript(c.Request().Context(), meeting.ProcessInput{
		OwnerID:    middleware.UserID(c),
		Title:      req.Title,
		Transcript: req.Transcript,
		TeamID:     req.TeamID,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, m)
}

// List handles GET /v1/meetings
func (h *Meeting) List(c echo.Context) error {
	meetings, err := h.service.ListMeetings(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, meetings)
}

// Get handles GET /v1/meetings/:id
func (h *Meeting) Get(c echo.Context) error {
	m, err := h.service.GetMeeting(c.Request().Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, m)
}

// Update handles PUT /v1/meetings/:id
func (h *Meeting) Update(c echo.Context) error {
	var req dto.UpdateMeetingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(400, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(400, err.Error())
	}

	userID := middleware.UserID(c)
	ctx := c.Request().Context()
	m, err := h.service.GetMeeting(ctx, userID, c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	if req.Title != nil {
		m.Title = *req.Title
	}
	if req.Summary != nil {
		m.Summary = *req.Summary
	}
	if req.ActionItems != nil {
		items := make([]entities.ActionItem, 0, len(req.ActionItems))
		for _, r := range req.ActionItems {
			item := entities.ActionItem{
				ID:          r.ID,
				Description: r.Description,
				Owner:       r.Owner,
				Priority:    entities.ActionItemPriority(r.Priority),
				Status:      entities.ActionItemStatus(r.Status),
				Deadline:    r.Deadline,
			}
			item.Normalize()
			items = append(items, item)
		}
		m.ActionItems = items
	}

	if err := h.service.UpdateMeeting(ctx, userID, m); err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, m)
}

// Delete handles DELETE /v1/meetings/:id
func (h *Meeting) Delete(c echo.Context) error {
	err := h.service.DeleteMeeting(c.Request().Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, nil)
}

// AssignTeam handles POST /v1/meetings/:id/team
func (h *Meeting) AssignTeam(c echo.Context) error {
	var req dto.AssignTeamRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(400, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(400, err.Error())
	}

	err := h.service.AssignToTeam(c.Request().Context(), middleware.UserID(c), c.Param("id"), req.TeamID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, nil)
}

// RemoveTeam handles DELETE /v1/meetings/:id/team
func (h *Meeting) RemoveTeam(c echo.Context) error {
	err := h.service.RemoveFromTeam(c.Request().Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, nil)
}

// TeamMeetings handles GET /v1/teams/:id/meetings
func (h *Meeting) TeamMeetings(c echo.Context) error {
	meetings, err := h.service.ListTeamMeetings(c.Request().Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, meetings)
}
