package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/vindepemarte/Kiro-App-1-sub000/internal/adapter/dto"
	"github.com/vindepemarte/Kiro-App-1-sub000/internal/domain/entities"
	"github.com/vindepemarte/Kiro-App-1-sub000/internal/infrastructure/http/middleware"
	"github.com/vindepemarte/Kiro-App-1-sub000/internal/usecase/team"
	"github.com/vindepemarte/Kiro-App-1-sub000/internal/usecase/user"
)

// Team exposes team and membership endpoints.
type Team struct {
	service team.Service
	users   user.Service
	logger  *zap.Logger
}

// NewTeam creates the team handler.
func NewTeam(service team.Service, users user.Service, logger *zap.Logger) *Team {
	return &Team{service: service, users: users, logger: logger}
}

// Create handles POST /v1/teams
func (h *Team) Create(c echo.Context) error {
	var req dto.CreateTeamRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(400, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(400, err.Error())
	}

	ctx := c.Request().Context()
	userID := middleware.UserID(c)

	// The creator's roster row wants a display name; the profile is the
	// canonical source.
	displayName := ""
	email := middleware.UserEmail(c)
	if profile, err := h.users.GetProfile(ctx, userID); err == nil {
		displayName = profile.DisplayName
		if profile.Email != "" {
			email = profile.Email
		}
	}

	t, err := h.service.CreateTeam(ctx, team.CreateTeamInput{
		Name:         req.Name,
		Description:  req.Description,
		CreatorID:    userID,
		CreatorEmail: email,
		CreatorName:  displayName,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, t)
}

// List handles GET /v1/teams
func (h *Team) List(c echo.Context) error {
	teams, err := h.service.ListTeams(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, teams)
}

// Get handles GET /v1/teams/:id
func (h *Team) Get(c echo.Context) error {
	t, err := h.service.GetTeam(c.Request().Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, t)
}

// Update handles PUT /v1/teams/:id
func (h *Team) Update(c echo.Context) error {
	var req dto.UpdateTeamRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(400, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(400, err.Error())
	}

	t, err := h.service.UpdateTeam(c.Request().Context(), c.Param("id"), middleware.UserID(c), req.Name, req.Description)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, t)
}

// Delete handles DELETE /v1/teams/:id
func (h *Team) Delete(c echo.Context) error {
	err := h.service.DeleteTeam(c.Request().Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, nil)
}

// Invite handles POST /v1/teams/:id/invitations
func (h *Team) Invite(c echo.Context) error {
	var req dto.InviteMemberRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(400, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(400, err.Error())
	}

	err := h.service.InviteMember(c.Request().Context(), c.Param("id"), middleware.UserID(c), req.Email)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, nil)
}

// Accept handles POST /v1/teams/:id/invitations/accept
func (h *Team) Accept(c echo.Context) error {
	err := h.service.AcceptInvitation(c.Request().Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, nil)
}

// Decline handles POST /v1/teams/:id/invitations/decline
func (h *Team) Decline(c echo.Context) error {
	err := h.service.DeclineInvitation(c.Request().Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, nil)
}

// RemoveMember handles DELETE /v1/teams/:id/members/:userId
func (h *Team) RemoveMember(c echo.Context) error {
	err := h.service.RemoveMember(c.Request().Context(), c.Param("id"), middleware.UserID(c), c.Param("userId"))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, nil)
}

// UpdateMemberRole handles PUT /v1/teams/:id/members/:userId/role
func (h *Team) UpdateMemberRole(c echo.Context) error {
	var req dto.UpdateMemberRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(400, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(400, err.Error())
	}

	err := h.service.UpdateMemberRole(c.Request().Context(), c.Param("id"), middleware.UserID(c),
		c.Param("userId"), entities.TeamRole(req.Role))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, nil)
}
