package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vindepemarte/Kiro-App-1-sub000/internal/domain/repositories"
	httpmw "github.com/vindepemarte/Kiro-App-1-sub000/internal/infrastructure/http/middleware"
	"github.com/vindepemarte/Kiro-App-1-sub000/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg          *config.Config
	store        repositories.Store
	meetings     *Meeting
	teams        *Team
	tasks        *Task
	notification *Notification
	profile      *Profile
	auth         *httpmw.AuthMiddleware
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, store repositories.Store, meetings *Meeting, teams *Team, tasks *Task, notifications *Notification, profile *Profile, auth *httpmw.AuthMiddleware) *Router {
	return &Router{
		cfg:          cfg,
		store:        store,
		meetings:     meetings,
		teams:        teams,
		tasks:        tasks,
		notification: notifications,
		profile:      profile,
		auth:         auth,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", rt.healthCheck)

	// API v1 group, everything behind authentication
	v1 := e.Group("/v1", rt.auth.Authenticate)

	rt.setupMeetingRoutes(v1)
	rt.setupTeamRoutes(v1)
	rt.setupTaskRoutes(v1)
	rt.setupNotificationRoutes(v1)
	rt.setupProfileRoutes(v1)
}

func (rt *Router) setupMeetingRoutes(g *echo.Group) {
	meetings := g.Group("/meetings")

	meetings.POST("/process", rt.meetings.Process)
	meetings.GET("", rt.meetings.List)
	meetings.GET("/:id", rt.meetings.Get)
	meetings.PUT("/:id", rt.meetings.Update)
	meetings.DELETE("/:id", rt.meetings.Delete)
	meetings.POST("/:id/team", rt.meetings.AssignTeam)
	meetings.DELETE("/:id/team", rt.meetings.RemoveTeam)
}

func (rt *Router) setupTeamRoutes(g *echo.Group) {
	teams := g.Group("/teams")

	teams.POST("", rt.teams.Create)
	teams.GET("", rt.teams.List)
	teams.GET("/:id", rt.teams.Get)
	teams.PUT("/:id", rt.teams.Update)
	teams.DELETE("/:id", rt.teams.Delete)
	teams.GET("/:id/meetings", rt.meetings.TeamMeetings)
	teams.POST("/:id/invitations", rt.teams.Invite)
	teams.POST("/:id/invitations/accept", rt.teams.Accept)
	teams.POST("/:id/invitations/decline", rt.teams.Decline)
	teams.DELETE("/:id/members/:userId", rt.teams.RemoveMember)
	teams.PUT("/:id/members/:userId/role", rt.teams.UpdateMemberRole)
}

func (rt *Router) setupTaskRoutes(g *echo.Group) {
	tasks := g.Group("/tasks")

	tasks.GET("", rt.tasks.List)
	tasks.POST("", rt.tasks.Assign)
	tasks.PUT("/:id/status", rt.tasks.UpdateStatus)
}

func (rt *Router) setupNotificationRoutes(g *echo.Group) {
	notifications := g.Group("/notifications")

	notifications.GET("", rt.notification.List)
	notifications.PUT("/:id/read", rt.notification.MarkRead)
	notifications.DELETE("/:id", rt.notification.Delete)
}

func (rt *Router) setupProfileRoutes(g *echo.Group) {
	profile := g.Group("/profile")

	profile.GET("", rt.profile.Get)
	profile.PUT("", rt.profile.Update)
	profile.PUT("/preferences", rt.profile.UpdatePreferences)
}

// healthCheck returns health status, including backend reachability
func (rt *Router) healthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	status := "ok"
	code := http.StatusOK
	if err := rt.store.Ping(ctx); err != nil {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	return c.JSON(code, map[string]interface{}{
		"status":      status,
		"backend":     string(rt.store.Backend()),
		"environment": rt.cfg.Server.Environment,
	})
}
