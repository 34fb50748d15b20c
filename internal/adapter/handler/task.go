package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/vindepemarte/Kiro-App-1-sub000/internal/adapter/dto"
	"github.com/vindepemarte/Kiro-App-1-sub000/internal/domain/entities"
	"github.com/vindepemarte/Kiro-App-1-sub000/internal/infrastructure/http/middleware"
	"github.com/vindepemarte/Kiro-App-1-sub000/internal/usecase/task"
)

// Task exposes task endpoints.
type Task struct {
	service task.Service
	logger  *zap.Logger
}

// NewTask creates the task handler.
func NewTask(service task.Service, logger *zap.Logger) *Task {
	return &Task{service: service, logger: logger}
}

// List handles GET /v1/tasks
func (h *Task) List(c echo.Context) error {
	tasks, err := h.service.ListTasks(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, tasks)
}

// Assign handles POST /v1/tasks
func (h *Task) Assign(c echo.Context) error {
	var req dto.AssignTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(400, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(400, err.Error())
	}

	userID := middleware.UserID(c)
	t, err := h.service.AssignTask(c.Request().Context(), task.AssignTaskInput{
		OwnerID:    userID,
		MeetingID:  req.MeetingID,
		ItemID:     req.ItemID,
		AssigneeID: req.AssigneeID,
		AssignerID: userID,
		Deadline:   req.Deadline,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, t)
}

// UpdateStatus handles PUT /v1/tasks/:id/status
func (h *Task) UpdateStatus(c echo.Context) error {
	var req dto.UpdateTaskStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(400, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(400, err.Error())
	}

	err := h.service.UpdateTaskStatus(c.Request().Context(), middleware.UserID(c),
		c.Param("id"), entities.ActionItemStatus(req.Status))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, nil)
}
