// Package task implements action item assignment and tracking. The meeting
// document owns the action items; every mutation here writes the meeting
// first and then refreshes the derived task index.
package task

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/vindepemarte/Kiro-App-1-sub000/internal/domain/entities"
	"github.com/vindepemarte/Kiro-App-1-sub000/internal/domain/repositories"
	usecaseErrors "github.com/vindepemarte/Kiro-App-1-sub000/internal/usecase/errors"
	"github.com/vindepemarte/Kiro-App-1-sub000/internal/usecase/notification"
)

// Service defines the interface for task use case
type Service interface {
	// AssignTask assigns a meeting's action item to a user and creates the
	// derived task document.
	AssignTask(ctx context.Context, input AssignTaskInput) (*entities.Task, error)

	// UpdateTaskStatus moves a task through pending, in_progress, completed.
	UpdateTaskStatus(ctx context.Context, userID, taskID string, status entities.ActionItemStatus) error

	// ListTasks retrieves tasks assigned to the user.
	ListTasks(ctx context.Context, userID string) ([]*entities.Task, error)

	// ScanOverdueTasks notifies assignees of incomplete tasks past their
	// deadline. Deduplication keeps each task to one reminder per ledger
	// window.
	ScanOverdueTasks(ctx context.Context) error
}

// AssignTaskInput identifies the item and the parties of an assignment.
type AssignTaskInput struct {
	OwnerID    string
	MeetingID  string
	ItemID     string
	AssigneeID string
	AssignerID string
	Deadline   *time.Time
}

var _ Service = (*TaskService)(nil)

// TaskService implements Service.
type TaskService struct {
	store    repositories.Store
	notifier notification.Service
	logger   *zap.Logger
}

// NewService creates a TaskService.
func NewService(store repositories.Store, notifier notification.Service, logger *zap.Logger) *TaskService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TaskService{store: store, notifier: notifier, logger: logger}
}

func (s *TaskService) AssignTask(ctx context.Context, input AssignTaskInput) (*entities.Task, error) {
	if input.MeetingID == "" || input.ItemID == "" || input.AssigneeID == "" {
		return nil, usecaseErrors.ErrInvalidInput
	}

	meeting, err := s.store.GetMeetingByID(ctx, input.OwnerID, input.MeetingID)
	if err != nil {
		return nil, err
	}

	// Assignments on team meetings may come from any admin; personal
	// meetings only from their owner.
	teamName := ""
	if meeting.TeamID != "" {
		team, err := s.store.GetTeamByID(ctx, meeting.TeamID)
		if err != nil {
			return nil, err
		}
		if input.AssignerID != meeting.OwnerID && !team.CanManage(input.AssignerID) {
			return nil, usecaseErrors.ErrForbidden
		}
		if !team.HasMember(input.AssigneeID) {
			return nil, usecaseErrors.ErrMemberNotFound
		}
		teamName = team.Name
	} else if input.AssignerID != meeting.OwnerID {
		return nil, usecaseErrors.ErrForbidden
	}

	item, ok := meeting.FindActionItem(input.ItemID)
	if !ok {
		return nil, usecaseErrors.ErrActionItemNotFound
	}

	item.Assign(input.AssigneeID, s.resolveName(ctx, meeting.TeamID, input.AssigneeID), input.AssignerID)
	if input.Deadline != nil {
		item.Deadline = input.Deadline
	}

	// Meeting first: it is the source of truth. The task index follows.
	if err := s.store.UpdateMeeting(ctx, meeting); err != nil {
		return nil, err
	}

	task := entities.TaskFromActionItem(meeting, *item, teamName)
	if err := s.store.SaveTask(ctx, task); err != nil {
		return nil, err
	}

	if s.notifier != nil && input.AssigneeID != input.AssignerID {
		_, err := s.notifier.Notify(ctx, notification.NotifyInput{
			Type:    entities.NotificationTaskAssignment,
			Title:   "New task assigned",
			Message: fmt.Sprintf("You have been assigned a task from %s", meeting.Title),
			Data: map[string]any{
				"userId":    input.AssigneeID,
				"taskId":    task.ID,
				"meetingId": meeting.ID,
				"teamId":    meeting.TeamID,
			},
			DedupKey: fmt.Sprintf("assign:%s", task.ID),
		})
		if err != nil {
			s.logger.Warn("assignment notification failed",
				zap.String("task_id", task.ID),
				zap.Error(err),
			)
		}
	}
	return task, nil
}

// resolveName finds a display name for the assignee: team roster first,
// profile second, a placeholder last. Assignment never fails over a name.
func (s *TaskService) resolveName(ctx context.Context, teamID, userID string) string {
	if teamID != "" {
		if team, err := s.store.GetTeamByID(ctx, teamID); err == nil {
			if m, ok := team.Member(userID); ok && m.DisplayName != "" {
				return m.DisplayName
			}
		}
	}
	if profile, err := s.store.GetUserProfile(ctx, userID); err == nil && profile.DisplayName != "" {
		return profile.DisplayName
	}
	return "Unknown"
}

func (s *TaskService) UpdateTaskStatus(ctx context.Context, userID, taskID string, status entities.ActionItemStatus) error {
	if !status.IsValid() {
		return usecaseErrors.ErrInvalidInput
	}

	task, err := s.findTask(ctx, userID, taskID)
	if err != nil {
		return err
	}
	if task.AssigneeID != userID && task.OwnerID != userID {
		return usecaseErrors.ErrForbidden
	}

	meeting, err := s.store.GetMeetingByID(ctx, task.OwnerID, task.MeetingID)
	if err != nil {
		return err
	}
	item, ok := meeting.FindActionItem(taskID)
	if !ok {
		return usecaseErrors.ErrActionItemNotFound
	}
	item.Status = status

	if err := s.store.UpdateMeeting(ctx, meeting); err != nil {
		return err
	}

	task.Status = status
	if err := s.store.SaveTask(ctx, task); err != nil {
		return err
	}

	// Completion goes back to whoever handed the task out.
	recipient := task.AssignedBy
	if recipient == "" {
		recipient = task.OwnerID
	}
	if s.notifier != nil && status == entities.StatusCompleted && recipient != userID {
		_, err := s.notifier.Notify(ctx, notification.NotifyInput{
			Type:    entities.NotificationTaskCompleted,
			Title:   "Task completed",
			Message: fmt.Sprintf("%s completed a task from %s", task.AssigneeName, task.MeetingTitle),
			Data: map[string]any{
				"userId":    recipient,
				"taskId":    task.ID,
				"meetingId": task.MeetingID,
			},
			DedupKey: fmt.Sprintf("complete:%s", task.ID),
		})
		if err != nil {
			s.logger.Warn("completion notification failed",
				zap.String("task_id", task.ID),
				zap.Error(err),
			)
		}
	}
	return nil
}

// findTask looks in the user's assigned tasks first, then falls back to the
// global assigned set so meeting owners can update tasks they handed out.
func (s *TaskService) findTask(ctx context.Context, userID, taskID string) (*entities.Task, error) {
	tasks, err := s.store.GetUserTasks(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, t := range tasks {
		if t.ID == taskID {
			return t, nil
		}
	}

	all, err := s.store.GetAssignedTasks(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range all {
		if t.ID == taskID {
			return t, nil
		}
	}
	return nil, usecaseErrors.ErrNotFound
}

func (s *TaskService) ListTasks(ctx context.Context, userID string) ([]*entities.Task, error) {
	return s.store.GetUserTasks(ctx, userID)
}

func (s *TaskService) ScanOverdueTasks(ctx context.Context) error {
	tasks, err := s.store.GetAssignedTasks(ctx)
	if err != nil {
		return err
	}

	now := time.Now()
	for _, t := range tasks {
		if t.Status == entities.StatusCompleted || !t.Overdue(now) {
			continue
		}
		if s.notifier == nil {
			continue
		}
		_, err := s.notifier.Notify(ctx, notification.NotifyInput{
			Type:    entities.NotificationTaskOverdue,
			Title:   "Task overdue",
			Message: fmt.Sprintf("A task from %s is past its deadline", t.MeetingTitle),
			Data: map[string]any{
				"userId":    t.AssigneeID,
				"taskId":    t.ID,
				"meetingId": t.MeetingID,
			},
			DedupKey: fmt.Sprintf("overdue:%s:%s", t.ID, now.Format("2006-01-02")),
		})
		if err != nil {
			s.logger.Warn("overdue notification failed",
				zap.String("task_id", t.ID),
				zap.Error(err),
			)
		}
	}
	return nil
}
