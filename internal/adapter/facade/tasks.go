package facade

import (
	"context"

	apperrors "github.com/vindepemarte/Kiro-App-1-sub000/errors"
	"github.com/vindepemarte/Kiro-App-1-sub000/internal/domain/entities"
)

// SaveTask validates the derived task and persists with retry.
func (f *Facade) SaveTask(ctx context.Context, t *entities.Task) error {
	if t == nil {
		return apperrors.ErrValidation("task is required")
	}
	if t.ID == "" {
		return apperrors.ErrValidation("task id is required")
	}
	if t.MeetingID == "" {
		return apperrors.ErrValidation("task meeting id is required")
	}

	err := f.withRetry(ctx, "SaveTask", retryBudget, func() error {
		return f.store.SaveTask(ctx, t)
	})
	if err != nil {
		return err
	}

	f.taskListCache.InvalidatePrefix("tasks:")
	return nil
}

// GetUserTasks serves from cache when fresh.
func (f *Facade) GetUserTasks(ctx context.Context, userID string) ([]*entities.Task, error) {
	key := "tasks:user:" + userID
	if cached, ok := f.taskListCache.Get(key); ok {
		return cached, nil
	}

	var tasks []*entities.Task
	err := f.withRetry(ctx, "GetUserTasks", retryBudget, func() error {
		var err error
		tasks, err = f.store.GetUserTasks(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	f.taskListCache.Set(key, tasks)
	return tasks, nil
}

// GetAssignedTasks is a scanner query and bypasses the cache: the overdue
// sweep must see current state.
func (f *Facade) GetAssignedTasks(ctx context.Context) ([]*entities.Task, error) {
	var tasks []*entities.Task
	err := f.withRetry(ctx, "GetAssignedTasks", retryBudget, func() error {
		var err error
		tasks, err = f.store.GetAssignedTasks(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// DeleteTasksForMeeting uses the tighter delete budget.
func (f *Facade) DeleteTasksForMeeting(ctx context.Context, meetingID string) error {
	err := f.withRetry(ctx, "DeleteTasksForMeeting", deleteRetryBudget, func() error {
		return f.store.DeleteTasksForMeeting(ctx, meetingID)
	})
	if err != nil {
		return err
	}

	f.taskListCache.InvalidatePrefix("tasks:")
	return nil
}
