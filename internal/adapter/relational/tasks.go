package relational

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm/clause"

	"github.com/vindepemarte/Kiro-App-1-sub000/internal/domain/entities"
)

// SaveTask upserts the denormalized task row keyed by the action item id.
func (s *Store) SaveTask(ctx context.Context, t *entities.Task) error {
	now := time.Now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now

	row := toTaskRow(t)
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}
	return nil
}

// GetUserTasks returns tasks assigned to the user, newest first.
func (s *Store) GetUserTasks(ctx context.Context, userID string) ([]*entities.Task, error) {
	var rows []taskRow
	err := s.db.WithContext(ctx).
		Where("assignee_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return fromTaskRows(rows), nil
}

// GetAssignedTasks returns every task with an assignee.
func (s *Store) GetAssignedTasks(ctx context.Context) ([]*entities.Task, error) {
	var rows []taskRow
	err := s.db.WithContext(ctx).
		Where("assignee_id <> ''").
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list assigned tasks: %w", err)
	}
	return fromTaskRows(rows), nil
}

// DeleteTasksForMeeting removes every task derived from the meeting.
func (s *Store) DeleteTasksForMeeting(ctx context.Context, meetingID string) error {
	err := s.db.WithContext(ctx).
		Where("meeting_id = ?", meetingID).
		Delete(&taskRow{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete meeting tasks: %w", err)
	}
	return nil
}

func fromTaskRows(rows []taskRow) []*entities.Task {
	tasks := make([]*entities.Task, 0, len(rows))
	for _, row := range rows {
		tasks = append(tasks, fromTaskRow(row))
	}
	return tasks
}
