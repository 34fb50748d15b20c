package relational

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vindepemarte/Kiro-App-1-sub000/internal/domain/entities"
	usecaseErrors "github.com/vindepemarte/Kiro-App-1-sub000/internal/usecase/errors"
)

// CreateNotification inserts one notification row.
func (s *Store) CreateNotification(ctx context.Context, n *entities.Notification) (string, error) {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	row, err := toNotificationRow(n)
	if err != nil {
		return "", fmt.Errorf("failed to encode notification: %w", err)
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return "", fmt.Errorf("failed to create notification: %w", err)
	}
	return n.ID, nil
}

// GetUserNotifications returns the user's notifications, newest first.
func (s *Store) GetUserNotifications(ctx context.Context, userID string) ([]*entities.Notification, error) {
	var rows []notificationRow
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	notifications := make([]*entities.Notification, 0, len(rows))
	for _, row := range rows {
		n, err := fromNotificationRow(row)
		if err != nil {
			return nil, fmt.Errorf("failed to decode notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	return notifications, nil
}

// MarkNotificationRead flips the read flag.
func (s *Store) MarkNotificationRead(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).
		Model(&notificationRow{}).
		Where("id = ?", id).
		Update("read", true)
	if res.Error != nil {
		return fmt.Errorf("failed to mark notification read: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return usecaseErrors.ErrNotificationNotFound
	}
	return nil
}

// DeleteNotification removes one notification row.
func (s *Store) DeleteNotification(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&notificationRow{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete notification: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return usecaseErrors.ErrNotificationNotFound
	}
	return nil
}

// DeleteTeamNotifications removes every notification whose payload points at
// the team.
func (s *Store) DeleteTeamNotifications(ctx context.Context, teamID string) error {
	err := s.db.WithContext(ctx).
		Where("data->>'teamId' = ?", teamID).
		Delete(&notificationRow{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete team notifications: %w", err)
	}
	return nil
}
