package facade

import (
	"context"

	apperrors "github.com/vindepemarte/Kiro-App-1-sub000/errors"
	"github.com/vindepemarte/Kiro-App-1-sub000/internal/domain/entities"
)

// CreateNotification validates the payload and persists with retry.
func (f *Facade) CreateNotification(ctx context.Context, n *entities.Notification) (string, error) {
	if n == nil {
		return "", apperrors.ErrValidation("notification is required")
	}
	if n.UserID == "" {
		return "", apperrors.ErrValidation("notification user id is required")
	}
	if !n.Type.IsValid() {
		return "", apperrors.ErrValidation("unknown notification type")
	}

	var id string
	err := f.withRetry(ctx, "CreateNotification", retryBudget, func() error {
		var err error
		id, err = f.store.CreateNotification(ctx, n)
		return err
	})
	if err != nil {
		return "", err
	}

	f.notificationCache.InvalidatePrefix("notifications:user:" + n.UserID)
	return id, nil
}

// GetUserNotifications serves from cache when fresh. The TTL here is short
// so badge counts stay roughly live even without a subscription.
func (f *Facade) GetUserNotifications(ctx context.Context, userID string) ([]*entities.Notification, error) {
	key := "notifications:user:" + userID
	if cached, ok := f.notificationCache.Get(key); ok {
		return cached, nil
	}

	var notifications []*entities.Notification
	err := f.withRetry(ctx, "GetUserNotifications", retryBudget, func() error {
		var err error
		notifications, err = f.store.GetUserNotifications(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	f.notificationCache.Set(key, notifications)
	return notifications, nil
}

// MarkNotificationRead flips the flag. The owning user is unknown here so
// the whole notification class is invalidated.
func (f *Facade) MarkNotificationRead(ctx context.Context, id string) error {
	err := f.withRetry(ctx, "MarkNotificationRead", retryBudget, func() error {
		return f.store.MarkNotificationRead(ctx, id)
	})
	if err != nil {
		return err
	}

	f.notificationCache.InvalidatePrefix("notifications:")
	return nil
}

// DeleteNotification uses the tighter delete budget.
func (f *Facade) DeleteNotification(ctx context.Context, id string) error {
	err := f.withRetry(ctx, "DeleteNotification", deleteRetryBudget, func() error {
		return f.store.DeleteNotification(ctx, id)
	})
	if err != nil {
		return err
	}

	f.notificationCache.InvalidatePrefix("notifications:")
	return nil
}

// DeleteTeamNotifications sweeps invitation leftovers after a team delete.
func (f *Facade) DeleteTeamNotifications(ctx context.Context, teamID string) error {
	err := f.withRetry(ctx, "DeleteTeamNotifications", deleteRetryBudget, func() error {
		return f.store.DeleteTeamNotifications(ctx, teamID)
	})
	if err != nil {
		return err
	}

	f.notificationCache.InvalidatePrefix("notifications:")
	return nil
}
