package document

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vindepemarte/Kiro-App-1-sub000/internal/domain/entities"
	usecaseErrors "github.com/vindepemarte/Kiro-App-1-sub000/internal/usecase/errors"
)

// CreateNotification inserts one notification and returns its id.
func (s *Store) CreateNotification(ctx context.Context, n *entities.Notification) (string, error) {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	if _, err := s.notifications().InsertOne(ctx, encodeNotification(n)); err != nil {
		return "", fmt.Errorf("failed to create notification: %w", err)
	}
	return n.ID, nil
}

// GetUserNotifications returns the user's notifications, newest first.
func (s *Store) GetUserNotifications(ctx context.Context, userID string) ([]*entities.Notification, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.notifications().Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer cursor.Close(ctx)

	notifications := make([]*entities.Notification, 0)
	for cursor.Next(ctx) {
		var doc notificationDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode notification: %w", err)
		}
		notifications = append(notifications, decodeNotification(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("notification cursor failed: %w", err)
	}
	return notifications, nil
}

// MarkNotificationRead flips the read flag.
func (s *Store) MarkNotificationRead(ctx context.Context, id string) error {
	res, err := s.notifications().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if res.MatchedCount == 0 {
		return usecaseErrors.ErrNotificationNotFound
	}
	return nil
}

// DeleteNotification removes one notification.
func (s *Store) DeleteNotification(ctx context.Context, id string) error {
	res, err := s.notifications().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	if res.DeletedCount == 0 {
		return usecaseErrors.ErrNotificationNotFound
	}
	return nil
}

// DeleteTeamNotifications removes every notification whose payload points at
// the team. Used when a team is deleted so stale invitations disappear.
func (s *Store) DeleteTeamNotifications(ctx context.Context, teamID string) error {
	if _, err := s.notifications().DeleteMany(ctx, bson.M{"data.teamId": teamID}); err != nil {
		return fmt.Errorf("failed to delete team notifications: %w", err)
	}
	return nil
}
