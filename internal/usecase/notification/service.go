// Package notification implements delivery of in-app notifications:
// preference checks, at-most-once deduplication through a reservation
// ledger, and batched fan-out with per-recipient failure isolation.
package notification

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	apperrors "github.com/vindepemarte/Kiro-App-1-sub000/errors"
	"github.com/vindepemarte/Kiro-App-1-sub000/internal/domain/entities"
	"github.com/vindepemarte/Kiro-App-1-sub000/internal/domain/repositories"
	"github.com/vindepemarte/Kiro-App-1-sub000/internal/infrastructure/cache"
	usecaseErrors "github.com/vindepemarte/Kiro-App-1-sub000/internal/usecase/errors"
	"github.com/vindepemarte/Kiro-App-1-sub000/pkg/config"
)

// Service defines the interface for notification use case
type Service interface {
	// Notify delivers one notification to one user, honoring preferences
	// and the deduplication ledger. A suppressed delivery returns an empty
	// id and no error.
	Notify(ctx context.Context, input NotifyInput) (string, error)

	// NotifyMany fans one notification out to several users in batches.
	// Individual failures do not stop the batch.
	NotifyMany(ctx context.Context, userIDs []string, input NotifyInput) error

	// List retrieves the user's notifications, newest first.
	List(ctx context.Context, userID string) ([]*entities.Notification, error)

	// MarkRead marks one of the user's notifications as read.
	MarkRead(ctx context.Context, userID, notificationID string) error

	// Delete removes one of the user's notifications.
	Delete(ctx context.Context, userID, notificationID string) error

	// Subscribe streams the user's notification list.
	Subscribe(ctx context.Context, userID string, fn func([]*entities.Notification)) repositories.Unsubscribe
}

// NotifyInput describes one delivery.
type NotifyInput struct {
	Type    entities.NotificationType
	Title   string
	Message string
	Data    map[string]any

	// DedupKey scopes the at-most-once guarantee. Two deliveries with the
	// same key and recipient collapse into one. Empty disables dedup.
	DedupKey string
}

var _ Service = (*NotificationService)(nil)

// NotificationService implements Service.
type NotificationService struct {
	store     repositories.Store
	ledger    cache.Ledger
	logger    *zap.Logger
	batchSize int
	ledgerTTL time.Duration

	// prefCache keeps recently read notification preferences so a fan-out
	// to a large team does not hammer the profile collection.
	prefCache *gocache.Cache
}

// NewService creates a NotificationService. ledger may be nil, which
// disables deduplication.
func NewService(store repositories.Store, ledger cache.Ledger, cfg config.NotifyConfig, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 10
	}
	return &NotificationService{
		store:     store,
		ledger:    ledger,
		logger:    logger,
		batchSize: batchSize,
		ledgerTTL: cfg.LedgerTTL,
		prefCache: gocache.New(5*time.Minute, 10*time.Minute),
	}
}

func (s *NotificationService) Notify(ctx context.Context, input NotifyInput) (string, error) {
	return s.notifyOne(ctx, "", input)
}

// notifyOne is the single-recipient path shared by Notify and NotifyMany.
// userID overrides input recipient when set by the fan-out loop.
func (s *NotificationService) notifyOne(ctx context.Context, userID string, input NotifyInput) (string, error) {
	if userID == "" {
		if v, ok := input.Data["userId"].(string); ok {
			userID = v
		}
	}
	if userID == "" {
		return "", usecaseErrors.ErrInvalidInput
	}
	if !input.Type.IsValid() {
		return "", usecaseErrors.ErrInvalidInput
	}

	if !s.allows(ctx, userID, input.Type) {
		s.logger.Debug("notification suppressed by preference",
			zap.String("user_id", userID),
			zap.String("type", string(input.Type)),
		)
		return "", nil
	}

	if input.DedupKey != "" && s.ledger != nil {
		key := fmt.Sprintf("notify:%s:%s", input.DedupKey, userID)
		fresh, err := s.ledger.Reserve(ctx, key, s.ledgerTTL)
		if err != nil {
			// A broken ledger must not swallow notifications. Deliver
			// anyway and accept the duplicate risk.
			s.logger.Warn("dedup ledger unavailable, delivering without dedup",
				zap.String("key", key),
				zap.Error(err),
			)
		} else if !fresh {
			return "", nil
		}
	}

	n := entities.NewNotification(userID, input.Type, input.Title, input.Message, input.Data)
	return s.store.CreateNotification(ctx, n)
}

// allows reads the user's notification preference, defaulting to send when
// the profile is missing or unreadable.
func (s *NotificationService) allows(ctx context.Context, userID string, t entities.NotificationType) bool {
	if cached, ok := s.prefCache.Get(userID); ok {
		if profile, ok := cached.(*entities.UserProfile); ok {
			return profile.AllowsNotification(t)
		}
	}

	profile, err := s.store.GetUserProfile(ctx, userID)
	if err != nil {
		return true
	}
	s.prefCache.Set(userID, profile, gocache.DefaultExpiration)
	return profile.AllowsNotification(t)
}

func (s *NotificationService) NotifyMany(ctx context.Context, userIDs []string, input NotifyInput) error {
	total := len(userIDs)
	if total == 0 {
		return nil
	}

	failed := 0
	for start := 0; start < total; start += s.batchSize {
		end := start + s.batchSize
		if end > total {
			end = total
		}
		for _, userID := range userIDs[start:end] {
			if _, err := s.notifyOne(ctx, userID, input); err != nil {
				failed++
				s.logger.Warn("notification delivery failed",
					zap.String("user_id", userID),
					zap.String("type", string(input.Type)),
					zap.Error(err),
				)
			}
		}
	}

	if failed > 0 {
		return apperrors.ErrPartialFailure("notify", failed, total)
	}
	return nil
}

func (s *NotificationService) List(ctx context.Context, userID string) ([]*entities.Notification, error) {
	return s.store.GetUserNotifications(ctx, userID)
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	if err := s.authorize(ctx, userID, notificationID); err != nil {
		return err
	}
	return s.store.MarkNotificationRead(ctx, notificationID)
}

func (s *NotificationService) Delete(ctx context.Context, userID, notificationID string) error {
	if err := s.authorize(ctx, userID, notificationID); err != nil {
		return err
	}
	return s.store.DeleteNotification(ctx, notificationID)
}

// authorize confirms the notification belongs to the user.
func (s *NotificationService) authorize(ctx context.Context, userID, notificationID string) error {
	notifications, err := s.store.GetUserNotifications(ctx, userID)
	if err != nil {
		return err
	}
	for _, n := range notifications {
		if n.ID == notificationID {
			return nil
		}
	}
	return usecaseErrors.ErrNotificationNotFound
}

func (s *NotificationService) Subscribe(ctx context.Context, userID string, fn func([]*entities.Notification)) repositories.Unsubscribe {
	return s.store.SubscribeUserNotifications(ctx, userID, fn)
}
