package notification

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/vindepemarte/Kiro-App-1-sub000/errors"
	"github.com/vindepemarte/Kiro-App-1-sub000/internal/adapter/memstore"
	"github.com/vindepemarte/Kiro-App-1-sub000/internal/domain/entities"
	"github.com/vindepemarte/Kiro-App-1-sub000/internal/domain/repositories"
	"github.com/vindepemarte/Kiro-App-1-sub000/internal/infrastructure/cache"
	"github.com/vindepemarte/Kiro-App-1-sub000/pkg/config"
)

func newService(t *testing.T) (*NotificationService, repositories.Store) {
	t.Helper()
	store := memstore.New()
	svc := NewService(store, cache.NewMemoryStore(), config.NotifyConfig{LedgerTTL: time.Minute}, nil)
	return svc, store
}

func TestNotify_Delivers(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	id, err := svc.Notify(ctx, NotifyInput{
		Type:    entities.NotificationTaskAssignment,
		Title:   "New task",
		Message: "You were assigned a task",
		Data:    map[string]any{"userId": "u1", "taskId": "task-1"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	list, err := store.GetUserNotifications(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, entities.NotificationTaskAssignment, list[0].Type)
	require.False(t, list[0].Read)
}

func TestNotify_RejectsInvalidInput(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Notify(ctx, NotifyInput{Type: entities.NotificationTaskAssignment})
	require.Error(t, err, "missing recipient")

	_, err = svc.Notify(ctx, NotifyInput{
		Type: entities.NotificationType("bogus"),
		Data: map[string]any{"userId": "u1"},
	})
	require.Error(t, err, "invalid type")
}

func TestNotify_PreferenceSuppression(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	profile := entities.NewUserProfile("u1", "u1@example.com", "User One")
	profile.Preferences[string(entities.NotificationTaskOverdue)] = false
	require.NoError(t, store.SaveUserProfile(ctx, profile))

	id, err := svc.Notify(ctx, NotifyInput{
		Type:  entities.NotificationTaskOverdue,
		Title: "Overdue",
		Data:  map[string]any{"userId": "u1"},
	})
	require.NoError(t, err, "suppression is not a failure")
	require.Empty(t, id)

	// Other categories stay enabled.
	id, err = svc.Notify(ctx, NotifyInput{
		Type:  entities.NotificationTaskAssignment,
		Title: "Assigned",
		Data:  map[string]any{"userId": "u1"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	list, err := store.GetUserNotifications(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestNotify_MissingProfileDefaultsToSend(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	id, err := svc.Notify(ctx, NotifyInput{
		Type:  entities.NotificationMeetingUpdate,
		Title: "Updated",
		Data:  map[string]any{"userId": "no-profile"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	list, err := store.GetUserNotifications(ctx, "no-profile")
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestNotify_DedupLedger(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	input := NotifyInput{
		Type:     entities.NotificationTeamInvitation,
		Title:    "Invitation",
		Data:     map[string]any{"userId": "u1"},
		DedupKey: "invite:t1",
	}

	first, err := svc.Notify(ctx, input)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	second, err := svc.Notify(ctx, input)
	require.NoError(t, err)
	require.Empty(t, second, "duplicate must be suppressed silently")

	list, err := store.GetUserNotifications(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)

	// The same key addressed to another user is its own delivery.
	other := input
	other.Data = map[string]any{"userId": "u2"}
	third, err := svc.Notify(ctx, other)
	require.NoError(t, err)
	require.NotEmpty(t, third)
}

// brokenLedger always fails, standing in for an unreachable Redis.
type brokenLedger struct{}

func (brokenLedger) Reserve(context.Context, string, time.Duration) (bool, error) {
	return false, errors.New("ledger down")
}

func TestNotify_LedgerFailureDeliversAnyway(t *testing.T) {
	store := memstore.New()
	svc := NewService(store, brokenLedger{}, config.NotifyConfig{LedgerTTL: time.Minute}, nil)
	ctx := context.Background()

	id, err := svc.Notify(ctx, NotifyInput{
		Type:     entities.NotificationTaskCompleted,
		Title:    "Done",
		Data:     map[string]any{"userId": "u1"},
		DedupKey: "complete:task-1",
	})
	require.NoError(t, err)
	require.NotEmpty(t, id, "a broken ledger must not swallow notifications")
}

// failingStore rejects creation for chosen recipients.
type failingStore struct {
	repositories.Store
	failFor map[string]bool
}

func (f *failingStore) CreateNotification(ctx context.Context, n *entities.Notification) (string, error) {
	if f.failFor[n.UserID] {
		return "", errors.New("write refused")
	}
	return f.Store.CreateNotification(ctx, n)
}

func TestNotifyMany_PartialFailure(t *testing.T) {
	inner := memstore.New()
	store := &failingStore{Store: inner, failFor: map[string]bool{"u3": true, "u7": true}}
	svc := NewService(store, cache.NewMemoryStore(), config.NotifyConfig{BatchSize: 4, LedgerTTL: time.Minute}, nil)
	ctx := context.Background()

	userIDs := make([]string, 0, 12)
	for i := 1; i <= 12; i++ {
		userIDs = append(userIDs, fmt.Sprintf("u%d", i))
	}

	err := svc.NotifyMany(ctx, userIDs, NotifyInput{
		Type:  entities.NotificationMeetingAssignment,
		Title: "Meeting shared",
	})
	require.Error(t, err)
	require.Equal(t, apperrors.ErrorCode_PARTIAL_FAILURE, apperrors.CodeOf(err))

	// Failures must not stop the batch: the other ten all got delivered.
	for _, userID := range userIDs {
		list, lerr := inner.GetUserNotifications(ctx, userID)
		require.NoError(t, lerr)
		if userID == "u3" || userID == "u7" {
			require.Len(t, list, 0)
		} else {
			require.Len(t, list, 1)
		}
	}
}

func TestNotifyMany_EmptyAndAllOK(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	require.NoError(t, svc.NotifyMany(ctx, nil, NotifyInput{Type: entities.NotificationMeetingUpdate}))

	err := svc.NotifyMany(ctx, []string{"u1", "u2"}, NotifyInput{
		Type:  entities.NotificationMeetingUpdate,
		Title: "Updated",
	})
	require.NoError(t, err)
}

func TestMarkReadAndDelete_Authorization(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	id, err := store.CreateNotification(ctx, entities.NewNotification("u1", entities.NotificationMeetingUpdate, "Updated", "", nil))
	require.NoError(t, err)

	require.Error(t, svc.MarkRead(ctx, "u2", id), "foreign notification must be invisible")
	require.Error(t, svc.Delete(ctx, "u2", id))

	require.NoError(t, svc.MarkRead(ctx, "u1", id))
	list, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.True(t, list[0].Read)

	require.NoError(t, svc.Delete(ctx, "u1", id))
	list, err = svc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 0)
}
