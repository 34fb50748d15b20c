// Package facade wraps any repositories.Store with the behavior every
// caller relies on: input validation before the backend is touched, bounded
// retries on transient failures, read caching with write invalidation, and
// error normalization into the shared taxonomy.
package facade

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	apperrors "github.com/vindepemarte/Kiro-App-1-sub000/errors"
	"github.com/vindepemarte/Kiro-App-1-sub000/internal/domain/entities"
	"github.com/vindepemarte/Kiro-App-1-sub000/internal/domain/repositories"
	"github.com/vindepemarte/Kiro-App-1-sub000/internal/infrastructure/cache"
	"github.com/vindepemarte/Kiro-App-1-sub000/pkg/config"
	"github.com/vindepemarte/Kiro-App-1-sub000/pkg/validator"
)

const (
	retryBudget       = 10 * time.Second
	deleteRetryBudget = 3 * time.Second
)

// Facade decorates a Store. It implements repositories.Store itself so
// services never know which backend sits underneath.
type Facade struct {
	store    repositories.Store
	logger   *zap.Logger
	validate *validator.CustomValidator

	meetingCache      *cache.Cache[*entities.Meeting]
	meetingListCache  *cache.Cache[[]*entities.Meeting]
	teamCache         *cache.Cache[*entities.Team]
	teamListCache     *cache.Cache[[]*entities.Team]
	taskListCache     *cache.Cache[[]*entities.Task]
	profileCache      *cache.Cache[*entities.UserProfile]
	notificationCache *cache.Cache[[]*entities.Notification]
}

// New wraps store with validation, retry and caching per cfg.Cache.
func New(store repositories.Store, cfg *config.Config, logger *zap.Logger) *Facade {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := cfg.Cache
	return &Facade{
		store:    store,
		logger:   logger,
		validate: validator.New(),

		meetingCache:      cache.New[*entities.Meeting](c.MeetingTTL, c.MaxEntries),
		meetingListCache:  cache.New[[]*entities.Meeting](c.MeetingTTL, c.MaxEntries),
		teamCache:         cache.New[*entities.Team](c.TeamTTL, c.MaxEntries),
		teamListCache:     cache.New[[]*entities.Team](c.TeamTTL, c.MaxEntries),
		taskListCache:     cache.New[[]*entities.Task](c.MeetingTTL, c.MaxEntries),
		profileCache:      cache.New[*entities.UserProfile](c.ProfileTTL, c.MaxEntries),
		notificationCache: cache.New[[]*entities.Notification](c.NotificationTTL, c.MaxEntries),
	}
}

// withRetry runs fn under an exponential backoff capped by budget. Only
// transient failures are retried; classification happens through normalize
// so each backend's raw errors count correctly.
func (f *Facade) withRetry(ctx context.Context, op string, budget time.Duration, fn func() error) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 100 * time.Millisecond
	bo.MaxInterval = 2 * time.Second
	bo.MaxElapsedTime = budget

	attempt := 0
	return backoff.Retry(func() error {
		attempt++
		err := normalize(fn())
		if err == nil {
			return nil
		}
		if !apperrors.IsRetryable(err) {
			return backoff.Permanent(err)
		}
		f.logger.Warn("retrying store operation",
			zap.String("op", op),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		return err
	}, backoff.WithContext(bo, ctx))
}

// Backend reports the wrapped store's engine.
func (f *Facade) Backend() repositories.Backend { return f.store.Backend() }

// Ping checks the wrapped store.
func (f *Facade) Ping(ctx context.Context) error {
	return normalize(f.store.Ping(ctx))
}

// Close flushes caches and closes the wrapped store.
func (f *Facade) Close(ctx context.Context) error {
	f.flushAll()
	return normalize(f.store.Close(ctx))
}

func (f *Facade) flushAll() {
	f.meetingCache.Flush()
	f.meetingListCache.Flush()
	f.teamCache.Flush()
	f.teamListCache.Flush()
	f.taskListCache.Flush()
	f.profileCache.Flush()
	f.notificationCache.Flush()
}

// Subscriptions bypass caching and retry entirely: they carry their own
// reconnect semantics inside each backend.

func (f *Facade) SubscribeUserMeetings(ctx context.Context, userID string, fn func([]*entities.Meeting)) repositories.Unsubscribe {
	return f.store.SubscribeUserMeetings(ctx, userID, fn)
}

func (f *Facade) SubscribeTeamMeetings(ctx context.Context, teamID string, fn func([]*entities.Meeting)) repositories.Unsubscribe {
	return f.store.SubscribeTeamMeetings(ctx, teamID, fn)
}

func (f *Facade) SubscribeUserNotifications(ctx context.Context, userID string, fn func([]*entities.Notification)) repositories.Unsubscribe {
	return f.store.SubscribeUserNotifications(ctx, userID, fn)
}

func (f *Facade) SubscribeUserTeams(ctx context.Context, userID string, fn func([]*entities.Team)) repositories.Unsubscribe {
	return f.store.SubscribeUserTeams(ctx, userID, fn)
}
