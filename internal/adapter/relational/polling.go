package relational

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/vindepemarte/Kiro-App-1-sub000/internal/domain/entities"
	"github.com/vindepemarte/Kiro-App-1-sub000/internal/domain/repositories"
)

// SubscribeUserMeetings polls the user's meeting list on a fixed interval.
func (s *Store) SubscribeUserMeetings(ctx context.Context, userID string, fn func([]*entities.Meeting)) repositories.Unsubscribe {
	return pollSubscribe(ctx, s, func(ctx context.Context) ([]*entities.Meeting, error) {
		return s.GetUserMeetings(ctx, userID)
	}, fn)
}

// SubscribeTeamMeetings polls the team's meeting list on a fixed interval.
func (s *Store) SubscribeTeamMeetings(ctx context.Context, teamID string, fn func([]*entities.Meeting)) repositories.Unsubscribe {
	return pollSubscribe(ctx, s, func(ctx context.Context) ([]*entities.Meeting, error) {
		return s.GetTeamMeetings(ctx, teamID)
	}, fn)
}

// SubscribeUserNotifications polls the user's notifications on a fixed interval.
func (s *Store) SubscribeUserNotifications(ctx context.Context, userID string, fn func([]*entities.Notification)) repositories.Unsubscribe {
	return pollSubscribe(ctx, s, func(ctx context.Context) ([]*entities.Notification, error) {
		return s.GetUserNotifications(ctx, userID)
	}, fn)
}

// SubscribeUserTeams polls the user's team list on a fixed interval.
func (s *Store) SubscribeUserTeams(ctx context.Context, userID string, fn func([]*entities.Team)) repositories.Unsubscribe {
	return pollSubscribe(ctx, s, func(ctx context.Context) ([]*entities.Team, error) {
		return s.GetUserTeams(ctx, userID)
	}, fn)
}

// pollSubscribe delivers the current result set immediately and then on
// every tick. Unlike the document backend there is no change detection: the
// callback receives the full result set each interval and consumers render
// idempotently. The returned Unsubscribe is idempotent.
func pollSubscribe[T any](parent context.Context, s *Store, fetch func(context.Context) ([]T, error), fn func([]T)) repositories.Unsubscribe {
	ctx, cancel := context.WithCancel(parent)

	var delivered bool
	deliver := func() {
		result, err := fetch(ctx)
		if err != nil {
			if ctx.Err() == nil {
				s.logger.Warn("subscription poll failed", zap.Error(err))
				// One nil delivery so subscribers observe the degraded
				// start instead of waiting forever.
				if !delivered {
					delivered = true
					fn(nil)
				}
			}
			return
		}
		delivered = true
		fn(result)
	}

	go func() {
		deliver()
		ticker := time.NewTicker(s.pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				deliver()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(cancel)
	}
}
