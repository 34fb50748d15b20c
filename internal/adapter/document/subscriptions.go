package document

import (
	"context"
	"reflect"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/vindepemarte/Kiro-App-1-sub000/internal/domain/entities"
	"github.com/vindepemarte/Kiro-App-1-sub000/internal/domain/repositories"
)

// SubscribeUserMeetings pushes the user's meeting list on every change.
func (s *Store) SubscribeUserMeetings(ctx context.Context, userID string, fn func([]*entities.Meeting)) repositories.Unsubscribe {
	return subscribe(ctx, s, s.meetings(), func(ctx context.Context) ([]*entities.Meeting, error) {
		return s.GetUserMeetings(ctx, userID)
	}, fn)
}

// SubscribeTeamMeetings pushes the team's meeting list on every change.
func (s *Store) SubscribeTeamMeetings(ctx context.Context, teamID string, fn func([]*entities.Meeting)) repositories.Unsubscribe {
	return subscribe(ctx, s, s.teamMeetings(), func(ctx context.Context) ([]*entities.Meeting, error) {
		return s.GetTeamMeetings(ctx, teamID)
	}, fn)
}

// SubscribeUserNotifications pushes the user's notifications on every change.
func (s *Store) SubscribeUserNotifications(ctx context.Context, userID string, fn func([]*entities.Notification)) repositories.Unsubscribe {
	return subscribe(ctx, s, s.notifications(), func(ctx context.Context) ([]*entities.Notification, error) {
		return s.GetUserNotifications(ctx, userID)
	}, fn)
}

// SubscribeUserTeams pushes the user's team list on every change.
func (s *Store) SubscribeUserTeams(ctx context.Context, userID string, fn func([]*entities.Team)) repositories.Unsubscribe {
	return subscribe(ctx, s, s.teams(), func(ctx context.Context) ([]*entities.Team, error) {
		return s.GetUserTeams(ctx, userID)
	}, fn)
}

// subscribe delivers the current result set immediately, then re-fetches
// whenever the collection's change stream reports activity. Change bursts
// are coalesced by the store's debounce window, and a fetch whose result is
// deep-equal to the last delivered one is suppressed. When the change stream
// cannot be established (standalone server, permissions) the subscription
// degrades to interval polling with the same suppression rule.
//
// The returned Unsubscribe is idempotent and safe to call concurrently.
func subscribe[T any](parent context.Context, s *Store, coll *mongo.Collection, fetch func(context.Context) ([]T, error), fn func([]T)) repositories.Unsubscribe {
	ctx, cancel := context.WithCancel(parent)
	sub := &subscription[T]{
		store: s,
		coll:  coll,
		fetch: fetch,
		fn:    fn,
	}
	go sub.run(ctx)

	var once sync.Once
	return func() {
		once.Do(cancel)
	}
}

type subscription[T any] struct {
	store *Store
	coll  *mongo.Collection
	fetch func(context.Context) ([]T, error)
	fn    func([]T)

	last      []T
	delivered bool
}

func (sub *subscription[T]) run(ctx context.Context) {
	sub.deliver(ctx)

	stream, err := sub.coll.Watch(ctx, mongo.Pipeline{})
	if err != nil {
		sub.store.logger.Warn("change stream unavailable, falling back to polling",
			zap.String("collection", sub.coll.Name()),
			zap.Error(err),
		)
		sub.poll(ctx)
		return
	}
	defer stream.Close(context.Background())

	events := make(chan struct{}, 1)
	go func() {
		defer close(events)
		for stream.Next(ctx) {
			select {
			case events <- struct{}{}:
			default:
			}
		}
	}()

	sub.debounceLoop(ctx, events)
}

// debounceLoop waits for change events and re-fetches once the burst has
// settled for the debounce window.
func (sub *subscription[T]) debounceLoop(ctx context.Context, events <-chan struct{}) {
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case _, ok := <-events:
			if !ok {
				// Stream closed underneath us. Keep the subscription
				// alive on the polling path.
				if timer != nil {
					timer.Stop()
				}
				if ctx.Err() == nil {
					sub.poll(ctx)
				}
				return
			}
			if timer == nil {
				timer = time.NewTimer(sub.store.debounce)
				fire = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(sub.store.debounce)
			}
		case <-fire:
			timer = nil
			fire = nil
			sub.deliver(ctx)
		}
	}
}

func (sub *subscription[T]) poll(ctx context.Context) {
	ticker := time.NewTicker(sub.store.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sub.deliver(ctx)
		}
	}
}

// deliver fetches the current result set and invokes the callback unless the
// set is unchanged since the previous delivery.
func (sub *subscription[T]) deliver(ctx context.Context) {
	result, err := sub.fetch(ctx)
	if err != nil {
		if ctx.Err() == nil {
			sub.store.logger.Warn("subscription fetch failed",
				zap.String("collection", sub.coll.Name()),
				zap.Error(err),
			)
			// Subscribers still hear about the degraded start: one nil
			// delivery, then silence until a fetch succeeds.
			if !sub.delivered {
				sub.delivered = true
				sub.fn(nil)
			}
		}
		return
	}
	if sub.delivered && reflect.DeepEqual(result, sub.last) {
		return
	}
	sub.last = result
	sub.delivered = true
	sub.fn(result)
}
