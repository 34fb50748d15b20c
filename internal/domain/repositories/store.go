package repositories

import (
	"context"

	"github.com/vindepemarte/Kiro-App-1-sub000/internal/domain/entities"
)

// Backend identifies which storage engine a Store instance is backed by.
type Backend string

const (
	BackendDocument   Backend = "document"
	BackendRelational Backend = "relational"
	BackendMemory     Backend = "memory"
)

// Unsubscribe detaches a subscription. Implementations must make it
// idempotent: calling it twice, or before the listener finished attaching,
// must not panic or double-fire.
type Unsubscribe func()

// Store is the single persistence contract every backend implements. Upper
// layers never branch on backend type; the facade wrapper adds validation,
// retry, error normalization and caching around any Store.
//
// Subscriptions never return an error: on setup failure the callback is
// invoked once with a nil value and a no-op Unsubscribe is returned. Push
// backends may coalesce bursts; the polling backend re-delivers identical
// result sets and callers must tolerate that.
type Store interface {
	// Meetings. SaveMeeting writes the primary copy under the owner and,
	// when TeamID is set, a denormalized team copy best-effort: a team-copy
	// failure never rolls back the primary save.
	SaveMeeting(ctx context.Context, m *entities.Meeting) (string, error)
	GetUserMeetings(ctx context.Context, userID string) ([]*entities.Meeting, error)
	GetMeetingByID(ctx context.Context, ownerID, meetingID string) (*entities.Meeting, error)
	UpdateMeeting(ctx context.Context, m *entities.Meeting) error
	DeleteMeeting(ctx context.Context, ownerID, meetingID string) error
	GetTeamMeetings(ctx context.Context, teamID string) ([]*entities.Meeting, error)
	// ClearMeetingTeam converts a team meeting back into a personal one,
	// removing any denormalized team copy.
	ClearMeetingTeam(ctx context.Context, ownerID, meetingID string) error

	// Teams. Member arrays are stored embedded; mutations re-read the team
	// before writing and remain subject to last-write-wins races.
	CreateTeam(ctx context.Context, t *entities.Team) (string, error)
	GetTeamByID(ctx context.Context, teamID string) (*entities.Team, error)
	GetUserTeams(ctx context.Context, userID string) ([]*entities.Team, error)
	UpdateTeam(ctx context.Context, t *entities.Team) error
	DeleteTeam(ctx context.Context, teamID string) error
	AddTeamMember(ctx context.Context, teamID string, m entities.TeamMember) error
	UpdateTeamMember(ctx context.Context, teamID string, m entities.TeamMember) error
	RemoveTeamMember(ctx context.Context, teamID, userID string) error

	// Profiles. SearchUserByEmail is a case-insensitive exact match and
	// returns (nil, nil) when absent; callers must not create placeholders.
	SaveUserProfile(ctx context.Context, p *entities.UserProfile) error
	GetUserProfile(ctx context.Context, userID string) (*entities.UserProfile, error)
	SearchUserByEmail(ctx context.Context, email string) (*entities.UserProfile, error)

	// Tasks (derived index). SaveTask is an idempotent upsert.
	SaveTask(ctx context.Context, t *entities.Task) error
	GetUserTasks(ctx context.Context, userID string) ([]*entities.Task, error)
	GetAssignedTasks(ctx context.Context) ([]*entities.Task, error)
	DeleteTasksForMeeting(ctx context.Context, meetingID string) error

	// Notifications.
	CreateNotification(ctx context.Context, n *entities.Notification) (string, error)
	GetUserNotifications(ctx context.Context, userID string) ([]*entities.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) error
	DeleteNotification(ctx context.Context, id string) error
	// DeleteTeamNotifications removes every notification whose payload
	// references teamID.
	DeleteTeamNotifications(ctx context.Context, teamID string) error

	// Subscriptions.
	SubscribeUserMeetings(ctx context.Context, userID string, fn func([]*entities.Meeting)) Unsubscribe
	SubscribeTeamMeetings(ctx context.Context, teamID string, fn func([]*entities.Meeting)) Unsubscribe
	SubscribeUserNotifications(ctx context.Context, userID string, fn func([]*entities.Notification)) Unsubscribe
	SubscribeUserTeams(ctx context.Context, userID string, fn func([]*entities.Team)) Unsubscribe

	// Lifecycle.
	Backend() Backend
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
