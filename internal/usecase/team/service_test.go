package team

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vindepemarte/Kiro-App-1-sub000/internal/adapter/facade"
	"github.com/vindepemarte/Kiro-App-1-sub000/internal/adapter/memstore"
	"github.com/vindepemarte/Kiro-App-1-sub000/internal/domain/entities"
	"github.com/vindepemarte/Kiro-App-1-sub000/internal/infrastructure/cache"
	usecaseErrors "github.com/vindepemarte/Kiro-App-1-sub000/internal/usecase/errors"
	"github.com/vindepemarte/Kiro-App-1-sub000/internal/usecase/notification"
	"github.com/vindepemarte/Kiro-App-1-sub000/pkg/config"
)

func newService(t *testing.T) (*TeamService, *memstore.Store) {
	t.Helper()
	store := memstore.New()
	notifier := notification.NewService(store, cache.NewMemoryStore(), config.NotifyConfig{LedgerTTL: time.Minute}, nil)
	return NewService(store, notifier, nil), store
}

func registerUser(t *testing.T, store *memstore.Store, userID, email, name string) {
	t.Helper()
	require.NoError(t, store.SaveUserProfile(context.Background(), entities.NewUserProfile(userID, email, name)))
}

func createTeam(t *testing.T, svc *TeamService) *entities.Team {
	t.Helper()
	team, err := svc.CreateTeam(context.Background(), CreateTeamInput{
		Name:         "Platform",
		Description:  "platform work",
		CreatorID:    "creator",
		CreatorEmail: "creator@example.com",
		CreatorName:  "Creator",
	})
	require.NoError(t, err)
	return team
}

func TestCreateTeam_CreatorIsActiveAdmin(t *testing.T) {
	svc, _ := newService(t)
	team := createTeam(t, svc)

	member, ok := team.Member("creator")
	require.True(t, ok)
	require.Equal(t, entities.TeamRoleAdmin, member.Role)
	require.Equal(t, entities.MemberStatusActive, member.Status)
}

func TestInviteMember_HappyPath(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	team := createTeam(t, svc)
	registerUser(t, store, "alice", "alice@example.com", "Alice")

	require.NoError(t, svc.InviteMember(ctx, team.ID, "creator", "alice@example.com"))

	stored, err := store.GetTeamByID(ctx, team.ID)
	require.NoError(t, err)
	member, ok := stored.Member("alice")
	require.True(t, ok)
	require.Equal(t, entities.MemberStatusInvited, member.Status)
	require.Equal(t, entities.TeamRoleMember, member.Role)

	// The invitee got exactly one invitation notification.
	list, err := store.GetUserNotifications(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, entities.NotificationTeamInvitation, list[0].Type)
	require.Equal(t, team.ID, list[0].TeamID())
}

func TestInviteMember_UnregisteredEmail(t *testing.T) {
	svc, _ := newService(t)
	team := createTeam(t, svc)

	err := svc.InviteMember(context.Background(), team.ID, "creator", "ghost@example.com")
	require.ErrorIs(t, err, usecaseErrors.ErrUserNotFound)
}

func TestInviteMember_DuplicateStates(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	team := createTeam(t, svc)
	registerUser(t, store, "alice", "alice@example.com", "Alice")

	require.NoError(t, svc.InviteMember(ctx, team.ID, "creator", "alice@example.com"))

	err := svc.InviteMember(ctx, team.ID, "creator", "alice@example.com")
	require.ErrorIs(t, err, usecaseErrors.ErrAlreadyInvited)

	require.NoError(t, svc.AcceptInvitation(ctx, team.ID, "alice"))

	err = svc.InviteMember(ctx, team.ID, "creator", "alice@example.com")
	require.ErrorIs(t, err, usecaseErrors.ErrAlreadyMember)
}

func TestInviteMember_RequiresAdmin(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	team := createTeam(t, svc)
	registerUser(t, store, "alice", "alice@example.com", "Alice")
	registerUser(t, store, "bob", "bob@example.com", "Bob")

	require.NoError(t, svc.InviteMember(ctx, team.ID, "creator", "alice@example.com"))
	require.NoError(t, svc.AcceptInvitation(ctx, team.ID, "alice"))

	// alice is a plain member, not an admin
	err := svc.InviteMember(ctx, team.ID, "alice", "bob@example.com")
	require.ErrorIs(t, err, usecaseErrors.ErrNotTeamAdmin)
}

func TestAcceptInvitation_ActivatesAndClearsNotification(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	team := createTeam(t, svc)
	registerUser(t, store, "alice", "alice@example.com", "Alice")

	require.NoError(t, svc.InviteMember(ctx, team.ID, "creator", "alice@example.com"))
	require.NoError(t, svc.AcceptInvitation(ctx, team.ID, "alice"))

	stored, err := store.GetTeamByID(ctx, team.ID)
	require.NoError(t, err)
	member, ok := stored.Member("alice")
	require.True(t, ok)
	require.Equal(t, entities.MemberStatusActive, member.Status)

	list, err := store.GetUserNotifications(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list, 0, "accepting must remove the invitation notification")

	// A second accept finds no pending invitation.
	err = svc.AcceptInvitation(ctx, team.ID, "alice")
	require.ErrorIs(t, err, usecaseErrors.ErrInvitationNotFound)
}

func TestAcceptInvitation_LegacyEmailRow(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	team := createTeam(t, svc)
	registerUser(t, store, "alice", "alice@example.com", "Alice")

	// An invitation row stored under a placeholder id with the real email.
	require.NoError(t, store.AddTeamMember(ctx, team.ID, entities.TeamMember{
		UserID: "placeholder-123",
		Email:  "alice@example.com",
		Role:   entities.TeamRoleMember,
		Status: entities.MemberStatusInvited,
	}))

	require.NoError(t, svc.AcceptInvitation(ctx, team.ID, "alice"))

	stored, err := store.GetTeamByID(ctx, team.ID)
	require.NoError(t, err)
	_, placeholderLeft := stored.Member("placeholder-123")
	require.False(t, placeholderLeft, "placeholder row must be reconciled away")
	member, ok := stored.Member("alice")
	require.True(t, ok)
	require.Equal(t, entities.MemberStatusActive, member.Status)
}

func TestDeclineInvitation_RemovesRow(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	team := createTeam(t, svc)
	registerUser(t, store, "alice", "alice@example.com", "Alice")

	require.NoError(t, svc.InviteMember(ctx, team.ID, "creator", "alice@example.com"))
	require.NoError(t, svc.DeclineInvitation(ctx, team.ID, "alice"))

	stored, err := store.GetTeamByID(ctx, team.ID)
	require.NoError(t, err)
	_, ok := stored.Member("alice")
	require.False(t, ok)

	list, err := store.GetUserNotifications(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list, 0)
}

func TestDeclineInvitation_DeletedTeamIsSuccess(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	team := createTeam(t, svc)
	registerUser(t, store, "alice", "alice@example.com", "Alice")

	require.NoError(t, svc.InviteMember(ctx, team.ID, "creator", "alice@example.com"))
	require.NoError(t, store.DeleteTeam(ctx, team.ID))

	require.NoError(t, svc.DeclineInvitation(ctx, team.ID, "alice"),
		"declining an invitation to a deleted team is not an error")
}

func TestDeclineInvitation_DeletedTeamThroughWrappedStore(t *testing.T) {
	cfg := &config.Config{Cache: config.CacheConfig{
		MeetingTTL:      time.Minute,
		TeamTTL:         time.Minute,
		ProfileTTL:      time.Minute,
		NotificationTTL: time.Minute,
		MaxEntries:      100,
	}}
	store := facade.New(memstore.New(), cfg, nil)
	notifier := notification.NewService(store, cache.NewMemoryStore(), config.NotifyConfig{LedgerTTL: time.Minute}, nil)
	svc := NewService(store, notifier, nil)
	ctx := context.Background()

	require.NoError(t, store.SaveUserProfile(ctx, entities.NewUserProfile("alice", "alice@example.com", "Alice")))
	team, err := svc.CreateTeam(ctx, CreateTeamInput{
		Name:         "Platform",
		CreatorID:    "creator",
		CreatorEmail: "creator@example.com",
		CreatorName:  "Creator",
	})
	require.NoError(t, err)
	require.NoError(t, svc.InviteMember(ctx, team.ID, "creator", "alice@example.com"))
	require.NoError(t, store.DeleteTeam(ctx, team.ID))

	require.NoError(t, svc.DeclineInvitation(ctx, team.ID, "alice"),
		"deleted-team tolerance must survive error normalization")
}

func TestDeleteTeam_CreatorOnlyAndCleansUp(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	team := createTeam(t, svc)
	registerUser(t, store, "alice", "alice@example.com", "Alice")

	require.NoError(t, svc.InviteMember(ctx, team.ID, "creator", "alice@example.com"))

	m := entities.NewMeeting("creator", "Weekly")
	m.Summary = "notes"
	m.TeamID = team.ID
	_, err := store.SaveMeeting(ctx, m)
	require.NoError(t, err)

	require.ErrorIs(t, svc.DeleteTeam(ctx, team.ID, "alice"), usecaseErrors.ErrNotTeamCreator)

	require.NoError(t, svc.DeleteTeam(ctx, team.ID, "creator"))

	_, err = store.GetTeamByID(ctx, team.ID)
	require.ErrorIs(t, err, usecaseErrors.ErrTeamNotFound)

	// The meeting survives but is detached from the team.
	got, err := store.GetMeetingByID(ctx, "creator", m.ID)
	require.NoError(t, err)
	require.Empty(t, got.TeamID)

	// Team-scoped notifications are gone.
	list, err := store.GetUserNotifications(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list, 0)
}

func TestRemoveMember_NeverTheCreator(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	team := createTeam(t, svc)
	registerUser(t, store, "alice", "alice@example.com", "Alice")

	require.NoError(t, svc.InviteMember(ctx, team.ID, "creator", "alice@example.com"))
	require.NoError(t, svc.AcceptInvitation(ctx, team.ID, "alice"))

	require.Error(t, svc.RemoveMember(ctx, team.ID, "creator", "creator"))

	require.NoError(t, svc.RemoveMember(ctx, team.ID, "creator", "alice"))
	stored, err := store.GetTeamByID(ctx, team.ID)
	require.NoError(t, err)
	_, ok := stored.Member("alice")
	require.False(t, ok)
}

func TestUpdateMemberRole(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	team := createTeam(t, svc)
	registerUser(t, store, "alice", "alice@example.com", "Alice")

	require.NoError(t, svc.InviteMember(ctx, team.ID, "creator", "alice@example.com"))
	require.NoError(t, svc.AcceptInvitation(ctx, team.ID, "alice"))

	require.NoError(t, svc.UpdateMemberRole(ctx, team.ID, "creator", "alice", entities.TeamRoleAdmin))

	stored, err := store.GetTeamByID(ctx, team.ID)
	require.NoError(t, err)
	require.True(t, stored.IsAdmin("alice"))

	// The creator's role is fixed.
	require.Error(t, svc.UpdateMemberRole(ctx, team.ID, "alice", "creator", entities.TeamRoleMember))
}

func TestGetTeam_MembersOnly(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	team := createTeam(t, svc)

	_, err := svc.GetTeam(ctx, team.ID, "stranger")
	require.ErrorIs(t, err, usecaseErrors.ErrForbidden)

	got, err := svc.GetTeam(ctx, team.ID, "creator")
	require.NoError(t, err)
	require.Equal(t, team.ID, got.ID)
}

// opRecorder traces the destructive operations DeleteTeam issues.
type opRecorder struct {
	*memstore.Store
	mu  sync.Mutex
	ops []string
}

func (r *opRecorder) mark(op string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, op)
}

func (r *opRecorder) DeleteTeam(ctx context.Context, teamID string) error {
	r.mark("DeleteTeam")
	return r.Store.DeleteTeam(ctx, teamID)
}

func (r *opRecorder) DeleteTeamNotifications(ctx context.Context, teamID string) error {
	r.mark("DeleteTeamNotifications")
	return r.Store.DeleteTeamNotifications(ctx, teamID)
}

func (r *opRecorder) ClearMeetingTeam(ctx context.Context, ownerID, meetingID string) error {
	r.mark("ClearMeetingTeam")
	return r.Store.ClearMeetingTeam(ctx, ownerID, meetingID)
}

func TestDeleteTeam_CleanupRunsBeforeRemoval(t *testing.T) {
	rec := &opRecorder{Store: memstore.New()}
	notifier := notification.NewService(rec, cache.NewMemoryStore(), config.NotifyConfig{LedgerTTL: time.Minute}, nil)
	svc := NewService(rec, notifier, nil)
	ctx := context.Background()

	team, err := svc.CreateTeam(ctx, CreateTeamInput{
		Name:         "Platform",
		CreatorID:    "creator",
		CreatorEmail: "creator@example.com",
		CreatorName:  "Creator",
	})
	require.NoError(t, err)

	m := entities.NewMeeting("creator", "Standup")
	m.Summary = "notes"
	m.TeamID = team.ID
	_, err = rec.SaveMeeting(ctx, m)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTeam(ctx, team.ID, "creator"))
	require.Equal(t, []string{"DeleteTeamNotifications", "ClearMeetingTeam", "DeleteTeam"}, rec.ops,
		"derived cleanup precedes the team record removal")
}
