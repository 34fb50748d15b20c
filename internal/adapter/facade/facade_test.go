package facade

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/vindepemarte/Kiro-App-1-sub000/errors"
	"github.com/vindepemarte/Kiro-App-1-sub000/internal/adapter/memstore"
	"github.com/vindepemarte/Kiro-App-1-sub000/internal/domain/entities"
	"github.com/vindepemarte/Kiro-App-1-sub000/internal/domain/repositories"
	"github.com/vindepemarte/Kiro-App-1-sub000/pkg/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Cache: config.CacheConfig{
			MeetingTTL:      time.Minute,
			TeamTTL:         time.Minute,
			ProfileTTL:      time.Minute,
			NotificationTTL: time.Minute,
			MaxEntries:      100,
		},
	}
}

// countingStore wraps a Store and counts reads so tests can tell cache
// hits from backend hits.
type countingStore struct {
	repositories.Store
	getMeetingCalls int
	getTeamCalls    int
}

func (c *countingStore) GetMeetingByID(ctx context.Context, ownerID, meetingID string) (*entities.Meeting, error) {
	c.getMeetingCalls++
	return c.Store.GetMeetingByID(ctx, ownerID, meetingID)
}

func (c *countingStore) GetTeamByID(ctx context.Context, teamID string) (*entities.Team, error) {
	c.getTeamCalls++
	return c.Store.GetTeamByID(ctx, teamID)
}

// flakyStore fails reads a configured number of times before delegating.
type flakyStore struct {
	repositories.Store
	failures int
	calls    int
	err      error
}

func (f *flakyStore) GetMeetingByID(ctx context.Context, ownerID, meetingID string) (*entities.Meeting, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, f.err
	}
	return f.Store.GetMeetingByID(ctx, ownerID, meetingID)
}

func seedMeeting(t *testing.T, store repositories.Store, ownerID string) *entities.Meeting {
	t.Helper()
	m := entities.NewMeeting(ownerID, "Weekly sync")
	m.Summary = "decisions and action items"
	_, err := store.SaveMeeting(context.Background(), m)
	require.NoError(t, err)
	return m
}

func TestFacade_CachesMeetingReads(t *testing.T) {
	inner := &countingStore{Store: memstore.New()}
	f := New(inner, testConfig(), nil)
	ctx := context.Background()

	m := seedMeeting(t, inner, "u1")

	first, err := f.GetMeetingByID(ctx, "u1", m.ID)
	require.NoError(t, err)
	second, err := f.GetMeetingByID(ctx, "u1", m.ID)
	require.NoError(t, err)

	require.Equal(t, first.ID, second.ID)
	require.Equal(t, 1, inner.getMeetingCalls, "second read must come from cache")
}

func TestFacade_WriteInvalidatesCache(t *testing.T) {
	inner := &countingStore{Store: memstore.New()}
	f := New(inner, testConfig(), nil)
	ctx := context.Background()

	m := seedMeeting(t, inner, "u1")

	_, err := f.GetMeetingByID(ctx, "u1", m.ID)
	require.NoError(t, err)

	m.Title = "Renamed"
	require.NoError(t, f.UpdateMeeting(ctx, m))

	got, err := f.GetMeetingByID(ctx, "u1", m.ID)
	require.NoError(t, err)
	require.Equal(t, "Renamed", got.Title)
	require.Equal(t, 2, inner.getMeetingCalls, "read after write must reach the backend")
}

func TestFacade_RetriesTransientFailures(t *testing.T) {
	base := memstore.New()
	m := seedMeeting(t, base, "u1")

	flaky := &flakyStore{Store: base, failures: 2, err: apperrors.ErrNetwork(context.DeadlineExceeded)}
	f := New(flaky, testConfig(), nil)

	got, err := f.GetMeetingByID(context.Background(), "u1", m.ID)
	require.NoError(t, err)
	require.Equal(t, m.ID, got.ID)
	require.Equal(t, 3, flaky.calls, "two transient failures then success")
}

func TestFacade_DoesNotRetryNotFound(t *testing.T) {
	base := memstore.New()
	flaky := &flakyStore{Store: base, failures: 100, err: apperrors.ErrNotFound("meeting")}
	f := New(flaky, testConfig(), nil)

	_, err := f.GetMeetingByID(context.Background(), "u1", "missing")
	require.Error(t, err)
	require.Equal(t, apperrors.ErrorCode_NOT_FOUND, apperrors.CodeOf(err))
	require.Equal(t, 1, flaky.calls, "non-retryable failures must not be retried")
}

func TestFacade_RejectsInvalidMeetingBeforeBackend(t *testing.T) {
	inner := &countingStore{Store: memstore.New()}
	f := New(inner, testConfig(), nil)

	m := entities.NewMeeting("u1", "Empty")
	// no summary, transcript or ref
	_, err := f.SaveMeeting(context.Background(), m)
	require.Error(t, err)
	require.Equal(t, apperrors.ErrorCode_VALIDATION, apperrors.CodeOf(err))

	_, err = f.SaveMeeting(context.Background(), nil)
	require.Equal(t, apperrors.ErrorCode_VALIDATION, apperrors.CodeOf(err))
}

func TestFacade_RejectsDuplicateActionItemIDs(t *testing.T) {
	f := New(memstore.New(), testConfig(), nil)

	m := entities.NewMeeting("u1", "Dup check")
	m.Summary = "has items"
	item := entities.NewActionItem("follow up")
	m.ActionItems = []entities.ActionItem{item, item}

	_, err := f.SaveMeeting(context.Background(), m)
	require.Error(t, err)
	require.Equal(t, apperrors.ErrorCode_VALIDATION, apperrors.CodeOf(err))
}

func TestFacade_TeamNameValidation(t *testing.T) {
	f := New(memstore.New(), testConfig(), nil)
	ctx := context.Background()

	team := entities.NewTeam("", "desc", "u1", "u1@example.com", "User One")
	_, err := f.CreateTeam(ctx, team)
	require.Error(t, err)
	require.Equal(t, apperrors.ErrorCode_VALIDATION, apperrors.CodeOf(err))

	team = entities.NewTeam("Platform", "desc", "u1", "u1@example.com", "User One")
	id, err := f.CreateTeam(ctx, team)
	require.NoError(t, err)
	require.NotEmpty(t, id)
}

func TestFacade_EmailSearchMissNotCached(t *testing.T) {
	inner := memstore.New()
	f := New(inner, testConfig(), nil)
	ctx := context.Background()

	got, err := f.SearchUserByEmail(ctx, "ghost@example.com")
	require.NoError(t, err)
	require.Nil(t, got)

	profile := entities.NewUserProfile("u9", "Ghost@Example.com", "Ghost")
	require.NoError(t, f.SaveUserProfile(ctx, profile))

	// The earlier miss must not shadow the freshly created profile.
	got, err = f.SearchUserByEmail(ctx, "ghost@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "u9", got.UserID)
}

func TestFacade_TeamViewInvalidatedOnMeetingWrite(t *testing.T) {
	inner := memstore.New()
	f := New(inner, testConfig(), nil)
	ctx := context.Background()

	m := entities.NewMeeting("u1", "Team standup")
	m.Summary = "notes"
	m.TeamID = "t1"
	_, err := f.SaveMeeting(ctx, m)
	require.NoError(t, err)

	before, err := f.GetTeamMeetings(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, before, 1)

	require.NoError(t, f.ClearMeetingTeam(ctx, "u1", m.ID))

	after, err := f.GetTeamMeetings(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, after, 0, "detach must invalidate the team view")
}
