package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vindepemarte/Kiro-App-1-sub000/internal/adapter/memstore"
)

func TestEnsureProfile_CreatesOnceThenReturnsStored(t *testing.T) {
	svc := NewService(memstore.New(), nil)
	ctx := context.Background()

	created, err := svc.EnsureProfile(ctx, "u1", "u1@example.com", "User One")
	require.NoError(t, err)
	require.Equal(t, "User One", created.DisplayName)
	require.Equal(t, "system", created.Theme)

	// A second call with different inputs returns the stored profile.
	again, err := svc.EnsureProfile(ctx, "u1", "other@example.com", "Other")
	require.NoError(t, err)
	require.Equal(t, "u1@example.com", again.Email)
	require.Equal(t, "User One", again.DisplayName)
}

func TestEnsureProfile_RequiresIdentity(t *testing.T) {
	svc := NewService(memstore.New(), nil)

	_, err := svc.EnsureProfile(context.Background(), "", "u1@example.com", "")
	require.Error(t, err)
	_, err = svc.EnsureProfile(context.Background(), "u1", "", "")
	require.Error(t, err)
}

func TestUpdateProfile_PartialUpdate(t *testing.T) {
	svc := NewService(memstore.New(), nil)
	ctx := context.Background()

	_, err := svc.EnsureProfile(ctx, "u1", "u1@example.com", "User One")
	require.NoError(t, err)

	name := "Renamed"
	updated, err := svc.UpdateProfile(ctx, "u1", UpdateProfileInput{DisplayName: &name})
	require.NoError(t, err)
	require.Equal(t, "Renamed", updated.DisplayName)
	require.Equal(t, "system", updated.Theme, "omitted fields stay unchanged")
}

func TestUpdatePreferences_Merges(t *testing.T) {
	svc := NewService(memstore.New(), nil)
	ctx := context.Background()

	_, err := svc.EnsureProfile(ctx, "u1", "u1@example.com", "")
	require.NoError(t, err)

	_, err = svc.UpdatePreferences(ctx, "u1", map[string]bool{"task_overdue": false})
	require.NoError(t, err)

	updated, err := svc.UpdatePreferences(ctx, "u1", map[string]bool{"meeting_update": false})
	require.NoError(t, err)
	require.False(t, updated.Preferences["task_overdue"], "earlier flags survive the merge")
	require.False(t, updated.Preferences["meeting_update"])
}

func TestFindByEmail(t *testing.T) {
	svc := NewService(memstore.New(), nil)
	ctx := context.Background()

	_, err := svc.EnsureProfile(ctx, "u1", "User@Example.com", "")
	require.NoError(t, err)

	got, err := svc.FindByEmail(ctx, "user@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "u1", got.UserID)

	miss, err := svc.FindByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	require.Nil(t, miss)
}
