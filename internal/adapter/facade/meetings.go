package facade

import (
	"context"

	apperrors "github.com/vindepemarte/Kiro-App-1-sub000/errors"
	"github.com/vindepemarte/Kiro-App-1-sub000/internal/domain/entities"
)

func meetingKey(ownerID, meetingID string) string {
	return "meeting:" + ownerID + ":" + meetingID
}

// SaveMeeting validates, persists with retry and invalidates every cached
// view the write could have changed.
func (f *Facade) SaveMeeting(ctx context.Context, m *entities.Meeting) (string, error) {
	if m == nil {
		return "", apperrors.ErrValidation("meeting is required")
	}
	if err := m.Validate(); err != nil {
		return "", apperrors.ErrValidation(err.Error())
	}

	var id string
	err := f.withRetry(ctx, "SaveMeeting", retryBudget, func() error {
		var err error
		id, err = f.store.SaveMeeting(ctx, m)
		return err
	})
	if err != nil {
		return "", err
	}

	f.invalidateMeeting(m.OwnerID, m.ID)
	return id, nil
}

// GetUserMeetings serves from cache when fresh.
func (f *Facade) GetUserMeetings(ctx context.Context, userID string) ([]*entities.Meeting, error) {
	key := "meetings:user:" + userID
	if cached, ok := f.meetingListCache.Get(key); ok {
		return cached, nil
	}

	var meetings []*entities.Meeting
	err := f.withRetry(ctx, "GetUserMeetings", retryBudget, func() error {
		var err error
		meetings, err = f.store.GetUserMeetings(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	f.meetingListCache.Set(key, meetings)
	return meetings, nil
}

// GetMeetingByID serves from cache when fresh.
func (f *Facade) GetMeetingByID(ctx context.Context, ownerID, meetingID string) (*entities.Meeting, error) {
	key := meetingKey(ownerID, meetingID)
	if cached, ok := f.meetingCache.Get(key); ok {
		return cached, nil
	}

	var m *entities.Meeting
	err := f.withRetry(ctx, "GetMeetingByID", retryBudget, func() error {
		var err error
		m, err = f.store.GetMeetingByID(ctx, ownerID, meetingID)
		return err
	})
	if err != nil {
		return nil, err
	}
	f.meetingCache.Set(key, m)
	return m, nil
}

// UpdateMeeting validates, persists with retry and invalidates.
func (f *Facade) UpdateMeeting(ctx context.Context, m *entities.Meeting) error {
	if m == nil {
		return apperrors.ErrValidation("meeting is required")
	}
	if err := m.Validate(); err != nil {
		return apperrors.ErrValidation(err.Error())
	}

	err := f.withRetry(ctx, "UpdateMeeting", retryBudget, func() error {
		return f.store.UpdateMeeting(ctx, m)
	})
	if err != nil {
		return err
	}

	f.invalidateMeeting(m.OwnerID, m.ID)
	return nil
}

// DeleteMeeting uses a tighter retry budget: a delete that keeps failing
// should surface quickly rather than hold the caller.
func (f *Facade) DeleteMeeting(ctx context.Context, ownerID, meetingID string) error {
	err := f.withRetry(ctx, "DeleteMeeting", deleteRetryBudget, func() error {
		return f.store.DeleteMeeting(ctx, ownerID, meetingID)
	})
	if err != nil {
		return err
	}

	f.invalidateMeeting(ownerID, meetingID)
	return nil
}

// GetTeamMeetings serves from cache when fresh.
func (f *Facade) GetTeamMeetings(ctx context.Context, teamID string) ([]*entities.Meeting, error) {
	key := "meetings:team:" + teamID
	if cached, ok := f.meetingListCache.Get(key); ok {
		return cached, nil
	}

	var meetings []*entities.Meeting
	err := f.withRetry(ctx, "GetTeamMeetings", retryBudget, func() error {
		var err error
		meetings, err = f.store.GetTeamMeetings(ctx, teamID)
		return err
	})
	if err != nil {
		return nil, err
	}
	f.meetingListCache.Set(key, meetings)
	return meetings, nil
}

// ClearMeetingTeam detaches the meeting and invalidates both the personal
// and the team views.
func (f *Facade) ClearMeetingTeam(ctx context.Context, ownerID, meetingID string) error {
	err := f.withRetry(ctx, "ClearMeetingTeam", retryBudget, func() error {
		return f.store.ClearMeetingTeam(ctx, ownerID, meetingID)
	})
	if err != nil {
		return err
	}

	f.invalidateMeeting(ownerID, meetingID)
	return nil
}

// invalidateMeeting drops the single-meeting entry, the owner's list and
// every team list. The meeting's previous team is unknown at this point so
// the whole team view class goes.
func (f *Facade) invalidateMeeting(ownerID, meetingID string) {
	f.meetingCache.Invalidate(meetingKey(ownerID, meetingID))
	f.meetingListCache.InvalidatePrefix("meetings:user:" + ownerID)
	f.meetingListCache.InvalidatePrefix("meetings:team:")
}
