package relational

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vindepemarte/Kiro-App-1-sub000/internal/domain/entities"
	usecaseErrors "github.com/vindepemarte/Kiro-App-1-sub000/internal/usecase/errors"
)

// SaveMeeting upserts the meeting row. Team visibility needs no second copy
// here: GetTeamMeetings is a plain indexed query.
func (s *Store) SaveMeeting(ctx context.Context, m *entities.Meeting) (string, error) {
	now := time.Now()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	if m.UpdatedAt.IsZero() {
		m.UpdatedAt = now
	}

	row, err := toMeetingRow(m)
	if err != nil {
		return "", fmt.Errorf("failed to encode meeting: %w", err)
	}
	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(&row).Error
	if err != nil {
		return "", fmt.Errorf("failed to save meeting: %w", err)
	}
	return m.ID, nil
}

// GetUserMeetings returns the owner's meetings, newest created first.
func (s *Store) GetUserMeetings(ctx context.Context, userID string) ([]*entities.Meeting, error) {
	var rows []meetingRow
	err := s.db.WithContext(ctx).
		Where("owner_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list meetings: %w", err)
	}
	return fromMeetingRows(rows)
}

// GetMeetingByID retrieves one meeting scoped to its owner.
func (s *Store) GetMeetingByID(ctx context.Context, ownerID, meetingID string) (*entities.Meeting, error) {
	var row meetingRow
	err := s.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", meetingID, ownerID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecaseErrors.ErrMeetingNotFound
		}
		return nil, fmt.Errorf("failed to get meeting: %w", err)
	}
	return fromMeetingRow(row)
}

// UpdateMeeting saves the whole row, action items included.
func (s *Store) UpdateMeeting(ctx context.Context, m *entities.Meeting) error {
	m.Touch()
	row, err := toMeetingRow(m)
	if err != nil {
		return fmt.Errorf("failed to encode meeting: %w", err)
	}
	res := s.db.WithContext(ctx).
		Model(&meetingRow{}).
		Where("id = ? AND owner_id = ?", m.ID, m.OwnerID).
		Select("*").
		Omit("id", "created_at").
		Updates(row)
	if res.Error != nil {
		return fmt.Errorf("failed to update meeting: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return usecaseErrors.ErrMeetingNotFound
	}
	return nil
}

// DeleteMeeting removes the meeting row.
func (s *Store) DeleteMeeting(ctx context.Context, ownerID, meetingID string) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", meetingID, ownerID).
		Delete(&meetingRow{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete meeting: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return usecaseErrors.ErrMeetingNotFound
	}
	return nil
}

// GetTeamMeetings returns the team's meetings, newest created first.
func (s *Store) GetTeamMeetings(ctx context.Context, teamID string) ([]*entities.Meeting, error) {
	var rows []meetingRow
	err := s.db.WithContext(ctx).
		Where("team_id = ?", teamID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list team meetings: %w", err)
	}
	return fromMeetingRows(rows)
}

// ClearMeetingTeam detaches the meeting from its team.
func (s *Store) ClearMeetingTeam(ctx context.Context, ownerID, meetingID string) error {
	res := s.db.WithContext(ctx).
		Model(&meetingRow{}).
		Where("id = ? AND owner_id = ?", meetingID, ownerID).
		Updates(map[string]any{"team_id": "", "updated_at": time.Now()})
	if res.Error != nil {
		return fmt.Errorf("failed to clear meeting team: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return usecaseErrors.ErrMeetingNotFound
	}
	return nil
}

func fromMeetingRows(rows []meetingRow) ([]*entities.Meeting, error) {
	meetings := make([]*entities.Meeting, 0, len(rows))
	for _, row := range rows {
		m, err := fromMeetingRow(row)
		if err != nil {
			return nil, fmt.Errorf("failed to decode meeting: %w", err)
		}
		meetings = append(meetings, m)
	}
	return meetings, nil
}
