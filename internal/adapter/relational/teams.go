package relational

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vindepemarte/Kiro-App-1-sub000/internal/domain/entities"
	usecaseErrors "github.com/vindepemarte/Kiro-App-1-sub000/internal/usecase/errors"
)

// CreateTeam inserts the team row and its member rows in one transaction.
func (s *Store) CreateTeam(ctx context.Context, t *entities.Team) (string, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	now := time.Now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = now
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := toTeamRow(t)
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		for _, m := range t.Members {
			memberRow := toMemberRow(t.ID, m)
			if err := tx.Create(&memberRow).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", usecaseErrors.ErrAlreadyExists
		}
		return "", fmt.Errorf("failed to create team: %w", err)
	}
	return t.ID, nil
}

// GetTeamByID retrieves the team with its full roster.
func (s *Store) GetTeamByID(ctx context.Context, teamID string) (*entities.Team, error) {
	var row teamRow
	err := s.db.WithContext(ctx).Where("id = ?", teamID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecaseErrors.ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team: %w", err)
	}

	members, err := s.teamMembers(ctx, teamID)
	if err != nil {
		return nil, err
	}
	return fromTeamRows(row, members), nil
}

// GetUserTeams returns every team the user belongs to, invitations included.
func (s *Store) GetUserTeams(ctx context.Context, userID string) ([]*entities.Team, error) {
	var rows []teamRow
	err := s.db.WithContext(ctx).
		Where("id IN (?)", s.db.Model(&teamMemberRow{}).Select("team_id").Where("user_id = ?", userID)).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}

	teams := make([]*entities.Team, 0, len(rows))
	for _, row := range rows {
		members, err := s.teamMembers(ctx, row.ID)
		if err != nil {
			return nil, err
		}
		teams = append(teams, fromTeamRows(row, members))
	}
	return teams, nil
}

// UpdateTeam rewrites the team row and replaces the roster to match the
// entity's member list.
func (s *Store) UpdateTeam(ctx context.Context, t *entities.Team) error {
	t.Touch()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := toTeamRow(t)
		res := tx.Model(&teamRow{}).
			Where("id = ?", t.ID).
			Select("*").
			Omit("id", "created_at").
			Updates(row)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return usecaseErrors.ErrTeamNotFound
		}

		if err := tx.Where("team_id = ?", t.ID).Delete(&teamMemberRow{}).Error; err != nil {
			return err
		}
		for _, m := range t.Members {
			memberRow := toMemberRow(t.ID, m)
			if err := tx.Create(&memberRow).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, usecaseErrors.ErrTeamNotFound) {
			return err
		}
		return fmt.Errorf("failed to update team: %w", err)
	}
	return nil
}

// DeleteTeam removes the team and its roster.
func (s *Store) DeleteTeam(ctx context.Context, teamID string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", teamID).Delete(&teamRow{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return usecaseErrors.ErrTeamNotFound
		}
		return tx.Where("team_id = ?", teamID).Delete(&teamMemberRow{}).Error
	})
	if err != nil {
		if errors.Is(err, usecaseErrors.ErrTeamNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete team: %w", err)
	}
	return nil
}

// AddTeamMember inserts one roster row. A conflict on (team_id, user_id)
// means the user is already on the roster and is reported, not overwritten.
func (s *Store) AddTeamMember(ctx context.Context, teamID string, m entities.TeamMember) error {
	if m.JoinedAt.IsZero() {
		m.JoinedAt = time.Now()
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&teamRow{}).Where("id = ?", teamID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check team: %w", err)
	}
	if count == 0 {
		return usecaseErrors.ErrTeamNotFound
	}

	row := toMemberRow(teamID, m)
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "team_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&row)
	if res.Error != nil {
		return fmt.Errorf("failed to add team member: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return usecaseErrors.ErrAlreadyExists
	}
	return s.touchTeam(ctx, teamID)
}

// UpdateTeamMember rewrites one roster row.
func (s *Store) UpdateTeamMember(ctx context.Context, teamID string, m entities.TeamMember) error {
	row := toMemberRow(teamID, m)
	res := s.db.WithContext(ctx).
		Model(&teamMemberRow{}).
		Where("team_id = ? AND user_id = ?", teamID, m.UserID).
		Select("*").
		Omit("team_id", "user_id").
		Updates(row)
	if res.Error != nil {
		return fmt.Errorf("failed to update team member: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return usecaseErrors.ErrMemberNotFound
	}
	return s.touchTeam(ctx, teamID)
}

// RemoveTeamMember deletes one roster row.
func (s *Store) RemoveTeamMember(ctx context.Context, teamID, userID string) error {
	res := s.db.WithContext(ctx).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Delete(&teamMemberRow{})
	if res.Error != nil {
		return fmt.Errorf("failed to remove team member: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return usecaseErrors.ErrMemberNotFound
	}
	return s.touchTeam(ctx, teamID)
}

func (s *Store) teamMembers(ctx context.Context, teamID string) ([]teamMemberRow, error) {
	var members []teamMemberRow
	err := s.db.WithContext(ctx).
		Where("team_id = ?", teamID).
		Order("joined_at ASC").
		Find(&members).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list team members: %w", err)
	}
	return members, nil
}

func (s *Store) touchTeam(ctx context.Context, teamID string) error {
	err := s.db.WithContext(ctx).
		Model(&teamRow{}).
		Where("id = ?", teamID).
		Update("updated_at", time.Now()).Error
	if err != nil {
		return fmt.Errorf("failed to touch team: %w", err)
	}
	return nil
}
