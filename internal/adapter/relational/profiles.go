package relational

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vindepemarte/Kiro-App-1-sub000/internal/domain/entities"
	usecaseErrors "github.com/vindepemarte/Kiro-App-1-sub000/internal/usecase/errors"
)

// SaveUserProfile upserts the profile row keyed by user id.
func (s *Store) SaveUserProfile(ctx context.Context, p *entities.UserProfile) error {
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	row, err := toProfileRow(p)
	if err != nil {
		return fmt.Errorf("failed to encode user profile: %w", err)
	}
	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to save user profile: %w", err)
	}
	return nil
}

// GetUserProfile retrieves one profile by user id.
func (s *Store) GetUserProfile(ctx context.Context, userID string) (*entities.UserProfile, error) {
	var row profileRow
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecaseErrors.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get user profile: %w", err)
	}
	return fromProfileRow(row)
}

// SearchUserByEmail finds a profile by email, case-insensitively. A missing
// user is not an error: both return values are nil.
func (s *Store) SearchUserByEmail(ctx context.Context, email string) (*entities.UserProfile, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return nil, nil
	}

	var row profileRow
	err := s.db.WithContext(ctx).Where("email_lower = ?", normalized).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to search user by email: %w", err)
	}
	return fromProfileRow(row)
}
