// Package user implements profile management: signup-time profile creation,
// preference updates and email lookup for invitations.
package user

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/vindepemarte/Kiro-App-1-sub000/internal/domain/entities"
	"github.com/vindepemarte/Kiro-App-1-sub000/internal/domain/repositories"
	usecaseErrors "github.com/vindepemarte/Kiro-App-1-sub000/internal/usecase/errors"
)

// Service defines the interface for user profile use case
type Service interface {
	// EnsureProfile creates the profile on first sight of a user and
	// returns the stored one otherwise.
	EnsureProfile(ctx context.Context, userID, email, displayName string) (*entities.UserProfile, error)

	// GetProfile retrieves one profile.
	GetProfile(ctx context.Context, userID string) (*entities.UserProfile, error)

	// UpdateProfile rewrites display name, photo and theme.
	UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*entities.UserProfile, error)

	// UpdatePreferences merges notification preference changes.
	UpdatePreferences(ctx context.Context, userID string, prefs map[string]bool) (*entities.UserProfile, error)

	// FindByEmail resolves a user by email. Returns nil, nil on no match.
	FindByEmail(ctx context.Context, email string) (*entities.UserProfile, error)
}

// UpdateProfileInput carries the mutable profile fields. Nil pointers leave
// the stored value alone.
type UpdateProfileInput struct {
	DisplayName *string
	PhotoURL    *string
	Theme       *string
}

var _ Service = (*UserService)(nil)

// UserService implements Service.
type UserService struct {
	store  repositories.Store
	logger *zap.Logger
}

// NewService creates a UserService.
func NewService(store repositories.Store, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{store: store, logger: logger}
}

func (s *UserService) EnsureProfile(ctx context.Context, userID, email, displayName string) (*entities.UserProfile, error) {
	if userID == "" || email == "" {
		return nil, usecaseErrors.ErrInvalidInput
	}

	existing, err := s.store.GetUserProfile(ctx, userID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, usecaseErrors.ErrProfileNotFound) {
		return nil, err
	}

	profile := entities.NewUserProfile(userID, email, displayName)
	if err := s.store.SaveUserProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*entities.UserProfile, error) {
	return s.store.GetUserProfile(ctx, userID)
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*entities.UserProfile, error) {
	profile, err := s.store.GetUserProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if input.DisplayName != nil {
		profile.DisplayName = *input.DisplayName
	}
	if input.PhotoURL != nil {
		profile.PhotoURL = *input.PhotoURL
	}
	if input.Theme != nil {
		profile.Theme = *input.Theme
	}
	if err := s.store.SaveUserProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *UserService) UpdatePreferences(ctx context.Context, userID string, prefs map[string]bool) (*entities.UserProfile, error) {
	profile, err := s.store.GetUserProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile.Preferences == nil {
		profile.Preferences = make(map[string]bool, len(prefs))
	}
	for k, v := range prefs {
		profile.Preferences[k] = v
	}
	if err := s.store.SaveUserProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *UserService) FindByEmail(ctx context.Context, email string) (*entities.UserProfile, error) {
	return s.store.SearchUserByEmail(ctx, email)
}
