package facade

import (
	"context"
	"strings"

	apperrors "github.com/vindepemarte/Kiro-App-1-sub000/errors"
	"github.com/vindepemarte/Kiro-App-1-sub000/internal/domain/entities"
)

// SaveUserProfile validates and persists with retry.
func (f *Facade) SaveUserProfile(ctx context.Context, p *entities.UserProfile) error {
	if p == nil {
		return apperrors.ErrValidation("profile is required")
	}
	if p.UserID == "" {
		return apperrors.ErrValidation("profile user id is required")
	}
	if err := f.validate.Var(p.Email, "required,email"); err != nil {
		return apperrors.ErrValidation("profile email is invalid")
	}

	err := f.withRetry(ctx, "SaveUserProfile", retryBudget, func() error {
		return f.store.SaveUserProfile(ctx, p)
	})
	if err != nil {
		return err
	}

	f.profileCache.Invalidate("profile:" + p.UserID)
	f.profileCache.InvalidatePrefix("profile:email:")
	return nil
}

// GetUserProfile serves from cache when fresh.
func (f *Facade) GetUserProfile(ctx context.Context, userID string) (*entities.UserProfile, error) {
	key := "profile:" + userID
	if cached, ok := f.profileCache.Get(key); ok {
		return cached, nil
	}

	var p *entities.UserProfile
	err := f.withRetry(ctx, "GetUserProfile", retryBudget, func() error {
		var err error
		p, err = f.store.GetUserProfile(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	f.profileCache.Set(key, p)
	return p, nil
}

// SearchUserByEmail caches hits only. A miss is nil, nil and is never
// cached: a user who signs up a second later must be findable.
func (f *Facade) SearchUserByEmail(ctx context.Context, email string) (*entities.UserProfile, error) {
	if err := f.validate.Var(email, "required,email"); err != nil {
		return nil, apperrors.ErrValidation("email is invalid")
	}
	key := "profile:email:" + strings.ToLower(strings.TrimSpace(email))
	if cached, ok := f.profileCache.Get(key); ok {
		return cached, nil
	}

	var p *entities.UserProfile
	err := f.withRetry(ctx, "SearchUserByEmail", retryBudget, func() error {
		var err error
		p, err = f.store.SearchUserByEmail(ctx, email)
		return err
	})
	if err != nil {
		return nil, err
	}
	if p != nil {
		f.profileCache.Set(key, p)
	}
	return p, nil
}
