package facade

import (
	"context"

	apperrors "github.com/vindepemarte/Kiro-App-1-sub000/errors"
	"github.com/vindepemarte/Kiro-App-1-sub000/internal/domain/entities"
)

// CreateTeam validates the essentials before the backend sees the write.
func (f *Facade) CreateTeam(ctx context.Context, t *entities.Team) (string, error) {
	if t == nil {
		return "", apperrors.ErrValidation("team is required")
	}
	if err := f.validate.Var(t.Name, "required,min=1,max=100"); err != nil {
		return "", apperrors.ErrValidation("team name must be between 1 and 100 characters")
	}
	if t.CreatedBy == "" {
		return "", apperrors.ErrValidation("team creator is required")
	}

	var id string
	err := f.withRetry(ctx, "CreateTeam", retryBudget, func() error {
		var err error
		id, err = f.store.CreateTeam(ctx, t)
		return err
	})
	if err != nil {
		return "", err
	}

	f.invalidateTeam(t.ID)
	return id, nil
}

// GetTeamByID serves from cache when fresh.
func (f *Facade) GetTeamByID(ctx context.Context, teamID string) (*entities.Team, error) {
	key := "team:" + teamID
	if cached, ok := f.teamCache.Get(key); ok {
		return cached, nil
	}

	var t *entities.Team
	err := f.withRetry(ctx, "GetTeamByID", retryBudget, func() error {
		var err error
		t, err = f.store.GetTeamByID(ctx, teamID)
		return err
	})
	if err != nil {
		return nil, err
	}
	f.teamCache.Set(key, t)
	return t, nil
}

// GetUserTeams serves from cache when fresh.
func (f *Facade) GetUserTeams(ctx context.Context, userID string) ([]*entities.Team, error) {
	key := "teams:user:" + userID
	if cached, ok := f.teamListCache.Get(key); ok {
		return cached, nil
	}

	var teams []*entities.Team
	err := f.withRetry(ctx, "GetUserTeams", retryBudget, func() error {
		var err error
		teams, err = f.store.GetUserTeams(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	f.teamListCache.Set(key, teams)
	return teams, nil
}

// UpdateTeam persists with retry and invalidates.
func (f *Facade) UpdateTeam(ctx context.Context, t *entities.Team) error {
	if t == nil {
		return apperrors.ErrValidation("team is required")
	}
	if err := f.validate.Var(t.Name, "required,min=1,max=100"); err != nil {
		return apperrors.ErrValidation("team name must be between 1 and 100 characters")
	}

	err := f.withRetry(ctx, "UpdateTeam", retryBudget, func() error {
		return f.store.UpdateTeam(ctx, t)
	})
	if err != nil {
		return err
	}

	f.invalidateTeam(t.ID)
	return nil
}

// DeleteTeam uses the tighter delete budget.
func (f *Facade) DeleteTeam(ctx context.Context, teamID string) error {
	err := f.withRetry(ctx, "DeleteTeam", deleteRetryBudget, func() error {
		return f.store.DeleteTeam(ctx, teamID)
	})
	if err != nil {
		return err
	}

	f.invalidateTeam(teamID)
	return nil
}

// AddTeamMember validates the member's email when present.
func (f *Facade) AddTeamMember(ctx context.Context, teamID string, m entities.TeamMember) error {
	if m.UserID == "" {
		return apperrors.ErrValidation("member user id is required")
	}
	if err := f.validate.Var(m.Email, "omitempty,email"); err != nil {
		return apperrors.ErrValidation("member email is invalid")
	}

	err := f.withRetry(ctx, "AddTeamMember", retryBudget, func() error {
		return f.store.AddTeamMember(ctx, teamID, m)
	})
	if err != nil {
		return err
	}

	f.invalidateTeam(teamID)
	return nil
}

// UpdateTeamMember persists with retry and invalidates.
func (f *Facade) UpdateTeamMember(ctx context.Context, teamID string, m entities.TeamMember) error {
	if m.UserID == "" {
		return apperrors.ErrValidation("member user id is required")
	}

	err := f.withRetry(ctx, "UpdateTeamMember", retryBudget, func() error {
		return f.store.UpdateTeamMember(ctx, teamID, m)
	})
	if err != nil {
		return err
	}

	f.invalidateTeam(teamID)
	return nil
}

// RemoveTeamMember uses the tighter delete budget.
func (f *Facade) RemoveTeamMember(ctx context.Context, teamID, userID string) error {
	err := f.withRetry(ctx, "RemoveTeamMember", deleteRetryBudget, func() error {
		return f.store.RemoveTeamMember(ctx, teamID, userID)
	})
	if err != nil {
		return err
	}

	f.invalidateTeam(teamID)
	return nil
}

// invalidateTeam drops the team entry and every user's team list. Roster
// changes affect an unknown set of users, so the whole class goes.
func (f *Facade) invalidateTeam(teamID string) {
	f.teamCache.Invalidate("team:" + teamID)
	f.teamListCache.InvalidatePrefix("teams:user:")
}
