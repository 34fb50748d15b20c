// Package team implements team lifecycle: creation, membership management,
// the invitation flow and the cleanup that follows a deletion.
package team

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/vindepemarte/Kiro-App-1-sub000/internal/domain/entities"
	"github.com/vindepemarte/Kiro-App-1-sub000/internal/domain/repositories"
	usecaseErrors "github.com/vindepemarte/Kiro-App-1-sub000/internal/usecase/errors"
	"github.com/vindepemarte/Kiro-App-1-sub000/internal/usecase/notification"
)

// Service defines the interface for team use case
type Service interface {
	// CreateTeam creates a team with the creator as its single admin.
	CreateTeam(ctx context.Context, input CreateTeamInput) (*entities.Team, error)

	// GetTeam retrieves a team the user belongs to.
	GetTeam(ctx context.Context, teamID, userID string) (*entities.Team, error)

	// ListTeams retrieves every team the user belongs to.
	ListTeams(ctx context.Context, userID string) ([]*entities.Team, error)

	// UpdateTeam renames or re-describes a team (admins only).
	UpdateTeam(ctx context.Context, teamID, userID, name, description string) (*entities.Team, error)

	// DeleteTeam removes a team and its derived data (creator only).
	DeleteTeam(ctx context.Context, teamID, userID string) error

	// InviteMember invites a registered user by email (admins only).
	InviteMember(ctx context.Context, teamID, inviterID, email string) error

	// AcceptInvitation activates the caller's pending membership.
	AcceptInvitation(ctx context.Context, teamID, userID string) error

	// DeclineInvitation removes the caller's pending membership.
	DeclineInvitation(ctx context.Context, teamID, userID string) error

	// RemoveMember removes a member (admins only, never the creator).
	RemoveMember(ctx context.Context, teamID, adminID, memberID string) error

	// UpdateMemberRole promotes or demotes a member (admins only).
	UpdateMemberRole(ctx context.Context, teamID, adminID, memberID string, role entities.TeamRole) error

	// Subscribe streams the user's team list.
	Subscribe(ctx context.Context, userID string, fn func([]*entities.Team)) repositories.Unsubscribe
}

// CreateTeamInput carries creator identity alongside the team fields.
type CreateTeamInput struct {
	Name         string
	Description  string
	CreatorID    string
	CreatorEmail string
	CreatorName  string
}

var _ Service = (*TeamService)(nil)

// TeamService implements Service.
type TeamService struct {
	store    repositories.Store
	notifier notification.Service
	logger   *zap.Logger
}

// NewService creates a TeamService.
func NewService(store repositories.Store, notifier notification.Service, logger *zap.Logger) *TeamService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeamService{store: store, notifier: notifier, logger: logger}
}

func (s *TeamService) CreateTeam(ctx context.Context, input CreateTeamInput) (*entities.Team, error) {
	if input.Name == "" || input.CreatorID == "" {
		return nil, usecaseErrors.ErrInvalidInput
	}

	team := entities.NewTeam(input.Name, input.Description, input.CreatorID, input.CreatorEmail, input.CreatorName)
	if _, err := s.store.CreateTeam(ctx, team); err != nil {
		return nil, err
	}
	return team, nil
}

func (s *TeamService) GetTeam(ctx context.Context, teamID, userID string) (*entities.Team, error) {
	team, err := s.store.GetTeamByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if !team.HasMember(userID) && team.CreatedBy != userID {
		return nil, usecaseErrors.ErrForbidden
	}
	return team, nil
}

func (s *TeamService) ListTeams(ctx context.Context, userID string) ([]*entities.Team, error) {
	return s.store.GetUserTeams(ctx, userID)
}

func (s *TeamService) UpdateTeam(ctx context.Context, teamID, userID, name, description string) (*entities.Team, error) {
	team, err := s.store.GetTeamByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if !team.CanManage(userID) {
		return nil, usecaseErrors.ErrNotTeamAdmin
	}
	if name != "" {
		team.Name = name
	}
	team.Description = description

	if err := s.store.UpdateTeam(ctx, team); err != nil {
		return nil, err
	}
	return team, nil
}

// DeleteTeam sweeps the notifications that point at the team, detaches its
// meetings, then removes the team record itself. The derived cleanup is
// best-effort: a failure there is logged and the deletion proceeds.
func (s *TeamService) DeleteTeam(ctx context.Context, teamID, userID string) error {
	team, err := s.store.GetTeamByID(ctx, teamID)
	if err != nil {
		return err
	}
	if team.CreatedBy != userID {
		return usecaseErrors.ErrNotTeamCreator
	}

	if err := s.store.DeleteTeamNotifications(ctx, teamID); err != nil {
		s.logger.Warn("notification sweep failed during team delete",
			zap.String("team_id", teamID),
			zap.Error(err),
		)
	}

	meetings, err := s.store.GetTeamMeetings(ctx, teamID)
	if err != nil {
		s.logger.Warn("team meeting lookup failed during delete",
			zap.String("team_id", teamID),
			zap.Error(err),
		)
		meetings = nil
	}
	for _, m := range meetings {
		if err := s.store.ClearMeetingTeam(ctx, m.OwnerID, m.ID); err != nil {
			s.logger.Warn("meeting detach failed during team delete",
				zap.String("team_id", teamID),
				zap.String("meeting_id", m.ID),
				zap.Error(err),
			)
		}
	}

	return s.store.DeleteTeam(ctx, teamID)
}

// InviteMember transitions a user from no membership to invited. The invitee
// must already have a profile; inviting an unregistered email is an error
// the caller can show verbatim.
func (s *TeamService) InviteMember(ctx context.Context, teamID, inviterID, email string) error {
	team, err := s.store.GetTeamByID(ctx, teamID)
	if err != nil {
		return err
	}
	if !team.CanManage(inviterID) {
		return usecaseErrors.ErrNotTeamAdmin
	}

	invitee, err := s.store.SearchUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if invitee == nil {
		return usecaseErrors.ErrUserNotFound
	}

	if existing, ok := team.Member(invitee.UserID); ok {
		if existing.Status == entities.MemberStatusInvited {
			return usecaseErrors.ErrAlreadyInvited
		}
		return usecaseErrors.ErrAlreadyMember
	}
	if existing, ok := team.MemberByEmail(email); ok {
		if existing.Status == entities.MemberStatusInvited {
			return usecaseErrors.ErrAlreadyInvited
		}
		return usecaseErrors.ErrAlreadyMember
	}

	member := entities.TeamMember{
		UserID:      invitee.UserID,
		Email:       invitee.Email,
		DisplayName: invitee.DisplayName,
		Role:        entities.TeamRoleMember,
		Status:      entities.MemberStatusInvited,
	}
	if err := s.store.AddTeamMember(ctx, teamID, member); err != nil {
		return err
	}

	if s.notifier != nil {
		_, err := s.notifier.Notify(ctx, notification.NotifyInput{
			Type:    entities.NotificationTeamInvitation,
			Title:   "Team invitation",
			Message: fmt.Sprintf("You have been invited to join %s", team.Name),
			Data: map[string]any{
				"userId":   invitee.UserID,
				"teamId":   teamID,
				"teamName": team.Name,
			},
			DedupKey: fmt.Sprintf("invite:%s", teamID),
		})
		if err != nil {
			s.logger.Warn("invitation notification failed",
				zap.String("team_id", teamID),
				zap.String("invitee", invitee.UserID),
				zap.Error(err),
			)
		}
	}
	return nil
}

// AcceptInvitation activates the membership. Invitations created before
// profiles carried stable ids were stored under a placeholder id with the
// real email; those rows are reconciled onto the caller's id here.
func (s *TeamService) AcceptInvitation(ctx context.Context, teamID, userID string) error {
	team, err := s.store.GetTeamByID(ctx, teamID)
	if err != nil {
		return err
	}

	member, ok := team.Member(userID)
	if !ok {
		member, ok = s.legacyMember(ctx, team, userID)
		if !ok {
			return usecaseErrors.ErrInvitationNotFound
		}
		// Replace the placeholder row with one under the real id.
		if err := s.store.RemoveTeamMember(ctx, teamID, member.UserID); err != nil {
			return err
		}
		member.UserID = userID
	}
	if member.Status != entities.MemberStatusInvited {
		return usecaseErrors.ErrInvitationNotFound
	}

	member.Status = entities.MemberStatusActive
	if _, stillThere := team.Member(userID); stillThere {
		err = s.store.UpdateTeamMember(ctx, teamID, *member)
	} else {
		err = s.store.AddTeamMember(ctx, teamID, *member)
	}
	if err != nil {
		return err
	}

	s.clearInviteNotification(ctx, teamID, userID)
	return nil
}

// clearInviteNotification removes the pending invitation notification once
// the invitation has been resolved. Best-effort.
func (s *TeamService) clearInviteNotification(ctx context.Context, teamID, userID string) {
	notifications, err := s.store.GetUserNotifications(ctx, userID)
	if err != nil {
		return
	}
	for _, n := range notifications {
		if n.Type == entities.NotificationTeamInvitation && n.TeamID() == teamID {
			if err := s.store.DeleteNotification(ctx, n.ID); err != nil {
				s.logger.Warn("invitation notification cleanup failed",
					zap.String("notification_id", n.ID),
					zap.Error(err),
				)
			}
		}
	}
}

// legacyMember locates a placeholder invitation row by the caller's email.
func (s *TeamService) legacyMember(ctx context.Context, team *entities.Team, userID string) (*entities.TeamMember, bool) {
	profile, err := s.store.GetUserProfile(ctx, userID)
	if err != nil || profile == nil || profile.Email == "" {
		return nil, false
	}
	m, ok := team.MemberByEmail(profile.Email)
	if !ok || m.UserID == userID {
		return nil, false
	}
	cp := *m
	return &cp, true
}

// DeclineInvitation drops the pending row. A team deleted in the meantime
// counts as success: the invitation is gone either way.
func (s *TeamService) DeclineInvitation(ctx context.Context, teamID, userID string) error {
	team, err := s.store.GetTeamByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, usecaseErrors.ErrTeamNotFound) {
			return nil
		}
		return err
	}

	member, ok := team.Member(userID)
	if !ok {
		member, ok = s.legacyMember(ctx, team, userID)
		if !ok {
			return usecaseErrors.ErrInvitationNotFound
		}
	}
	if member.Status != entities.MemberStatusInvited {
		return usecaseErrors.ErrInvitationNotFound
	}

	err = s.store.RemoveTeamMember(ctx, teamID, member.UserID)
	if err != nil && !errors.Is(err, usecaseErrors.ErrTeamNotFound) {
		return err
	}

	s.clearInviteNotification(ctx, teamID, userID)
	return nil
}

func (s *TeamService) RemoveMember(ctx context.Context, teamID, adminID, memberID string) error {
	team, err := s.store.GetTeamByID(ctx, teamID)
	if err != nil {
		return err
	}
	if !team.CanManage(adminID) {
		return usecaseErrors.ErrNotTeamAdmin
	}
	if memberID == team.CreatedBy {
		return usecaseErrors.ErrForbidden
	}
	if !team.HasMember(memberID) {
		return usecaseErrors.ErrMemberNotFound
	}
	return s.store.RemoveTeamMember(ctx, teamID, memberID)
}

func (s *TeamService) UpdateMemberRole(ctx context.Context, teamID, adminID, memberID string, role entities.TeamRole) error {
	if !role.IsValid() {
		return usecaseErrors.ErrInvalidInput
	}
	team, err := s.store.GetTeamByID(ctx, teamID)
	if err != nil {
		return err
	}
	if !team.IsAdmin(adminID) {
		return usecaseErrors.ErrNotTeamAdmin
	}
	// The creator's role is fixed.
	if memberID == team.CreatedBy {
		return usecaseErrors.ErrForbidden
	}

	member, ok := team.Member(memberID)
	if !ok {
		return usecaseErrors.ErrMemberNotFound
	}
	member.Role = role
	return s.store.UpdateTeamMember(ctx, teamID, *member)
}

func (s *TeamService) Subscribe(ctx context.Context, userID string, fn func([]*entities.Team)) repositories.Unsubscribe {
	return s.store.SubscribeUserTeams(ctx, userID, fn)
}
