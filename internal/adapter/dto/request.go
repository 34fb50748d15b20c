// Package dto holds the HTTP request and response shapes. Handlers bind
// and validate these, then translate to service inputs.
package dto

import "time"

// ProcessTranscriptRequest submits a transcript for analysis.
type ProcessTranscriptRequest struct {
	Title      string `json:"title"`
	Transcript string `json:"transcript" validate:"required"`
	TeamID     string `json:"team_id"`
}

// UpdateMeetingRequest edits meeting fields. Action items are replaced
// wholesale when present.
type UpdateMeetingRequest struct {
	Title       *string             `json:"title"`
	Summary     *string             `json:"summary"`
	ActionItems []ActionItemRequest `json:"action_items"`
}

// ActionItemRequest is one action item in an update payload.
type ActionItemRequest struct {
	ID          string     `json:"id"`
	Description string     `json:"description" validate:"required"`
	Owner       string     `json:"owner"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	Deadline    *time.Time `json:"deadline"`
}

// AssignTeamRequest shares a meeting with a team.
type AssignTeamRequest struct {
	TeamID string `json:"team_id" validate:"required"`
}

// CreateTeamRequest creates a team.
type CreateTeamRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"max=500"`
}

// UpdateTeamRequest renames or re-describes a team.
type UpdateTeamRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"max=500"`
}

// InviteMemberRequest invites a registered user by email.
type InviteMemberRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// UpdateMemberRoleRequest promotes or demotes a member.
type UpdateMemberRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin member"`
}

// AssignTaskRequest assigns an action item.
type AssignTaskRequest struct {
	MeetingID  string     `json:"meeting_id" validate:"required"`
	ItemID     string     `json:"item_id" validate:"required"`
	AssigneeID string     `json:"assignee_id" validate:"required"`
	Deadline   *time.Time `json:"deadline"`
}

// UpdateTaskStatusRequest moves a task between statuses.
type UpdateTaskStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending in_progress completed"`
}

// UpdateProfileRequest edits profile fields. Omitted fields stay unchanged.
type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name"`
	PhotoURL    *string `json:"photo_url"`
	Theme       *string `json:"theme"`
}

// UpdatePreferencesRequest merges notification preference flags.
type UpdatePreferencesRequest struct {
	Preferences map[string]bool `json:"preferences" validate:"required"`
}
