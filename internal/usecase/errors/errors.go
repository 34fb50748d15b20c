package errors

import "errors"

// Common errors
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrForbidden     = errors.New("forbidden access")
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")
	ErrInternalError = errors.New("internal server error")
)

// Meeting errors
var (
	ErrMeetingNotFound     = errors.New("meeting not found")
	ErrEmptyMeeting        = errors.New("meeting has no summary or transcript")
	ErrEmptyTranscript     = errors.New("transcript is empty")
	ErrActionItemNotFound  = errors.New("action item not found")
	ErrDuplicateActionItem = errors.New("duplicate action item id in meeting")
)

// Team errors
var (
	ErrTeamNotFound       = errors.New("team not found")
	ErrNotTeamCreator     = errors.New("only the team creator may do this")
	ErrNotTeamAdmin       = errors.New("user is not a team admin")
	ErrMemberNotFound     = errors.New("team member not found")
	ErrAlreadyMember      = errors.New("user is already a team member")
	ErrAlreadyInvited     = errors.New("user already invited or active")
	ErrInvitationNotFound = errors.New("invitation not found")
)

// User errors
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrProfileNotFound = errors.New("user profile not found")
)

// Notification errors
var (
	ErrNotificationNotFound = errors.New("notification not found")
)
