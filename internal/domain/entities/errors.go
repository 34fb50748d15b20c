package entities

import "errors"

var (
	ErrMissingOwner        = errors.New("meeting owner is required")
	ErrEmptyMeeting        = errors.New("meeting must have a summary or transcript")
	ErrInvalidActionItem   = errors.New("invalid action item")
	ErrDuplicateActionItem = errors.New("duplicate action item id")
	ErrInvalidEmail        = errors.New("invalid email")
	ErrInvalidName         = errors.New("invalid name")
	ErrInvalidRole         = errors.New("invalid role")
	ErrInvalidStatus       = errors.New("invalid status")
	ErrInvalidType         = errors.New("invalid notification type")
)
