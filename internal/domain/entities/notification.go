package entities

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType classifies a notification for preference checks and
// client routing.
type NotificationType string

const (
	NotificationTeamInvitation    NotificationType = "team_invitation"
	NotificationTaskAssignment    NotificationType = "task_assignment"
	NotificationMeetingAssignment NotificationType = "meeting_assignment"
	NotificationMeetingUpdate     NotificationType = "meeting_update"
	NotificationTaskCompleted     NotificationType = "task_completed"
	NotificationTaskOverdue       NotificationType = "task_overdue"
)

// IsValid checks if the notification type is valid
func (t NotificationType) IsValid() bool {
	switch t {
	case NotificationTeamInvitation, NotificationTaskAssignment,
		NotificationMeetingAssignment, NotificationMeetingUpdate,
		NotificationTaskCompleted, NotificationTaskOverdue:
		return true
	}
	return false
}

// Notification is a persisted in-app notification. Only the Read flag is
// ever updated after creation.
type Notification struct {
	ID        string           `bson:"_id" json:"id"`
	UserID    string           `bson:"userId" json:"user_id"`
	Type      NotificationType `bson:"type" json:"type"`
	Title     string           `bson:"title" json:"title"`
	Message   string           `bson:"message" json:"message"`
	Data      map[string]any   `bson:"data,omitempty" json:"data,omitempty"`
	Read      bool             `bson:"read" json:"read"`
	CreatedAt time.Time        `bson:"createdAt" json:"created_at"`
}

// NewNotification creates an unread notification addressed to userID.
func NewNotification(userID string, typ NotificationType, title, message string, data map[string]any) *Notification {
	return &Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      typ,
		Title:     title,
		Message:   message,
		Data:      data,
		CreatedAt: time.Now(),
	}
}

// TeamID returns the team referenced by the payload, if any.
func (n *Notification) TeamID() string {
	if n.Data == nil {
		return ""
	}
	if id, ok := n.Data["teamId"].(string); ok {
		return id
	}
	return ""
}

// MeetingID returns the meeting referenced by the payload, if any.
func (n *Notification) MeetingID() string {
	if n.Data == nil {
		return ""
	}
	if id, ok := n.Data["meetingId"].(string); ok {
		return id
	}
	return ""
}
