package document

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vindepemarte/Kiro-App-1-sub000/internal/domain/entities"
)

// The doc structs decode timestamps as untyped values so a malformed stored
// timestamp never fails a read: toTime substitutes the current time and the
// read continues.

type actionItemDoc struct {
	ID           string `bson:"id"`
	Description  string `bson:"description"`
	Owner        string `bson:"owner,omitempty"`
	AssigneeID   string `bson:"assigneeId,omitempty"`
	AssigneeName string `bson:"assigneeName,omitempty"`
	AssignedBy   string `bson:"assignedBy,omitempty"`
	AssignedAt   any    `bson:"assignedAt,omitempty"`
	Priority     string `bson:"priority"`
	Status       string `bson:"status"`
	Deadline     any    `bson:"deadline,omitempty"`
}

type meetingDoc struct {
	ID            string          `bson:"_id"`
	OwnerID       string          `bson:"ownerId"`
	Title         string          `bson:"title"`
	Date          any             `bson:"date"`
	Summary       string          `bson:"summary,omitempty"`
	RawTranscript string          `bson:"rawTranscript,omitempty"`
	TranscriptRef string          `bson:"transcriptRef,omitempty"`
	ActionItems   []actionItemDoc `bson:"actionItems"`
	TeamID        string          `bson:"teamId,omitempty"`
	CreatedAt     any             `bson:"createdAt"`
	UpdatedAt     any             `bson:"updatedAt"`
}

type teamMemberDoc struct {
	UserID      string `bson:"userId"`
	Email       string `bson:"email"`
	DisplayName string `bson:"displayName"`
	Role        string `bson:"role"`
	Status      string `bson:"status"`
	JoinedAt    any    `bson:"joinedAt"`
}

type teamDoc struct {
	ID          string          `bson:"_id"`
	Name        string          `bson:"name"`
	Description string          `bson:"description,omitempty"`
	CreatedBy   string          `bson:"createdBy"`
	Members     []teamMemberDoc `bson:"members"`
	CreatedAt   any             `bson:"createdAt"`
	UpdatedAt   any             `bson:"updatedAt"`
}

type taskDoc struct {
	ID           string `bson:"_id"`
	MeetingID    string `bson:"meetingId"`
	MeetingTitle string `bson:"meetingTitle"`
	MeetingDate  any    `bson:"meetingDate"`
	OwnerID      string `bson:"ownerId"`
	TeamID       string `bson:"teamId,omitempty"`
	TeamName     string `bson:"teamName,omitempty"`
	Description  string `bson:"description"`
	AssigneeID   string `bson:"assigneeId,omitempty"`
	AssigneeName string `bson:"assigneeName,omitempty"`
	AssignedBy   string `bson:"assignedBy,omitempty"`
	AssignedAt   any    `bson:"assignedAt,omitempty"`
	Priority     string `bson:"priority"`
	Status       string `bson:"status"`
	Deadline     any    `bson:"deadline,omitempty"`
	CreatedAt    any    `bson:"createdAt"`
	UpdatedAt    any    `bson:"updatedAt"`
}

type notificationDoc struct {
	ID        string         `bson:"_id"`
	UserID    string         `bson:"userId"`
	Type      string         `bson:"type"`
	Title     string         `bson:"title"`
	Message   string         `bson:"message"`
	Data      map[string]any `bson:"data,omitempty"`
	Read      bool           `bson:"read"`
	CreatedAt any            `bson:"createdAt"`
}

type profileDoc struct {
	UserID      string          `bson:"_id"`
	Email       string          `bson:"email"`
	EmailLower  string          `bson:"emailLower"`
	DisplayName string          `bson:"displayName"`
	PhotoURL    string          `bson:"photoURL,omitempty"`
	Preferences map[string]bool `bson:"preferences,omitempty"`
	Theme       string          `bson:"theme,omitempty"`
	CreatedAt   any             `bson:"createdAt"`
	UpdatedAt   any             `bson:"updatedAt"`
}

// toTime converts a stored timestamp to time.Time, substituting the current
// time for anything malformed. Reads never fail on bad timestamp data.
func toTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case primitive.DateTime:
		return t.Time()
	case *time.Time:
		if t != nil {
			return *t
		}
	case int64:
		return time.UnixMilli(t)
	case string:
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed
		}
	}
	return time.Now()
}

// toTimePtr is toTime for optional timestamps; nil stays nil.
func toTimePtr(v any) *time.Time {
	if v == nil {
		return nil
	}
	t := toTime(v)
	return &t
}

func fromTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

func encodeActionItem(a entities.ActionItem) actionItemDoc {
	return actionItemDoc{
		ID:           a.ID,
		Description:  a.Description,
		Owner:        a.Owner,
		AssigneeID:   a.AssigneeID,
		AssigneeName: a.AssigneeName,
		AssignedBy:   a.AssignedBy,
		AssignedAt:   fromTimePtr(a.AssignedAt),
		Priority:     string(a.Priority),
		Status:       string(a.Status),
		Deadline:     fromTimePtr(a.Deadline),
	}
}

func decodeActionItem(d actionItemDoc) entities.ActionItem {
	item := entities.ActionItem{
		ID:           d.ID,
		Description:  d.Description,
		Owner:        d.Owner,
		AssigneeID:   d.AssigneeID,
		AssigneeName: d.AssigneeName,
		AssignedBy:   d.AssignedBy,
		AssignedAt:   toTimePtr(d.AssignedAt),
		Priority:     entities.ActionItemPriority(d.Priority),
		Status:       entities.ActionItemStatus(d.Status),
		Deadline:     toTimePtr(d.Deadline),
	}
	item.Normalize()
	return item
}

func encodeMeeting(m *entities.Meeting) meetingDoc {
	items := make([]actionItemDoc, 0, len(m.ActionItems))
	for _, a := range m.ActionItems {
		items = append(items, encodeActionItem(a))
	}
	return meetingDoc{
		ID:            m.ID,
		OwnerID:       m.OwnerID,
		Title:         m.Title,
		Date:          m.Date,
		Summary:       m.Summary,
		RawTranscript: m.RawTranscript,
		TranscriptRef: m.TranscriptRef,
		ActionItems:   items,
		TeamID:        m.TeamID,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func decodeMeeting(d meetingDoc) *entities.Meeting {
	items := make([]entities.ActionItem, 0, len(d.ActionItems))
	for _, a := range d.ActionItems {
		items = append(items, decodeActionItem(a))
	}
	return &entities.Meeting{
		ID:            d.ID,
		OwnerID:       d.OwnerID,
		Title:         d.Title,
		Date:          toTime(d.Date),
		Summary:       d.Summary,
		RawTranscript: d.RawTranscript,
		TranscriptRef: d.TranscriptRef,
		ActionItems:   items,
		TeamID:        d.TeamID,
		CreatedAt:     toTime(d.CreatedAt),
		UpdatedAt:     toTime(d.UpdatedAt),
	}
}

func encodeTeamMember(m entities.TeamMember) teamMemberDoc {
	return teamMemberDoc{
		UserID:      m.UserID,
		Email:       m.Email,
		DisplayName: m.DisplayName,
		Role:        string(m.Role),
		Status:      string(m.Status),
		JoinedAt:    m.JoinedAt,
	}
}

func decodeTeamMember(d teamMemberDoc) entities.TeamMember {
	return entities.TeamMember{
		UserID:      d.UserID,
		Email:       d.Email,
		DisplayName: d.DisplayName,
		Role:        entities.TeamRole(d.Role),
		Status:      entities.MemberStatus(d.Status),
		JoinedAt:    toTime(d.JoinedAt),
	}
}

func encodeTeam(t *entities.Team) teamDoc {
	members := make([]teamMemberDoc, 0, len(t.Members))
	for _, m := range t.Members {
		members = append(members, encodeTeamMember(m))
	}
	return teamDoc{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		CreatedBy:   t.CreatedBy,
		Members:     members,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func decodeTeam(d teamDoc) *entities.Team {
	members := make([]entities.TeamMember, 0, len(d.Members))
	for _, m := range d.Members {
		members = append(members, decodeTeamMember(m))
	}
	return &entities.Team{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		CreatedBy:   d.CreatedBy,
		Members:     members,
		CreatedAt:   toTime(d.CreatedAt),
		UpdatedAt:   toTime(d.UpdatedAt),
	}
}

func encodeTask(t *entities.Task) taskDoc {
	return taskDoc{
		ID:           t.ID,
		MeetingID:    t.MeetingID,
		MeetingTitle: t.MeetingTitle,
		MeetingDate:  t.MeetingDate,
		OwnerID:      t.OwnerID,
		TeamID:       t.TeamID,
		TeamName:     t.TeamName,
		Description:  t.Description,
		AssigneeID:   t.AssigneeID,
		AssigneeName: t.AssigneeName,
		AssignedBy:   t.AssignedBy,
		AssignedAt:   fromTimePtr(t.AssignedAt),
		Priority:     string(t.Priority),
		Status:       string(t.Status),
		Deadline:     fromTimePtr(t.Deadline),
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

func decodeTask(d taskDoc) *entities.Task {
	return &entities.Task{
		ID:           d.ID,
		MeetingID:    d.MeetingID,
		MeetingTitle: d.MeetingTitle,
		MeetingDate:  toTime(d.MeetingDate),
		OwnerID:      d.OwnerID,
		TeamID:       d.TeamID,
		TeamName:     d.TeamName,
		Description:  d.Description,
		AssigneeID:   d.AssigneeID,
		AssigneeName: d.AssigneeName,
		AssignedBy:   d.AssignedBy,
		AssignedAt:   toTimePtr(d.AssignedAt),
		Priority:     entities.ActionItemPriority(d.Priority),
		Status:       entities.ActionItemStatus(d.Status),
		Deadline:     toTimePtr(d.Deadline),
		CreatedAt:    toTime(d.CreatedAt),
		UpdatedAt:    toTime(d.UpdatedAt),
	}
}

func encodeNotification(n *entities.Notification) notificationDoc {
	return notificationDoc{
		ID:        n.ID,
		UserID:    n.UserID,
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		Data:      n.Data,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}

func decodeNotification(d notificationDoc) *entities.Notification {
	return &entities.Notification{
		ID:        d.ID,
		UserID:    d.UserID,
		Type:      entities.NotificationType(d.Type),
		Title:     d.Title,
		Message:   d.Message,
		Data:      d.Data,
		Read:      d.Read,
		CreatedAt: toTime(d.CreatedAt),
	}
}

func encodeProfile(p *entities.UserProfile) profileDoc {
	return profileDoc{
		UserID:      p.UserID,
		Email:       p.Email,
		EmailLower:  strings.ToLower(p.Email),
		DisplayName: p.DisplayName,
		PhotoURL:    p.PhotoURL,
		Preferences: p.Preferences,
		Theme:       p.Theme,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func decodeProfile(d profileDoc) *entities.UserProfile {
	return &entities.UserProfile{
		UserID:      d.UserID,
		Email:       d.Email,
		DisplayName: d.DisplayName,
		PhotoURL:    d.PhotoURL,
		Preferences: d.Preferences,
		Theme:       d.Theme,
		CreatedAt:   toTime(d.CreatedAt),
		UpdatedAt:   toTime(d.UpdatedAt),
	}
}
