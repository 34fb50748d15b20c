package relational

import (
	"encoding/json"
	"strings"
	"time"

	"gorm.io/datatypes"

	"github.com/vindepemarte/Kiro-App-1-sub000/internal/domain/entities"
)

type meetingRow struct {
	ID            string `gorm:"primaryKey;size:64"`
	OwnerID       string `gorm:"size:64;index"`
	Title         string `gorm:"size:255"`
	Date          time.Time
	Summary       string
	RawTranscript string
	TranscriptRef string         `gorm:"size:255"`
	ActionItems   datatypes.JSON `gorm:"type:jsonb"`
	TeamID        string         `gorm:"size:64;index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (meetingRow) TableName() string { return "meetings" }

type teamRow struct {
	ID          string `gorm:"primaryKey;size:64"`
	Name        string `gorm:"size:255"`
	Description string
	CreatedBy   string `gorm:"size:64;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (teamRow) TableName() string { return "teams" }

type teamMemberRow struct {
	TeamID      string `gorm:"primaryKey;size:64"`
	UserID      string `gorm:"primaryKey;size:64;index"`
	Email       string `gorm:"size:255"`
	DisplayName string `gorm:"size:255"`
	Role        string `gorm:"size:32"`
	Status      string `gorm:"size:32"`
	JoinedAt    time.Time
}

func (teamMemberRow) TableName() string { return "team_members" }

type taskRow struct {
	ID           string `gorm:"primaryKey;size:64"`
	MeetingID    string `gorm:"size:64;index"`
	MeetingTitle string `gorm:"size:255"`
	MeetingDate  time.Time
	OwnerID      string `gorm:"size:64;index"`
	TeamID       string `gorm:"size:64"`
	TeamName     string `gorm:"size:255"`
	Description  string
	AssigneeID   string `gorm:"size:64;index"`
	AssigneeName string `gorm:"size:255"`
	AssignedBy   string `gorm:"size:64"`
	AssignedAt   *time.Time
	Priority     string `gorm:"size:32"`
	Status       string `gorm:"size:32"`
	Deadline     *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (taskRow) TableName() string { return "tasks" }

type notificationRow struct {
	ID        string `gorm:"primaryKey;size:64"`
	UserID    string `gorm:"size:64;index"`
	Type      string `gorm:"size:64"`
	Title     string `gorm:"size:255"`
	Message   string
	Data      datatypes.JSON `gorm:"type:jsonb"`
	Read      bool
	CreatedAt time.Time
}

func (notificationRow) TableName() string { return "notifications" }

type profileRow struct {
	UserID      string         `gorm:"primaryKey;size:64"`
	Email       string         `gorm:"size:255"`
	EmailLower  string         `gorm:"size:255;index"`
	DisplayName string         `gorm:"size:255"`
	PhotoURL    string         `gorm:"size:512"`
	Preferences datatypes.JSON `gorm:"type:jsonb"`
	Theme       string         `gorm:"size:32"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (profileRow) TableName() string { return "user_profiles" }

func toMeetingRow(m *entities.Meeting) (meetingRow, error) {
	items, err := json.Marshal(m.ActionItems)
	if err != nil {
		return meetingRow{}, err
	}
	return meetingRow{
		ID:            m.ID,
		OwnerID:       m.OwnerID,
		Title:         m.Title,
		Date:          m.Date,
		Summary:       m.Summary,
		RawTranscript: m.RawTranscript,
		TranscriptRef: m.TranscriptRef,
		ActionItems:   datatypes.JSON(items),
		TeamID:        m.TeamID,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}, nil
}

func fromMeetingRow(r meetingRow) (*entities.Meeting, error) {
	var items []entities.ActionItem
	if len(r.ActionItems) > 0 {
		if err := json.Unmarshal(r.ActionItems, &items); err != nil {
			return nil, err
		}
	}
	for i := range items {
		items[i].Normalize()
	}
	return &entities.Meeting{
		ID:            r.ID,
		OwnerID:       r.OwnerID,
		Title:         r.Title,
		Date:          r.Date,
		Summary:       r.Summary,
		RawTranscript: r.RawTranscript,
		TranscriptRef: r.TranscriptRef,
		ActionItems:   items,
		TeamID:        r.TeamID,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}, nil
}

func toTeamRow(t *entities.Team) teamRow {
	return teamRow{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		CreatedBy:   t.CreatedBy,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func toMemberRow(teamID string, m entities.TeamMember) teamMemberRow {
	return teamMemberRow{
		TeamID:      teamID,
		UserID:      m.UserID,
		Email:       m.Email,
		DisplayName: m.DisplayName,
		Role:        string(m.Role),
		Status:      string(m.Status),
		JoinedAt:    m.JoinedAt,
	}
}

func fromMemberRow(r teamMemberRow) entities.TeamMember {
	return entities.TeamMember{
		UserID:      r.UserID,
		Email:       r.Email,
		DisplayName: r.DisplayName,
		Role:        entities.TeamRole(r.Role),
		Status:      entities.MemberStatus(r.Status),
		JoinedAt:    r.JoinedAt,
	}
}

func fromTeamRows(t teamRow, members []teamMemberRow) *entities.Team {
	team := &entities.Team{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		CreatedBy:   t.CreatedBy,
		Members:     make([]entities.TeamMember, 0, len(members)),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	for _, m := range members {
		team.Members = append(team.Members, fromMemberRow(m))
	}
	return team
}

func toTaskRow(t *entities.Task) taskRow {
	return taskRow{
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
		AssignedAt:   t.AssignedAt,
		Priority:     string(t.Priority),
		Status:       string(t.Status),
		Deadline:     t.Deadline,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

func fromTaskRow(r taskRow) *entities.Task {
	return &entities.Task{
		ID:           r.ID,
		MeetingID:    r.MeetingID,
		MeetingTitle: r.MeetingTitle,
		MeetingDate:  r.MeetingDate,
		OwnerID:      r.OwnerID,
		TeamID:       r.TeamID,
		TeamName:     r.TeamName,
		Description:  r.Description,
		AssigneeID:   r.AssigneeID,
		AssigneeName: r.AssigneeName,
		AssignedBy:   r.AssignedBy,
		AssignedAt:   r.AssignedAt,
		Priority:     entities.ActionItemPriority(r.Priority),
		Status:       entities.ActionItemStatus(r.Status),
		Deadline:     r.Deadline,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func toNotificationRow(n *entities.Notification) (notificationRow, error) {
	var data datatypes.JSON
	if n.Data != nil {
		raw, err := json.Marshal(n.Data)
		if err != nil {
			return notificationRow{}, err
		}
		data = datatypes.JSON(raw)
	}
	return notificationRow{
		ID:        n.ID,
		UserID:    n.UserID,
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		Data:      data,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}, nil
}

func fromNotificationRow(r notificationRow) (*entities.Notification, error) {
	var data map[string]any
	if len(r.Data) > 0 {
		if err := json.Unmarshal(r.Data, &data); err != nil {
			return nil, err
		}
	}
	return &entities.Notification{
		ID:        r.ID,
		UserID:    r.UserID,
		Type:      entities.NotificationType(r.Type),
		Title:     r.Title,
		Message:   r.Message,
		Data:      data,
		Read:      r.Read,
		CreatedAt: r.CreatedAt,
	}, nil
}

func toProfileRow(p *entities.UserProfile) (profileRow, error) {
	var prefs datatypes.JSON
	if p.Preferences != nil {
		raw, err := json.Marshal(p.Preferences)
		if err != nil {
			return profileRow{}, err
		}
		prefs = datatypes.JSON(raw)
	}
	return profileRow{
		UserID:      p.UserID,
		Email:       p.Email,
		EmailLower:  strings.ToLower(strings.TrimSpace(p.Email)),
		DisplayName: p.DisplayName,
		PhotoURL:    p.PhotoURL,
		Preferences: prefs,
		Theme:       p.Theme,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}, nil
}

func fromProfileRow(r profileRow) (*entities.UserProfile, error) {
	var prefs map[string]bool
	if len(r.Preferences) > 0 {
		if err := json.Unmarshal(r.Preferences, &prefs); err != nil {
			return nil, err
		}
	}
	return &entities.UserProfile{
		UserID:      r.UserID,
		Email:       r.Email,
		DisplayName: r.DisplayName,
		PhotoURL:    r.PhotoURL,
		Preferences: prefs,
		Theme:       r.Theme,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}, nil
}
