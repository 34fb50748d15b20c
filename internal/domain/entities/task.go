package entities

import "time"

// Task is the denormalized copy of an assigned ActionItem, stored
// independently so "all tasks for user X" never scans every meeting.
// It shares its ID with the action item it mirrors. It is an index, not a
// source of truth: every assignment or status write goes through both
// representations in the same logical operation.
type Task struct {
	ID           string             `bson:"_id" json:"id"`
	MeetingID    string             `bson:"meetingId" json:"meeting_id"`
	MeetingTitle string             `bson:"meetingTitle" json:"meeting_title"`
	MeetingDate  time.Time          `bson:"meetingDate" json:"meeting_date"`
	OwnerID      string             `bson:"ownerId" json:"owner_id"`
	TeamID       string             `bson:"teamId,omitempty" json:"team_id,omitempty"`
	TeamName     string             `bson:"teamName,omitempty" json:"team_name,omitempty"`
	Description  string             `bson:"description" json:"description"`
	AssigneeID   string             `bson:"assigneeId,omitempty" json:"assignee_id,omitempty"`
	AssigneeName string             `bson:"assigneeName,omitempty" json:"assignee_name,omitempty"`
	AssignedBy   string             `bson:"assignedBy,omitempty" json:"assigned_by,omitempty"`
	AssignedAt   *time.Time         `bson:"assignedAt,omitempty" json:"assigned_at,omitempty"`
	Priority     ActionItemPriority `bson:"priority" json:"priority"`
	Status       ActionItemStatus   `bson:"status" json:"status"`
	Deadline     *time.Time         `bson:"deadline,omitempty" json:"deadline,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updated_at"`
}

// TaskFromActionItem builds the task document for item in the context of its
// meeting. teamName may be empty for personal meetings.
func TaskFromActionItem(m *Meeting, item ActionItem, teamName string) *Task {
	now := time.Now()
	return &Task{
		ID:           item.ID,
		MeetingID:    m.ID,
		MeetingTitle: m.Title,
		MeetingDate:  m.Date,
		OwnerID:      m.OwnerID,
		TeamID:       m.TeamID,
		TeamName:     teamName,
		Description:  item.Description,
		AssigneeID:   item.AssigneeID,
		AssigneeName: item.AssigneeName,
		AssignedBy:   item.AssignedBy,
		AssignedAt:   item.AssignedAt,
		Priority:     item.Priority,
		Status:       item.Status,
		Deadline:     item.Deadline,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Overdue reports whether the task is past its deadline and still open.
func (t *Task) Overdue(now time.Time) bool {
	if t.Deadline == nil || t.Status == StatusCompleted {
		return false
	}
	return now.After(*t.Deadline)
}
