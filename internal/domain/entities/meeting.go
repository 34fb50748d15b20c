package entities

import (
	"time"

	"github.com/google/uuid"
)

// ActionItemPriority defines the urgency of an action item
type ActionItemPriority string

const (
	PriorityHigh   ActionItemPriority = "high"
	PriorityMedium ActionItemPriority = "medium"
	PriorityLow    ActionItemPriority = "low"
)

// IsValid checks if the priority is valid
func (p ActionItemPriority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// ActionItemStatus defines the lifecycle state of an action item
type ActionItemStatus string

const (
	StatusPending    ActionItemStatus = "pending"
	StatusInProgress ActionItemStatus = "in_progress"
	StatusCompleted  ActionItemStatus = "completed"
)

// IsValid checks if the status is valid
func (s ActionItemStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// ActionItem is a task extracted from a meeting transcript. The meeting's
// ActionItems slice is the source of truth; the standalone Task document is
// a derived index kept in sync by write-through.
type ActionItem struct {
	ID           string             `bson:"id" json:"id"`
	Description  string             `bson:"description" json:"description"`
	Owner        string             `bson:"owner,omitempty" json:"owner,omitempty"`
	AssigneeID   string             `bson:"assigneeId,omitempty" json:"assignee_id,omitempty"`
	AssigneeName string             `bson:"assigneeName,omitempty" json:"assignee_name,omitempty"`
	AssignedBy   string             `bson:"assignedBy,omitempty" json:"assigned_by,omitempty"`
	AssignedAt   *time.Time         `bson:"assignedAt,omitempty" json:"assigned_at,omitempty"`
	Priority     ActionItemPriority `bson:"priority" json:"priority"`
	Status       ActionItemStatus   `bson:"status" json:"status"`
	Deadline     *time.Time         `bson:"deadline,omitempty" json:"deadline,omitempty"`
}

// NewActionItem creates an action item with default priority and status
func NewActionItem(description string) ActionItem {
	return ActionItem{
		ID:          uuid.NewString(),
		Description: description,
		Priority:    PriorityMedium,
		Status:      StatusPending,
	}
}

// Normalize fills missing enum fields with their defaults.
func (a *ActionItem) Normalize() {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if !a.Priority.IsValid() {
		a.Priority = PriorityMedium
	}
	if !a.Status.IsValid() {
		a.Status = StatusPending
	}
}

// Assign records an assignment made by assignedBy.
func (a *ActionItem) Assign(assigneeID, assigneeName, assignedBy string) {
	now := time.Now()
	a.AssigneeID = assigneeID
	a.AssigneeName = assigneeName
	a.AssignedBy = assignedBy
	a.AssignedAt = &now
}

// Meeting is the authoritative record of one processed meeting. When TeamID
// is set, the document backend also keeps a denormalized copy under the
// team's meeting collection.
type Meeting struct {
	ID            string       `bson:"_id" json:"id"`
	OwnerID       string       `bson:"ownerId" json:"owner_id"`
	Title         string       `bson:"title" json:"title"`
	Date          time.Time    `bson:"date" json:"date"`
	Summary       string       `bson:"summary,omitempty" json:"summary,omitempty"`
	RawTranscript string       `bson:"rawTranscript,omitempty" json:"raw_transcript,omitempty"`
	TranscriptRef string       `bson:"transcriptRef,omitempty" json:"transcript_ref,omitempty"`
	ActionItems   []ActionItem `bson:"actionItems" json:"action_items"`
	TeamID        string       `bson:"teamId,omitempty" json:"team_id,omitempty"`
	CreatedAt     time.Time    `bson:"createdAt" json:"created_at"`
	UpdatedAt     time.Time    `bson:"updatedAt" json:"updated_at"`
}

// NewMeeting creates a meeting owned by ownerID with default timestamps
func NewMeeting(ownerID, title string) *Meeting {
	now := time.Now()
	return &Meeting{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Title:       title,
		Date:        now,
		ActionItems: []ActionItem{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// HasContent reports whether the meeting has anything worth persisting.
func (m *Meeting) HasContent() bool {
	return m.Summary != "" || m.RawTranscript != "" || m.TranscriptRef != ""
}

// FindActionItem returns a pointer into the ActionItems slice.
func (m *Meeting) FindActionItem(itemID string) (*ActionItem, bool) {
	for i := range m.ActionItems {
		if m.ActionItems[i].ID == itemID {
			return &m.ActionItems[i], true
		}
	}
	return nil, false
}

// Validate enforces the meeting invariants: unique action item ids and
// valid enum fields.
func (m *Meeting) Validate() error {
	if m.OwnerID == "" {
		return ErrMissingOwner
	}
	if !m.HasContent() {
		return ErrEmptyMeeting
	}
	seen := make(map[string]struct{}, len(m.ActionItems))
	for _, item := range m.ActionItems {
		if item.ID == "" {
			return ErrInvalidActionItem
		}
		if _, dup := seen[item.ID]; dup {
			return ErrDuplicateActionItem
		}
		seen[item.ID] = struct{}{}
		if !item.Priority.IsValid() || !item.Status.IsValid() {
			return ErrInvalidActionItem
		}
	}
	return nil
}

// Touch re-stamps UpdatedAt
func (m *Meeting) Touch() {
	m.UpdatedAt = time.Now()
}
