package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// TeamRole defines member roles within a team
type TeamRole string

const (
	TeamRoleAdmin  TeamRole = "admin"
	TeamRoleMember TeamRole = "member"
)

// IsValid checks if the team role is valid
func (r TeamRole) IsValid() bool {
	return r == TeamRoleAdmin || r == TeamRoleMember
}

// MemberStatus defines the lifecycle state of a membership
type MemberStatus string

const (
	MemberStatusActive  MemberStatus = "active"
	MemberStatusInvited MemberStatus = "invited"
)

// IsValid checks if the member status is valid
func (s MemberStatus) IsValid() bool {
	return s == MemberStatusActive || s == MemberStatusInvited
}

// TeamMember is one membership row, embedded in the team document.
type TeamMember struct {
	UserID      string       `bson:"userId" json:"user_id"`
	Email       string       `bson:"email" json:"email"`
	DisplayName string       `bson:"displayName" json:"display_name"`
	Role        TeamRole     `bson:"role" json:"role"`
	Status      MemberStatus `bson:"status" json:"status"`
	JoinedAt    time.Time    `bson:"joinedAt" json:"joined_at"`
}

// Team groups users around shared meetings. Members are stored embedded,
// so every member mutation is a read-modify-write of the whole array under
// last-write-wins semantics; concurrent admin actions on the same team can
// lose one update.
type Team struct {
	ID          string       `bson:"_id" json:"id"`
	Name        string       `bson:"name" json:"name"`
	Description string       `bson:"description,omitempty" json:"description,omitempty"`
	CreatedBy   string       `bson:"createdBy" json:"created_by"`
	Members     []TeamMember `bson:"members" json:"members"`
	CreatedAt   time.Time    `bson:"createdAt" json:"created_at"`
	UpdatedAt   time.Time    `bson:"updatedAt" json:"updated_at"`
}

// NewTeam creates a team and seeds the creator as its single active admin.
func NewTeam(name, description, creatorID, creatorEmail, creatorName string) *Team {
	now := time.Now()
	return &Team{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		CreatedBy:   creatorID,
		Members: []TeamMember{{
			UserID:      creatorID,
			Email:       creatorEmail,
			DisplayName: creatorName,
			Role:        TeamRoleAdmin,
			Status:      MemberStatusActive,
			JoinedAt:    now,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Member returns the membership row for userID.
func (t *Team) Member(userID string) (*TeamMember, bool) {
	for i := range t.Members {
		if t.Members[i].UserID == userID {
			return &t.Members[i], true
		}
	}
	return nil, false
}

// MemberByEmail returns the membership row matching email, case-insensitive.
func (t *Team) MemberByEmail(email string) (*TeamMember, bool) {
	for i := range t.Members {
		if strings.EqualFold(t.Members[i].Email, email) {
			return &t.Members[i], true
		}
	}
	return nil, false
}

// HasMember reports whether userID has any membership row, invited or active.
func (t *Team) HasMember(userID string) bool {
	_, ok := t.Member(userID)
	return ok
}

// IsAdmin reports whether userID administers the team. The creator is
// always an admin even if their membership row is missing.
func (t *Team) IsAdmin(userID string) bool {
	if userID == t.CreatedBy {
		return true
	}
	m, ok := t.Member(userID)
	return ok && m.Role == TeamRoleAdmin && m.Status == MemberStatusActive
}

// CanManage reports whether userID may invite or remove members.
func (t *Team) CanManage(userID string) bool {
	return t.IsAdmin(userID)
}

// ActiveMembers returns members with active status.
func (t *Team) ActiveMembers() []TeamMember {
	active := make([]TeamMember, 0, len(t.Members))
	for _, m := range t.Members {
		if m.Status == MemberStatusActive {
			active = append(active, m)
		}
	}
	return active
}

// Touch re-stamps UpdatedAt
func (t *Team) Touch() {
	t.UpdatedAt = time.Now()
}
