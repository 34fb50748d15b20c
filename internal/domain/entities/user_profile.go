package entities

import "time"

// UserProfile is the per-user record, created lazily on first use. Email
// lookups against it are case-insensitive exact matches.
type UserProfile struct {
	UserID      string          `bson:"_id" json:"user_id"`
	Email       string          `bson:"email" json:"email"`
	DisplayName string          `bson:"displayName" json:"display_name"`
	PhotoURL    string          `bson:"photoURL,omitempty" json:"photo_url,omitempty"`
	Preferences map[string]bool `bson:"preferences,omitempty" json:"preferences,omitempty"`
	Theme       string          `bson:"theme,omitempty" json:"theme,omitempty"`
	CreatedAt   time.Time       `bson:"createdAt" json:"created_at"`
	UpdatedAt   time.Time       `bson:"updatedAt" json:"updated_at"`
}

// NewUserProfile creates a profile with default preferences (all categories
// enabled implicitly: an absent key means send).
func NewUserProfile(userID, email, displayName string) *UserProfile {
	now := time.Now()
	return &UserProfile{
		UserID:      userID,
		Email:       email,
		DisplayName: displayName,
		Preferences: map[string]bool{},
		Theme:       "system",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// AllowsNotification reports whether the user accepts notifications of the
// given type. Missing preference defaults to send.
func (p *UserProfile) AllowsNotification(t NotificationType) bool {
	if p == nil || p.Preferences == nil {
		return true
	}
	allowed, ok := p.Preferences[string(t)]
	if !ok {
		return true
	}
	return allowed
}

// Touch re-stamps UpdatedAt
func (p *UserProfile) Touch() {
	p.UpdatedAt = time.Now()
}
