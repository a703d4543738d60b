package domain

import "time"

// UserRole represents the access role of a user.
type UserRole string

const (
	UserRoleAdmin     UserRole = "admin"
	UserRoleUser      UserRole = "user"
	UserRoleRider     UserRole = "rider"
	UserRoleSuspended UserRole = "suspended"
)

// Valid reports whether r is one of the known roles.
func (r UserRole) Valid() bool {
	switch r {
	case UserRoleAdmin, UserRoleUser, UserRoleRider, UserRoleSuspended:
		return true
	}
	return false
}

// User represents a registered account. Email is the match key and is
// compared case-sensitively.
type User struct {
	ID        string         `json:"_id,omitempty" bson:"-"`
	Email     string         `json:"email" bson:"email"`
	Name      string         `json:"name,omitempty" bson:"name,omitempty"`
	PhotoURL  string         `json:"photoURL,omitempty" bson:"photoURL,omitempty"`
	Role      UserRole       `json:"role,omitempty" bson:"role,omitempty"`
	CreatedAt time.Time      `json:"created_at" bson:"created_at"`
	LastLogin time.Time      `json:"last_log_in" bson:"last_log_in"`
	Details   map[string]any `json:"details,omitempty" bson:"details,omitempty"`
}

// EffectiveRole returns the stored role, or UserRoleUser when none is set.
func (u *User) EffectiveRole() UserRole {
	if u.Role == "" {
		return UserRoleUser
	}
	return u.Role
}
