package domain

import "time"

// Role is the portal-wide role stored on a profile.
type Role string

const (
	RoleHQ             Role = "hq"
	RoleFranchiseOwner Role = "franchise_owner"
	RoleInstructor     Role = "instructor"
	RoleStudent        Role = "student"
	RoleParent         Role = "parent"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleHQ, RoleFranchiseOwner, RoleInstructor, RoleStudent, RoleParent:
		return true
	}
	return false
}

// Profile is the durable identity record for any person using the portal.
// The ID is shared with the external auth identity.
type Profile struct {
	ID          string
	Role        Role
	FranchiseID string // empty for HQ staff and unattached accounts
	Email       string // normalized to lowercase
	FullName    string
	AvatarKey   string // object-store key, empty when no avatar uploaded
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
