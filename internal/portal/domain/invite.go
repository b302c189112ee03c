package domain

import "time"

// InviteStatus is the lifecycle state of an instructor invite.
type InviteStatus string

const (
	// InviteStatusPending is the initial state after issuance.
	InviteStatusPending InviteStatus = "pending"
	// InviteStatusActive means the CRM confirmed the registrant completed signup.
	InviteStatusActive InviteStatus = "active"
	// InviteStatusInactive means the franchise owner revoked the invite. Terminal.
	InviteStatusInactive InviteStatus = "inactive"
	// InviteStatusExpired means the invite sat pending past its TTL. Terminal.
	InviteStatusExpired InviteStatus = "expired"
)

// Completable reports whether the webhook may still activate an invite in
// this state. Completion of an already-active invite is deliberately
// allowed so the CRM can safely retry delivery.
func (s InviteStatus) Completable() bool {
	return s == InviteStatusPending || s == InviteStatusActive
}

// Invite is an offer extended to a prospective instructor. The token is the
// sole capability for completing it.
type Invite struct {
	ID          string
	FranchiseID string
	InvitedBy   string
	Email       string // normalized to lowercase
	FullName    string
	Token       string
	Status      InviteStatus
	CreatedAt   time.Time
	CompletedAt *time.Time
}
