package store

import (
	"context"
	"errors"
	"time"

	"github.com/sohailc94/agmaportal/internal/portal/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for
// now) implement this. It exposes sub-repositories to keep concerns tidy
// and testable.
type Store interface {
	Invites() Invites
	Profiles() Profiles
	Franchises() Franchises
	Students() Students
	Classes() Classes
	Belts() Belts
	Notes() Notes

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed. This is the
	// recommended way to run multi-step mutations (e.g. the webhook's
	// invite-activation plus profile promotion).
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Invites interface {
	// CreateInvite writes a new invite. The raw token is stored as-is; the
	// webhook looks it up by exact equality.
	CreateInvite(ctx context.Context, inv domain.Invite) error

	// GetInviteByToken returns the invite matching the token exactly.
	GetInviteByToken(ctx context.Context, token string) (domain.Invite, error)

	// GetLatestInviteByEmail returns the most recently created invite for a
	// (franchise, normalized email) pair.
	GetLatestInviteByEmail(ctx context.Context, franchiseID, email string) (domain.Invite, error)

	// HasOpenInvite reports whether a pending or active invite exists for
	// the pair. Used for the duplicate-invite check at issuance.
	HasOpenInvite(ctx context.Context, franchiseID, email string) (bool, error)

	// ListInvitesByFranchise returns all invites of a franchise, newest first.
	ListInvitesByFranchise(ctx context.Context, franchiseID string) ([]domain.Invite, error)

	// MarkInviteCompleted sets status=active and records completed_at.
	MarkInviteCompleted(ctx context.Context, inviteID string, completedAt time.Time) error

	// DeactivateInvites flips every non-inactive invite for the pair to
	// inactive. Returns the number of rows changed.
	DeactivateInvites(ctx context.Context, franchiseID, email string) (int64, error)

	// ExpirePendingBefore marks pending invites created before the cutoff
	// as expired. Returns the number of rows changed.
	ExpirePendingBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type Profiles interface {
	// CreateProfile inserts a new profile (id is supplied by the external
	// identity provider).
	CreateProfile(ctx context.Context, p domain.Profile) error

	GetProfileByID(ctx context.Context, id string) (domain.Profile, error)

	// GetProfileByEmail matches on the normalized (lowercase) email.
	GetProfileByEmail(ctx context.Context, email string) (domain.Profile, error)

	// ListInstructorsByFranchise returns profiles with role=instructor
	// attached to the franchise.
	ListInstructorsByFranchise(ctx context.Context, franchiseID string) ([]domain.Profile, error)

	// SetRoleAndFranchise overwrites role and franchise reference in place.
	SetRoleAndFranchise(ctx context.Context, profileID string, role domain.Role, franchiseID string) error

	// UpdateFullName mutates full_name and bumps updated_at.
	UpdateFullName(ctx context.Context, profileID, fullName string) error

	// SetAvatarKey stores the object-store key of the profile's avatar.
	SetAvatarKey(ctx context.Context, profileID, key string) error
}

type Franchises interface {
	CreateFranchise(ctx context.Context, f domain.Franchise) error
	GetFranchiseByID(ctx context.Context, id string) (domain.Franchise, error)
	ListFranchises(ctx context.Context) ([]domain.Franchise, error)
}

type Students interface {
	CreateStudent(ctx context.Context, s domain.Student) error
	GetStudentByID(ctx context.Context, id string) (domain.Student, error)

	// GetStudentByProfileID resolves the student record behind a login.
	GetStudentByProfileID(ctx context.Context, profileID string) (domain.Student, error)

	ListStudentsByFranchise(ctx context.Context, franchiseID string) ([]domain.Student, error)

	// ListStudentsByGuardianEmail powers the parent dashboard.
	ListStudentsByGuardianEmail(ctx context.Context, email string) ([]domain.Student, error)

	// SearchStudentsByName does a case-insensitive prefix match on first or
	// last name within a franchise.
	SearchStudentsByName(ctx context.Context, franchiseID, query string, limit int) ([]domain.Student, error)

	UpdateStudent(ctx context.Context, s domain.Student) error

	CountStudentsByFranchise(ctx context.Context, franchiseID string) (int64, error)
}

type Classes interface {
	CreateClass(ctx context.Context, c domain.Class) error
	GetClassByID(ctx context.Context, id string) (domain.Class, error)
	ListClassesByFranchise(ctx context.Context, franchiseID string) ([]domain.Class, error)
	UpdateClass(ctx context.Context, c domain.Class) error

	// SetPrimaryInstructor assigns the class's primary instructor; empty
	// instructorID clears the assignment.
	SetPrimaryInstructor(ctx context.Context, classID, instructorID string) error

	CountClassesByFranchise(ctx context.Context, franchiseID string) (int64, error)
}

type Belts interface {
	AddBeltAward(ctx context.Context, b domain.BeltAward) error
	ListBeltAwardsByStudent(ctx context.Context, studentID string) ([]domain.BeltAward, error)
}

type Notes interface {
	AddFeedbackNote(ctx context.Context, n domain.FeedbackNote) error
	ListFeedbackNotesByStudent(ctx context.Context, studentID string) ([]domain.FeedbackNote, error)
}
