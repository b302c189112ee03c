package domain

import "time"

// Student holds the membership record for an enrolled student. ProfileID is
// empty for students enrolled by a parent who have no login of their own.
type Student struct {
	ID          string
	ProfileID   string
	FranchiseID string
	HomeClassID string
	FirstName   string
	LastName    string
	DOB         string // ISO date, empty when unknown
	Status      string // e.g. "active", "paused"

	Phone   string
	Address string

	GuardianIsRegistering bool
	GuardianName          string
	GuardianRelationship  string
	GuardianEmail         string
	GuardianPhone         string

	MedicalInfo string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// BeltAward records a belt granted to a student.
type BeltAward struct {
	ID        string
	StudentID string
	BeltName  string
	AwardedBy string // profile id of the awarding instructor
	AwardedAt time.Time
	CreatedAt time.Time
}

// FeedbackNote is an instructor's note on a student.
type FeedbackNote struct {
	ID        string
	StudentID string
	AuthorID  string
	Note      string
	CreatedAt time.Time
}

// StudentDetail is the aggregated view a dashboard shows for one student.
type StudentDetail struct {
	Student   Student
	Profile   *Profile // nil when the student has no login
	HomeClass *Class   // nil when unassigned
	Belts     []BeltAward
	Notes     []FeedbackNote
}
