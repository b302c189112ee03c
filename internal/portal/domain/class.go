package domain

import "time"

// Class is a recurring scheduled class at a franchise.
type Class struct {
	ID                  string
	FranchiseID         string
	Name                string
	DayOfWeek           int    // 0 = Sunday
	StartTime           string // "HH:MM", local to the franchise
	EndTime             string
	Location            string
	IsActive            bool
	PrimaryInstructorID string // profile id, empty when unassigned
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
