package domain

import "time"

// Franchise is a single location of the business.
type Franchise struct {
	ID        string
	Name      string
	OwnerID   string
	CreatedAt time.Time
}
