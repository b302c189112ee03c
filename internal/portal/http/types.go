package http

import (
	"time"

	"github.com/sohailc94/agmaportal/internal/portal/domain"
	"github.com/sohailc94/agmaportal/internal/portal/service"
)

// Wire representations. Domain types stay free of JSON tags; the HTTP layer
// owns the shape of what goes over the wire.

type InviteResponse struct {
	ID          string     `json:"id"`
	FranchiseID string     `json:"franchise_id"`
	InvitedBy   string     `json:"invited_by"`
	Email       string     `json:"email"`
	FullName    string     `json:"full_name"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// The raw token is only ever returned from the create call; listings omit it.
type InviteCreatedResponse struct {
	Invite  InviteResponse `json:"invite"`
	Warning string         `json:"warning,omitempty"`
}

func toInviteResponse(inv domain.Invite) InviteResponse {
	return InviteResponse{
		ID:          inv.ID,
		FranchiseID: inv.FranchiseID,
		InvitedBy:   inv.InvitedBy,
		Email:       inv.Email,
		FullName:    inv.FullName,
		Status:      string(inv.Status),
		CreatedAt:   inv.CreatedAt,
		CompletedAt: inv.CompletedAt,
	}
}

type ProfileResponse struct {
	ID          string    `json:"id"`
	Role        string    `json:"role"`
	FranchiseID string    `json:"franchise_id,omitempty"`
	Email       string    `json:"email"`
	FullName    string    `json:"full_name"`
	HasAvatar   bool      `json:"has_avatar"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toProfileResponse(p domain.Profile) ProfileResponse {
	return ProfileResponse{
		ID:          p.ID,
		Role:        string(p.Role),
		FranchiseID: p.FranchiseID,
		Email:       p.Email,
		FullName:    p.FullName,
		HasAvatar:   p.AvatarKey != "",
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

type FranchiseResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"owner_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toFranchiseResponse(f domain.Franchise) FranchiseResponse {
	return FranchiseResponse{
		ID:        f.ID,
		Name:      f.Name,
		OwnerID:   f.OwnerID,
		CreatedAt: f.CreatedAt,
	}
}

type FranchiseOverviewResponse struct {
	Franchise    FranchiseResponse `json:"franchise"`
	StudentCount int64             `json:"student_count"`
	ClassCount   int64             `json:"class_count"`
}

func toFranchiseOverviewResponse(o service.FranchiseOverview) FranchiseOverviewResponse {
	return FranchiseOverviewResponse{
		Franchise:    toFranchiseResponse(o.Franchise),
		StudentCount: o.StudentCount,
		ClassCount:   o.ClassCount,
	}
}

type StudentResponse struct {
	ID          string `json:"id"`
	ProfileID   string `json:"profile_id,omitempty"`
	FranchiseID string `json:"franchise_id"`
	HomeClassID string `json:"home_class_id,omitempty"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DOB         string `json:"dob,omitempty"`
	Status      string `json:"status"`

	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`

	GuardianIsRegistering bool   `json:"guardian_is_registering"`
	GuardianName          string `json:"guardian_name,omitempty"`
	GuardianRelationship  string `json:"guardian_relationship,omitempty"`
	GuardianEmail         string `json:"guardian_email,omitempty"`
	GuardianPhone         string `json:"guardian_phone,omitempty"`

	MedicalInfo string `json:"medical_info,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toStudentResponse(s domain.Student) StudentResponse {
	return StudentResponse{
		ID:                    s.ID,
		ProfileID:             s.ProfileID,
		FranchiseID:           s.FranchiseID,
		HomeClassID:           s.HomeClassID,
		FirstName:             s.FirstName,
		LastName:              s.LastName,
		DOB:                   s.DOB,
		Status:                s.Status,
		Phone:                 s.Phone,
		Address:               s.Address,
		GuardianIsRegistering: s.GuardianIsRegistering,
		GuardianName:          s.GuardianName,
		GuardianRelationship:  s.GuardianRelationship,
		GuardianEmail:         s.GuardianEmail,
		GuardianPhone:         s.GuardianPhone,
		MedicalInfo:           s.MedicalInfo,
		CreatedAt:             s.CreatedAt,
		UpdatedAt:             s.UpdatedAt,
	}
}

func toStudentResponses(in []domain.Student) []StudentResponse {
	out := make([]StudentResponse, 0, len(in))
	for _, s := range in {
		out = append(out, toStudentResponse(s))
	}
	return out
}

type BeltAwardResponse struct {
	ID        string    `json:"id"`
	StudentID string    `json:"student_id"`
	BeltName  string    `json:"belt_name"`
	AwardedBy string    `json:"awarded_by"`
	AwardedAt time.Time `json:"awarded_at"`
}

func toBeltAwardResponse(b domain.BeltAward) BeltAwardResponse {
	return BeltAwardResponse{
		ID:        b.ID,
		StudentID: b.StudentID,
		BeltName:  b.BeltName,
		AwardedBy: b.AwardedBy,
		AwardedAt: b.AwardedAt,
	}
}

type FeedbackNoteResponse struct {
	ID        string    `json:"id"`
	StudentID string    `json:"student_id"`
	AuthorID  string    `json:"author_id"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"created_at"`
}

func toFeedbackNoteResponse(n domain.FeedbackNote) FeedbackNoteResponse {
	return FeedbackNoteResponse{
		ID:        n.ID,
		StudentID: n.StudentID,
		AuthorID:  n.AuthorID,
		Note:      n.Note,
		CreatedAt: n.CreatedAt,
	}
}

type StudentDetailResponse struct {
	Student   StudentResponse        `json:"student"`
	Profile   *ProfileResponse       `json:"profile,omitempty"`
	HomeClass *ClassResponse         `json:"home_class,omitempty"`
	Belts     []BeltAwardResponse    `json:"belts"`
	Notes     []FeedbackNoteResponse `json:"notes"`
}

func toStudentDetailResponse(d domain.StudentDetail) StudentDetailResponse {
	resp := StudentDetailResponse{
		Student: toStudentResponse(d.Student),
		Belts:   make([]BeltAwardResponse, 0, len(d.Belts)),
		Notes:   make([]FeedbackNoteResponse, 0, len(d.Notes)),
	}
	if d.Profile != nil {
		p := toProfileResponse(*d.Profile)
		resp.Profile = &p
	}
	if d.HomeClass != nil {
		c := toClassResponse(*d.HomeClass)
		resp.HomeClass = &c
	}
	for _, b := range d.Belts {
		resp.Belts = append(resp.Belts, toBeltAwardResponse(b))
	}
	for _, n := range d.Notes {
		resp.Notes = append(resp.Notes, toFeedbackNoteResponse(n))
	}
	return resp
}

type ClassResponse struct {
	ID                  string    `json:"id"`
	FranchiseID         string    `json:"franchise_id"`
	Name                string    `json:"name"`
	DayOfWeek           int       `json:"day_of_week"`
	StartTime           string    `json:"start_time"`
	EndTime             string    `json:"end_time"`
	Location            string    `json:"location,omitempty"`
	IsActive            bool      `json:"is_active"`
	PrimaryInstructorID string    `json:"primary_instructor_id,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func toClassResponse(c domain.Class) ClassResponse {
	return ClassResponse{
		ID:                  c.ID,
		FranchiseID:         c.FranchiseID,
		Name:                c.Name,
		DayOfWeek:           c.DayOfWeek,
		StartTime:           c.StartTime,
		EndTime:             c.EndTime,
		Location:            c.Location,
		IsActive:            c.IsActive,
		PrimaryInstructorID: c.PrimaryInstructorID,
		CreatedAt:           c.CreatedAt,
		UpdatedAt:           c.UpdatedAt,
	}
}
