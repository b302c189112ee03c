package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/sohailc94/agmaportal/internal/portal/domain"
	"github.com/sohailc94/agmaportal/internal/portal/store"
	"github.com/sohailc94/agmaportal/pkg/slogx"
)

var (
	ErrStudentNotFound = errors.New("student not found")
	ErrInvalidStudent  = errors.New("invalid student")
	ErrInvalidNote     = errors.New("note must not be empty")
	ErrInvalidBelt     = errors.New("belt name must not be empty")
)

// searchLimit caps name-search results, matching the dashboard's "top 5".
const searchLimit = 5

type StudentService struct {
	Store store.Store
}

// Enroll creates a new student record under a franchise.
func (s *StudentService) Enroll(ctx context.Context, student domain.Student) (domain.Student, error) {
	student.FirstName = strings.TrimSpace(student.FirstName)
	student.LastName = strings.TrimSpace(student.LastName)
	student.GuardianEmail = normalizeEmail(student.GuardianEmail)
	if student.FranchiseID == "" || (student.FirstName == "" && student.LastName == "") {
		return domain.Student{}, ErrInvalidStudent
	}
	if student.Status == "" {
		student.Status = "active"
	}

	now := nowUTC()
	student.ID = newID()
	student.CreatedAt = now
	student.UpdatedAt = now

	if err := s.Store.Students().CreateStudent(ctx, student); err != nil {
		return domain.Student{}, err
	}

	slogx.FromContext(ctx).Info("student enrolled",
		slog.String("student_id", student.ID),
		slog.String("franchise_id", student.FranchiseID),
	)
	return student, nil
}

// Get returns the bare student row.
func (s *StudentService) Get(ctx context.Context, id string) (domain.Student, error) {
	student, err := s.Store.Students().GetStudentByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Student{}, ErrStudentNotFound
		}
		return domain.Student{}, err
	}
	return student, nil
}

// Detail aggregates the student row with its profile, home class, belt
// history and feedback notes into the panel the dashboards render.
func (s *StudentService) Detail(ctx context.Context, id string) (domain.StudentDetail, error) {
	student, err := s.Get(ctx, id)
	if err != nil {
		return domain.StudentDetail{}, err
	}

	detail := domain.StudentDetail{Student: student}

	if student.ProfileID != "" {
		profile, err := s.Store.Profiles().GetProfileByID(ctx, student.ProfileID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return domain.StudentDetail{}, err
		}
		if err == nil {
			detail.Profile = &profile
		}
	}

	if student.HomeClassID != "" {
		class, err := s.Store.Classes().GetClassByID(ctx, student.HomeClassID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return domain.StudentDetail{}, err
		}
		if err == nil {
			detail.HomeClass = &class
		}
	}

	if detail.Belts, err = s.Store.Belts().ListBeltAwardsByStudent(ctx, id); err != nil {
		return domain.StudentDetail{}, err
	}
	if detail.Notes, err = s.Store.Notes().ListFeedbackNotesByStudent(ctx, id); err != nil {
		return domain.StudentDetail{}, err
	}

	return detail, nil
}

// ListByFranchise returns all of a franchise's students.
func (s *StudentService) ListByFranchise(
	ctx context.Context,
	franchiseID string,
) ([]domain.Student, error) {
	return s.Store.Students().ListStudentsByFranchise(ctx, franchiseID)
}

// ListByGuardianEmail powers the parent dashboard: students whose guardian
// contact matches the parent's address.
func (s *StudentService) ListByGuardianEmail(
	ctx context.Context,
	email string,
) ([]domain.Student, error) {
	return s.Store.Students().ListStudentsByGuardianEmail(ctx, normalizeEmail(email))
}

// GetByProfile resolves the student record behind a student login.
func (s *StudentService) GetByProfile(
	ctx context.Context,
	profileID string,
) (domain.Student, error) {
	student, err := s.Store.Students().GetStudentByProfileID(ctx, profileID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Student{}, ErrStudentNotFound
		}
		return domain.Student{}, err
	}
	return student, nil
}

// Search does a case-insensitive name prefix search within a franchise.
func (s *StudentService) Search(
	ctx context.Context,
	franchiseID, query string,
) ([]domain.Student, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	return s.Store.Students().SearchStudentsByName(ctx, franchiseID, query, searchLimit)
}

// Update overwrites the student's editable fields.
func (s *StudentService) Update(ctx context.Context, student domain.Student) error {
	if student.ID == "" {
		return ErrInvalidStudent
	}
	student.GuardianEmail = normalizeEmail(student.GuardianEmail)

	// Verify the row exists so a bad id surfaces as not-found rather than
	// a silent zero-row update.
	if _, err := s.Get(ctx, student.ID); err != nil {
		return err
	}
	return s.Store.Students().UpdateStudent(ctx, student)
}

// AwardBelt records a belt granted to the student.
func (s *StudentService) AwardBelt(
	ctx context.Context,
	award domain.BeltAward,
) (domain.BeltAward, error) {
	award.BeltName = strings.TrimSpace(award.BeltName)
	if award.BeltName == "" {
		return domain.BeltAward{}, ErrInvalidBelt
	}
	if _, err := s.Get(ctx, award.StudentID); err != nil {
		return domain.BeltAward{}, err
	}

	now := nowUTC()
	award.ID = newID()
	award.CreatedAt = now
	if award.AwardedAt.IsZero() {
		award.AwardedAt = now
	}

	if err := s.Store.Belts().AddBeltAward(ctx, award); err != nil {
		return domain.BeltAward{}, err
	}
	return award, nil
}

// AddNote records an instructor's feedback note on the student.
func (s *StudentService) AddNote(
	ctx context.Context,
	note domain.FeedbackNote,
) (domain.FeedbackNote, error) {
	note.Note = strings.TrimSpace(note.Note)
	if note.Note == "" {
		return domain.FeedbackNote{}, ErrInvalidNote
	}
	if _, err := s.Get(ctx, note.StudentID); err != nil {
		return domain.FeedbackNote{}, err
	}

	note.ID = newID()
	note.CreatedAt = nowUTC()

	if err := s.Store.Notes().AddFeedbackNote(ctx, note); err != nil {
		return domain.FeedbackNote{}, err
	}
	return note, nil
}
