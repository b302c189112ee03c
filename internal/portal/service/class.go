package service

import (
	"context"
	"errors"
	"strings"

	"github.com/sohailc94/agmaportal/internal/portal/domain"
	"github.com/sohailc94/agmaportal/internal/portal/store"
)

var (
	ErrClassNotFound           = errors.New("class not found")
	ErrInvalidClass            = errors.New("invalid class")
	ErrInstructorNotAssignable = errors.New("instructor is not assignable")
)

type ClassService struct {
	Store   store.Store
	Invites *InviteService
}

// Create adds a class to a franchise's schedule.
func (s *ClassService) Create(ctx context.Context, class domain.Class) (domain.Class, error) {
	class.Name = strings.TrimSpace(class.Name)
	if class.FranchiseID == "" || class.Name == "" {
		return domain.Class{}, ErrInvalidClass
	}
	if class.DayOfWeek < 0 || class.DayOfWeek > 6 {
		return domain.Class{}, ErrInvalidClass
	}

	now := nowUTC()
	class.ID = newID()
	class.IsActive = true
	class.CreatedAt = now
	class.UpdatedAt = now

	if err := s.Store.Classes().CreateClass(ctx, class); err != nil {
		return domain.Class{}, err
	}
	return class, nil
}

// Get returns one class.
func (s *ClassService) Get(ctx context.Context, id string) (domain.Class, error) {
	class, err := s.Store.Classes().GetClassByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Class{}, ErrClassNotFound
		}
		return domain.Class{}, err
	}
	return class, nil
}

// ListByFranchise returns the franchise's schedule ordered by day and time.
func (s *ClassService) ListByFranchise(
	ctx context.Context,
	franchiseID string,
) ([]domain.Class, error) {
	return s.Store.Classes().ListClassesByFranchise(ctx, franchiseID)
}

// Update overwrites the class's editable fields.
func (s *ClassService) Update(ctx context.Context, class domain.Class) error {
	class.Name = strings.TrimSpace(class.Name)
	if class.ID == "" || class.Name == "" {
		return ErrInvalidClass
	}
	if _, err := s.Get(ctx, class.ID); err != nil {
		return err
	}
	return s.Store.Classes().UpdateClass(ctx, class)
}

// AssignInstructor sets the class's primary instructor after checking the
// candidate is currently assignable (not deactivated through the invite
// system). Empty instructorID clears the assignment.
func (s *ClassService) AssignInstructor(ctx context.Context, classID, instructorID string) error {
	class, err := s.Get(ctx, classID)
	if err != nil {
		return err
	}

	if instructorID != "" {
		assignable, err := s.Invites.AssignableInstructors(ctx, class.FranchiseID)
		if err != nil {
			return err
		}
		found := false
		for _, candidate := range assignable {
			if candidate.ID == instructorID {
				found = true
				break
			}
		}
		if !found {
			return ErrInstructorNotAssignable
		}
	}

	return s.Store.Classes().SetPrimaryInstructor(ctx, classID, instructorID)
}
