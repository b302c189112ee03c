package service

import (
	"context"
	"errors"
	"strings"

	"github.com/sohailc94/agmaportal/internal/portal/domain"
	"github.com/sohailc94/agmaportal/internal/portal/store"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrInvalidProfile  = errors.New("invalid profile")
)

type ProfileService struct {
	Store store.Store
}

// Register inserts the profile record behind a freshly created identity.
// The id comes from the external auth provider; the portal never mints
// identities itself.
func (s *ProfileService) Register(ctx context.Context, p domain.Profile) (domain.Profile, error) {
	p.Email = normalizeEmail(p.Email)
	p.FullName = strings.TrimSpace(p.FullName)
	if p.ID == "" || p.Email == "" || !strings.Contains(p.Email, "@") {
		return domain.Profile{}, ErrInvalidProfile
	}
	if !p.Role.Valid() {
		p.Role = domain.RoleStudent
	}

	now := nowUTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	if err := s.Store.Profiles().CreateProfile(ctx, p); err != nil {
		return domain.Profile{}, err
	}
	return p, nil
}

// Get returns the profile for an id, used for role-based routing after
// login: the client renders the dashboard matching Profile.Role.
func (s *ProfileService) Get(ctx context.Context, id string) (domain.Profile, error) {
	profile, err := s.Store.Profiles().GetProfileByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Profile{}, ErrProfileNotFound
		}
		return domain.Profile{}, err
	}
	return profile, nil
}

// UpdateFullName changes the display name.
func (s *ProfileService) UpdateFullName(ctx context.Context, id, fullName string) error {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return ErrInvalidProfile
	}
	return s.Store.Profiles().UpdateFullName(ctx, id, fullName)
}
