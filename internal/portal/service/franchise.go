package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sohailc94/agmaportal/internal/portal/domain"
	"github.com/sohailc94/agmaportal/internal/portal/store"
)

var (
	ErrFranchiseNotFound = errors.New("franchise not found")
	ErrInvalidName       = errors.New("franchise name is required")
)

// FranchiseService manages franchise records and the head-office overview.
type FranchiseService struct {
	Store store.Store
}

// FranchiseOverview is a franchise plus the aggregate counts shown on the
// head-office dashboard.
type FranchiseOverview struct {
	Franchise    domain.Franchise
	StudentCount int64
	ClassCount   int64
}

// Create registers a new franchise, optionally linked to an owner profile.
func (s *FranchiseService) Create(ctx context.Context, name, ownerID string) (domain.Franchise, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Franchise{}, ErrInvalidName
	}

	if ownerID != "" {
		if _, err := s.Store.Profiles().GetProfileByID(ctx, ownerID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return domain.Franchise{}, ErrProfileNotFound
			}
			return domain.Franchise{}, fmt.Errorf("lookup owner: %w", err)
		}
	}

	f := domain.Franchise{
		ID:        newID(),
		Name:      name,
		OwnerID:   ownerID,
		CreatedAt: nowUTC(),
	}

	if err := s.Store.Franchises().CreateFranchise(ctx, f); err != nil {
		return domain.Franchise{}, fmt.Errorf("create franchise: %w", err)
	}

	return f, nil
}

// Get returns a single franchise by id.
func (s *FranchiseService) Get(ctx context.Context, id string) (domain.Franchise, error) {
	f, err := s.Store.Franchises().GetFranchiseByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Franchise{}, ErrFranchiseNotFound
		}
		return domain.Franchise{}, fmt.Errorf("get franchise: %w", err)
	}
	return f, nil
}

// List returns every franchise.
func (s *FranchiseService) List(ctx context.Context) ([]domain.Franchise, error) {
	fs, err := s.Store.Franchises().ListFranchises(ctx)
	if err != nil {
		return nil, fmt.Errorf("list franchises: %w", err)
	}
	return fs, nil
}

// Overview returns every franchise with its student and class counts.
func (s *FranchiseService) Overview(ctx context.Context) ([]FranchiseOverview, error) {
	fs, err := s.Store.Franchises().ListFranchises(ctx)
	if err != nil {
		return nil, fmt.Errorf("list franchises: %w", err)
	}

	out := make([]FranchiseOverview, 0, len(fs))
	for _, f := range fs {
		students, err := s.Store.Students().CountStudentsByFranchise(ctx, f.ID)
		if err != nil {
			return nil, fmt.Errorf("count students for %s: %w", f.ID, err)
		}
		classes, err := s.Store.Classes().CountClassesByFranchise(ctx, f.ID)
		if err != nil {
			return nil, fmt.Errorf("count classes for %s: %w", f.ID, err)
		}
		out = append(out, FranchiseOverview{
			Franchise:    f,
			StudentCount: students,
			ClassCount:   classes,
		})
	}

	return out, nil
}
