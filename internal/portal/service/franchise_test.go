package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sohailc94/agmaportal/internal/portal/domain"
)

func TestFranchiseOverview(t *testing.T) {
	ctx := context.Background()

	st := newTestStore(t)
	svc := &FranchiseService{Store: st}
	students := &StudentService{Store: st}
	classes := &ClassService{Store: st, Invites: &InviteService{Store: st, Notifier: &captureNotifier{}}}

	north, err := svc.Create(ctx, "Northside Dojo", "")
	require.NoError(t, err)
	south, err := svc.Create(ctx, "Southside Dojo", "")
	require.NoError(t, err)

	for range 3 {
		_, err := students.Enroll(ctx, domain.Student{FranchiseID: north.ID, FirstName: "Kid", LastName: "North"})
		require.NoError(t, err)
	}
	_, err = students.Enroll(ctx, domain.Student{FranchiseID: south.ID, FirstName: "Kid", LastName: "South"})
	require.NoError(t, err)

	_, err = classes.Create(ctx, domain.Class{FranchiseID: north.ID, Name: "Juniors", DayOfWeek: 1})
	require.NoError(t, err)

	overview, err := svc.Overview(ctx)
	require.NoError(t, err)
	require.Len(t, overview, 2)

	byID := map[string]FranchiseOverview{}
	for _, o := range overview {
		byID[o.Franchise.ID] = o
	}
	require.EqualValues(t, 3, byID[north.ID].StudentCount)
	require.EqualValues(t, 1, byID[north.ID].ClassCount)
	require.EqualValues(t, 1, byID[south.ID].StudentCount)
	require.EqualValues(t, 0, byID[south.ID].ClassCount)
}

func TestFranchiseCreate(t *testing.T) {
	ctx := context.Background()

	st := newTestStore(t)
	svc := &FranchiseService{Store: st}

	t.Run("requires a name", func(t *testing.T) {
		_, err := svc.Create(ctx, "  ", "")
		require.ErrorIs(t, err, ErrInvalidName)
	})

	t.Run("rejects an unknown owner", func(t *testing.T) {
		_, err := svc.Create(ctx, "Eastside Dojo", "missing-owner")
		require.ErrorIs(t, err, ErrProfileNotFound)
	})

	t.Run("links an existing owner", func(t *testing.T) {
		owner := seedProfile(t, st, domain.RoleFranchiseOwner, "", "owner@example.com")

		franchise, err := svc.Create(ctx, "Eastside Dojo", owner.ID)
		require.NoError(t, err)
		require.Equal(t, owner.ID, franchise.OwnerID)

		fetched, err := svc.Get(ctx, franchise.ID)
		require.NoError(t, err)
		require.Equal(t, franchise, fetched)
	})
}
