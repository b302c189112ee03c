package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sohailc94/agmaportal/internal/portal/domain"
)

func TestClassCreateAndUpdate(t *testing.T) {
	ctx := context.Background()

	st := newTestStore(t)
	franchise := seedFranchise(t, st)
	svc := &ClassService{Store: st, Invites: &InviteService{Store: st, Notifier: &captureNotifier{}}}

	t.Run("create validates name and day", func(t *testing.T) {
		_, err := svc.Create(ctx, domain.Class{FranchiseID: franchise.ID, Name: " ", DayOfWeek: 1})
		require.ErrorIs(t, err, ErrInvalidClass)

		_, err = svc.Create(ctx, domain.Class{FranchiseID: franchise.ID, Name: "Adults", DayOfWeek: 7})
		require.ErrorIs(t, err, ErrInvalidClass)
	})

	t.Run("new classes start active", func(t *testing.T) {
		class, err := svc.Create(ctx, domain.Class{
			FranchiseID: franchise.ID,
			Name:        "Adults Tuesday",
			DayOfWeek:   2,
			StartTime:   "18:30",
			EndTime:     "19:30",
		})
		require.NoError(t, err)
		require.True(t, class.IsActive)
		require.NotEmpty(t, class.ID)
	})

	t.Run("update requires an existing class", func(t *testing.T) {
		err := svc.Update(ctx, domain.Class{ID: "missing", Name: "Renamed"})
		require.ErrorIs(t, err, ErrClassNotFound)
	})
}

func TestAssignInstructor(t *testing.T) {
	ctx := context.Background()

	st := newTestStore(t)
	franchise := seedFranchise(t, st)
	invites := &InviteService{Store: st, Notifier: &captureNotifier{}}
	svc := &ClassService{Store: st, Invites: invites}

	class, err := svc.Create(ctx, domain.Class{
		FranchiseID: franchise.ID,
		Name:        "Juniors Wednesday",
		DayOfWeek:   3,
		StartTime:   "16:00",
		EndTime:     "17:00",
	})
	require.NoError(t, err)

	instructor := seedProfile(t, st, domain.RoleInstructor, franchise.ID, "sensei@example.com")

	t.Run("assigns an eligible instructor", func(t *testing.T) {
		require.NoError(t, svc.AssignInstructor(ctx, class.ID, instructor.ID))

		updated, err := svc.Get(ctx, class.ID)
		require.NoError(t, err)
		require.Equal(t, instructor.ID, updated.PrimaryInstructorID)
	})

	t.Run("rejects a deactivated instructor", func(t *testing.T) {
		revoked, _, err := invites.CreateInvite(ctx, franchise.ID, "owner-1", "Revoked Rob", "rob@example.com")
		require.NoError(t, err)
		rob := seedProfile(t, st, domain.RoleStudent, "", "rob@example.com")
		require.NoError(t, invites.CompleteInvite(ctx, revoked.Token, "rob@example.com", ""))
		require.NoError(t, invites.DeactivateInstructor(ctx, franchise.ID, "rob@example.com"))

		err = svc.AssignInstructor(ctx, class.ID, rob.ID)
		require.ErrorIs(t, err, ErrInstructorNotAssignable)
	})

	t.Run("rejects profiles outside the franchise", func(t *testing.T) {
		outsider := seedProfile(t, st, domain.RoleInstructor, "other-franchise", "out@example.com")

		err := svc.AssignInstructor(ctx, class.ID, outsider.ID)
		require.ErrorIs(t, err, ErrInstructorNotAssignable)
	})

	t.Run("empty id clears the assignment", func(t *testing.T) {
		require.NoError(t, svc.AssignInstructor(ctx, class.ID, ""))

		updated, err := svc.Get(ctx, class.ID)
		require.NoError(t, err)
		require.Empty(t, updated.PrimaryInstructorID)
	})

	t.Run("unknown class", func(t *testing.T) {
		err := svc.AssignInstructor(ctx, "missing", instructor.ID)
		require.ErrorIs(t, err, ErrClassNotFound)
	})
}
