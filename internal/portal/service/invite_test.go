package service

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sohailc94/agmaportal/internal/portal/crm"
	"github.com/sohailc94/agmaportal/internal/portal/domain"
	"github.com/sohailc94/agmaportal/internal/portal/store"
	"github.com/sohailc94/agmaportal/internal/portal/store/drivers/sqlite"
)

type captureNotifier struct {
	events []crm.InviteCreatedEvent
	err    error
}

func (n *captureNotifier) InviteCreated(_ context.Context, ev crm.InviteCreatedEvent) error {
	if n.err != nil {
		return n.err
	}
	n.events = append(n.events, ev)
	return nil
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func seedFranchise(t *testing.T, st store.Store) domain.Franchise {
	t.Helper()

	f := domain.Franchise{
		ID:        newID(),
		Name:      "Northside Dojo",
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, st.Franchises().CreateFranchise(context.Background(), f))
	return f
}

func seedProfile(t *testing.T, st store.Store, role domain.Role, franchiseID, email string) domain.Profile {
	t.Helper()

	now := time.Now().UTC()
	p := domain.Profile{
		ID:          newID(),
		Role:        role,
		FranchiseID: franchiseID,
		Email:       email,
		FullName:    "Seed Person",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, st.Profiles().CreateProfile(context.Background(), p))
	return p
}

func TestCreateInvite(t *testing.T) {
	ctx := context.Background()

	t.Run("creates pending invite and notifies CRM", func(t *testing.T) {
		st := newTestStore(t)
		franchise := seedFranchise(t, st)
		notifier := &captureNotifier{}
		svc := &InviteService{Store: st, Notifier: notifier}

		invite, warning, err := svc.CreateInvite(ctx, franchise.ID, "owner-1", "Jane Doe", "jane@example.com")
		require.NoError(t, err)
		require.Empty(t, warning)
		require.Equal(t, domain.InviteStatusPending, invite.Status)
		require.Equal(t, franchise.ID, invite.FranchiseID)
		require.Nil(t, invite.CompletedAt)

		// 48 lowercase hex chars, unguessable link token
		require.Regexp(t, regexp.MustCompile(`^[0-9a-f]{48}$`), invite.Token)

		require.Len(t, notifier.events, 1)
		ev := notifier.events[0]
		require.Equal(t, "instructor_invite_created", ev.Type)
		require.Equal(t, invite.Token, ev.Token)
		require.Equal(t, "jane@example.com", ev.Email)
		require.Equal(t, franchise.Name, ev.FranchiseName)
	})

	t.Run("normalizes email to lowercase", func(t *testing.T) {
		st := newTestStore(t)
		franchise := seedFranchise(t, st)
		svc := &InviteService{Store: st, Notifier: &captureNotifier{}}

		invite, _, err := svc.CreateInvite(ctx, franchise.ID, "owner-1", "Jane Doe", "  Jane@Example.COM ")
		require.NoError(t, err)
		require.Equal(t, "jane@example.com", invite.Email)
	})

	t.Run("rejects missing name or bad email", func(t *testing.T) {
		st := newTestStore(t)
		franchise := seedFranchise(t, st)
		svc := &InviteService{Store: st, Notifier: &captureNotifier{}}

		_, _, err := svc.CreateInvite(ctx, franchise.ID, "owner-1", "", "jane@example.com")
		require.ErrorIs(t, err, ErrInvalidInviteRequest)

		_, _, err = svc.CreateInvite(ctx, franchise.ID, "owner-1", "Jane Doe", "not-an-email")
		require.ErrorIs(t, err, ErrInvalidInviteRequest)
	})

	t.Run("rejects unknown franchise", func(t *testing.T) {
		st := newTestStore(t)
		svc := &InviteService{Store: st, Notifier: &captureNotifier{}}

		_, _, err := svc.CreateInvite(ctx, "missing", "owner-1", "Jane Doe", "jane@example.com")
		require.ErrorIs(t, err, ErrInvalidFranchise)
	})

	t.Run("rejects second open invite for same email", func(t *testing.T) {
		st := newTestStore(t)
		franchise := seedFranchise(t, st)
		svc := &InviteService{Store: st, Notifier: &captureNotifier{}}

		_, _, err := svc.CreateInvite(ctx, franchise.ID, "owner-1", "Jane Doe", "jane@example.com")
		require.NoError(t, err)

		// Same address with different case is still the same invitee.
		_, _, err = svc.CreateInvite(ctx, franchise.ID, "owner-1", "Jane Doe", "JANE@example.com")
		require.ErrorIs(t, err, ErrDuplicateInvite)
	})

	t.Run("notifier failure leaves invite standing with warning", func(t *testing.T) {
		st := newTestStore(t)
		franchise := seedFranchise(t, st)
		notifier := &captureNotifier{err: errors.New("crm is down")}
		svc := &InviteService{Store: st, Notifier: notifier}

		invite, warning, err := svc.CreateInvite(ctx, franchise.ID, "owner-1", "Jane Doe", "jane@example.com")
		require.NoError(t, err)
		require.Equal(t, WarnNotifierFailed, warning)

		persisted, err := st.Invites().GetInviteByToken(ctx, invite.Token)
		require.NoError(t, err)
		require.Equal(t, domain.InviteStatusPending, persisted.Status)
	})

	t.Run("tokens are unique across invites", func(t *testing.T) {
		st := newTestStore(t)
		franchise := seedFranchise(t, st)
		svc := &InviteService{Store: st, Notifier: &captureNotifier{}}

		seen := map[string]bool{}
		for i, email := range []string{"a@x.com", "b@x.com", "c@x.com"} {
			invite, _, err := svc.CreateInvite(ctx, franchise.ID, "owner-1", "Person", email)
			require.NoError(t, err, "invite %d", i)
			require.False(t, seen[invite.Token])
			seen[invite.Token] = true
		}
	})
}

func TestCompleteInvite(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (store.Store, *InviteService, domain.Franchise, domain.Invite) {
		st := newTestStore(t)
		franchise := seedFranchise(t, st)
		svc := &InviteService{Store: st, Notifier: &captureNotifier{}}
		invite, _, err := svc.CreateInvite(ctx, franchise.ID, "owner-1", "Jane Doe", "jane@example.com")
		require.NoError(t, err)
		return st, svc, franchise, invite
	}

	t.Run("activates invite and promotes matching profile", func(t *testing.T) {
		st, svc, franchise, invite := setup(t)
		profile := seedProfile(t, st, domain.RoleStudent, "", "jane@example.com")

		require.NoError(t, svc.CompleteInvite(ctx, invite.Token, "jane@example.com", "Jane D."))

		updated, err := st.Invites().GetInviteByToken(ctx, invite.Token)
		require.NoError(t, err)
		require.Equal(t, domain.InviteStatusActive, updated.Status)
		require.NotNil(t, updated.CompletedAt)

		promoted, err := st.Profiles().GetProfileByID(ctx, profile.ID)
		require.NoError(t, err)
		require.Equal(t, domain.RoleInstructor, promoted.Role)
		require.Equal(t, franchise.ID, promoted.FranchiseID)
		require.Equal(t, "Jane D.", promoted.FullName)
	})

	t.Run("matches profile email case-insensitively", func(t *testing.T) {
		st, svc, _, invite := setup(t)
		profile := seedProfile(t, st, domain.RoleStudent, "", "jane@example.com")

		require.NoError(t, svc.CompleteInvite(ctx, invite.Token, "JANE@Example.com", ""))

		promoted, err := st.Profiles().GetProfileByID(ctx, profile.ID)
		require.NoError(t, err)
		require.Equal(t, domain.RoleInstructor, promoted.Role)
	})

	t.Run("leaves name untouched when omitted", func(t *testing.T) {
		st, svc, _, invite := setup(t)
		profile := seedProfile(t, st, domain.RoleStudent, "", "jane@example.com")

		require.NoError(t, svc.CompleteInvite(ctx, invite.Token, "jane@example.com", ""))

		promoted, err := st.Profiles().GetProfileByID(ctx, profile.ID)
		require.NoError(t, err)
		require.Equal(t, profile.FullName, promoted.FullName)
	})

	t.Run("no profile is a silent no-op on the profile side", func(t *testing.T) {
		st, svc, _, invite := setup(t)

		require.NoError(t, svc.CompleteInvite(ctx, invite.Token, "jane@example.com", "Jane"))

		updated, err := st.Invites().GetInviteByToken(ctx, invite.Token)
		require.NoError(t, err)
		require.Equal(t, domain.InviteStatusActive, updated.Status)
	})

	t.Run("is idempotent for CRM retries", func(t *testing.T) {
		st, svc, _, invite := setup(t)
		seedProfile(t, st, domain.RoleStudent, "", "jane@example.com")

		require.NoError(t, svc.CompleteInvite(ctx, invite.Token, "jane@example.com", "Jane"))
		require.NoError(t, svc.CompleteInvite(ctx, invite.Token, "jane@example.com", "Jane"))

		updated, err := st.Invites().GetInviteByToken(ctx, invite.Token)
		require.NoError(t, err)
		require.Equal(t, domain.InviteStatusActive, updated.Status)
	})

	t.Run("unknown token", func(t *testing.T) {
		_, svc, _, _ := setup(t)

		err := svc.CompleteInvite(ctx, "0000000000000000000000000000000000000000deadbeef", "jane@example.com", "")
		require.ErrorIs(t, err, ErrInviteNotFound)
	})

	t.Run("missing token or email", func(t *testing.T) {
		_, svc, _, invite := setup(t)

		require.ErrorIs(t, svc.CompleteInvite(ctx, "", "jane@example.com", ""), ErrInvalidInviteRequest)
		require.ErrorIs(t, svc.CompleteInvite(ctx, invite.Token, "", ""), ErrInvalidInviteRequest)
	})

	t.Run("revoked invite cannot be reactivated by replay", func(t *testing.T) {
		st, svc, franchise, invite := setup(t)
		profile := seedProfile(t, st, domain.RoleStudent, "", "jane@example.com")

		require.NoError(t, svc.DeactivateInstructor(ctx, franchise.ID, "jane@example.com"))

		err := svc.CompleteInvite(ctx, invite.Token, "jane@example.com", "Jane")
		require.ErrorIs(t, err, ErrInviteInactive)

		// The failed replay must not have promoted anyone.
		unchanged, err := st.Profiles().GetProfileByID(ctx, profile.ID)
		require.NoError(t, err)
		require.Equal(t, domain.RoleStudent, unchanged.Role)
	})

	t.Run("expired invite behaves like a revoked one", func(t *testing.T) {
		st := newTestStore(t)
		franchise := seedFranchise(t, st)
		svc := &InviteService{Store: st, Notifier: &captureNotifier{}}

		stale := domain.Invite{
			ID:          newID(),
			FranchiseID: franchise.ID,
			InvitedBy:   "owner-1",
			Email:       "old@example.com",
			FullName:    "Old Invitee",
			Token:       "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
			Status:      domain.InviteStatusPending,
			CreatedAt:   time.Now().UTC().Add(-30 * 24 * time.Hour),
		}
		require.NoError(t, st.Invites().CreateInvite(ctx, stale))

		expired, err := svc.ExpireStale(ctx, 14*24*time.Hour)
		require.NoError(t, err)
		require.EqualValues(t, 1, expired)

		err = svc.CompleteInvite(ctx, stale.Token, "old@example.com", "")
		require.ErrorIs(t, err, ErrInviteInactive)
	})
}

func TestDeactivateInstructor(t *testing.T) {
	ctx := context.Background()

	t.Run("revokes invites and demotes the profile", func(t *testing.T) {
		st := newTestStore(t)
		franchise := seedFranchise(t, st)
		svc := &InviteService{Store: st, Notifier: &captureNotifier{}}

		invite, _, err := svc.CreateInvite(ctx, franchise.ID, "owner-1", "Jane Doe", "jane@example.com")
		require.NoError(t, err)
		profile := seedProfile(t, st, domain.RoleStudent, "", "jane@example.com")
		require.NoError(t, svc.CompleteInvite(ctx, invite.Token, "jane@example.com", ""))

		require.NoError(t, svc.DeactivateInstructor(ctx, franchise.ID, "Jane@Example.com"))

		revoked, err := st.Invites().GetInviteByToken(ctx, invite.Token)
		require.NoError(t, err)
		require.Equal(t, domain.InviteStatusInactive, revoked.Status)

		demoted, err := st.Profiles().GetProfileByID(ctx, profile.ID)
		require.NoError(t, err)
		require.Equal(t, domain.RoleStudent, demoted.Role)
		require.Equal(t, franchise.ID, demoted.FranchiseID)
	})

	t.Run("nothing matching is a no-op", func(t *testing.T) {
		st := newTestStore(t)
		franchise := seedFranchise(t, st)
		svc := &InviteService{Store: st, Notifier: &captureNotifier{}}

		require.NoError(t, svc.DeactivateInstructor(ctx, franchise.ID, "ghost@example.com"))
	})

	t.Run("does not demote instructors of other franchises", func(t *testing.T) {
		st := newTestStore(t)
		franchise := seedFranchise(t, st)
		other := domain.Franchise{ID: newID(), Name: "Southside Dojo", CreatedAt: time.Now().UTC()}
		require.NoError(t, st.Franchises().CreateFranchise(ctx, other))

		profile := seedProfile(t, st, domain.RoleInstructor, other.ID, "jane@example.com")
		svc := &InviteService{Store: st, Notifier: &captureNotifier{}}

		require.NoError(t, svc.DeactivateInstructor(ctx, franchise.ID, "jane@example.com"))

		unchanged, err := st.Profiles().GetProfileByID(ctx, profile.ID)
		require.NoError(t, err)
		require.Equal(t, domain.RoleInstructor, unchanged.Role)
	})

	t.Run("requires an email", func(t *testing.T) {
		st := newTestStore(t)
		franchise := seedFranchise(t, st)
		svc := &InviteService{Store: st, Notifier: &captureNotifier{}}

		require.ErrorIs(t, svc.DeactivateInstructor(ctx, franchise.ID, "  "), ErrInvalidInviteRequest)
	})
}

func TestAssignableInstructors(t *testing.T) {
	ctx := context.Background()

	st := newTestStore(t)
	franchise := seedFranchise(t, st)
	svc := &InviteService{Store: st, Notifier: &captureNotifier{}}

	// Active instructor: invited, completed.
	invited, _, err := svc.CreateInvite(ctx, franchise.ID, "owner-1", "Active Ann", "ann@example.com")
	require.NoError(t, err)
	ann := seedProfile(t, st, domain.RoleStudent, "", "ann@example.com")
	require.NoError(t, svc.CompleteInvite(ctx, invited.Token, "ann@example.com", ""))

	// Legacy instructor: no invite history at all.
	bob := seedProfile(t, st, domain.RoleInstructor, franchise.ID, "bob@example.com")

	// Deactivated instructor.
	revokedInvite, _, err := svc.CreateInvite(ctx, franchise.ID, "owner-1", "Revoked Rob", "rob@example.com")
	require.NoError(t, err)
	rob := seedProfile(t, st, domain.RoleStudent, "", "rob@example.com")
	require.NoError(t, svc.CompleteInvite(ctx, revokedInvite.Token, "rob@example.com", ""))
	require.NoError(t, svc.DeactivateInstructor(ctx, franchise.ID, "rob@example.com"))

	// Instructor whose latest invite was revoked but who still holds the
	// role, e.g. revoked before the demotion rule existed.
	carl := seedProfile(t, st, domain.RoleInstructor, franchise.ID, "carl@example.com")
	require.NoError(t, st.Invites().CreateInvite(ctx, domain.Invite{
		ID:          newID(),
		FranchiseID: franchise.ID,
		InvitedBy:   "owner-1",
		Email:       "carl@example.com",
		FullName:    "Carl",
		Token:       "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb",
		Status:      domain.InviteStatusInactive,
		CreatedAt:   time.Now().UTC(),
	}))

	assignable, err := svc.AssignableInstructors(ctx, franchise.ID)
	require.NoError(t, err)

	ids := make([]string, 0, len(assignable))
	for _, p := range assignable {
		ids = append(ids, p.ID)
	}
	require.Contains(t, ids, ann.ID)
	require.Contains(t, ids, bob.ID)
	require.NotContains(t, ids, rob.ID)
	require.NotContains(t, ids, carl.ID)
}
