package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/sohailc94/agmaportal/internal/portal/crm"
	"github.com/sohailc94/agmaportal/internal/portal/domain"
	"github.com/sohailc94/agmaportal/internal/portal/store"
	"github.com/sohailc94/agmaportal/pkg/cryptox"
	"github.com/sohailc94/agmaportal/pkg/slogx"
)

var (
	ErrInvalidInviteRequest = errors.New("invalid invite request")
	ErrDuplicateInvite      = errors.New("email already has a pending or active invite")
	ErrInviteNotFound       = errors.New("invite not found")
	ErrInviteInactive       = errors.New("invite inactive")
	ErrInvalidFranchise     = errors.New("invalid franchise")
)

// WarnNotifierFailed is the user-visible warning attached to a successful
// invite whose CRM notification could not be delivered. The invite row is
// the durable artifact; losing the notification only means the owner has
// to resend the welcome email by hand.
const WarnNotifierFailed = "invite created, but the CRM notification failed; resend it from the CRM"

type InviteService struct {
	Store    store.Store
	Notifier crm.Notifier
}

// normalizeEmail lowers and trims an address. All invite/profile matching
// is done on the normalized form.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateInvite creates a pending invite for a prospective instructor and
// fires a best-effort notification at the CRM. A non-empty warning on a
// nil error means the invite exists but the notification did not go out.
func (s *InviteService) CreateInvite(
	ctx context.Context,
	franchiseID string,
	issuerID string,
	fullName string,
	email string,
) (domain.Invite, string, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate input.
	fullName = strings.TrimSpace(fullName)
	email = normalizeEmail(email)
	if fullName == "" || email == "" || !strings.Contains(email, "@") {
		return domain.Invite{}, "", ErrInvalidInviteRequest
	}

	// 2. Validate the franchise exists.
	franchise, err := s.Store.Franchises().GetFranchiseByID(ctx, franchiseID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("attempted to create invite for non-existent franchise",
				slog.String("franchise_id", franchiseID),
			)
			return domain.Invite{}, "", ErrInvalidFranchise
		}
		log.Error("failed to fetch franchise", slog.Any("error", err))
		return domain.Invite{}, "", err
	}

	// 3. Reject a second open invite for the same address. The check is an
	// application-level lookup, not a constraint; a race between two
	// issuers can still slip through (tolerated, see HasOpenInvite docs).
	open, err := s.Store.Invites().HasOpenInvite(ctx, franchiseID, email)
	if err != nil {
		log.Error("failed to check for open invites", slog.Any("error", err))
		return domain.Invite{}, "", err
	}
	if open {
		log.Warn("duplicate invite attempt",
			slog.String("franchise_id", franchiseID),
			slog.String("email", email),
		)
		return domain.Invite{}, "", ErrDuplicateInvite
	}

	// 4. Generate the capability token.
	token, err := cryptox.GenerateInviteToken(cryptox.InviteTokenLength)
	if err != nil {
		log.Error("failed to generate invite token", slog.Any("error", err))
		return domain.Invite{}, "", err
	}

	invite := domain.Invite{
		ID:          newID(),
		FranchiseID: franchiseID,
		InvitedBy:   issuerID,
		Email:       email,
		FullName:    fullName,
		Token:       token,
		Status:      domain.InviteStatusPending,
		CreatedAt:   time.Now().UTC(),
	}

	// 5. Persist the invite before anything leaves the process.
	if err := s.Store.Invites().CreateInvite(ctx, invite); err != nil {
		log.Error("failed to create invite",
			slog.String("invite_id", invite.ID),
			slog.Any("error", err),
		)
		return domain.Invite{}, "", err
	}

	// 6. Best-effort CRM notification. The invite row already committed,
	// so delivery failure degrades to a warning and never rolls back.
	warning := ""
	if err := s.Notifier.InviteCreated(ctx, crm.InviteCreatedEvent{
		Type:          "instructor_invite_created",
		InviteID:      invite.ID,
		FranchiseID:   franchiseID,
		FranchiseName: franchise.Name,
		InvitedBy:     issuerID,
		FullName:      fullName,
		Email:         email,
		Token:         token,
	}); err != nil {
		log.Warn("invite notification failed",
			slog.String("invite_id", invite.ID),
			slog.Any("error", err),
		)
		warning = WarnNotifierFailed
	}

	log.Info("instructor invite created",
		slog.String("invite_id", invite.ID),
		slog.String("franchise_id", franchiseID),
		slog.String("email", email),
		slog.Bool("notified", warning == ""),
	)

	return invite, warning, nil
}

// CompleteInvite is called by the webhook once the CRM confirms the
// registrant finished the external signup flow. It activates the invite
// and, when a profile with the address already exists, promotes it to
// instructor under the inviting franchise. Both writes run in a single
// transaction so the response always reflects persisted state.
//
// fullName is optional; when empty the existing profile name is left
// untouched.
func (s *InviteService) CompleteInvite(
	ctx context.Context,
	token string,
	email string,
	fullName string,
) error {
	log := slogx.FromContext(ctx)

	token = strings.TrimSpace(token)
	email = normalizeEmail(email)
	fullName = strings.TrimSpace(fullName)
	if token == "" || email == "" {
		return ErrInvalidInviteRequest
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		// 1. The token is the sole credential: exact-equality lookup.
		invite, err := tx.Invites().GetInviteByToken(ctx, token)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				log.Warn("completion attempted with unknown token")
				return ErrInviteNotFound
			}
			return err
		}

		// 2. Revoked or expired invites cannot be re-activated by replaying
		// an old completion call. Re-completing an active invite is fine.
		if !invite.Status.Completable() {
			log.Warn("completion attempted on closed invite",
				slog.String("invite_id", invite.ID),
				slog.String("status", string(invite.Status)),
			)
			return ErrInviteInactive
		}

		// 3. Primary transition: pending/active -> active with timestamp.
		if err := tx.Invites().MarkInviteCompleted(ctx, invite.ID, time.Now().UTC()); err != nil {
			log.Error("failed to activate invite",
				slog.String("invite_id", invite.ID),
				slog.Any("error", err),
			)
			return err
		}

		// 4. Promote a matching profile when one exists. No profile yet is
		// a silent no-op; the self-registration flow picks up the active
		// invite later.
		profile, err := tx.Profiles().GetProfileByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				log.Info("invite completed, no profile to promote",
					slog.String("invite_id", invite.ID),
				)
				return nil
			}
			return err
		}

		if err := tx.Profiles().SetRoleAndFranchise(
			ctx, profile.ID, domain.RoleInstructor, invite.FranchiseID,
		); err != nil {
			log.Error("failed to promote profile",
				slog.String("profile_id", profile.ID),
				slog.Any("error", err),
			)
			return err
		}

		if fullName != "" {
			if err := tx.Profiles().UpdateFullName(ctx, profile.ID, fullName); err != nil {
				return err
			}
		}

		log.Info("invite completed and profile promoted",
			slog.String("invite_id", invite.ID),
			slog.String("profile_id", profile.ID),
			slog.String("franchise_id", invite.FranchiseID),
		)
		return nil
	})

	return err
}

// DeactivateInstructor revokes an instructor's standing: every non-inactive
// invite for the (franchise, email) pair becomes inactive, and a matching
// instructor profile under the franchise is demoted back to student. This
// is an administrative override, no token involved. Nothing matching is a
// no-op, not an error.
func (s *InviteService) DeactivateInstructor(
	ctx context.Context,
	franchiseID string,
	email string,
) error {
	log := slogx.FromContext(ctx)

	email = normalizeEmail(email)
	if email == "" {
		return ErrInvalidInviteRequest
	}

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		revoked, err := tx.Invites().DeactivateInvites(ctx, franchiseID, email)
		if err != nil {
			log.Error("failed to deactivate invites", slog.Any("error", err))
			return err
		}

		profile, err := tx.Profiles().GetProfileByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				log.Info("instructor deactivated, no profile to demote",
					slog.String("franchise_id", franchiseID),
					slog.Int64("invites_revoked", revoked),
				)
				return nil
			}
			return err
		}

		if profile.Role == domain.RoleInstructor && profile.FranchiseID == franchiseID {
			if err := tx.Profiles().SetRoleAndFranchise(
				ctx, profile.ID, domain.RoleStudent, franchiseID,
			); err != nil {
				log.Error("failed to demote profile",
					slog.String("profile_id", profile.ID),
					slog.Any("error", err),
				)
				return err
			}
		}

		log.Info("instructor deactivated",
			slog.String("franchise_id", franchiseID),
			slog.String("email", email),
			slog.Int64("invites_revoked", revoked),
		)
		return nil
	})
}

// ListInvites returns a franchise's invites, newest first.
func (s *InviteService) ListInvites(
	ctx context.Context,
	franchiseID string,
) ([]domain.Invite, error) {
	return s.Store.Invites().ListInvitesByFranchise(ctx, franchiseID)
}

// AssignableInstructors derives which instructor profiles may be chosen as
// a class's primary instructor: everyone with the role, minus those whose
// most recent invite is inactive. Instructors that predate the invite
// system have no invite row and default to assignable.
func (s *InviteService) AssignableInstructors(
	ctx context.Context,
	franchiseID string,
) ([]domain.Profile, error) {
	instructors, err := s.Store.Profiles().ListInstructorsByFranchise(ctx, franchiseID)
	if err != nil {
		return nil, err
	}

	assignable := make([]domain.Profile, 0, len(instructors))
	for _, instructor := range instructors {
		invite, err := s.Store.Invites().GetLatestInviteByEmail(
			ctx, franchiseID, normalizeEmail(instructor.Email),
		)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				assignable = append(assignable, instructor)
				continue
			}
			return nil, err
		}
		if invite.Status != domain.InviteStatusInactive {
			assignable = append(assignable, instructor)
		}
	}
	return assignable, nil
}

// ExpireStale marks pending invites older than ttl as expired. Called by
// the housekeeping sweep; expired invites behave like inactive ones at the
// webhook.
func (s *InviteService) ExpireStale(ctx context.Context, ttl time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-ttl)
	return s.Store.Invites().ExpirePendingBefore(ctx, cutoff)
}
