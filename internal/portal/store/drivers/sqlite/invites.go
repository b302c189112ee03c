package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/sohailc94/agmaportal/internal/portal/domain"
)

type invitesRepo struct {
	q dbtx
}

const inviteColumns = `id, franchise_id, invited_by, email, full_name, token, status, created_at, completed_at`

func scanInvite(row interface{ Scan(dest ...any) error }) (domain.Invite, error) {
	var (
		inv         domain.Invite
		status      string
		completedAt sql.NullTime
	)
	err := row.Scan(
		&inv.ID,
		&inv.FranchiseID,
		&inv.InvitedBy,
		&inv.Email,
		&inv.FullName,
		&inv.Token,
		&status,
		&inv.CreatedAt,
		&completedAt,
	)
	if err != nil {
		return domain.Invite{}, err
	}
	inv.Status = domain.InviteStatus(status)
	inv.CompletedAt = mapNullTimePtr(completedAt)
	return inv, nil
}

func (r *invitesRepo) CreateInvite(ctx context.Context, inv domain.Invite) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO instructor_invites (id, franchise_id, invited_by, email, full_name, token, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.FranchiseID, inv.InvitedBy, inv.Email, inv.FullName,
		inv.Token, string(inv.Status), inv.CreatedAt,
	)
	return err
}

func (r *invitesRepo) GetInviteByToken(ctx context.Context, token string) (domain.Invite, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+inviteColumns+` FROM instructor_invites WHERE token = ?`, token)

	inv, err := scanInvite(row)
	if err != nil {
		return domain.Invite{}, mapNotFound(err)
	}
	return inv, nil
}

func (r *invitesRepo) GetLatestInviteByEmail(
	ctx context.Context,
	franchiseID, email string,
) (domain.Invite, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+inviteColumns+` FROM instructor_invites
		WHERE franchise_id = ? AND email = ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1`, franchiseID, email)

	inv, err := scanInvite(row)
	if err != nil {
		return domain.Invite{}, mapNotFound(err)
	}
	return inv, nil
}

func (r *invitesRepo) HasOpenInvite(ctx context.Context, franchiseID, email string) (bool, error) {
	var n int64
	err := r.q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM instructor_invites
		WHERE franchise_id = ? AND email = ? AND status IN ('pending', 'active')`,
		franchiseID, email,
	).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *invitesRepo) ListInvitesByFranchise(
	ctx context.Context,
	franchiseID string,
) ([]domain.Invite, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT `+inviteColumns+` FROM instructor_invites
		WHERE franchise_id = ?
		ORDER BY created_at DESC, id DESC`, franchiseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invites []domain.Invite
	for rows.Next() {
		inv, err := scanInvite(rows)
		if err != nil {
			return nil, err
		}
		invites = append(invites, inv)
	}
	return invites, rows.Err()
}

func (r *invitesRepo) MarkInviteCompleted(
	ctx context.Context,
	inviteID string,
	completedAt time.Time,
) error {
	_, err := r.q.ExecContext(ctx, `
		UPDATE instructor_invites SET status = 'active', completed_at = ?
		WHERE id = ?`, completedAt, inviteID)
	return err
}

func (r *invitesRepo) DeactivateInvites(
	ctx context.Context,
	franchiseID, email string,
) (int64, error) {
	res, err := r.q.ExecContext(ctx, `
		UPDATE instructor_invites SET status = 'inactive'
		WHERE franchise_id = ? AND email = ? AND status != 'inactive'`,
		franchiseID, email)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *invitesRepo) ExpirePendingBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.q.ExecContext(ctx, `
		UPDATE instructor_invites SET status = 'expired'
		WHERE status = 'pending' AND created_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
