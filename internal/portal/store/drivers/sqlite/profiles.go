package sqlite

import (
	"context"
	"database/sql"

	"github.com/sohailc94/agmaportal/internal/portal/domain"
)

type profilesRepo struct {
	q dbtx
}

const profileColumns = `id, role, franchise_id, email, full_name, avatar_key, created_at, updated_at`

func scanProfile(row interface{ Scan(dest ...any) error }) (domain.Profile, error) {
	var (
		p           domain.Profile
		role        string
		franchiseID sql.NullString
	)
	err := row.Scan(
		&p.ID,
		&role,
		&franchiseID,
		&p.Email,
		&p.FullName,
		&p.AvatarKey,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return domain.Profile{}, err
	}
	p.Role = domain.Role(role)
	p.FranchiseID = mapNullString(franchiseID)
	return p, nil
}

func (r *profilesRepo) CreateProfile(ctx context.Context, p domain.Profile) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO profiles (id, role, franchise_id, email, full_name, avatar_key, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, string(p.Role), mapStringNull(p.FranchiseID), p.Email,
		p.FullName, p.AvatarKey, p.CreatedAt, p.UpdatedAt,
	)
	return err
}

func (r *profilesRepo) GetProfileByID(ctx context.Context, id string) (domain.Profile, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+profileColumns+` FROM profiles WHERE id = ?`, id)

	p, err := scanProfile(row)
	if err != nil {
		return domain.Profile{}, mapNotFound(err)
	}
	return p, nil
}

func (r *profilesRepo) GetProfileByEmail(ctx context.Context, email string) (domain.Profile, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+profileColumns+` FROM profiles WHERE email = ?`, email)

	p, err := scanProfile(row)
	if err != nil {
		return domain.Profile{}, mapNotFound(err)
	}
	return p, nil
}

func (r *profilesRepo) ListInstructorsByFranchise(
	ctx context.Context,
	franchiseID string,
) ([]domain.Profile, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT `+profileColumns+` FROM profiles
		WHERE franchise_id = ? AND role = 'instructor'
		ORDER BY full_name, id`, franchiseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []domain.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

func (r *profilesRepo) SetRoleAndFranchise(
	ctx context.Context,
	profileID string,
	role domain.Role,
	franchiseID string,
) error {
	_, err := r.q.ExecContext(ctx, `
		UPDATE profiles SET role = ?, franchise_id = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`, string(role), mapStringNull(franchiseID), profileID)
	return err
}

func (r *profilesRepo) UpdateFullName(ctx context.Context, profileID, fullName string) error {
	_, err := r.q.ExecContext(ctx, `
		UPDATE profiles SET full_name = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`, fullName, profileID)
	return err
}

func (r *profilesRepo) SetAvatarKey(ctx context.Context, profileID, key string) error {
	_, err := r.q.ExecContext(ctx, `
		UPDATE profiles SET avatar_key = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`, key, profileID)
	return err
}
