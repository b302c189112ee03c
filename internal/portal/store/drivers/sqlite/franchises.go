package sqlite

import (
	"context"

	"github.com/sohailc94/agmaportal/internal/portal/domain"
)

type franchisesRepo struct {
	q dbtx
}

func (r *franchisesRepo) CreateFranchise(ctx context.Context, f domain.Franchise) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO franchises (id, name, owner_id, created_at)
		VALUES (?, ?, ?, ?)`,
		f.ID, f.Name, f.OwnerID, f.CreatedAt,
	)
	return err
}

func (r *franchisesRepo) GetFranchiseByID(ctx context.Context, id string) (domain.Franchise, error) {
	var f domain.Franchise
	err := r.q.QueryRowContext(ctx, `
		SELECT id, name, owner_id, created_at FROM franchises WHERE id = ?`, id,
	).Scan(&f.ID, &f.Name, &f.OwnerID, &f.CreatedAt)
	if err != nil {
		return domain.Franchise{}, mapNotFound(err)
	}
	return f, nil
}

func (r *franchisesRepo) ListFranchises(ctx context.Context) ([]domain.Franchise, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, name, owner_id, created_at FROM franchises ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var franchises []domain.Franchise
	for rows.Next() {
		var f domain.Franchise
		if err := rows.Scan(&f.ID, &f.Name, &f.OwnerID, &f.CreatedAt); err != nil {
			return nil, err
		}
		franchises = append(franchises, f)
	}
	return franchises, rows.Err()
}
