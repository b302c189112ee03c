package sqlite

import (
	"context"

	"github.com/sohailc94/agmaportal/internal/portal/domain"
)

type beltsRepo struct {
	q dbtx
}

func (r *beltsRepo) AddBeltAward(ctx context.Context, b domain.BeltAward) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO student_belts (id, student_id, belt_name, awarded_by, awarded_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		b.ID, b.StudentID, b.BeltName, b.AwardedBy, b.AwardedAt, b.CreatedAt,
	)
	return err
}

func (r *beltsRepo) ListBeltAwardsByStudent(
	ctx context.Context,
	studentID string,
) ([]domain.BeltAward, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, student_id, belt_name, awarded_by, awarded_at, created_at
		FROM student_belts
		WHERE student_id = ?
		ORDER BY awarded_at DESC, id DESC`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var awards []domain.BeltAward
	for rows.Next() {
		var b domain.BeltAward
		if err := rows.Scan(&b.ID, &b.StudentID, &b.BeltName, &b.AwardedBy, &b.AwardedAt, &b.CreatedAt); err != nil {
			return nil, err
		}
		awards = append(awards, b)
	}
	return awards, rows.Err()
}
