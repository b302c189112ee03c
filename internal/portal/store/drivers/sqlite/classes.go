package sqlite

import (
	"context"
	"database/sql"

	"github.com/sohailc94/agmaportal/internal/portal/domain"
)

type classesRepo struct {
	q dbtx
}

const classColumns = `id, franchise_id, name, day_of_week, start_time, end_time, location,
	is_active, primary_instructor_id, created_at, updated_at`

func scanClass(row interface{ Scan(dest ...any) error }) (domain.Class, error) {
	var (
		c            domain.Class
		instructorID sql.NullString
	)
	err := row.Scan(
		&c.ID,
		&c.FranchiseID,
		&c.Name,
		&c.DayOfWeek,
		&c.StartTime,
		&c.EndTime,
		&c.Location,
		&c.IsActive,
		&instructorID,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return domain.Class{}, err
	}
	c.PrimaryInstructorID = mapNullString(instructorID)
	return c, nil
}

func (r *classesRepo) CreateClass(ctx context.Context, c domain.Class) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO classes (
			id, franchise_id, name, day_of_week, start_time, end_time, location,
			is_active, primary_instructor_id, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.FranchiseID, c.Name, c.DayOfWeek, c.StartTime, c.EndTime, c.Location,
		c.IsActive, mapStringNull(c.PrimaryInstructorID), c.CreatedAt, c.UpdatedAt,
	)
	return err
}

func (r *classesRepo) GetClassByID(ctx context.Context, id string) (domain.Class, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+classColumns+` FROM classes WHERE id = ?`, id)

	c, err := scanClass(row)
	if err != nil {
		return domain.Class{}, mapNotFound(err)
	}
	return c, nil
}

func (r *classesRepo) ListClassesByFranchise(
	ctx context.Context,
	franchiseID string,
) ([]domain.Class, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT `+classColumns+` FROM classes
		WHERE franchise_id = ?
		ORDER BY day_of_week, start_time, id`, franchiseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var classes []domain.Class
	for rows.Next() {
		c, err := scanClass(rows)
		if err != nil {
			return nil, err
		}
		classes = append(classes, c)
	}
	return classes, rows.Err()
}

func (r *classesRepo) UpdateClass(ctx context.Context, c domain.Class) error {
	_, err := r.q.ExecContext(ctx, `
		UPDATE classes SET
			name = ?, day_of_week = ?, start_time = ?, end_time = ?, location = ?,
			is_active = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		c.Name, c.DayOfWeek, c.StartTime, c.EndTime, c.Location, c.IsActive, c.ID,
	)
	return err
}

func (r *classesRepo) SetPrimaryInstructor(ctx context.Context, classID, instructorID string) error {
	_, err := r.q.ExecContext(ctx, `
		UPDATE classes SET primary_instructor_id = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`, mapStringNull(instructorID), classID)
	return err
}

func (r *classesRepo) CountClassesByFranchise(
	ctx context.Context,
	franchiseID string,
) (int64, error) {
	var n int64
	err := r.q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM classes WHERE franchise_id = ?`, franchiseID).Scan(&n)
	return n, err
}
