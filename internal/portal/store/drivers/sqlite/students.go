package sqlite

import (
	"context"
	"database/sql"

	"github.com/sohailc94/agmaportal/internal/portal/domain"
)

type studentsRepo struct {
	q dbtx
}

const studentColumns = `id, profile_id, franchise_id, home_class_id, first_name, last_name, dob, status,
	phone, address, guardian_is_registering, guardian_name, guardian_relationship,
	guardian_email, guardian_phone, medical_info, created_at, updated_at`

func scanStudent(row interface{ Scan(dest ...any) error }) (domain.Student, error) {
	var (
		s           domain.Student
		profileID   sql.NullString
		homeClassID sql.NullString
	)
	err := row.Scan(
		&s.ID,
		&profileID,
		&s.FranchiseID,
		&homeClassID,
		&s.FirstName,
		&s.LastName,
		&s.DOB,
		&s.Status,
		&s.Phone,
		&s.Address,
		&s.GuardianIsRegistering,
		&s.GuardianName,
		&s.GuardianRelationship,
		&s.GuardianEmail,
		&s.GuardianPhone,
		&s.MedicalInfo,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return domain.Student{}, err
	}
	s.ProfileID = mapNullString(profileID)
	s.HomeClassID = mapNullString(homeClassID)
	return s, nil
}

func (r *studentsRepo) CreateStudent(ctx context.Context, s domain.Student) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO students (
			id, profile_id, franchise_id, home_class_id, first_name, last_name, dob, status,
			phone, address, guardian_is_registering, guardian_name, guardian_relationship,
			guardian_email, guardian_phone, medical_info, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, mapStringNull(s.ProfileID), s.FranchiseID, mapStringNull(s.HomeClassID),
		s.FirstName, s.LastName, s.DOB, s.Status,
		s.Phone, s.Address, s.GuardianIsRegistering, s.GuardianName, s.GuardianRelationship,
		s.GuardianEmail, s.GuardianPhone, s.MedicalInfo, s.CreatedAt, s.UpdatedAt,
	)
	return err
}

func (r *studentsRepo) GetStudentByID(ctx context.Context, id string) (domain.Student, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+studentColumns+` FROM students WHERE id = ?`, id)

	s, err := scanStudent(row)
	if err != nil {
		return domain.Student{}, mapNotFound(err)
	}
	return s, nil
}

func (r *studentsRepo) GetStudentByProfileID(
	ctx context.Context,
	profileID string,
) (domain.Student, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+studentColumns+` FROM students WHERE profile_id = ?`, profileID)

	s, err := scanStudent(row)
	if err != nil {
		return domain.Student{}, mapNotFound(err)
	}
	return s, nil
}

func (r *studentsRepo) ListStudentsByFranchise(
	ctx context.Context,
	franchiseID string,
) ([]domain.Student, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT `+studentColumns+` FROM students
		WHERE franchise_id = ?
		ORDER BY last_name, first_name, id`, franchiseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectStudents(rows)
}

func (r *studentsRepo) ListStudentsByGuardianEmail(
	ctx context.Context,
	email string,
) ([]domain.Student, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT `+studentColumns+` FROM students
		WHERE guardian_email = ?
		ORDER BY last_name, first_name, id`, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectStudents(rows)
}

func (r *studentsRepo) SearchStudentsByName(
	ctx context.Context,
	franchiseID, query string,
	limit int,
) ([]domain.Student, error) {
	pattern := query + "%"
	rows, err := r.q.QueryContext(ctx, `
		SELECT `+studentColumns+` FROM students
		WHERE franchise_id = ? AND (first_name LIKE ? COLLATE NOCASE OR last_name LIKE ? COLLATE NOCASE)
		ORDER BY last_name, first_name, id
		LIMIT ?`, franchiseID, pattern, pattern, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectStudents(rows)
}

func (r *studentsRepo) UpdateStudent(ctx context.Context, s domain.Student) error {
	_, err := r.q.ExecContext(ctx, `
		UPDATE students SET
			profile_id = ?, home_class_id = ?, first_name = ?, last_name = ?, dob = ?, status = ?,
			phone = ?, address = ?, guardian_is_registering = ?, guardian_name = ?,
			guardian_relationship = ?, guardian_email = ?, guardian_phone = ?, medical_info = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		mapStringNull(s.ProfileID), mapStringNull(s.HomeClassID), s.FirstName, s.LastName, s.DOB, s.Status,
		s.Phone, s.Address, s.GuardianIsRegistering, s.GuardianName,
		s.GuardianRelationship, s.GuardianEmail, s.GuardianPhone, s.MedicalInfo,
		s.ID,
	)
	return err
}

func (r *studentsRepo) CountStudentsByFranchise(
	ctx context.Context,
	franchiseID string,
) (int64, error) {
	var n int64
	err := r.q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM students WHERE franchise_id = ?`, franchiseID).Scan(&n)
	return n, err
}

func collectStudents(rows *sql.Rows) ([]domain.Student, error) {
	var students []domain.Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, rows.Err()
}
