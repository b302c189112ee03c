package sqlite

import (
	"context"

	"github.com/sohailc94/agmaportal/internal/portal/domain"
)

type notesRepo struct {
	q dbtx
}

func (r *notesRepo) AddFeedbackNote(ctx context.Context, n domain.FeedbackNote) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO student_notes (id, student_id, author_id, note, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		n.ID, n.StudentID, n.AuthorID, n.Note, n.CreatedAt,
	)
	return err
}

func (r *notesRepo) ListFeedbackNotesByStudent(
	ctx context.Context,
	studentID string,
) ([]domain.FeedbackNote, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, student_id, author_id, note, created_at
		FROM student_notes
		WHERE student_id = ?
		ORDER BY created_at DESC, id DESC`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []domain.FeedbackNote
	for rows.Next() {
		var n domain.FeedbackNote
		if err := rows.Scan(&n.ID, &n.StudentID, &n.AuthorID, &n.Note, &n.CreatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}
