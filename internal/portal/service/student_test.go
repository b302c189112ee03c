package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sohailc94/agmaportal/internal/portal/domain"
)

func TestStudentLifecycle(t *testing.T) {
	ctx := context.Background()

	st := newTestStore(t)
	franchise := seedFranchise(t, st)
	svc := &StudentService{Store: st}

	t.Run("enroll defaults status and normalizes guardian email", func(t *testing.T) {
		student, err := svc.Enroll(ctx, domain.Student{
			FranchiseID:   franchise.ID,
			FirstName:     "Tim",
			LastName:      "Nguyen",
			GuardianEmail: "  Parent@Example.COM ",
		})
		require.NoError(t, err)
		require.NotEmpty(t, student.ID)
		require.Equal(t, "active", student.Status)
		require.Equal(t, "parent@example.com", student.GuardianEmail)
	})

	t.Run("enroll rejects a nameless record", func(t *testing.T) {
		_, err := svc.Enroll(ctx, domain.Student{FranchiseID: franchise.ID})
		require.ErrorIs(t, err, ErrInvalidStudent)
	})

	t.Run("search is a case-insensitive prefix match capped at five", func(t *testing.T) {
		for _, name := range []string{"Samira", "Sam", "Samuel", "Sami", "Samson", "Samantha"} {
			_, err := svc.Enroll(ctx, domain.Student{
				FranchiseID: franchise.ID,
				FirstName:   name,
				LastName:    "Lee",
			})
			require.NoError(t, err)
		}

		results, err := svc.Search(ctx, franchise.ID, "sam")
		require.NoError(t, err)
		require.Len(t, results, 5)

		none, err := svc.Search(ctx, franchise.ID, "   ")
		require.NoError(t, err)
		require.Empty(t, none)
	})

	t.Run("update rejects unknown ids", func(t *testing.T) {
		err := svc.Update(ctx, domain.Student{ID: "missing", FranchiseID: franchise.ID, FirstName: "X"})
		require.ErrorIs(t, err, ErrStudentNotFound)
	})
}

func TestStudentDetail(t *testing.T) {
	ctx := context.Background()

	st := newTestStore(t)
	franchise := seedFranchise(t, st)
	svc := &StudentService{Store: st}

	instructor := seedProfile(t, st, domain.RoleInstructor, franchise.ID, "sensei@example.com")

	now := time.Now().UTC()
	class := domain.Class{
		ID:          newID(),
		FranchiseID: franchise.ID,
		Name:        "Juniors Monday",
		DayOfWeek:   1,
		StartTime:   "16:00",
		EndTime:     "17:00",
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, st.Classes().CreateClass(ctx, class))

	login := seedProfile(t, st, domain.RoleStudent, franchise.ID, "kid@example.com")

	student, err := svc.Enroll(ctx, domain.Student{
		ProfileID:   login.ID,
		FranchiseID: franchise.ID,
		HomeClassID: class.ID,
		FirstName:   "Kim",
		LastName:    "Tran",
	})
	require.NoError(t, err)

	belt, err := svc.AwardBelt(ctx, domain.BeltAward{
		StudentID: student.ID,
		BeltName:  "Yellow",
		AwardedBy: instructor.ID,
	})
	require.NoError(t, err)
	require.False(t, belt.AwardedAt.IsZero())

	note, err := svc.AddNote(ctx, domain.FeedbackNote{
		StudentID: student.ID,
		AuthorID:  instructor.ID,
		Note:      "Great progress on forms.",
	})
	require.NoError(t, err)

	detail, err := svc.Detail(ctx, student.ID)
	require.NoError(t, err)
	require.Equal(t, student.ID, detail.Student.ID)
	require.NotNil(t, detail.Profile)
	require.Equal(t, login.ID, detail.Profile.ID)
	require.NotNil(t, detail.HomeClass)
	require.Equal(t, class.ID, detail.HomeClass.ID)
	require.Len(t, detail.Belts, 1)
	require.Equal(t, belt.ID, detail.Belts[0].ID)
	require.Len(t, detail.Notes, 1)
	require.Equal(t, note.ID, detail.Notes[0].ID)

	t.Run("guardian lookup finds the student", func(t *testing.T) {
		enrolled, err := svc.Enroll(ctx, domain.Student{
			FranchiseID:   franchise.ID,
			FirstName:     "Lia",
			LastName:      "Tran",
			GuardianEmail: "mum@example.com",
		})
		require.NoError(t, err)

		kids, err := svc.ListByGuardianEmail(ctx, "MUM@example.com")
		require.NoError(t, err)
		require.Len(t, kids, 1)
		require.Equal(t, enrolled.ID, kids[0].ID)
	})

	t.Run("belt and note validation", func(t *testing.T) {
		_, err := svc.AwardBelt(ctx, domain.BeltAward{StudentID: student.ID})
		require.ErrorIs(t, err, ErrInvalidBelt)

		_, err = svc.AddNote(ctx, domain.FeedbackNote{StudentID: student.ID, Note: "  "})
		require.ErrorIs(t, err, ErrInvalidNote)

		_, err = svc.AwardBelt(ctx, domain.BeltAward{StudentID: "missing", BeltName: "Green"})
		require.ErrorIs(t, err, ErrStudentNotFound)
	})
}
