package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dorm-housing-backend/internal/model"
)

func TestFindByContact(t *testing.T) {
	s, _ := newSQLiteStore(t)
	ctx := context.Background()

	byEmail, err := s.CreateStudent(ctx, StudentInput{FullName: "Alice A", Email: "alice@uni.edu"})
	require.NoError(t, err)
	byPhone, err := s.CreateStudent(ctx, StudentInput{FullName: "Alice B", Phone: "+100"})
	require.NoError(t, err)
	byName, err := s.CreateStudent(ctx, StudentInput{FullName: "Alice C"})
	require.NoError(t, err)
	_, err = s.CreateStudent(ctx, StudentInput{FullName: "Alice C", Group: "later duplicate"})
	require.NoError(t, err)

	testCases := []struct {
		name     string
		in       [3]string
		expected int64
		notFound bool
	}{
		{name: "Email wins over phone and name", in: [3]string{"Alice C", "alice@uni.edu", "+100"}, expected: byEmail.ID},
		{name: "Phone wins over name", in: [3]string{"Alice C", "", "+100"}, expected: byPhone.ID},
		{name: "Unknown email falls through to phone", in: [3]string{"Alice C", "nobody@uni.edu", "+100"}, expected: byPhone.ID},
		{name: "Name only takes the first match", in: [3]string{"Alice C", "", ""}, expected: byName.ID},
		{name: "Name is matched exactly", in: [3]string{"alice c", "", ""}, notFound: true},
		{name: "Nothing matches", in: [3]string{"Zed", "zed@uni.edu", "+999"}, notFound: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			student, err := s.FindByContact(ctx, tc.in[0], tc.in[1], tc.in[2])
			if tc.notFound {
				assert.ErrorIs(t, err, ErrNotFound)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, student.ID)
		})
	}
}

func TestStudentCRUD(t *testing.T) {
	s, _ := newSQLiteStore(t)
	ctx := context.Background()

	student, err := s.CreateStudent(ctx, StudentInput{FullName: "  Alice   Smith ", Group: "CS-1", Email: "a@uni.edu"})
	require.NoError(t, err)
	assert.Equal(t, "Alice Smith", student.FullName)

	updated, err := s.UpdateStudent(ctx, student.ID, StudentInput{FullName: "Alice Smith", Phone: "+1"})
	require.NoError(t, err)
	assert.Equal(t, "+1", updated.Phone)
	assert.Empty(t, updated.Email, "cleared fields are written")
	assert.Empty(t, updated.Group)

	_, err = s.UpdateStudent(ctx, student.ID, StudentInput{FullName: " "})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = s.UpdateStudent(ctx, 999, StudentInput{FullName: "X"})
	assert.ErrorIs(t, err, ErrNotFound)

	students, err := s.ListStudents(ctx)
	require.NoError(t, err)
	assert.Len(t, students, 1)

	require.NoError(t, s.DeleteStudent(ctx, student.ID))
	_, err = s.GetStudent(ctx, student.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.DeleteStudent(ctx, student.ID), ErrNotFound)
}

func TestDeleteStudent_Occupying(t *testing.T) {
	s, _ := newSQLiteStore(t)
	ctx := context.Background()
	room := mustCreateRoom(t, s, "101", 1)
	app := mustSubmit(t, s, model.KindSettle, "Alice")
	res, err := s.Approve(ctx, app.ID, room.Beds[0].ID, "")
	require.NoError(t, err)
	studentID := *res.Application.LinkedStudentID

	assert.ErrorIs(t, s.DeleteStudent(ctx, studentID), ErrConflict)

	student, err := s.GetStudent(ctx, studentID)
	require.NoError(t, err)
	require.NotNil(t, student.Bed)
	assert.Equal(t, "101:1", student.Bed.DisplayName())

	_, err = s.FreeBed(ctx, room.Beds[0].ID)
	require.NoError(t, err)
	require.NoError(t, s.DeleteStudent(ctx, studentID))

	got, err := s.GetApplication(ctx, app.ID)
	require.NoError(t, err)
	assert.Nil(t, got.LinkedStudentID, "application no longer references the deleted student")
}
