package store

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dorm-housing-backend/internal/model"
	"dorm-housing-backend/internal/parse"
)

func TestSubmit(t *testing.T) {
	s, _ := newSQLiteStore(t)
	ctx := context.Background()

	app, err := s.Submit(ctx, SubmitInput{
		Kind:        model.KindSettle,
		Name:        " Alice ",
		Email:       "alice@uni.edu",
		DesiredRoom: "101",
		Reason:      "  first year \n",
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusQueued, app.Status)
	assert.True(t, parse.IsCode(app.PublicCode))
	assert.Equal(t, "Alice", app.StudentName)
	assert.Equal(t, "first year", app.Reason)
	assert.Nil(t, app.LinkedStudentID, "identity is resolved at approval, not submission")
	assert.Nil(t, app.AssignedBedID)
	assert.False(t, app.CreatedAt.IsZero())
}

func TestSubmit_CodeCollisionRetries(t *testing.T) {
	s, _ := newSQLiteStore(t)

	codes := []string{"AAAAAAAA", "AAAAAAAA", "BBBBBBBB"}
	s.newCode = func() (string, error) {
		code := codes[0]
		codes = codes[1:]
		return code, nil
	}

	first := mustSubmit(t, s, model.KindSettle, "Alice")
	second := mustSubmit(t, s, model.KindSettle, "Bob")
	assert.Equal(t, "AAAAAAAA", first.PublicCode)
	assert.Equal(t, "BBBBBBBB", second.PublicCode)
}

func TestSubmit_CodeAttemptsAreBounded(t *testing.T) {
	s, _ := newSQLiteStore(t, WithCodeAttempts(3))
	ctx := context.Background()

	calls := 0
	s.newCode = func() (string, error) {
		calls++
		return "AAAAAAAA", nil
	}
	mustSubmit(t, s, model.KindSettle, "Alice")

	_, err := s.Submit(ctx, SubmitInput{Kind: model.KindSettle, Name: "Bob"})
	require.Error(t, err)
	assert.Equal(t, 4, calls)

	s.newCode = func() (string, error) { return "", errors.New("entropy exhausted") }
	_, err = s.Submit(ctx, SubmitInput{Kind: model.KindSettle, Name: "Carol"})
	assert.ErrorContains(t, err, "entropy exhausted")
}

func TestLookupByCode(t *testing.T) {
	s, _ := newSQLiteStore(t)
	ctx := context.Background()
	app := mustSubmit(t, s, model.KindMove, "Alice")

	view, err := s.LookupByCode(ctx, "  "+strings.ToLower(app.PublicCode)+" ")
	require.NoError(t, err)
	assert.Equal(t, app.PublicCode, view.PublicCode)
	assert.Equal(t, model.KindMove, view.Kind)
	assert.Equal(t, model.StatusQueued, view.Status)
	assert.Empty(t, view.AssignedBed)

	_, err = s.LookupByCode(ctx, "ZZZZZZZZ")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.LookupByCode(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestReject(t *testing.T) {
	s, gormDB := newSQLiteStore(t)
	ctx := context.Background()
	room := mustCreateRoom(t, s, "101", 1)

	app := mustSubmit(t, s, model.KindSettle, "Alice")
	rejected, err := s.Reject(ctx, app.ID, " no documents ")
	require.NoError(t, err)
	assert.Equal(t, model.StatusRejected, rejected.Status)
	assert.Equal(t, "no documents", rejected.AdminNote)
	assert.False(t, rejected.UpdatedAt.Before(app.UpdatedAt))

	_, err = s.Reject(ctx, app.ID, "again")
	assert.ErrorIs(t, err, ErrInvalidState)
	_, err = s.Approve(ctx, app.ID, room.Beds[0].ID, "")
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.False(t, bedByLabel(t, gormDB, room, "1").Occupied(), "rejection has no inventory effect")

	// Completed applications are terminal too.
	done := mustSubmit(t, s, model.KindSettle, "Bob")
	_, err = s.Approve(ctx, done.ID, room.Beds[0].ID, "")
	require.NoError(t, err)
	_, err = s.Reject(ctx, done.ID, "")
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = s.Reject(ctx, 999, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReject_FromApproved(t *testing.T) {
	s, gormDB := newSQLiteStore(t)
	app := mustSubmit(t, s, model.KindSettle, "Alice")
	require.NoError(t, gormDB.Model(&model.Application{}).Where("id = ?", app.ID).Update("status", model.StatusApproved).Error)

	rejected, err := s.Reject(context.Background(), app.ID, "")
	require.NoError(t, err)
	assert.Equal(t, model.StatusRejected, rejected.Status)
}

func TestListApplications(t *testing.T) {
	s, _ := newSQLiteStore(t)
	ctx := context.Background()
	a := mustSubmit(t, s, model.KindSettle, "Alice")
	b := mustSubmit(t, s, model.KindSettle, "Bob")
	c := mustSubmit(t, s, model.KindMove, "Carol")
	_, err := s.Reject(ctx, b.ID, "")
	require.NoError(t, err)

	ids := func(apps []model.Application) []int64 {
		out := make([]int64, 0, len(apps))
		for _, app := range apps {
			out = append(out, app.ID)
		}
		return out
	}

	all, err := s.ListApplications(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []int64{a.ID, b.ID, c.ID}, ids(all))

	all, err = s.ListApplications(ctx, "all")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	queued, err := s.ListApplications(ctx, "queued")
	require.NoError(t, err)
	assert.Equal(t, []int64{a.ID, c.ID}, ids(queued))

	rejected, err := s.ListApplications(ctx, "rejected")
	require.NoError(t, err)
	assert.Equal(t, []int64{b.ID}, ids(rejected))
}

func TestStats(t *testing.T) {
	s, _ := newSQLiteStore(t)
	ctx := context.Background()
	room := mustCreateRoom(t, s, "101", 3)
	mustCreateRoom(t, s, "102", 2)
	app := mustSubmit(t, s, model.KindSettle, "Alice")
	mustSubmit(t, s, model.KindSettle, "Bob")
	_, err := s.Approve(ctx, app.ID, room.Beds[0].ID, "")
	require.NoError(t, err)

	st, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stats{Rooms: 2, Beds: 5, FreeBeds: 4, Students: 1, Queued: 1}, *st)
}
