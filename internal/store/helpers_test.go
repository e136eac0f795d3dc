package store

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"dorm-housing-backend/internal/db"
	"dorm-housing-backend/internal/model"
)

var memDBCounter atomic.Int64

// newSQLiteStore returns a store over a private in-memory database. One open
// connection means transactions queue for the pool, like sqlite writers do.
func newSQLiteStore(t *testing.T, opts ...Option) (*gormStore, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:storetest%d?mode=memory&cache=shared", memDBCounter.Add(1))
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.Migrate(gormDB))
	return NewGormStore(gormDB, opts...).(*gormStore), gormDB
}

func mustCreateRoom(t *testing.T, s Store, number string, capacity int) *model.Room {
	t.Helper()
	room, err := s.CreateRoom(context.Background(), number, capacity)
	require.NoError(t, err)
	return room
}

func mustSubmit(t *testing.T, s Store, kind model.ApplicationKind, name string) *model.Application {
	t.Helper()
	app, err := s.Submit(context.Background(), SubmitInput{Kind: kind, Name: name})
	require.NoError(t, err)
	return app
}

// bedByLabel returns the bed of room with the given label, reloaded from the database.
func bedByLabel(t *testing.T, gormDB *gorm.DB, room *model.Room, label string) model.Bed {
	t.Helper()
	var bed model.Bed
	require.NoError(t, gormDB.Where("room_id = ? AND label = ?", room.ID, label).First(&bed).Error)
	return bed
}

func occupiedCount(t *testing.T, gormDB *gorm.DB, studentID int64) int64 {
	t.Helper()
	var n int64
	require.NoError(t, gormDB.Model(&model.Bed{}).Where("occupant_id = ?", studentID).Count(&n).Error)
	return n
}
