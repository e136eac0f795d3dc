package store

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"dorm-housing-backend/internal/model"
	"dorm-housing-backend/internal/parse"
)

// Store defines the interface for all housing operations. Every mutating
// method runs in its own transaction.
type Store interface {
	// Registry
	CreateRoom(ctx context.Context, number string, capacity int) (*model.Room, error)
	UpdateRoom(ctx context.Context, roomID int64, number string, capacity int) (*model.Room, error)
	ResizeRoom(ctx context.Context, roomID int64, capacity int) (*model.Room, error)
	DeleteRoom(ctx context.Context, roomID int64) error
	GetRoom(ctx context.Context, roomID int64) (*model.Room, error)
	ListRooms(ctx context.Context) ([]model.Room, error)
	FreeBed(ctx context.Context, bedID int64) (*model.Bed, error)
	ListFreeBeds(ctx context.Context) ([]model.Bed, error)
	ListOccupiedBeds(ctx context.Context) ([]model.Bed, error)

	// Directory
	FindByContact(ctx context.Context, name, email, phone string) (*model.Student, error)
	CreateStudent(ctx context.Context, in StudentInput) (*model.Student, error)
	UpdateStudent(ctx context.Context, studentID int64, in StudentInput) (*model.Student, error)
	DeleteStudent(ctx context.Context, studentID int64) error
	GetStudent(ctx context.Context, studentID int64) (*model.Student, error)
	ListStudents(ctx context.Context) ([]model.Student, error)

	// Workflow
	Submit(ctx context.Context, in SubmitInput) (*model.Application, error)
	Reject(ctx context.Context, appID int64, note string) (*model.Application, error)
	LookupByCode(ctx context.Context, code string) (*ApplicationView, error)
	GetApplication(ctx context.Context, appID int64) (*model.Application, error)
	ListApplications(ctx context.Context, status string) ([]model.Application, error)

	// Allocation
	Approve(ctx context.Context, appID, bedID int64, note string) (*ApproveResult, error)

	Stats(ctx context.Context) (*Stats, error)
	DB() *gorm.DB
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db           *gorm.DB
	codeAttempts int
	newCode      func() (string, error)
	now          func() time.Time
}

// Option customizes a gormStore.
type Option func(*gormStore)

// WithCodeAttempts bounds how many public codes Submit draws before giving up.
func WithCodeAttempts(n int) Option {
	return func(s *gormStore) {
		if n > 0 {
			s.codeAttempts = n
		}
	}
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB, opts ...Option) Store {
	s := &gormStore{
		db:           db,
		codeAttempts: 5,
		newCode:      parse.NewCode,
		now:          func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DB exposes the underlying handle for health checks.
func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// forUpdate adds a row lock on dialects that support it. The sqlite dialector
// drops the clause; sqlite serializes writers on its own.
func forUpdate(tx *gorm.DB) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
