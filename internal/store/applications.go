package store

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"dorm-housing-backend/internal/model"
	"dorm-housing-backend/internal/parse"
)

// Submit records a public application in the queued state and returns it
// with its freshly generated tracking code.
func (s *gormStore) Submit(ctx context.Context, in SubmitInput) (*model.Application, error) {
	if !in.Kind.Valid() {
		return nil, invalidInput("application kind must be %q or %q, got %q", model.KindSettle, model.KindMove, in.Kind)
	}
	name := parse.Line(in.Name)
	if name == "" {
		return nil, invalidInput("student name is required")
	}

	app := model.Application{
		Kind:         in.Kind,
		Status:       model.StatusQueued,
		StudentName:  name,
		StudentGroup: parse.Line(in.Group),
		ContactEmail: parse.Line(in.Email),
		ContactPhone: parse.Line(in.Phone),
		DesiredRoom:  parse.Line(in.DesiredRoom),
		Reason:       parse.Text(in.Reason),
	}

	db := s.db.WithContext(ctx)
	for attempt := 1; attempt <= s.codeAttempts; attempt++ {
		code, err := s.newCode()
		if err != nil {
			return nil, err
		}
		var taken int64
		if err := db.Model(&model.Application{}).Where("public_code = ?", code).Count(&taken).Error; err != nil {
			return nil, fmt.Errorf("failed to check public code: %w", err)
		}
		if taken > 0 {
			log.Printf("Public code collision on attempt %d; retrying", attempt)
			continue
		}

		app.ID = 0
		app.PublicCode = code
		err = db.Create(&app).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost a race for the same code.
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to create application: %w", err)
		}
		return &app, nil
	}
	return nil, fmt.Errorf("failed to generate a unique public code after %d attempts", s.codeAttempts)
}

// Reject closes a non-terminal application without touching the inventory.
func (s *gormStore) Reject(ctx context.Context, appID int64, note string) (*model.Application, error) {
	note = parse.Text(note)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var app model.Application
		if err := forUpdate(tx).First(&app, appID).Error; err != nil {
			return notFoundOr(err, "application", appID)
		}
		if app.Status.Terminal() {
			return invalidState("application %s is already %s", app.PublicCode, app.Status)
		}
		return transition(tx, app, map[string]any{
			"status":     model.StatusRejected,
			"admin_note": note,
			"updated_at": s.now(),
		})
	})
	if err != nil {
		return nil, err
	}
	return s.GetApplication(ctx, appID)
}

// LookupByCode finds an application by its public code, case-insensitively.
func (s *gormStore) LookupByCode(ctx context.Context, code string) (*ApplicationView, error) {
	normalized, err := parse.NormalizeCode(code)
	if errors.Is(err, parse.ErrEmptyCode) {
		return nil, invalidInput("application code is required")
	}
	if err != nil {
		// A code that cannot have been issued is simply unknown.
		return nil, fmt.Errorf("%w: application %q", ErrNotFound, code)
	}

	var app model.Application
	err = s.db.WithContext(ctx).
		Preload("AssignedBed.Room").
		Where("public_code = ?", normalized).
		First(&app).Error
	if err != nil {
		return nil, notFoundOr(err, "application", normalized)
	}
	view := NewApplicationView(&app)
	return &view, nil
}

// GetApplication returns an application with its assigned bed and linked student.
func (s *gormStore) GetApplication(ctx context.Context, appID int64) (*model.Application, error) {
	var app model.Application
	err := s.db.WithContext(ctx).
		Preload("AssignedBed.Room").
		Preload("LinkedStudent").
		First(&app, appID).Error
	if err != nil {
		return nil, notFoundOr(err, "application", appID)
	}
	return &app, nil
}

// ListApplications returns applications oldest first. An empty filter or
// "all" lists every status.
func (s *gormStore) ListApplications(ctx context.Context, status string) ([]model.Application, error) {
	q := s.db.WithContext(ctx).Preload("AssignedBed.Room")
	if status != "" && status != "all" {
		st := model.ApplicationStatus(status)
		if !st.Valid() {
			return nil, invalidInput("unknown application status %q", status)
		}
		q = q.Where("status = ?", st)
	}

	var apps []model.Application
	if err := q.Order("created_at, id").Find(&apps).Error; err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, nil
}

// transition applies updates only while the application is still open, so a
// concurrent terminal transition makes this one fail instead of overwriting it.
func transition(tx *gorm.DB, app model.Application, updates map[string]any) error {
	res := tx.Model(&model.Application{}).
		Where("id = ? AND status IN ?", app.ID, model.OpenStatuses).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("failed to update application %s: %w", app.PublicCode, res.Error)
	}
	if res.RowsAffected != 1 {
		return invalidState("application %s is no longer open", app.PublicCode)
	}
	return nil
}
