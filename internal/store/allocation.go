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

// Approve assigns bedID to the student behind the application and completes
// it. Student resolution, the occupancy swap and the status change commit
// together or not at all.
func (s *gormStore) Approve(ctx context.Context, appID, bedID int64, note string) (*ApproveResult, error) {
	note = parse.Text(note)
	var warning string

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var app model.Application
		if err := forUpdate(tx).First(&app, appID).Error; err != nil {
			return notFoundOr(err, "application", appID)
		}
		if app.Status != model.StatusQueued && app.Status != model.StatusApproved {
			return invalidState("application %s is %s and cannot be approved", app.PublicCode, app.Status)
		}

		var bed model.Bed
		if err := forUpdate(tx).First(&bed, bedID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return invalidInput("bed %d does not exist", bedID)
			}
			return fmt.Errorf("failed to load bed %d: %w", bedID, err)
		}
		if bed.Occupied() {
			return conflict("bed %d is already occupied", bed.ID)
		}

		student, err := resolveStudent(tx, &app)
		if err != nil {
			return err
		}

		current, err := currentBed(tx, student.ID)
		if err != nil {
			return err
		}
		switch app.Kind {
		case model.KindSettle:
			if current != nil {
				return conflict("student %s already occupies bed %d; submit a move application instead", student.FullName, current.ID)
			}
		case model.KindMove:
			if current == nil {
				warning = fmt.Sprintf("student %s has no current bed; the move was handled as a settle", student.FullName)
				log.Printf("Warning: application %s: %s", app.PublicCode, warning)
			} else if err := releaseBed(tx, current.ID); err != nil {
				return err
			}
		default:
			return invalidInput("application %s has unknown kind %q", app.PublicCode, app.Kind)
		}

		if err := occupyBed(tx, bed.ID, student.ID); err != nil {
			return err
		}

		return transition(tx, app, map[string]any{
			"status":            model.StatusCompleted,
			"assigned_bed_id":   bed.ID,
			"linked_student_id": student.ID,
			"admin_note":        note,
			"updated_at":        s.now(),
		})
	})
	if err != nil {
		return nil, err
	}

	app, err := s.GetApplication(ctx, appID)
	if err != nil {
		return nil, err
	}
	return &ApproveResult{Application: app, Warning: warning}, nil
}

// resolveStudent returns the student linked to the application, the student
// matching its contact details, or a new student built from the submission.
func resolveStudent(tx *gorm.DB, app *model.Application) (*model.Student, error) {
	if app.LinkedStudentID != nil {
		var student model.Student
		err := tx.First(&student, *app.LinkedStudentID).Error
		if err == nil {
			return &student, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to load linked student %d: %w", *app.LinkedStudentID, err)
		}
	}

	student, err := findByContact(tx, app.StudentName, app.ContactEmail, app.ContactPhone)
	if err != nil {
		return nil, err
	}
	if student != nil {
		return student, nil
	}

	student = &model.Student{
		FullName: app.StudentName,
		Group:    app.StudentGroup,
		Email:    app.ContactEmail,
		Phone:    app.ContactPhone,
	}
	if err := tx.Create(student).Error; err != nil {
		return nil, fmt.Errorf("failed to create student for application %s: %w", app.PublicCode, err)
	}
	return student, nil
}

// occupyBed sets the occupant only if the bed is still free.
func occupyBed(tx *gorm.DB, bedID, studentID int64) error {
	res := tx.Model(&model.Bed{}).
		Where("id = ? AND occupant_id IS NULL", bedID).
		Update("occupant_id", studentID)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return conflict("student %d already occupies another bed", studentID)
		}
		return fmt.Errorf("failed to occupy bed %d: %w", bedID, res.Error)
	}
	if res.RowsAffected != 1 {
		return conflict("bed %d is already occupied", bedID)
	}
	return nil
}
