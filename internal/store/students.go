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

// FindByContact resolves a student by email, then phone, then exact full name.
func (s *gormStore) FindByContact(ctx context.Context, name, email, phone string) (*model.Student, error) {
	student, err := findByContact(s.db.WithContext(ctx), parse.Line(name), parse.Line(email), parse.Line(phone))
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, fmt.Errorf("%w: no student matches %q", ErrNotFound, name)
	}
	return student, nil
}

// findByContact returns nil without error when nobody matches.
func findByContact(tx *gorm.DB, name, email, phone string) (*model.Student, error) {
	if email != "" {
		s, err := firstStudent(tx, "email = ?", email)
		if err != nil || s != nil {
			return s, err
		}
	}
	if phone != "" {
		s, err := firstStudent(tx, "phone = ?", phone)
		if err != nil || s != nil {
			return s, err
		}
	}
	if name == "" {
		return nil, nil
	}

	var matches []model.Student
	if err := tx.Where("full_name = ?", name).Order("id").Limit(2).Find(&matches).Error; err != nil {
		return nil, fmt.Errorf("failed to look up student by name: %w", err)
	}
	if len(matches) == 0 {
		return nil, nil
	}
	if len(matches) > 1 {
		log.Printf("Warning: name %q matches several students; using student %d", name, matches[0].ID)
	}
	return &matches[0], nil
}

func firstStudent(tx *gorm.DB, query string, arg string) (*model.Student, error) {
	var student model.Student
	err := tx.Where(query, arg).Order("id").First(&student).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up student: %w", err)
	}
	return &student, nil
}

func (in StudentInput) clean() (StudentInput, error) {
	out := StudentInput{
		FullName: parse.Line(in.FullName),
		Group:    parse.Line(in.Group),
		Email:    parse.Line(in.Email),
		Phone:    parse.Line(in.Phone),
	}
	if out.FullName == "" {
		return out, invalidInput("full name is required")
	}
	return out, nil
}

// CreateStudent adds a student to the directory.
func (s *gormStore) CreateStudent(ctx context.Context, in StudentInput) (*model.Student, error) {
	in, err := in.clean()
	if err != nil {
		return nil, err
	}
	student := model.Student{FullName: in.FullName, Group: in.Group, Email: in.Email, Phone: in.Phone}
	if err := s.db.WithContext(ctx).Create(&student).Error; err != nil {
		return nil, fmt.Errorf("failed to create student: %w", err)
	}
	return &student, nil
}

// UpdateStudent replaces the editable fields of a student.
func (s *gormStore) UpdateStudent(ctx context.Context, studentID int64, in StudentInput) (*model.Student, error) {
	in, err := in.clean()
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var student model.Student
		if err := forUpdate(tx).First(&student, studentID).Error; err != nil {
			return notFoundOr(err, "student", studentID)
		}
		// Map updates so that cleared optional fields are written as empty.
		return tx.Model(&student).Updates(map[string]any{
			"full_name":     in.FullName,
			"student_group": in.Group,
			"email":         in.Email,
			"phone":         in.Phone,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return s.GetStudent(ctx, studentID)
}

// DeleteStudent removes a student who does not occupy a bed.
func (s *gormStore) DeleteStudent(ctx context.Context, studentID int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var student model.Student
		if err := forUpdate(tx).First(&student, studentID).Error; err != nil {
			return notFoundOr(err, "student", studentID)
		}

		bed, err := currentBed(tx, student.ID)
		if err != nil {
			return err
		}
		if bed != nil {
			return conflict("student %s occupies bed %d; free the bed first", student.FullName, bed.ID)
		}

		if err := tx.Model(&model.Application{}).
			Where("linked_student_id = ?", student.ID).
			Update("linked_student_id", nil).Error; err != nil {
			return fmt.Errorf("failed to detach applications from student %d: %w", student.ID, err)
		}
		if err := tx.Delete(&model.Student{}, student.ID).Error; err != nil {
			return fmt.Errorf("failed to delete student %d: %w", student.ID, err)
		}
		return nil
	})
}

// GetStudent returns a student with the bed and room they occupy.
func (s *gormStore) GetStudent(ctx context.Context, studentID int64) (*model.Student, error) {
	var student model.Student
	if err := s.db.WithContext(ctx).Preload("Bed.Room").First(&student, studentID).Error; err != nil {
		return nil, notFoundOr(err, "student", studentID)
	}
	return &student, nil
}

// ListStudents returns all students ordered by full name.
func (s *gormStore) ListStudents(ctx context.Context) ([]model.Student, error) {
	var students []model.Student
	if err := s.db.WithContext(ctx).Preload("Bed.Room").Order("full_name, id").Find(&students).Error; err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	return students, nil
}

// currentBed returns the bed occupied by the student, or nil.
func currentBed(tx *gorm.DB, studentID int64) (*model.Bed, error) {
	var bed model.Bed
	err := forUpdate(tx).Where("occupant_id = ?", studentID).First(&bed).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up bed of student %d: %w", studentID, err)
	}
	return &bed, nil
}
