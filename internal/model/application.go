package model

import "time"

// ApplicationKind is the type of housing request.
type ApplicationKind string

const (
	KindSettle ApplicationKind = "settle"
	KindMove   ApplicationKind = "move"
)

// Valid reports whether k is a recognized kind.
func (k ApplicationKind) Valid() bool {
	return k == KindSettle || k == KindMove
}

// ApplicationStatus is the lifecycle state of an application.
type ApplicationStatus string

const (
	StatusQueued    ApplicationStatus = "queued"
	StatusApproved  ApplicationStatus = "approved"
	StatusCompleted ApplicationStatus = "completed"
	StatusRejected  ApplicationStatus = "rejected"
)

// OpenStatuses are the states from which an application may still be approved or rejected.
var OpenStatuses = []string{string(StatusQueued), string(StatusApproved)}

// Valid reports whether s is a recognized status.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusQueued, StatusApproved, StatusCompleted, StatusRejected:
		return true
	default:
		return false
	}
}

// Terminal reports whether no further transitions are allowed from s.
func (s ApplicationStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusRejected
}

// Application is a housing request submitted through the public channel.
type Application struct {
	ID         int64             `gorm:"primaryKey" json:"id"`
	PublicCode string            `gorm:"uniqueIndex;size:16;not null" json:"public_code"`
	Kind       ApplicationKind   `gorm:"size:16;not null" json:"kind"`
	Status     ApplicationStatus `gorm:"size:16;not null;index" json:"status"`

	StudentName  string `gorm:"size:200;not null" json:"student_name"`
	StudentGroup string `gorm:"size:50" json:"student_group,omitempty"`
	ContactEmail string `gorm:"size:120" json:"contact_email,omitempty"`
	ContactPhone string `gorm:"size:60" json:"contact_phone,omitempty"`
	DesiredRoom  string `gorm:"size:32" json:"desired_room,omitempty"`
	Reason       string `gorm:"type:text" json:"reason,omitempty"`

	AssignedBedID   *int64 `gorm:"index" json:"assigned_bed_id"`
	LinkedStudentID *int64 `gorm:"index" json:"linked_student_id"`
	AdminNote       string `gorm:"type:text" json:"admin_note,omitempty"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`

	// Associations
	AssignedBed   *Bed     `gorm:"foreignKey:AssignedBedID" json:"assigned_bed,omitempty"`
	LinkedStudent *Student `gorm:"foreignKey:LinkedStudentID" json:"linked_student,omitempty"`
}
