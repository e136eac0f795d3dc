package model

import "time"

// Student is a resident or applicant known to the directory.
type Student struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	FullName  string    `gorm:"size:200;not null;index" json:"full_name"`
	Group     string    `gorm:"column:student_group;size:50" json:"group,omitempty"`
	Email     string    `gorm:"size:120;index" json:"email,omitempty"`
	Phone     string    `gorm:"size:60;index" json:"phone,omitempty"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`

	// Back-reference to the bed the student currently occupies, if any.
	Bed *Bed `gorm:"foreignKey:OccupantID" json:"bed,omitempty"`
}
