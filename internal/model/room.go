package model

import "time"

// Room represents a dormitory room. It owns a fixed set of beds whose count
// matches Capacity outside of a resize transaction.
type Room struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Number    string    `gorm:"uniqueIndex;size:32;not null" json:"number"`
	Capacity  int       `gorm:"not null" json:"capacity"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`

	// Associations
	Beds []Bed `gorm:"foreignKey:RoomID" json:"beds,omitempty"`
}
