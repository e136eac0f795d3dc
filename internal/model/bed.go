package model

import (
	"fmt"
	"time"
)

// Bed is a single occupiable slot inside a room.
type Bed struct {
	ID     int64  `gorm:"primaryKey" json:"id"`
	RoomID int64  `gorm:"not null;uniqueIndex:idx_beds_room_label" json:"room_id"`
	Label  string `gorm:"size:32;not null;uniqueIndex:idx_beds_room_label" json:"label"`
	// Seq is the numeric form of Label. Beds are ordered and shrunk by it.
	Seq        int       `gorm:"not null" json:"seq"`
	OccupantID *int64    `gorm:"uniqueIndex" json:"occupant_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Associations
	Room     *Room    `json:"room,omitempty"`
	Occupant *Student `gorm:"foreignKey:OccupantID" json:"occupant,omitempty"`
}

// Occupied reports whether a student is assigned to the bed.
func (b Bed) Occupied() bool {
	return b.OccupantID != nil
}

// DisplayName renders the bed as "<room number>:<label>" when the room is loaded.
func (b Bed) DisplayName() string {
	if b.Room == nil {
		return b.Label
	}
	return fmt.Sprintf("%s:%s", b.Room.Number, b.Label)
}
