package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"gorm.io/gorm"

	"dorm-housing-backend/internal/model"
	"dorm-housing-backend/internal/parse"
)

// CreateRoom creates a room together with capacity beds labelled "1".."capacity".
func (s *gormStore) CreateRoom(ctx context.Context, number string, capacity int) (*model.Room, error) {
	number = parse.Line(number)
	if number == "" {
		return nil, invalidInput("room number is required")
	}
	if capacity <= 0 {
		return nil, invalidInput("capacity must be a positive number, got %d", capacity)
	}

	room := model.Room{Number: number, Capacity: capacity}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureRoomNumberFree(tx, number, 0); err != nil {
			return err
		}
		if err := tx.Create(&room).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return conflict("room %s already exists", number)
			}
			return fmt.Errorf("failed to create room %s: %w", number, err)
		}
		return appendBeds(tx, room.ID, 0, capacity)
	})
	if err != nil {
		return nil, err
	}
	return s.GetRoom(ctx, room.ID)
}

// UpdateRoom renumbers a room and reconciles its beds with the new capacity.
func (s *gormStore) UpdateRoom(ctx context.Context, roomID int64, number string, capacity int) (*model.Room, error) {
	number = parse.Line(number)
	if number == "" {
		return nil, invalidInput("room number is required")
	}
	return s.reshapeRoom(ctx, roomID, &number, capacity)
}

// ResizeRoom grows or shrinks a room. A shrink that would drop an occupied
// bed fails as a whole.
func (s *gormStore) ResizeRoom(ctx context.Context, roomID int64, capacity int) (*model.Room, error) {
	return s.reshapeRoom(ctx, roomID, nil, capacity)
}

func (s *gormStore) reshapeRoom(ctx context.Context, roomID int64, number *string, capacity int) (*model.Room, error) {
	if capacity <= 0 {
		return nil, invalidInput("capacity must be a positive number, got %d", capacity)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var room model.Room
		if err := forUpdate(tx).First(&room, roomID).Error; err != nil {
			return notFoundOr(err, "room", roomID)
		}

		updates := map[string]any{"capacity": capacity}
		if number != nil && *number != room.Number {
			if err := ensureRoomNumberFree(tx, *number, room.ID); err != nil {
				return err
			}
			updates["number"] = *number
		}

		if err := resizeBeds(tx, room, capacity); err != nil {
			return err
		}
		if err := tx.Model(&room).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return conflict("room %v already exists", updates["number"])
			}
			return fmt.Errorf("failed to update room %d: %w", room.ID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetRoom(ctx, roomID)
}

// resizeBeds appends or removes beds so the room holds exactly capacity beds.
func resizeBeds(tx *gorm.DB, room model.Room, capacity int) error {
	var beds []model.Bed
	if err := forUpdate(tx).Where("room_id = ?", room.ID).Order("seq").Find(&beds).Error; err != nil {
		return fmt.Errorf("failed to load beds of room %s: %w", room.Number, err)
	}

	switch {
	case capacity > len(beds):
		maxSeq := 0
		if len(beds) > 0 {
			maxSeq = beds[len(beds)-1].Seq
		}
		return appendBeds(tx, room.ID, maxSeq, capacity-len(beds))
	case capacity < len(beds):
		excess := beds[capacity:]
		ids := make([]int64, 0, len(excess))
		for _, b := range excess {
			if b.Occupied() {
				return conflict("cannot shrink room %s to %d: bed %s is occupied", room.Number, capacity, b.Label)
			}
			ids = append(ids, b.ID)
		}
		return deleteBeds(tx, ids)
	default:
		return nil
	}
}

// DeleteRoom removes an empty room and, explicitly, all of its beds.
func (s *gormStore) DeleteRoom(ctx context.Context, roomID int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var room model.Room
		if err := forUpdate(tx).First(&room, roomID).Error; err != nil {
			return notFoundOr(err, "room", roomID)
		}

		var beds []model.Bed
		if err := forUpdate(tx).Where("room_id = ?", room.ID).Find(&beds).Error; err != nil {
			return fmt.Errorf("failed to load beds of room %s: %w", room.Number, err)
		}
		ids := make([]int64, 0, len(beds))
		for _, b := range beds {
			if b.Occupied() {
				return conflict("room %s has occupied beds", room.Number)
			}
			ids = append(ids, b.ID)
		}

		if err := deleteBeds(tx, ids); err != nil {
			return err
		}
		if err := tx.Delete(&model.Room{}, room.ID).Error; err != nil {
			return fmt.Errorf("failed to delete room %s: %w", room.Number, err)
		}
		return nil
	})
}

// GetRoom returns a room with its beds in label order and their occupants.
func (s *gormStore) GetRoom(ctx context.Context, roomID int64) (*model.Room, error) {
	var room model.Room
	err := s.db.WithContext(ctx).
		Preload("Beds", orderBySeq).
		Preload("Beds.Occupant").
		First(&room, roomID).Error
	if err != nil {
		return nil, notFoundOr(err, "room", roomID)
	}
	return &room, nil
}

// ListRooms returns every room ordered by number, with beds and occupants.
func (s *gormStore) ListRooms(ctx context.Context) ([]model.Room, error) {
	var rooms []model.Room
	err := s.db.WithContext(ctx).
		Preload("Beds", orderBySeq).
		Preload("Beds.Occupant").
		Order("number").
		Find(&rooms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return rooms, nil
}

// FreeBed clears a bed's occupant unconditionally. Applications that were
// completed onto this bed keep it as their historical assignment.
func (s *gormStore) FreeBed(ctx context.Context, bedID int64) (*model.Bed, error) {
	var bed model.Bed
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := forUpdate(tx).First(&bed, bedID).Error; err != nil {
			return notFoundOr(err, "bed", bedID)
		}
		return releaseBed(tx, bed.ID)
	})
	if err != nil {
		return nil, err
	}
	bed.OccupantID = nil
	return &bed, nil
}

// ListFreeBeds returns unoccupied beds ordered by room number and label.
func (s *gormStore) ListFreeBeds(ctx context.Context) ([]model.Bed, error) {
	return s.listBeds(ctx, "beds.occupant_id IS NULL")
}

// ListOccupiedBeds returns occupied beds ordered by room number and label.
func (s *gormStore) ListOccupiedBeds(ctx context.Context) ([]model.Bed, error) {
	return s.listBeds(ctx, "beds.occupant_id IS NOT NULL")
}

func (s *gormStore) listBeds(ctx context.Context, cond string) ([]model.Bed, error) {
	var beds []model.Bed
	err := s.db.WithContext(ctx).
		Joins("JOIN rooms ON rooms.id = beds.room_id").
		Preload("Room").
		Preload("Occupant").
		Where(cond).
		Order("rooms.number, beds.seq").
		Find(&beds).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list beds: %w", err)
	}
	return beds, nil
}

func orderBySeq(db *gorm.DB) *gorm.DB {
	return db.Order("seq")
}

func ensureRoomNumberFree(tx *gorm.DB, number string, exceptID int64) error {
	var existing model.Room
	err := tx.Where("number = ? AND id <> ?", number, exceptID).First(&existing).Error
	if err == nil {
		return conflict("room %s already exists", number)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check room number %s: %w", number, err)
	}
	return nil
}

// appendBeds creates count beds labelled after afterSeq.
func appendBeds(tx *gorm.DB, roomID int64, afterSeq, count int) error {
	if count <= 0 {
		return nil
	}
	beds := make([]model.Bed, 0, count)
	for i := 1; i <= count; i++ {
		seq := afterSeq + i
		beds = append(beds, model.Bed{RoomID: roomID, Seq: seq, Label: strconv.Itoa(seq)})
	}
	if err := tx.Create(&beds).Error; err != nil {
		return fmt.Errorf("failed to create beds for room %d: %w", roomID, err)
	}
	return nil
}

// deleteBeds drops application references to the beds before deleting them,
// keeping every stored bed reference pointing at an existing row.
func deleteBeds(tx *gorm.DB, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	if err := tx.Model(&model.Application{}).
		Where("assigned_bed_id IN ?", ids).
		Update("assigned_bed_id", nil).Error; err != nil {
		return fmt.Errorf("failed to detach applications from beds: %w", err)
	}
	if err := tx.Where("id IN ?", ids).Delete(&model.Bed{}).Error; err != nil {
		return fmt.Errorf("failed to delete beds: %w", err)
	}
	return nil
}

func releaseBed(tx *gorm.DB, bedID int64) error {
	if err := tx.Model(&model.Bed{}).Where("id = ?", bedID).Update("occupant_id", nil).Error; err != nil {
		return fmt.Errorf("failed to release bed %d: %w", bedID, err)
	}
	return nil
}
