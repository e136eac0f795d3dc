package store

import (
	"context"
	"fmt"

	"dorm-housing-backend/internal/model"
)

// Stats counts rooms, beds, free beds, students and queued applications.
func (s *gormStore) Stats(ctx context.Context) (*Stats, error) {
	db := s.db.WithContext(ctx)
	var st Stats

	counts := []struct {
		what  string
		model any
		where string
		dst   *int64
	}{
		{"rooms", &model.Room{}, "", &st.Rooms},
		{"beds", &model.Bed{}, "", &st.Beds},
		{"free beds", &model.Bed{}, "occupant_id IS NULL", &st.FreeBeds},
		{"students", &model.Student{}, "", &st.Students},
		{"queued applications", &model.Application{}, "status = 'queued'", &st.Queued},
	}
	for _, c := range counts {
		q := db.Model(c.model)
		if c.where != "" {
			q = q.Where(c.where)
		}
		if err := q.Count(c.dst).Error; err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", c.what, err)
		}
	}
	return &st, nil
}
