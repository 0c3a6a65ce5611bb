package database

import (
	"context"
	"fmt"
	"time"

	"signboard-admin/internal/models"
)

// ListDocumentsBetween returns the documents of a collection created in
// [start, end], oldest first.
func (s *GormStore) ListDocumentsBetween(ctx context.Context, collection string, start, end time.Time) ([]models.Record, error) {
	var recs []models.Record
	err := s.db.WithContext(ctx).
		Where("collection = ? AND created_at BETWEEN ? AND ?", collection, start.UTC(), end.UTC()).
		Order("created_at ASC").Order("id ASC").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("list %s between %s and %s: %w", collection, start.Format(time.RFC3339), end.Format(time.RFC3339), err)
	}
	return recs, nil
}
