package booking

import (
	"context"

	"gorm.io/gorm"

	"equipment-booking-backend/internal/dates"
	"equipment-booking-backend/internal/model"
)

// HasConflict reports whether any non-terminal reservation sharing an item
// with itemIDs overlaps the candidate range. excludeID skips the reservation
// being edited, if any. Pure read; callers that intend to commit must re-check
// under the engine's write lock, which Create does internally.
func (s *Service) HasConflict(ctx context.Context, itemIDs []string, rng dates.Range, excludeID string) (bool, error) {
	return hasConflict(s.db.WithContext(ctx), dedupe(itemIDs), rng, excludeID)
}

func hasConflict(tx *gorm.DB, itemIDs []string, rng dates.Range, excludeID string) (bool, error) {
	if len(itemIDs) == 0 {
		return false, nil
	}

	q := tx.Model(&model.Reservation{}).
		Where("status NOT IN ?", []string{model.StatusCancelled, model.StatusCompleted}).
		Where("id IN (?)", tx.Session(&gorm.Session{NewDB: true}).
			Table("reservation_items").
			Select("reservation_id").
			Where("equipment_item_id IN ?", itemIDs))
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}

	var existing []model.Reservation
	if err := q.Find(&existing).Error; err != nil {
		return false, err
	}

	for _, r := range existing {
		other := dates.Range{Start: dates.Date(r.StartDate), End: dates.Date(r.EndDate)}
		if rng.Overlaps(other) {
			return true, nil
		}
	}
	return false, nil
}
