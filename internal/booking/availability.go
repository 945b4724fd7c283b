package booking

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"equipment-booking-backend/internal/dates"
	"equipment-booking-backend/internal/model"
)

// Derived item statuses.
const (
	Available = "AVAILABLE"
	Borrowed  = "BORROWED"
)

// Availability is an item's derived schedule as of a given day. It is
// computed from the reservation ledger on every read, so it can never drift
// from the bookings the way a separately stored status flag could.
type Availability struct {
	ItemID   string              `json:"itemId"`
	AsOf     dates.Date          `json:"asOf"`
	Status   string              `json:"status"`
	Current  *model.Reservation  `json:"currentHolder,omitempty"`
	Upcoming []model.Reservation `json:"upcoming"`
}

// Availability derives an item's status, current holder, and upcoming
// schedule from the non-terminal reservations that reference it. Pure read.
func (s *Service) Availability(ctx context.Context, itemID string, asOf dates.Date) (*Availability, error) {
	tx := s.db.WithContext(ctx)

	var item model.EquipmentItem
	if err := tx.First(&item, "id = ?", itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: item %s", ErrNotFound, itemID)
		}
		return nil, err
	}

	var reservations []model.Reservation
	err := tx.Preload("Items").
		Where("status NOT IN ?", []string{model.StatusCancelled, model.StatusCompleted}).
		Where("id IN (?)", tx.Session(&gorm.Session{NewDB: true}).
			Table("reservation_items").
			Select("reservation_id").
			Where("equipment_item_id = ?", itemID)).
		Find(&reservations).Error
	if err != nil {
		return nil, err
	}

	sort.Slice(reservations, func(i, j int) bool {
		return reservations[i].StartDate < reservations[j].StartDate
	})

	out := &Availability{
		ItemID:   itemID,
		AsOf:     asOf,
		Status:   Available,
		Upcoming: []model.Reservation{},
	}

	// "Current" is the reservation whose range contains asOf; at most one can
	// exist because non-terminal ranges on a shared item never overlap.
	cutoff := asOf
	for i := range reservations {
		r := reservations[i]
		rng := dates.Range{Start: dates.Date(r.StartDate), End: dates.Date(r.EndDate)}
		if rng.Contains(asOf) && EffectiveStatus(&r, asOf) == model.StatusActive {
			out.Status = Borrowed
			out.Current = &reservations[i]
			cutoff = rng.End
			break
		}
	}

	for _, r := range reservations {
		if dates.Date(r.StartDate).After(cutoff) {
			out.Upcoming = append(out.Upcoming, r)
		}
	}
	return out, nil
}
