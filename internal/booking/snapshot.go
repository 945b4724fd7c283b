package booking

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"equipment-booking-backend/internal/dates"
	"equipment-booking-backend/internal/model"
)

// SnapshotVersion tags exported snapshots. The persisted format of the origin
// system carried no version at all, so imports also accept a zero version.
const SnapshotVersion = 1

// Snapshot is a full structural copy of the four entity collections, used for
// trusted backup and restore.
type Snapshot struct {
	Version      int                   `json:"version"`
	Users        []model.User          `json:"users"`
	Items        []model.EquipmentItem `json:"items"`
	Categories   []model.Category      `json:"categories"`
	Reservations []model.Reservation   `json:"reservations"`
}

// Export reads the whole store into a versioned snapshot.
func (s *Service) Export(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{Version: SnapshotVersion}
	tx := s.db.WithContext(ctx)

	if err := tx.Find(&snap.Users).Error; err != nil {
		return nil, err
	}
	if err := tx.Find(&snap.Items).Error; err != nil {
		return nil, err
	}
	if err := tx.Find(&snap.Categories).Error; err != nil {
		return nil, err
	}
	if err := tx.Preload("Items").Find(&snap.Reservations).Error; err != nil {
		return nil, err
	}
	return snap, nil
}

// Import atomically replaces the entire store with the snapshot contents.
// This is a trusted restore escape hatch: per-reservation conflict checks are
// bypassed, but the ledger invariants are re-validated up front and a snapshot
// whose non-terminal reservations overlap on a shared item is rejected whole.
func (s *Service) Import(ctx context.Context, snap *Snapshot) error {
	if snap.Version > SnapshotVersion {
		return fmt.Errorf("%w: unsupported snapshot version %d", ErrValidation, snap.Version)
	}
	if err := validateSnapshot(snap); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, stmt := range []string{
			"DELETE FROM reservation_items",
			"DELETE FROM reservations",
			"DELETE FROM equipment_items",
			"DELETE FROM categories",
			"DELETE FROM users",
		} {
			if err := tx.Exec(stmt).Error; err != nil {
				return err
			}
		}

		if len(snap.Users) > 0 {
			if err := tx.Create(&snap.Users).Error; err != nil {
				return err
			}
		}
		if len(snap.Categories) > 0 {
			if err := tx.Create(&snap.Categories).Error; err != nil {
				return err
			}
		}
		if len(snap.Items) > 0 {
			if err := tx.Create(&snap.Items).Error; err != nil {
				return err
			}
		}
		if len(snap.Reservations) > 0 {
			if err := tx.Create(&snap.Reservations).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// validateSnapshot enforces the ledger invariants on trusted input before it
// replaces the store.
func validateSnapshot(snap *Snapshot) error {
	type entry struct {
		id    string
		rng   dates.Range
		items []string
	}
	var open []entry

	for i := range snap.Reservations {
		r := &snap.Reservations[i]
		if len(r.Items) == 0 {
			return fmt.Errorf("%w: reservation %s has no items", ErrValidation, r.ID)
		}
		rng, err := dates.NewRange(r.StartDate, r.EndDate)
		if err != nil {
			return fmt.Errorf("%w: reservation %s: %v", ErrValidation, r.ID, err)
		}
		if (r.VerifiedBy != "") != (r.Status == model.StatusCompleted) {
			return fmt.Errorf("%w: reservation %s: verifiedBy must be set exactly when completed", ErrValidation, r.ID)
		}
		if !r.Terminal() {
			open = append(open, entry{id: r.ID, rng: rng, items: r.ItemIDs()})
		}
	}

	for i := 0; i < len(open); i++ {
		for j := i + 1; j < len(open); j++ {
			if open[i].rng.Overlaps(open[j].rng) && sharesItem(open[i].items, open[j].items) {
				return fmt.Errorf("%w: reservations %s and %s overlap on a shared item",
					ErrValidation, open[i].id, open[j].id)
			}
		}
	}
	return nil
}

func sharesItem(a, b []string) bool {
	set := make(map[string]struct{}, len(a))
	for _, id := range a {
		set[id] = struct{}{}
	}
	for _, id := range b {
		if _, ok := set[id]; ok {
			return true
		}
	}
	return false
}
