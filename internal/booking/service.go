package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"equipment-booking-backend/internal/dates"
	"equipment-booking-backend/internal/model"
)

// Service is the reservation scheduling engine: it owns the lifecycle state
// machine, conflict checking, derived availability, and overdue detection.
// All read-check-write sequences are serialized by a single mutex and run
// inside one database transaction, so a conflict check and the commit it
// guards cannot interleave with another writer.
type Service struct {
	db    *gorm.DB
	mu    sync.Mutex
	clock Clock
	loc   *time.Location
}

// New creates a scheduling engine over the given database.
func New(db *gorm.DB, clock Clock, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{db: db, clock: clock, loc: loc}
}

// Today returns the current calendar day in the engine's timezone.
func (s *Service) Today() dates.Date {
	return dates.FromTime(s.clock.Now().In(s.loc))
}

// EffectiveStatus maps a stored status to the one in force on the given day.
// Stored state never moves PENDING->ACTIVE; a pending reservation whose range
// has started is active for display, return, force-cancel, and overdue
// purposes. There is no background promotion job.
func EffectiveStatus(r *model.Reservation, today dates.Date) string {
	if r.Status == model.StatusPending && !today.Before(dates.Date(r.StartDate)) {
		return model.StatusActive
	}
	return r.Status
}

// Create validates a booking request and persists a new PENDING reservation.
// The conflict check runs inside the same transaction that commits the row.
func (s *Service) Create(ctx context.Context, itemIDs []string, start, end string, user model.User) (*model.Reservation, error) {
	ids := dedupe(itemIDs)
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: at least one item is required", ErrValidation)
	}
	rng, err := dates.NewRange(start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var created *model.Reservation
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var items []model.EquipmentItem
		if err := tx.Find(&items, "id IN ?", ids).Error; err != nil {
			return err
		}
		if len(items) != len(ids) {
			return fmt.Errorf("%w: one or more items do not exist", ErrNotFound)
		}

		conflict, err := hasConflict(tx, ids, rng, "")
		if err != nil {
			return err
		}
		if conflict {
			return fmt.Errorf("%w: requested range %s..%s overlaps an existing booking", ErrConflict, start, end)
		}

		res := &model.Reservation{
			ID:        uuid.NewString(),
			UserID:    user.ID,
			UserName:  user.Name,
			StartDate: string(rng.Start),
			EndDate:   string(rng.End),
			Status:    model.StatusPending,
			CreatedAt: s.clock.Now(),
			Items:     items,
		}
		if err := tx.Create(res).Error; err != nil {
			return err
		}

		// Holder hint is best-effort display state, never authoritative.
		if rng.Contains(s.Today()) {
			if err := setHolderHint(tx, ids, user.ID, user.Name); err != nil {
				return err
			}
		}

		created = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Cancel moves a reservation to CANCELLED. Owners may cancel their own
// pending bookings; effectively active bookings require an admin
// (force-cancel). Dates and items are untouched: history is permanent.
func (s *Service) Cancel(ctx context.Context, id string, actor model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res, err := getReservation(tx, id)
		if err != nil {
			return err
		}
		if res.Terminal() {
			return fmt.Errorf("%w: reservation %s is already %s", ErrInvalidState, id, res.Status)
		}

		switch EffectiveStatus(res, s.Today()) {
		case model.StatusActive:
			if !actor.IsAdmin() {
				return fmt.Errorf("%w: only an admin may cancel an active booking", ErrAuthorization)
			}
		default:
			if !actor.IsAdmin() && actor.ID != res.UserID {
				return fmt.Errorf("%w: cannot cancel another user's booking", ErrAuthorization)
			}
		}

		if err := tx.Model(res).Update("status", model.StatusCancelled).Error; err != nil {
			return err
		}
		return clearHolderHint(tx, res.ItemIDs(), res.UserID)
	})
}

// CompleteReturn moves an effectively active reservation to COMPLETED with a
// second-person verification. The verifier must not be the booking owner.
func (s *Service) CompleteReturn(ctx context.Context, id, verifierName string) error {
	verifier := strings.TrimSpace(verifierName)
	if len([]rune(verifier)) < 2 {
		return fmt.Errorf("%w: verifier name must be at least 2 characters", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res, err := getReservation(tx, id)
		if err != nil {
			return err
		}
		if res.Terminal() {
			return fmt.Errorf("%w: reservation %s is already %s", ErrInvalidState, id, res.Status)
		}
		if EffectiveStatus(res, s.Today()) != model.StatusActive {
			return fmt.Errorf("%w: reservation %s has not started yet", ErrInvalidState, id)
		}
		// Two-person control: the borrower cannot self-certify the return.
		// Comparison is case-sensitive on the exact stored name.
		if verifier == res.UserName {
			return fmt.Errorf("%w: verifier must differ from the booking owner", ErrValidation)
		}

		updates := map[string]any{
			"status":      model.StatusCompleted,
			"verified_by": verifier,
		}
		if err := tx.Model(res).Updates(updates).Error; err != nil {
			return err
		}
		return clearHolderHint(tx, res.ItemIDs(), res.UserID)
	})
}

// Get returns a reservation with its items, or ErrNotFound.
func (s *Service) Get(ctx context.Context, id string) (*model.Reservation, error) {
	return getReservation(s.db.WithContext(ctx), id)
}

// ListForUser returns a user's reservations, newest first.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]model.Reservation, error) {
	var out []model.Reservation
	err := s.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

// ListAll returns every reservation, newest first. Admin surface.
func (s *Service) ListAll(ctx context.Context) ([]model.Reservation, error) {
	var out []model.Reservation
	err := s.db.WithContext(ctx).
		Preload("Items").
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

func getReservation(tx *gorm.DB, id string) (*model.Reservation, error) {
	var res model.Reservation
	if err := tx.Preload("Items").First(&res, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: reservation %s", ErrNotFound, id)
		}
		return nil, err
	}
	return &res, nil
}

func setHolderHint(tx *gorm.DB, itemIDs []string, userID, userName string) error {
	return tx.Model(&model.EquipmentItem{}).
		Where("id IN ?", itemIDs).
		Updates(map[string]any{
			"current_holder_id":   userID,
			"current_holder_name": userName,
		}).Error
}

func clearHolderHint(tx *gorm.DB, itemIDs []string, userID string) error {
	if len(itemIDs) == 0 {
		return nil
	}
	return tx.Model(&model.EquipmentItem{}).
		Where("id IN ? AND current_holder_id = ?", itemIDs, userID).
		Updates(map[string]any{
			"current_holder_id":   "",
			"current_holder_name": "",
		}).Error
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
