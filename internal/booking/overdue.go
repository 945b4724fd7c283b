package booking

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"equipment-booking-backend/internal/dates"
	"equipment-booking-backend/internal/model"
)

// Notice is an overdue alert handed to an external notifier. The scan decides
// when a notification is due; it never delivers anything itself.
type Notice struct {
	Reservation model.Reservation `json:"reservation"`
	Message     string            `json:"message"`
}

// ScanOverdue flags effectively active reservations whose end date has passed
// without a completed return. Each reservation is flagged exactly once: the
// notified latch only moves false->true, and the latch write re-checks status
// inside the transaction so a concurrent cancellation suppresses the alert.
// Reservation status itself is untouched; overdue is an overlay on ACTIVE.
func (s *Service) ScanOverdue(ctx context.Context, today dates.Date) ([]Notice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var notices []Notice
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var candidates []model.Reservation
		err := tx.Preload("Items").
			Where("status NOT IN ?", []string{model.StatusCancelled, model.StatusCompleted}).
			Where("notified = ?", false).
			Where("end_date < ?", string(today)).
			Find(&candidates).Error
		if err != nil {
			return err
		}

		for i := range candidates {
			r := candidates[i]
			if EffectiveStatus(&r, today) != model.StatusActive {
				continue
			}

			// Latch the flag with a guarded update: zero rows affected means
			// the reservation changed underneath us and must be skipped.
			update := tx.Model(&model.Reservation{}).
				Where("id = ? AND notified = ? AND status NOT IN ?",
					r.ID, false, []string{model.StatusCancelled, model.StatusCompleted}).
				Update("notified", true)
			if update.Error != nil {
				return update.Error
			}
			if update.RowsAffected == 0 {
				continue
			}
			r.Notified = true

			msg := overdueMessage(&r)
			entry := model.NotificationLog{
				ReservationID: r.ID,
				Kind:          model.NoticeWarning,
				Message:       msg,
				CreatedAt:     s.clock.Now(),
			}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
			notices = append(notices, Notice{Reservation: r, Message: msg})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return notices, nil
}

func overdueMessage(r *model.Reservation) string {
	names := make([]string, len(r.Items))
	for i, item := range r.Items {
		names[i] = item.Name
	}
	return fmt.Sprintf("Overdue: %s was due to return %s by %s",
		r.UserName, strings.Join(names, ", "), r.EndDate)
}
