package model

import "time"

// Reservation states. COMPLETED and CANCELLED are terminal.
const (
	StatusPending   = "PENDING"
	StatusActive    = "ACTIVE"
	StatusCompleted = "COMPLETED"
	StatusCancelled = "CANCELLED"
)

// Reservation is a booking of one or more items for a closed date range.
// StartDate and EndDate are zero-padded ISO "YYYY-MM-DD" strings so that
// lexicographic order equals chronological order, both in Go and in SQL.
type Reservation struct {
	ID        string `gorm:"primaryKey;size:36" json:"id"`
	UserID    string `gorm:"size:36;not null;index" json:"userId"`
	UserName  string `gorm:"size:128;not null" json:"userName"`
	StartDate string `gorm:"size:10;not null" json:"startDate"`
	EndDate   string `gorm:"size:10;not null" json:"endDate"`
	Status    string `gorm:"size:16;not null;index" json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`
	// VerifiedBy is set exactly when Status is COMPLETED: the name of the
	// second person who confirmed the physical return.
	VerifiedBy string `gorm:"size:128" json:"verifiedBy,omitempty"`
	// Notified latches true once an overdue alert has been generated. It
	// never transitions back to false.
	Notified bool `gorm:"not null;default:false" json:"notified"`

	// Associations
	Items []EquipmentItem `gorm:"many2many:reservation_items;" json:"items"`
}

// Terminal reports whether the reservation permits no further transitions.
func (r Reservation) Terminal() bool {
	return r.Status == StatusCompleted || r.Status == StatusCancelled
}

// ItemIDs returns the ids of the reserved items.
func (r Reservation) ItemIDs() []string {
	ids := make([]string, len(r.Items))
	for i, item := range r.Items {
		ids[i] = item.ID
	}
	return ids
}
