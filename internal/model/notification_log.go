package model

import "time"

// Notification log kinds.
const (
	NoticeInfo    = "info"
	NoticeWarning = "warning"
)

// NotificationLog is an append-only record of a generated alert. Delivery is
// handled by external collaborators; this table is the admin audit trail.
type NotificationLog struct {
	ID            int64     `gorm:"autoIncrement;primaryKey" json:"id"`
	ReservationID string    `gorm:"size:36;index" json:"reservationId"`
	Kind          string    `gorm:"size:16;not null" json:"kind"`
	Message       string    `gorm:"size:512;not null" json:"message"`
	CreatedAt     time.Time `json:"createdAt"`
}
