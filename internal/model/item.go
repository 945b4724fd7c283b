package model

import "time"

// EquipmentItem is a piece of shared equipment. It carries no stored
// availability status: availability is always derived from the reservation
// ledger at read time. The current holder fields are a best-effort display
// hint only and are never consulted by the scheduling engine.
type EquipmentItem struct {
	ID                string `gorm:"primaryKey;size:36" json:"id"`
	Name              string `gorm:"size:256;not null" json:"name"`
	Category          string `gorm:"size:128;not null;index" json:"category"`
	Specifications    string `gorm:"size:512" json:"specifications,omitempty"`
	CurrentHolderID   string `gorm:"size:36" json:"currentHolderId,omitempty"`
	CurrentHolderName string `gorm:"size:128" json:"currentHolderName,omitempty"`
	CreatedAt         time.Time `json:"-"`
	UpdatedAt         time.Time `json:"-"`
}
