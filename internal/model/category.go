package model

import "time"

// Category is a mutable equipment label managed by admins.
type Category struct {
	ID        int64     `gorm:"primaryKey" json:"-"`
	Name      string    `gorm:"uniqueIndex;size:128;not null" json:"name"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
