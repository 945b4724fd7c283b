package model

import "time"

// Roles assignable to a user.
const (
	RoleEmployee = "employee"
	RoleAdmin    = "admin"
)

// DefaultPassword is what admin-initiated resets restore a password to.
// Plaintext credentials are a carry-over from the single-tenant origin of this
// system; real authentication sits outside this service.
const DefaultPassword = "1234"

// User is a staff member who can borrow equipment.
type User struct {
	ID        string `gorm:"primaryKey;size:36" json:"id"`
	Name      string `gorm:"size:128;not null" json:"name"`
	Email     string `gorm:"size:256" json:"email"`
	Role      string `gorm:"size:16;not null" json:"role"`
	Password  string `gorm:"size:128" json:"-"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// IsAdmin reports whether the user may perform privileged operations.
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }
