package models

import "time"

// Admin is a back-office account. Accounts self-register on first Google
// login and stay locked out until the super admin approves them; the super
// admin email itself never gets a row here.
type Admin struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Email      string     `gorm:"uniqueIndex;not null" json:"email"`
	Name       string     `json:"name"`
	Picture    string     `json:"picture"`
	Approved   bool       `json:"approved"`
	ApprovedAt *time.Time `json:"approved_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}
