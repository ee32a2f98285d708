package models

import "time"

// GuestUser is an anonymous storefront session. Each guest owns one cart
// namespace in the local key-value store.
type GuestUser struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	ExpiresAt time.Time `json:"expires_at"`
}
