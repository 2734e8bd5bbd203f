package model

import "time"

// PushSubscription is a browser push endpoint and the machines it wants to hear about.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey"`
	P256DH    string    `gorm:"column:p256dh;not null"`
	Auth      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time // last time the browser re-subscribed

	// Machines are joined by label.
	Machines []*Machine `gorm:"many2many:subscription_machine_mapping;"`
}
