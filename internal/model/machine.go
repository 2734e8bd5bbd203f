package model

import "time"

// Machine is a laundry machine's static information. ID is its scenario label.
type Machine struct {
	ID         string `gorm:"primaryKey;size:128"`
	EntityID   string `gorm:"size:36;not null"`
	LocationID int64  `gorm:"index;not null"`
	Label      string `gorm:"size:128;not null"`
	Deck       int
	Seq        int
	CanWash    bool
	CanDry     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Associations
	Location Location `gorm:"constraint:OnDelete:CASCADE"`
}
