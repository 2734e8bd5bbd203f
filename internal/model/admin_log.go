package model

import "time"

// AdminLog records an action administrators should be able to review.
type AdminLog struct {
	ID         int64     `gorm:"primaryKey"`
	ObservedAt time.Time `gorm:"not null;index"`
	Impact     string    `gorm:"size:16;not null"`
	User       string    `gorm:"size:128;not null"`
	Target     string    `gorm:"size:128;not null"`
	Message    string    `gorm:"not null"`
}
