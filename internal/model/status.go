package model

import (
	"time"
)

// MachineStatus is the current state of a running machine (hot table). Machines that are off
// have no row.
type MachineStatus struct {
	MachineID     string    `gorm:"primaryKey;size:128"`
	ObservedAt    time.Time `gorm:"not null"`
	State         string    `gorm:"size:32;not null"`
	WashState     string    `gorm:"size:32;not null"`
	Mode          string    `gorm:"size:32;not null"`
	Paused        bool      `gorm:"not null"`
	TimeRemaining int       `gorm:"not null"`
}

// MachineHistory is a finished status period (cold table).
type MachineHistory struct {
	MachineID   string    `gorm:"size:128;not null;index;primaryKey"`
	ObservedAt  time.Time `gorm:"not null;index;primaryKey"` // Time the period's END was observed
	State       string    `gorm:"size:32;not null"`
	WashState   string    `gorm:"size:32;not null"`
	PeriodStart time.Time `gorm:"not null"`
	PeriodEnd   time.Time `gorm:"not null"` // Predicted end time
}

// MachineEvent is one entry of a machine's transition log.
type MachineEvent struct {
	ID         int64     `gorm:"primaryKey"`
	MachineID  string    `gorm:"size:128;not null;index"`
	ObservedAt time.Time `gorm:"not null;index"`
	Kind       string    `gorm:"size:32;not null"`
	State      string    `gorm:"size:32;not null"`
	WashState  string    `gorm:"size:32;not null"`
	Sound      string    `gorm:"size:32"`
}
