package model

import "time"

// Reminder is a pending or delivered maintenance notification registered by the
// reminder sink. Handle is the opaque identifier given back to callers.
type Reminder struct {
	Handle      string    `gorm:"primaryKey;size:64"`
	ReferenceID string    `gorm:"index;size:64;not null"` // schedule the reminder belongs to
	Title       string    `gorm:"size:256;not null"`
	Body        string    `gorm:"size:1024;not null"`
	FireAt      time.Time `gorm:"index;not null"`
	DeliveredAt *time.Time
	CreatedAt   time.Time `gorm:"not null"`
}
