package model

import (
	"time"

	"gorm.io/datatypes"
)

// Slot is one named entry of the key-value table backing the entity store.
// Each entity collection is serialized as a JSON array into its own slot.
type Slot struct {
	Name      string         `gorm:"primaryKey;size:64"`
	Value     datatypes.JSON `gorm:"not null"`
	UpdatedAt time.Time      `gorm:"not null"`
}

// TableName overrides the table name for Slot.
func (Slot) TableName() string {
	return "kv_slots"
}
