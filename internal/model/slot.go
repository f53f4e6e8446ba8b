package model

import "time"

// Slot is one unit of the fixed parking/charging pool. The pool is
// provisioned once at bring-up; afterwards only the occupancy state and
// bound plate mutate, and only through the store's conditional transition.
//
// Invariant: Occupied implies a non-empty Plate, Free implies an empty one.
type Slot struct {
	ID          int64     `gorm:"primaryKey"`
	DisplayName string    `gorm:"uniqueIndex;size:128;not null"`
	Occupied    bool      `gorm:"not null;default:false"`
	Plate       string    `gorm:"size:16;index;not null;default:''"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}
