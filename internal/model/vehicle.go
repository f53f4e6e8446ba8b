package model

import "time"

// Vehicle maps a normalized plate to the account that owns it.
// A plate belongs to exactly one owner for the lifetime of the record.
type Vehicle struct {
	ID        string    `gorm:"primaryKey;size:36"`
	Plate     string    `gorm:"uniqueIndex;size:16;not null"`
	OwnerID   int64     `gorm:"index;not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	// Associations
	Owner User `gorm:"constraint:OnDelete:CASCADE"`
}
