package models

import "time"

// Base holds the id and timestamp columns shared by users and products.
type Base struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
