package models

import "gorm.io/gorm"

// Room is a persisted room definition. Occupancy and table lists live on
// the in-memory world, not here.
type Room struct {
	gorm.Model
	Name        string `gorm:"size:255;unique;not null"`
	Description string
}
