package models

import "gorm.io/gorm"

// Deck is a named list of catalog cards owned by a user.
// Cards persist as a mapping of catalog card ID to copy count.
type Deck struct {
	gorm.Model
	Name   string       `gorm:"size:255;not null"`
	UserID uint         `gorm:"not null;index"`
	Cards  map[uint]int `gorm:"serializer:json"`
}

// CardCount returns the total number of copies across the deck.
func (d *Deck) CardCount() int {
	n := 0
	for _, count := range d.Cards {
		n += count
	}
	return n
}
