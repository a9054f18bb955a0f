package models

import "gorm.io/gorm"

// Card is one catalog card. Catalog rows are immutable at runtime; the
// game layer only ever holds read-only pointers to them.
type Card struct {
	gorm.Model
	Name      string `gorm:"size:255;index;not null"`
	ManaCost  string `gorm:"size:64"`
	CMC       int
	Colors    string `gorm:"size:64"`
	Type      string `gorm:"size:255"`
	Rarity    string `gorm:"size:32"`
	Text      string
	Power     string `gorm:"size:8"`
	Toughness string `gorm:"size:8"`
	Loyalty   string `gorm:"size:8"`
}

// SearchCards finds catalog cards by case-insensitive name match.
func SearchCards(db *gorm.DB, name string) ([]Card, error) {
	var cards []Card
	err := db.Where("LOWER(name) LIKE LOWER(?)", "%"+name+"%").Order("name").Find(&cards).Error
	return cards, err
}
