package models

import "gorm.io/gorm"

// UserFlags are the moderation and capability toggles carried by a user.
// Admin, muted, frozen and banned are flipped by admin verbs at runtime.
type UserFlags struct {
	Admin     bool `json:"admin"`
	AllowSpec bool `json:"allow_spec"`
	Banned    bool `json:"banned"`
	Muted     bool `json:"muted"`
	Frozen    bool `json:"frozen"`
}

// User represents a registered player.
type User struct {
	gorm.Model
	Name         string            `gorm:"size:20;unique;not null"`
	PasswordHash string            `gorm:"size:255;not null"`
	Aliases      map[string]string `gorm:"serializer:json"`
	Flags        UserFlags         `gorm:"serializer:json"`

	// Listening holds the keys of the channels the user receives.
	Listening string `gorm:"size:32"`

	// A user has at most one active deck, used when joining a table.
	ActiveDeckID *uint  `gorm:"index"`
	ActiveDeck   *Deck  `gorm:"foreignKey:ActiveDeckID"`
	Decks        []Deck `gorm:"foreignKey:UserID"`
}
