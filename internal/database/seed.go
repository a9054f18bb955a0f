package database

import (
	"errors"
	"log"

	"cardmud/server/internal/models"

	"gorm.io/gorm"
)

// Seed creates the rows the server cannot run without: the lobby room,
// the default chat channels, and a handful of catalog cards when the
// catalog has not been ingested yet.
func Seed(lobbyName, lobbyDesc string) {
	var lobby models.Room
	if err := DB.Where("name = ?", lobbyName).First(&lobby).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("No lobby found, creating %q...", lobbyName)
		lobby = models.Room{Name: lobbyName, Description: lobbyDesc}
		if err := DB.Create(&lobby).Error; err != nil {
			log.Fatalf("Failed to create lobby room: %v", err)
		}
	}

	var channelCount int64
	DB.Model(&models.Channel{}).Count(&channelCount)
	if channelCount == 0 {
		log.Println("No channels found, creating defaults...")
		defaults := []models.Channel{
			{Key: ".", Name: "chat", ColourToken: "&G", Scope: models.ScopeServer, Default: true},
			{Key: "'", Name: "say", ColourToken: "&C", Scope: models.ScopeRoom, Default: true},
			{Key: ":", Name: "table", ColourToken: "&Y", Scope: models.ScopeTable, Default: true},
			{Key: ">", Name: "whisper", ColourToken: "&M", Scope: models.ScopeWhisper, Default: true},
		}
		if err := DB.Create(&defaults).Error; err != nil {
			log.Fatalf("Failed to create default channels: %v", err)
		}
	}

	var cardCount int64
	DB.Model(&models.Card{}).Count(&cardCount)
	if cardCount == 0 {
		log.Println("Card catalog is empty, seeding basic lands. Run the catalog importer for the full set.")
		basics := []models.Card{
			{Name: "Plains", Type: "Basic Land - Plains", Text: "W"},
			{Name: "Island", Type: "Basic Land - Island", Text: "U"},
			{Name: "Swamp", Type: "Basic Land - Swamp", Text: "B"},
			{Name: "Mountain", Type: "Basic Land - Mountain", Text: "R"},
			{Name: "Forest", Type: "Basic Land - Forest", Text: "G"},
		}
		if err := DB.Create(&basics).Error; err != nil {
			log.Fatalf("Failed to seed basic lands: %v", err)
		}
	}
}
