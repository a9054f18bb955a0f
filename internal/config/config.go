package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	DatabaseURL    string   `mapstructure:"DATABASE_URL"`
	JWTSecret      string   `mapstructure:"JWT_SECRET"`
	ListenAddr     string   `mapstructure:"LISTEN_ADDR"`
	HTTPAddr       string   `mapstructure:"HTTP_ADDR"`
	AdminName      string   `mapstructure:"ADMIN_NAME"`
	LobbyRoomName  string   `mapstructure:"LOBBY_ROOM_NAME"`
	LobbyRoomDesc  string   `mapstructure:"LOBBY_ROOM_DESC"`
	HelpDir        string   `mapstructure:"HELP_DIR"`
	DeckCardLimit  int      `mapstructure:"DECK_CARD_LIMIT"`
	TickIntervalMS int      `mapstructure:"TICK_INTERVAL_MS"`
	RoundTicks     int      `mapstructure:"ROUND_TICKS"`
	BannedNames    []string `mapstructure:"BANNED_NAMES"`
}

var AppConfig *Config

// LoadConfig loads the configuration from a .env file and environment variables.
func LoadConfig() {
	viper.AddConfigPath(".")
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	viper.AutomaticEnv()

	viper.SetDefault("LISTEN_ADDR", ":4000")
	viper.SetDefault("HTTP_ADDR", ":8080")
	viper.SetDefault("ADMIN_NAME", "admin")
	viper.SetDefault("LOBBY_ROOM_NAME", "The Lobby")
	viper.SetDefault("LOBBY_ROOM_DESC", "A warm hall lined with empty card tables.")
	viper.SetDefault("HELP_DIR", "help")
	viper.SetDefault("DECK_CARD_LIMIT", 600)
	viper.SetDefault("TICK_INTERVAL_MS", 1000)
	// 50 minutes of one-second ticks.
	viper.SetDefault("ROUND_TICKS", 50*60)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("Warning: .env file not found, loading from environment variables")
	}

	err := viper.Unmarshal(&AppConfig)
	if err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}
}
