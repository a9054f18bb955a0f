package models

// ChannelScope defines who receives traffic on a channel.
type ChannelScope int

const (
	ScopeServer ChannelScope = iota
	ScopeRoom
	ScopeTable
	ScopeWhisper
)

// Channel is a chat channel addressed by a single leading key rune.
type Channel struct {
	Key         string       `gorm:"size:1;primaryKey"`
	Name        string       `gorm:"size:64;not null"`
	ColourToken string       `gorm:"size:2"`
	Scope       ChannelScope `gorm:"not null"`
	Default     bool         `gorm:"default:false"`
}
