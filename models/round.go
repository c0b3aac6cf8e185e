package models

// Round is one guessing attempt against a hidden player.
// Server-side source of truth for state the token cannot carry:
// the clue counter is mutable and must not be forgeable by the client.
type Round struct {
	ID              string `gorm:"primaryKey;type:uuid" json:"id"`
	PlayerID        string `gorm:"not null;index" json:"-"` // never serialized — the player is the secret
	SessionID       string `gorm:"not null;index" json:"session_id"`
	CluesUsed       int    `gorm:"default:0" json:"clues_used"`
	ForceUltra      bool   `gorm:"default:false" json:"force_ultra"` // daily-ultra mode: difficulty pinned to ultra
	MaxCluesAllowed int    `gorm:"default:10" json:"max_clues_allowed"`
	StartedAt       int64  `gorm:"not null" json:"started_at"`       // unix seconds
	ExpiresAt       int64  `gorm:"not null;index" json:"expires_at"` // unix seconds, playable only while now < expires_at

	Timestamps
}
