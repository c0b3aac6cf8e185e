package models

// Player is one guessable footballer, populated by the scraper pipeline
// (via the sync worker or the R2 dataset import).
type Player struct {
	ID             string `gorm:"primaryKey;type:uuid" json:"id"`
	Name           string `gorm:"not null" json:"name"`
	NormalizedName string `gorm:"uniqueIndex;not null" json:"normalized_name"` // slugified, what guesses are matched against
	Nationality    string `json:"nationality,omitempty"`
	Position       string `json:"position,omitempty"`
	BirthYear      int    `json:"birth_year,omitempty"`
	CurrentClub    string `json:"current_club,omitempty"`

	Stats []PlayerStat `gorm:"foreignKey:PlayerID" json:"stats,omitempty"`

	Timestamps
}

// PlayerStat is one per-competition appearance count for a player.
// Difficulty is derived from these rows at round-creation time, never cached.
type PlayerStat struct {
	ID            string `gorm:"primaryKey;type:uuid" json:"id"`
	PlayerID      string `gorm:"not null;index;uniqueIndex:idx_player_competition" json:"player_id"`
	CompetitionID string `gorm:"not null;uniqueIndex:idx_player_competition" json:"competition_id"`
	Appearances   int    `gorm:"default:0" json:"appearances"`

	Timestamps
}
