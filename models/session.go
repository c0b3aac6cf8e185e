package models

// GameSession accumulates play across many rounds for one client.
// Created lazily (insert-if-absent) on first scored interaction.
// Invariant: BestStreak >= Streak always.
type GameSession struct {
	ID         string `gorm:"primaryKey;type:uuid" json:"id"`
	Nickname   string `json:"nickname,omitempty"`
	Streak     int    `gorm:"default:0" json:"streak"`
	BestStreak int    `gorm:"default:0" json:"best_streak"`
	TotalScore int64  `gorm:"default:0" json:"total_score"`

	// Last scored round bookkeeping, used to answer retried guess
	// submissions from persisted values instead of recomputing.
	LastRoundID        string `json:"last_round_id,omitempty"`
	LastRoundScore     int    `json:"last_round_score,omitempty"`
	LastRoundBreakdown string `gorm:"type:text" json:"-"` // JSON-encoded ScoreBreakdown

	Timestamps
}
