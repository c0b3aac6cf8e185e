package models

import "time"

// LeaderboardEntry is a periodic snapshot read model recomputed from
// session totals by the scheduler — reads never rank on the fly.
type LeaderboardEntry struct {
	ID         string    `gorm:"primaryKey;type:uuid" json:"id"`
	SessionID  string    `gorm:"uniqueIndex;not null" json:"session_id"`
	Nickname   string    `json:"nickname,omitempty"`
	Rank       int       `gorm:"index" json:"rank"`
	TotalScore int64     `json:"total_score"`
	BestStreak int       `json:"best_streak"`
	SnapshotAt time.Time `json:"snapshot_at"`

	Timestamps
}
