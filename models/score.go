package models

// Score is the immutable record of one completed round.
// The unique index on RoundID is what makes guess submission idempotent:
// a second write for the same round is an insert-or-ignore no-op.
type Score struct {
	ID            string `gorm:"primaryKey;type:uuid" json:"id"`
	RoundID       string `gorm:"uniqueIndex;not null" json:"round_id"`
	SessionID     string `gorm:"not null;index" json:"session_id"`
	Correct       bool   `json:"correct"`
	Score         int    `json:"score"`
	BaseScore     int    `json:"base_score"`
	TimeScore     int    `json:"time_score"`
	Streak        int    `json:"streak"` // post-round value
	MalicePenalty int    `json:"malice_penalty"`

	Timestamps
}
