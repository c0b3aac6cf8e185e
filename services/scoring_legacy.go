// services/scoring_legacy.go — superseded multiplicative formula
//
// Kept for display only: older clients render this number next to the
// authoritative additive score. It is never persisted and never feeds
// the session ledger.
package services

import "math"

var legacyMultipliers = map[DifficultyTier]float64{
	TierEasy:   1.0,
	TierMedium: 1.25,
	TierHard:   1.5,
	TierUltra:  2.0,
}

// LegacyDisplayScore reproduces the old multiplicative arithmetic:
// base * fractional multiplier, -2% per missed guess capped at -50%,
// then a flat clue penalty per clue used.
func LegacyDisplayScore(d Difficulty, cluesUsed, missedGuesses int) int {
	score := float64(d.BasePoints) * legacyMultipliers[d.Tier]

	maliceFactor := 1 - 0.02*float64(missedGuesses)
	if maliceFactor < 0.5 {
		maliceFactor = 0.5
	}
	score *= maliceFactor

	score -= float64(d.CluePenalty * cluesUsed)
	if score < 0 {
		score = 0
	}
	return int(math.Round(score))
}
