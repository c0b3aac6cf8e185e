// services/scoring.go — the additive scoring formula (authoritative)
package services

import "math"

// ScoreOpts are the optional inputs to CalculateScore.
type ScoreOpts struct {
	ElapsedSeconds float64
	MissedGuesses  int
	GraceSeconds   float64 // freezes the clock, e.g. while a UI loads
	Floor          int     // hard minimum; mainly for the legacy path
}

// ScoreBreakdown is the full receipt: every bonus and penalty as points,
// so callers can render exactly how the final score was reached.
type ScoreBreakdown struct {
	BasePoints    int `json:"base"`
	Multiplier    int `json:"multiplier"`
	AdjustedBase  int `json:"adjusted_base"`
	NoClueBonus   int `json:"no_clue_bonus"`
	CluePenalty   int `json:"clue_penalty"`
	NoMaliceBonus int `json:"no_malice_bonus"`
	MalicePenalty int `json:"malice_penalty"`
	StreakBonus   int `json:"streak_bonus"`
	TimeBonus     int `json:"time_bonus"`
	FinalScore    int `json:"final_score"`
}

// Streak bonus thresholds, scanned top down like the rank table.
var streakBonusTable = []struct {
	min int
	pct float64
}{
	{100, 0.30},
	{60, 0.20},
	{30, 0.15},
	{15, 0.10},
	{5, 0.05},
}

func streakBonusPct(streak int) float64 {
	for _, row := range streakBonusTable {
		if streak >= row.min {
			return row.pct
		}
	}
	return 0
}

// timeBonusPct maps effective elapsed seconds to a percentage of the
// adjusted base: +120% for instant answers, linearly down to 0% at 120s,
// flat to 300s, then -10% per full 30s step, floored at -30%.
func timeBonusPct(effectiveElapsed float64) float64 {
	var pct float64
	switch {
	case effectiveElapsed <= 1:
		pct = 1.2
	case effectiveElapsed <= 120:
		pct = 1.2 * (120 - effectiveElapsed) / 119
	case effectiveElapsed <= 300:
		pct = 0
	default:
		steps := math.Floor((effectiveElapsed - 300) / 30)
		pct = -0.10 * steps
		if pct < -0.30 {
			pct = -0.30
		}
	}
	// The stepped formula never leaves [-0.3, 1.2]; clamp anyway.
	if pct > 1.2 {
		pct = 1.2
	}
	if pct < -0.5 {
		pct = -0.5
	}
	return pct
}

// CalculateScore computes the additive, capped score breakdown.
// Pure function of its inputs: no I/O, no clock, no randomness.
// Every percentage is of adjustedBase = basePoints * multiplier, and
// every term is rounded to the nearest integer before summing.
func CalculateScore(d Difficulty, cluesUsed, streak int, opts ScoreOpts) ScoreBreakdown {
	adjustedBase := d.BasePoints * d.Multiplier
	points := func(pct float64) int {
		return int(math.Round(pct * float64(adjustedBase)))
	}

	b := ScoreBreakdown{
		BasePoints:   d.BasePoints,
		Multiplier:   d.Multiplier,
		AdjustedBase: adjustedBase,
	}

	if cluesUsed == 0 {
		b.NoClueBonus = points(0.10)
	} else {
		pct := 0.06 * float64(cluesUsed)
		if pct > 0.30 {
			pct = 0.30
		}
		b.CluePenalty = points(pct)
	}

	if opts.MissedGuesses == 0 {
		b.NoMaliceBonus = points(0.10)
	} else {
		pct := 0.06 * float64(opts.MissedGuesses)
		if pct > 0.30 {
			pct = 0.30
		}
		b.MalicePenalty = points(pct)
	}

	b.StreakBonus = points(streakBonusPct(streak))

	effective := opts.ElapsedSeconds - opts.GraceSeconds
	if effective < 0 {
		effective = 0
	}
	b.TimeBonus = points(timeBonusPct(effective))

	b.FinalScore = adjustedBase + b.NoClueBonus + b.NoMaliceBonus +
		b.StreakBonus + b.TimeBonus - b.CluePenalty - b.MalicePenalty
	if b.FinalScore < opts.Floor {
		b.FinalScore = opts.Floor
	}

	return b
}
