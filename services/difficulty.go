// services/difficulty.go — appearance-based difficulty classification
package services

// DifficultyTier is a closed set so the downgrade rules below stay
// exhaustive-checkable. Order matters: higher value = harder.
type DifficultyTier int

const (
	TierEasy DifficultyTier = iota
	TierMedium
	TierHard
	TierUltra
)

func (t DifficultyTier) String() string {
	switch t {
	case TierEasy:
		return "easy"
	case TierMedium:
		return "medium"
	case TierHard:
		return "hard"
	default:
		return "ultra"
	}
}

func (t DifficultyTier) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// Multiplier returns the whole-integer multiplier the additive formula
// uses. The legacy display formula keeps its own fractional table.
func (t DifficultyTier) Multiplier() int {
	switch t {
	case TierEasy:
		return 1
	case TierMedium:
		return 2
	case TierHard:
		return 3
	default:
		return 4
	}
}

type DifficultyBasis int

const (
	BasisInternational DifficultyBasis = iota
	BasisTop5
)

func (b DifficultyBasis) String() string {
	if b == BasisTop5 {
		return "top5"
	}
	return "international"
}

func (b DifficultyBasis) MarshalJSON() ([]byte, error) {
	return []byte(`"` + b.String() + `"`), nil
}

const (
	difficultyBasePoints  = 100
	legacyCluePenaltyStep = 10 // consumed only by the legacy display formula
)

// Difficulty is derived per use from a player's stat rows, never cached.
type Difficulty struct {
	Basis            DifficultyBasis `json:"basis"`
	TotalAppearances float64         `json:"total_appearances"`
	Tier             DifficultyTier  `json:"tier"`
	Multiplier       int             `json:"multiplier"`
	BasePoints       int             `json:"base_points"`
	CluePenalty      int             `json:"clue_penalty"`
}

// StatRow is the slice of a player's record the classifier reads.
type StatRow struct {
	CompetitionID string
	Appearances   int
}

// Champions League and Europa League weigh full, lesser UEFA
// competitions half. Anything not listed contributes nothing.
var internationalWeights = map[string]float64{
	"champions-league":  1.0,
	"europa-league":     1.0,
	"conference-league": 0.5,
	"uefa-super-cup":    0.5,
}

var top5Leagues = map[string]struct{}{
	"premier-league": {},
	"la-liga":        {},
	"serie-a":        {},
	"bundesliga":     {},
	"ligue-1":        {},
}

func classifyInternational(total float64) DifficultyTier {
	switch {
	case total >= 100:
		return TierEasy
	case total >= 50:
		return TierMedium
	case total >= 20:
		return TierHard
	default:
		return TierUltra
	}
}

func classifyTop5(total float64) DifficultyTier {
	switch {
	case total >= 200:
		return TierEasy
	case total >= 100:
		return TierMedium
	case total >= 30:
		return TierHard
	default:
		return TierUltra
	}
}

// DifficultyOpts carries the forceUltra override for the daily-ultra mode.
type DifficultyOpts struct {
	ForceUltra bool
}

// ComputeDifficulty classifies a player's stat rows into a tier and
// multiplier. Both bases are classified independently; international is
// preferred unless it comes out ultra, in which case top-5 is used when
// any top-5 appearances exist. Cross-basis downgrade rules guard against
// one axis being inflated while the other is near-zero.
func ComputeDifficulty(stats []StatRow, opts DifficultyOpts) Difficulty {
	var intlTotal, top5Total float64
	for _, row := range stats {
		if w, ok := internationalWeights[row.CompetitionID]; ok {
			intlTotal += w * float64(row.Appearances)
		}
		if _, ok := top5Leagues[row.CompetitionID]; ok {
			top5Total += float64(row.Appearances)
		}
	}

	intlTier := classifyInternational(intlTotal)
	top5Tier := classifyTop5(top5Total)

	basis := BasisInternational
	tier := intlTier
	total := intlTotal
	if intlTier == TierUltra && top5Total > 0 {
		basis = BasisTop5
		tier = top5Tier
		total = top5Total
	}

	if !opts.ForceUltra {
		// Downgrades only ever move a tier down, never up.
		switch {
		case basis == BasisTop5 && tier == TierEasy && intlTotal < 50:
			tier = TierMedium
		case basis == BasisTop5 && tier == TierMedium && intlTotal < 35:
			tier = TierHard
		case basis == BasisInternational && tier == TierEasy && top5Total < 100:
			tier = TierMedium
		case basis == BasisInternational && tier == TierMedium && top5Total < 50:
			tier = TierHard
		}
	} else {
		tier = TierUltra
	}

	return Difficulty{
		Basis:            basis,
		TotalAppearances: total,
		Tier:             tier,
		Multiplier:       tier.Multiplier(),
		BasePoints:       difficultyBasePoints,
		CluePenalty:      legacyCluePenaltyStep,
	}
}
