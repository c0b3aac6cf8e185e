package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoStatsDefaultsToUltra(t *testing.T) {
	d := ComputeDifficulty(nil, DifficultyOpts{})

	assert.Equal(t, BasisInternational, d.Basis)
	assert.Equal(t, TierUltra, d.Tier)
	assert.Equal(t, 4, d.Multiplier)
	assert.Equal(t, 0.0, d.TotalAppearances)
	assert.Equal(t, 100, d.BasePoints)
}

func TestUnknownCompetitionsIgnored(t *testing.T) {
	d := ComputeDifficulty([]StatRow{
		{CompetitionID: "mls", Appearances: 500},
		{CompetitionID: "eredivisie", Appearances: 300},
	}, DifficultyOpts{})

	assert.Equal(t, TierUltra, d.Tier)
	assert.Equal(t, 0.0, d.TotalAppearances)
}

func TestInternationalWeights(t *testing.T) {
	// Champions League full weight, Conference League half.
	d := ComputeDifficulty([]StatRow{
		{CompetitionID: "champions-league", Appearances: 10},
		{CompetitionID: "conference-league", Appearances: 20},
	}, DifficultyOpts{})

	assert.Equal(t, BasisInternational, d.Basis)
	assert.Equal(t, 20.0, d.TotalAppearances) // 10*1.0 + 20*0.5
	assert.Equal(t, TierHard, d.Tier)         // exactly on the hard boundary
}

func TestInternationalEasyStaysEasyWithStrongDomestic(t *testing.T) {
	d := ComputeDifficulty([]StatRow{
		{CompetitionID: "champions-league", Appearances: 120},
		{CompetitionID: "premier-league", Appearances: 150},
	}, DifficultyOpts{})

	assert.Equal(t, BasisInternational, d.Basis)
	assert.Equal(t, TierEasy, d.Tier)
	assert.Equal(t, 1, d.Multiplier)
}

func TestInternationalEasyDowngradedOnThinDomestic(t *testing.T) {
	d := ComputeDifficulty([]StatRow{
		{CompetitionID: "champions-league", Appearances: 120},
		{CompetitionID: "premier-league", Appearances: 50},
	}, DifficultyOpts{})

	assert.Equal(t, BasisInternational, d.Basis)
	assert.Equal(t, TierMedium, d.Tier)
}

func TestInternationalMediumDowngradedOnThinDomestic(t *testing.T) {
	d := ComputeDifficulty([]StatRow{
		{CompetitionID: "europa-league", Appearances: 60},
		{CompetitionID: "la-liga", Appearances: 40},
	}, DifficultyOpts{})

	assert.Equal(t, BasisInternational, d.Basis)
	assert.Equal(t, TierHard, d.Tier)
}

func TestTop5FallbackWhenInternationalUltra(t *testing.T) {
	d := ComputeDifficulty([]StatRow{
		{CompetitionID: "premier-league", Appearances: 250},
	}, DifficultyOpts{})

	assert.Equal(t, BasisTop5, d.Basis)
	assert.Equal(t, 250.0, d.TotalAppearances)
	// Easy on the top-5 axis, but zero international → downgraded.
	assert.Equal(t, TierMedium, d.Tier)
}

func TestTop5MediumDowngradedOnThinInternational(t *testing.T) {
	d := ComputeDifficulty([]StatRow{
		{CompetitionID: "serie-a", Appearances: 150},
		{CompetitionID: "champions-league", Appearances: 10},
	}, DifficultyOpts{})

	assert.Equal(t, BasisTop5, d.Basis)
	assert.Equal(t, TierHard, d.Tier)
}

func TestForceUltraOverridesButReportsBasis(t *testing.T) {
	d := ComputeDifficulty([]StatRow{
		{CompetitionID: "champions-league", Appearances: 200},
		{CompetitionID: "premier-league", Appearances: 300},
	}, DifficultyOpts{ForceUltra: true})

	assert.Equal(t, TierUltra, d.Tier)
	assert.Equal(t, 4, d.Multiplier)
	// Basis and total still describe what would otherwise be chosen.
	assert.Equal(t, BasisInternational, d.Basis)
	assert.Equal(t, 200.0, d.TotalAppearances)
}

func TestTierMonotonicInInternationalAppearances(t *testing.T) {
	// Growing international appearances must never make a player harder.
	for _, top5 := range []int{0, 10, 120} {
		prev := TierUltra
		for intl := 0; intl <= 150; intl += 5 {
			d := ComputeDifficulty([]StatRow{
				{CompetitionID: "champions-league", Appearances: intl},
				{CompetitionID: "bundesliga", Appearances: top5},
			}, DifficultyOpts{})
			assert.LessOrEqual(t, int(d.Tier), int(prev),
				"tier went up at intl=%d top5=%d", intl, top5)
			prev = d.Tier
		}
	}
}

func TestTierAndBasisStrings(t *testing.T) {
	assert.Equal(t, "easy", TierEasy.String())
	assert.Equal(t, "medium", TierMedium.String())
	assert.Equal(t, "hard", TierHard.String())
	assert.Equal(t, "ultra", TierUltra.String())
	assert.Equal(t, "international", BasisInternational.String())
	assert.Equal(t, "top5", BasisTop5.String())
}
