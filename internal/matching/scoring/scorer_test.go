package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripamigo/travel-match-backend/internal/matching/domain"
)

func testSeeker() *domain.TravelIntent {
	return &domain.TravelIntent{
		UserID: "seeker",
		Destination: domain.Destination{
			ID: "dest-tokyo", Name: "Tokyo", Lat: 35.6762, Lon: 139.6503,
		},
		Budget:    60000,
		StartDate: time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, time.June, 10, 0, 0, 0, 0, time.UTC),
		Attributes: domain.StaticAttributes{
			Age:         28,
			Interests:   []string{"hiking", "food"},
			Languages:   []string{"english", "japanese"},
			Smoking:     false,
			Drinking:    false,
			Nationality: "japanese",
		},
	}
}

func TestPresetWeightsSumToOne(t *testing.T) {
	for _, name := range PresetNames() {
		p, err := Preset(name)
		require.NoError(t, err)

		sum := 0.0
		for _, w := range p {
			sum += w
		}
		assert.InDelta(t, 1.0, sum, 1e-9, "preset %s", name)
	}
}

func TestPresetUnknownName(t *testing.T) {
	_, err := Preset("aggressive")
	assert.Error(t, err)
}

func TestScoreIdenticalTwinIsPerfect(t *testing.T) {
	seeker := testSeeker()
	twin := *seeker
	twin.UserID = "twin"
	cand := CandidateFromIntent(&twin)

	for _, name := range PresetNames() {
		res, err := Score(seeker, cand, name)
		require.NoError(t, err)
		assert.Equal(t, 1.0, res.Score, "preset %s", name)
	}
}

func TestScoreBreakdownMatchesFactors(t *testing.T) {
	seeker := testSeeker()

	other := testSeeker()
	other.UserID = "other"
	other.Budget = 40000
	other.StartDate = time.Date(2026, time.June, 5, 0, 0, 0, 0, time.UTC)
	other.EndDate = time.Date(2026, time.June, 20, 0, 0, 0, 0, time.UTC)
	other.Attributes.Age = 38
	other.Attributes.Interests = []string{"food", "nightlife"}
	other.Attributes.Nationality = "german"

	res, err := Score(seeker, CandidateFromIntent(other), "balanced")
	require.NoError(t, err)

	assert.InDelta(t, 0.5, res.Breakdown[FactorBudget], 1e-9)
	assert.InDelta(t, 0.6, res.Breakdown[FactorDates], 1e-9)
	assert.InDelta(t, 0.333, res.Breakdown[FactorInterests], 1e-9)
	assert.InDelta(t, 0.5, res.Breakdown[FactorAge], 1e-9)
	assert.InDelta(t, 1.0, res.Breakdown[FactorLanguage], 1e-9)
	assert.InDelta(t, 1.0, res.Breakdown[FactorLifestyle], 1e-9)
	assert.InDelta(t, 0.0, res.Breakdown[FactorBackground], 1e-9)

	// 0.5*.20 + 0.6*.20 + (1/3)*.15 + 0.5*.15 + 1*.10 + 1*.10 + 0*.10
	assert.InDelta(t, 0.545, res.Score, 1e-9)
}

func TestScoreRoundsToThreeDecimals(t *testing.T) {
	seeker := testSeeker()
	other := testSeeker()
	other.UserID = "other"
	other.Attributes.Interests = []string{"food", "nightlife"}

	res, err := Score(seeker, CandidateFromIntent(other), "balanced")
	require.NoError(t, err)

	assert.Equal(t, 0.333, res.Breakdown[FactorInterests])
}

func TestScoreUnknownPreset(t *testing.T) {
	seeker := testSeeker()
	_, err := Score(seeker, CandidateFromIntent(seeker), "nope")
	assert.Error(t, err)
}

func TestCandidateFromIntentMapsHabitsToPolicies(t *testing.T) {
	it := testSeeker()
	it.Attributes.Smoking = true
	it.Attributes.Drinking = false

	cand := CandidateFromIntent(it)
	assert.Equal(t, domain.SmokersWelcome, cand.SmokingPolicy)
	assert.Equal(t, domain.NonDrinking, cand.DrinkingPolicy)
	assert.Equal(t, []string{"japanese"}, cand.Nationalities)
}

func TestCandidateFromGroup(t *testing.T) {
	g := &domain.GroupProfile{
		GroupID:               "grp-1",
		Destination:           domain.Destination{ID: "dest-tokyo", Name: "Tokyo", Lat: 35.6762, Lon: 139.6503},
		AverageBudget:         55000,
		StartDate:             time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC),
		EndDate:               time.Date(2026, time.June, 10, 0, 0, 0, 0, time.UTC),
		AverageAge:            30.5,
		DominantLanguages:     []string{"english"},
		TopInterests:          []string{"food"},
		SmokingPolicy:         domain.PolicyMixed,
		DrinkingPolicy:        domain.PolicyMixed,
		DominantNationalities: []string{"japanese", "korean"},
	}

	cand := CandidateFromGroup(g)
	assert.Equal(t, "grp-1", cand.ID)
	assert.Equal(t, 30.5, cand.Age)

	res, err := Score(testSeeker(), cand, "balanced")
	require.NoError(t, err)
	assert.InDelta(t, 0.6, res.Breakdown[FactorLifestyle], 1e-9)
	assert.InDelta(t, 1.0, res.Breakdown[FactorBackground], 1e-9)
}
