// Package scoring implements the compatibility engine: a hard geographic
// filter plus a weighted multi-factor similarity score. Everything here is
// pure computation with no I/O or randomness; identical inputs always
// produce identical outputs.
package scoring

import (
	"math"
	"time"

	"github.com/tripamigo/travel-match-backend/internal/matching/domain"
)

// Candidate is the common view the scorer takes of either another traveler's
// intent or a group's aggregate profile. Age 0 means unknown.
type Candidate struct {
	ID             string
	Destination    domain.Destination
	Budget         float64
	StartDate      time.Time
	EndDate        time.Time
	Age            float64
	Interests      []string
	Languages      []string
	SmokingPolicy  string
	DrinkingPolicy string
	Nationalities  []string
}

// CandidateFromIntent adapts a traveler's intent for scoring. The traveler's
// boolean habits map onto the group policy vocabulary so lifestyle scoring
// has one code path.
func CandidateFromIntent(it *domain.TravelIntent) Candidate {
	return Candidate{
		ID:             it.UserID,
		Destination:    it.Destination,
		Budget:         it.Budget,
		StartDate:      it.StartDate,
		EndDate:        it.EndDate,
		Age:            float64(it.Attributes.Age),
		Interests:      it.Attributes.Interests,
		Languages:      it.Attributes.Languages,
		SmokingPolicy:  domain.SmokingPolicyFor(it.Attributes.Smoking),
		DrinkingPolicy: domain.DrinkingPolicyFor(it.Attributes.Drinking),
		Nationalities:  []string{it.Attributes.Nationality},
	}
}

// CandidateFromGroup adapts a group's aggregate profile for scoring.
func CandidateFromGroup(g *domain.GroupProfile) Candidate {
	return Candidate{
		ID:             g.GroupID,
		Destination:    g.Destination,
		Budget:         g.AverageBudget,
		StartDate:      g.StartDate,
		EndDate:        g.EndDate,
		Age:            g.AverageAge,
		Interests:      g.TopInterests,
		Languages:      g.DominantLanguages,
		SmokingPolicy:  g.SmokingPolicy,
		DrinkingPolicy: g.DrinkingPolicy,
		Nationalities:  g.DominantNationalities,
	}
}

// Result carries the weighted aggregate plus the per-factor breakdown, all
// rounded to 3 decimals. The breakdown is part of the contract: the UI shows
// it and the feature log records it.
type Result struct {
	Score     float64            `json:"score"`
	Breakdown map[string]float64 `json:"breakdown"`
}

// Score computes the weighted compatibility of a candidate for a seeker
// under the named weight preset. Callers apply WithinDistance first; a
// candidate beyond the hard filter must never reach here.
func Score(seeker *domain.TravelIntent, cand Candidate, presetName string) (Result, error) {
	preset, err := Preset(presetName)
	if err != nil {
		return Result{}, err
	}

	breakdown := map[string]float64{
		FactorBudget:     BudgetScore(seeker.Budget, cand.Budget),
		FactorDates:      DateOverlapScore(seeker.StartDate, seeker.EndDate, cand.StartDate, cand.EndDate),
		FactorInterests:  JaccardSimilarity(seeker.Attributes.Interests, cand.Interests),
		FactorAge:        AgeScore(float64(seeker.Attributes.Age), cand.Age),
		FactorLanguage:   JaccardSimilarity(seeker.Attributes.Languages, cand.Languages),
		FactorLifestyle:  LifestyleScore(domain.SmokingPolicyFor(seeker.Attributes.Smoking), domain.DrinkingPolicyFor(seeker.Attributes.Drinking), cand.SmokingPolicy, cand.DrinkingPolicy),
		FactorBackground: BackgroundScore(seeker.Attributes.Nationality, cand.Nationalities),
	}

	total := 0.0
	for factor, weight := range preset {
		total += breakdown[factor] * weight
	}

	for factor, v := range breakdown {
		breakdown[factor] = round3(v)
	}

	return Result{Score: round3(total), Breakdown: breakdown}, nil
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
