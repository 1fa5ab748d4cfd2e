package scoring

import (
	"math"
	"strings"
	"time"

	"github.com/tripamigo/travel-match-backend/internal/matching/domain"
)

const (
	// A 40k budget gap scores zero; 20k scores 0.5.
	budgetZeroGap = 40000
	// A 20-year age gap scores zero.
	ageZeroGap = 20
)

// DateOverlapScore is the number of shared trip days divided by the length of
// the seeker's trip, capped at 1. Day counts are inclusive: a trip from the
// 15th to the 19th is five days. No overlap scores zero.
func DateOverlapScore(seekerStart, seekerEnd, candStart, candEnd time.Time) float64 {
	overlapStart := maxTime(seekerStart, candStart)
	overlapEnd := minTime(seekerEnd, candEnd)

	if overlapStart.After(overlapEnd) {
		return 0
	}

	overlapDays := inclusiveDays(overlapStart, overlapEnd)
	seekerDays := inclusiveDays(seekerStart, seekerEnd)
	if seekerDays <= 0 {
		return 0
	}

	return math.Min(1, overlapDays/seekerDays)
}

// BudgetScore decreases linearly with the budget gap and bottoms out at zero.
func BudgetScore(seekerBudget, candBudget float64) float64 {
	diff := math.Abs(seekerBudget - candBudget)
	return math.Max(0, 1-diff/budgetZeroGap)
}

// JaccardSimilarity is |A∩B| / |A∪B| over normalized values; 0 when the
// union is empty.
func JaccardSimilarity(setA, setB []string) float64 {
	a := toSet(setA)
	b := toSet(setB)

	intersection := 0
	for v := range a {
		if _, ok := b[v]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}

	return float64(intersection) / float64(union)
}

// AgeScore decreases linearly with the age gap; zero when the candidate's
// age is unknown.
func AgeScore(seekerAge, candAge float64) float64 {
	if candAge == 0 {
		return 0
	}
	return math.Max(0, 1-math.Abs(seekerAge-candAge)/ageZeroGap)
}

// LifestyleScore averages the smoking and drinking axes. Each axis scores 1.0
// on an exact policy match, 0.6 when the candidate is "Mixed", else 0.
func LifestyleScore(seekerSmoking, seekerDrinking, candSmoking, candDrinking string) float64 {
	return (policyAxisScore(seekerSmoking, candSmoking) + policyAxisScore(seekerDrinking, candDrinking)) / 2
}

// BackgroundScore is 1.0 when the seeker's nationality appears in the
// candidate's dominant-nationality set, else 0.
func BackgroundScore(seekerNationality string, candNationalities []string) float64 {
	want := strings.ToLower(strings.TrimSpace(seekerNationality))
	if want == "" {
		return 0
	}
	for _, n := range candNationalities {
		if strings.ToLower(strings.TrimSpace(n)) == want {
			return 1.0
		}
	}
	return 0
}

func policyAxisScore(seeker, cand string) float64 {
	switch cand {
	case seeker:
		return 1.0
	case "Mixed":
		return 0.6
	default:
		return 0
	}
}

func inclusiveDays(start, end time.Time) float64 {
	return end.Sub(start).Hours()/24 + 1
}

func toSet(values []string) map[string]struct{} {
	normalized := domain.NormalizeSet(values)
	set := make(map[string]struct{}, len(normalized))
	for _, v := range normalized {
		set[v] = struct{}{}
	}
	return set
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
