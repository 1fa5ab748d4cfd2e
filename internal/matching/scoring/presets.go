package scoring

import (
	"fmt"
	"math"
	"sort"
)

// Factor names shared by presets and score breakdowns.
const (
	FactorBudget     = "budget"
	FactorDates      = "dates"
	FactorInterests  = "interests"
	FactorAge        = "age"
	FactorLanguage   = "language"
	FactorLifestyle  = "lifestyle"
	FactorBackground = "background"
)

// WeightPreset maps each sub-score to its weight. Weights must sum to 1.0.
type WeightPreset map[string]float64

// DefaultPreset is used when a caller does not name one.
const DefaultPreset = "balanced"

// presets holds the named weight tables. "balanced" spreads weight across all
// seven factors. "logistics-vibe" blends two clusters: 50% logistics (budget
// and dates, split evenly) and 50% vibe (age 0.3, language 0.3, interests
// 0.4), flattened to per-factor weights so both presets run through the same
// scoring path.
var presets = map[string]WeightPreset{
	"balanced": {
		FactorBudget:     0.20,
		FactorDates:      0.20,
		FactorInterests:  0.15,
		FactorAge:        0.15,
		FactorLanguage:   0.10,
		FactorLifestyle:  0.10,
		FactorBackground: 0.10,
	},
	"logistics-vibe": {
		FactorBudget:    0.25,
		FactorDates:     0.25,
		FactorInterests: 0.20,
		FactorAge:       0.15,
		FactorLanguage:  0.15,
	},
}

func init() {
	for name, p := range presets {
		if err := p.validate(); err != nil {
			panic(fmt.Sprintf("weight preset %q: %v", name, err))
		}
	}
}

// Preset looks up a named weight table.
func Preset(name string) (WeightPreset, error) {
	p, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("unknown weight preset %q", name)
	}
	return p, nil
}

// PresetNames lists the registered presets, sorted.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (p WeightPreset) validate() error {
	sum := 0.0
	for factor, w := range p {
		if w < 0 {
			return fmt.Errorf("negative weight for %s", factor)
		}
		sum += w
	}
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("weights sum to %v, want 1.0", sum)
	}
	return nil
}
