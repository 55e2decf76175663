package balance

import (
	"math"
	"strings"
)

// thinkingSuffix marks reasoning-mode variants that some backends expose as
// a separate model id even though they draw from the base model's pool.
const thinkingSuffix = "-thinking"

// FilterRedundant drops "-thinking" variants whose remaining fraction is
// indistinguishable from the base model in the same observation set: both
// ids are then two renderings of one quota pool. A thinking variant without
// a base model, or with a diverging fraction, is a real pool and survives.
//
// Callers pass one provider document's observations at a time; fractions
// are never compared across providers or accounts.
func FilterRedundant(observations []Observation) []Observation {
	if len(observations) == 0 {
		return observations
	}

	fractions := make(map[string]float64, len(observations))
	for _, obs := range observations {
		fractions[obs.ModelID] = obs.Remaining
	}

	out := make([]Observation, 0, len(observations))
	for _, obs := range observations {
		if isRedundantThinking(obs, fractions) {
			continue
		}
		out = append(out, obs)
	}
	return out
}

func isRedundantThinking(obs Observation, fractions map[string]float64) bool {
	if !strings.HasSuffix(obs.ModelID, thinkingSuffix) {
		return false
	}
	base := strings.TrimSuffix(obs.ModelID, thinkingSuffix)
	baseFraction, ok := fractions[base]
	if !ok {
		return false
	}
	return math.Abs(baseFraction-obs.Remaining) < Epsilon
}
