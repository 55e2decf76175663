// Package balance turns raw per-account quota documents into one
// consolidated remaining-quota value per logical model family.
//
// The pipeline is strictly one-shot and synchronous: extract → drop
// redundant thinking variants → normalize model ids → average per family →
// post-group coinciding families. Malformed or partial input degrades to
// fewer observations, never to an error.
package balance

// Epsilon is the shared tolerance for every float comparison in this
// package. Fractions travel through JSON serialization on their way here,
// so exact equality is never used.
const Epsilon = 1e-9

// Observation is one (provider, model, remaining-fraction) data point
// extracted from a quota document.
type Observation struct {
	Provider  string
	ModelID   string
	Remaining float64 // fraction of quota left, in [0,1]
}

// NormalizedObservation is an Observation plus the canonical family key
// derived from its model id. Family is a pure function of ModelID.
type NormalizedObservation struct {
	Observation
	Family string
}

// FamilyGroup collects every observation that normalized to one family.
type FamilyGroup struct {
	Family      string
	DisplayName string
	Members     []NormalizedObservation
	Average     float64 // unweighted mean of member fractions
}

// BalancedQuotaMap is the terminal output artifact of one run: final
// display name to averaged remaining fraction.
type BalancedQuotaMap map[string]float64
