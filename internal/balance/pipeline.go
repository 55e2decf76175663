package balance

import "quotabalance/internal/core"

// Run executes the full balancing pass over the collected documents:
// extraction, per-document redundancy filtering, normalization, cross
// provider aggregation, and the final post-grouping merge.
//
// The result is deterministic for a given document order. Document order
// only influences which raw id labels a family without a canonical display
// name; numeric output is order-independent.
func Run(docs []core.QuotaDocument) BalancedQuotaMap {
	var normalized []NormalizedObservation
	for _, doc := range docs {
		observations := FilterRedundant(Extract(doc))
		for _, obs := range observations {
			normalized = append(normalized, NormalizedObservation{
				Observation: obs,
				Family:      Normalize(obs.ModelID),
			})
		}
	}

	groups := Aggregate(normalized)

	balanced := make(BalancedQuotaMap, len(groups))
	for _, group := range groups {
		balanced[group.DisplayName] = group.Average
	}

	return PostGroup(balanced)
}
