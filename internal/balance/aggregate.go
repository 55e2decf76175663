package balance

// Aggregate groups observations by canonical family and computes the
// unweighted mean of remaining fractions per group. Averaging across
// providers is intentional: when the same backend pool is exposed through
// several front-ends, the mean approximates the single true remaining
// quota.
//
// The default display name is the raw model id of the first observation in
// the group, so input order matters for labels (and only for labels).
func Aggregate(observations []NormalizedObservation) map[string]FamilyGroup {
	groups := make(map[string]FamilyGroup)

	for _, obs := range observations {
		group, seen := groups[obs.Family]
		if !seen {
			group = FamilyGroup{
				Family:      obs.Family,
				DisplayName: obs.ModelID,
			}
			if canonical, ok := CanonicalDisplayName(obs.Family); ok {
				group.DisplayName = canonical
			}
		}
		group.Members = append(group.Members, obs)
		groups[obs.Family] = group
	}

	for family, group := range groups {
		sum := 0.0
		for _, member := range group.Members {
			sum += member.Remaining
		}
		group.Average = sum / float64(len(group.Members))
		groups[family] = group
	}

	return groups
}
