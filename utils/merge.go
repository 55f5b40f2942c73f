package utils

// MergeDependencies merges installed-package lists found in search-path order.
// - Keeps every dependency of the earlier lists
// - Adds dependencies of later lists only when not already present
// - Deduplicates based on Key, so the first location shadows later ones
func MergeDependencies(lists ...[]Dependency) []Dependency {
	merged := []Dependency{}
	seen := make(map[string]bool)

	for _, list := range lists {
		for _, d := range list {
			if seen[d.Key] {
				continue
			}
			merged = append(merged, d)
			seen[d.Key] = true
		}
	}

	return merged
}
