package probe

// DNS consistency statuses reported in the summary's dns_status field.
const (
	StatusInsufficientData = "insufficient data"
	StatusConsistent       = "consistent resolution"
	StatusInconsistent     = "inconsistent resolution"
)

// DetectPollution compares the answer sets of resolvers that returned at
// least one address. Fewer than two non-empty answers cannot establish
// disagreement, so pollution is reported false with an insufficient-data
// status. Answers are compared as unordered sets: resolvers rotating the
// same records is not pollution, any membership difference is.
func DetectPollution(results []ResolverResult) (bool, string) {
	var sets []map[string]bool
	for _, r := range results {
		if len(r.Addrs) == 0 {
			continue
		}
		set := make(map[string]bool, len(r.Addrs))
		for _, ip := range r.Addrs {
			set[ip] = true
		}
		sets = append(sets, set)
	}

	if len(sets) < 2 {
		return false, StatusInsufficientData
	}
	for _, s := range sets[1:] {
		if !equalSets(sets[0], s) {
			return true, StatusInconsistent
		}
	}
	return false, StatusConsistent
}

func equalSets(a, b map[string]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for ip := range a {
		if !b[ip] {
			return false
		}
	}
	return true
}
