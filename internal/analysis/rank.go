package analysis

import "sort"

// RankByFounderProceeds sorts comparisons descending by founder exit proceeds,
// breaking ties on founder ownership. Failed comparisons sort last.
func RankByFounderProceeds(comparisons []Comparison) []Comparison {
	out := make([]Comparison, len(comparisons))
	copy(out, comparisons)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if (a.Error == "") != (b.Error == "") {
			return a.Error == ""
		}
		if a.Summary.FounderProceeds != b.Summary.FounderProceeds {
			return a.Summary.FounderProceeds > b.Summary.FounderProceeds
		}
		return a.Summary.FounderPercentage > b.Summary.FounderPercentage
	})
	return out
}
