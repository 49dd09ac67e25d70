package solar

import (
	"fmt"
	"sort"
)

// Comparison input bounds.
const (
	MinCompareLocations = 2
	MaxCompareLocations = 5
)

// LocationName returns the caller-supplied name, or "Location N" (1-based).
func LocationName(loc NamedLocation, index int) string {
	if loc.Name != "" {
		return loc.Name
	}
	return fmt.Sprintf("Location %d", index+1)
}

// RankEntries sorts entries by annual output, highest first, keeping input order
// among equal outputs, then assigns rank and the percentage gap to the leader.
// A zero-output leader yields VsTopPercent 0 for every entry.
func RankEntries(entries []ComparisonEntry) []ComparisonEntry {
	ranked := make([]ComparisonEntry, len(entries))
	copy(ranked, entries)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].AnnualOutputKWh > ranked[j].AnnualOutputKWh
	})

	if len(ranked) == 0 {
		return ranked
	}

	top := float64(ranked[0].AnnualOutputKWh)
	for i := range ranked {
		ranked[i].Rank = i + 1
		if i == 0 || top == 0 {
			ranked[i].VsTopPercent = 0
			continue
		}
		gap := top - float64(ranked[i].AnnualOutputKWh)
		ranked[i].VsTopPercent = roundInt(gap / top * 100)
	}
	return ranked
}

// RangeOf returns min/max/difference of annual output over a ranked slice.
func RangeOf(ranked []ComparisonEntry) OutputRange {
	if len(ranked) == 0 {
		return OutputRange{}
	}
	maxOut := ranked[0].AnnualOutputKWh
	minOut := ranked[len(ranked)-1].AnnualOutputKWh
	return OutputRange{Min: minOut, Max: maxOut, Difference: maxOut - minOut}
}
