package engine

import (
	"sort"

	"github.com/veilware/veil/internal/pii"
)

// Resolver turns raw, redundant detections into a clean sequence:
// confidence filtering followed by overlap resolution.
type Resolver struct {
	threshold float64
}

// NewResolver builds a resolver with the given confidence threshold.
func NewResolver(threshold float64) *Resolver {
	return &Resolver{threshold: threshold}
}

// Filter keeps matches at or above the confidence threshold. Relative order
// is preserved and filtering an already-filtered sequence returns the same
// elements.
func (r *Resolver) Filter(matches []pii.EntityMatch) []pii.EntityMatch {
	filtered := make([]pii.EntityMatch, 0, len(matches))
	for _, m := range matches {
		if m.Score >= r.threshold {
			filtered = append(filtered, m)
		}
	}
	return filtered
}

// MergeOverlapping resolves overlapping spans into a non-overlapping
// sequence ordered by start. An overlap keeps the higher-confidence match;
// ties keep the earlier one. The walk is greedy and pairwise, so a chain of
// overlaps resolves left to right rather than by global optimum.
func (r *Resolver) MergeOverlapping(matches []pii.EntityMatch) []pii.EntityMatch {
	if len(matches) <= 1 {
		return matches
	}

	sorted := make([]pii.EntityMatch, len(matches))
	copy(sorted, matches)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	merged := sorted[:1]
	for _, current := range sorted[1:] {
		last := merged[len(merged)-1]
		if current.Start < last.End {
			if current.Score > last.Score {
				merged[len(merged)-1] = current
			}
			continue
		}
		merged = append(merged, current)
	}
	return merged
}
