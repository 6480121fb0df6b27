package datasource

import (
	"fmt"
	"sort"

	"github.com/regulomics/grnscope/pkg/model"
)

// EdgeDiff summarizes the change between two loads of the same network.
// Used to report what a live reload brought in.
type EdgeDiff struct {
	// Added are edge keys present after the reload but not before
	Added []string
	// Removed are edge keys present before the reload but not after
	Removed []string
	// ConfidenceChanged are edge keys whose confidence value moved
	ConfidenceChanged []string
	// CountBefore is the edge count before the reload
	CountBefore int
	// CountAfter is the edge count after the reload
	CountAfter int
}

// HasChanges reports whether the reload altered the edge set at all.
func (d EdgeDiff) HasChanges() bool {
	return len(d.Added) > 0 || len(d.Removed) > 0 || len(d.ConfidenceChanged) > 0
}

// Summary returns a short human-readable description for the status line.
func (d EdgeDiff) Summary() string {
	if !d.HasChanges() {
		return fmt.Sprintf("no changes (%d edges)", d.CountAfter)
	}
	return fmt.Sprintf("+%d edges, -%d edges, %d confidence changes",
		len(d.Added), len(d.Removed), len(d.ConfidenceChanged))
}

func edgeKey(e model.EdgeRecord) string {
	return e.Regulator + "\t" + e.Target
}

// DiffEdges compares two edge sets keyed by (regulator, target).
func DiffEdges(before, after []model.EdgeRecord) EdgeDiff {
	diff := EdgeDiff{
		CountBefore: len(before),
		CountAfter:  len(after),
	}

	mapBefore := make(map[string]float64, len(before))
	for _, e := range before {
		mapBefore[edgeKey(e)] = e.Confidence
	}
	mapAfter := make(map[string]float64, len(after))
	for _, e := range after {
		mapAfter[edgeKey(e)] = e.Confidence
	}

	for key := range mapBefore {
		if _, exists := mapAfter[key]; !exists {
			diff.Removed = append(diff.Removed, key)
		}
	}
	for key, conf := range mapAfter {
		prev, exists := mapBefore[key]
		if !exists {
			diff.Added = append(diff.Added, key)
		} else if prev != conf {
			diff.ConfidenceChanged = append(diff.ConfidenceChanged, key)
		}
	}

	sort.Strings(diff.Added)
	sort.Strings(diff.Removed)
	sort.Strings(diff.ConfidenceChanged)

	return diff
}
