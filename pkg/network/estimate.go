package network

// Limits are the node/edge counts above which a candidate render needs user
// confirmation before the layout engine is invoked.
type Limits struct {
	MaxNodes int
	MaxEdges int
}

// DefaultLimits matches the sizes beyond which the force layout becomes
// sluggish enough to warrant a warning.
var DefaultLimits = Limits{MaxNodes: 250, MaxEdges: 800}

// Estimate is the projected size of the subgraph a render would produce.
type Estimate struct {
	Nodes int
	Edges int
}

// Large reports whether the estimate breaches either limit.
func (e Estimate) Large(l Limits) bool {
	return e.Nodes > l.MaxNodes || e.Edges > l.MaxEdges
}

// EstimateSize computes the node/edge count of the subgraph that would be
// rendered for the given selection, without rendering it. An edge counts iff
// its confidence passes the threshold, its regulator is a selected TF, and its
// target is a selected gene. Pure function, single pass over the edges.
func EstimateSize(idx *DataIndex, sel *Selection) Estimate {
	return estimateWith(idx, sel, nil)
}

// EstimateWithGenes is EstimateSize against a hypothetical gene set
// (selection's genes plus extra), used to pre-check bulk additions such as
// "select this TF and all its targets" before committing them.
func EstimateWithGenes(idx *DataIndex, sel *Selection, extraGenes []string) Estimate {
	extra := make(map[string]struct{}, len(extraGenes))
	for _, id := range extraGenes {
		extra[id] = struct{}{}
	}
	return estimateWith(idx, sel, extra)
}

func estimateWith(idx *DataIndex, sel *Selection, extraGenes map[string]struct{}) Estimate {
	var est Estimate
	seen := make(map[string]struct{})
	threshold := sel.Threshold()
	for _, e := range idx.Edges() {
		if e.Confidence < threshold {
			continue
		}
		if !sel.HasTF(e.Regulator) {
			continue
		}
		if !sel.HasGene(e.Target) {
			if extraGenes == nil {
				continue
			}
			if _, ok := extraGenes[e.Target]; !ok {
				continue
			}
		}
		est.Edges++
		if _, ok := seen[e.Regulator]; !ok {
			seen[e.Regulator] = struct{}{}
			est.Nodes++
		}
		if _, ok := seen[e.Target]; !ok {
			seen[e.Target] = struct{}{}
			est.Nodes++
		}
	}
	return est
}
