// Package network holds the regulatory-network data index, the mutable
// selection state, and the subgraph size estimator.
package network

import (
	"sort"

	"github.com/regulomics/grnscope/pkg/model"
)

// DataIndex holds the parsed edge rows and derived lookup structures.
// It is built once per load and never mutated afterwards.
type DataIndex struct {
	edges      []model.EdgeRecord
	tfIDs      map[string]struct{}
	geneIDs    map[string]struct{}
	commonName map[string]string   // systematic -> display, both id spaces
	targets    map[string][]string // TF -> distinct target ids
	special    map[string]struct{} // edge-less TFs, disabled in the UI
	minConf    float64
	maxConf    float64
}

// BuildIndex constructs a DataIndex from parsed edges plus any statically
// declared special TFs (known ids with no edges, shown disabled).
func BuildIndex(edges []model.EdgeRecord, specials []model.SpecialTF) *DataIndex {
	idx := &DataIndex{
		edges:      edges,
		tfIDs:      make(map[string]struct{}),
		geneIDs:    make(map[string]struct{}),
		commonName: make(map[string]string),
		targets:    make(map[string][]string),
		special:    make(map[string]struct{}),
		minConf:    1,
		maxConf:    0,
	}

	seenTarget := make(map[string]map[string]struct{})
	for _, e := range edges {
		idx.tfIDs[e.Regulator] = struct{}{}
		idx.geneIDs[e.Target] = struct{}{}
		if e.RegulatorName != "" {
			idx.commonName[e.Regulator] = e.RegulatorName
		}
		if e.TargetName != "" {
			idx.commonName[e.Target] = e.TargetName
		}
		if seenTarget[e.Regulator] == nil {
			seenTarget[e.Regulator] = make(map[string]struct{})
		}
		if _, dup := seenTarget[e.Regulator][e.Target]; !dup {
			seenTarget[e.Regulator][e.Target] = struct{}{}
			idx.targets[e.Regulator] = append(idx.targets[e.Regulator], e.Target)
		}
		if e.Confidence < idx.minConf {
			idx.minConf = e.Confidence
		}
		if e.Confidence > idx.maxConf {
			idx.maxConf = e.Confidence
		}
	}
	for ts := range idx.targets {
		sort.Strings(idx.targets[ts])
	}
	if len(edges) == 0 {
		idx.minConf, idx.maxConf = 0, 1
	}

	for _, sp := range specials {
		if sp.ID == "" {
			continue
		}
		// A declared special that actually has edges is just a normal TF.
		if _, hasEdges := idx.targets[sp.ID]; hasEdges {
			continue
		}
		idx.tfIDs[sp.ID] = struct{}{}
		idx.special[sp.ID] = struct{}{}
		if sp.Name != "" {
			idx.commonName[sp.ID] = sp.Name
		}
	}
	return idx
}

// Edges returns the full edge list. Callers must not mutate it.
func (idx *DataIndex) Edges() []model.EdgeRecord { return idx.edges }

// EdgeCount returns the number of loaded edge rows.
func (idx *DataIndex) EdgeCount() int { return len(idx.edges) }

// IsTF reports whether id is a known regulator.
func (idx *DataIndex) IsTF(id string) bool {
	_, ok := idx.tfIDs[id]
	return ok
}

// IsGene reports whether id is a known target gene.
func (idx *DataIndex) IsGene(id string) bool {
	_, ok := idx.geneIDs[id]
	return ok
}

// IsSpecial reports whether id is an edge-less special TF.
func (idx *DataIndex) IsSpecial(id string) bool {
	_, ok := idx.special[id]
	return ok
}

// DisplayName returns the common name for id, falling back to the
// systematic id itself.
func (idx *DataIndex) DisplayName(id string) string {
	if name, ok := idx.commonName[id]; ok {
		return name
	}
	return id
}

// TFIDs returns all regulator ids sorted by systematic id.
func (idx *DataIndex) TFIDs() []string {
	return sortedKeys(idx.tfIDs)
}

// GeneIDs returns all target gene ids sorted by systematic id.
func (idx *DataIndex) GeneIDs() []string {
	return sortedKeys(idx.geneIDs)
}

// Targets returns the distinct target ids regulated by tf, sorted.
// Callers must not mutate the returned slice.
func (idx *DataIndex) Targets(tf string) []string {
	return idx.targets[tf]
}

// ConfidenceRange returns the observed min and max edge confidence.
func (idx *DataIndex) ConfidenceRange() (min, max float64) {
	return idx.minConf, idx.maxConf
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
