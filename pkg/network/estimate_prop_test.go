package network

import (
	"fmt"
	"testing"

	"pgregory.net/rapid"

	"github.com/regulomics/grnscope/pkg/model"
)

// genIndex draws a small random network.
func genIndex(t *rapid.T) *DataIndex {
	n := rapid.IntRange(1, 40).Draw(t, "edgeCount")
	edges := make([]model.EdgeRecord, 0, n)
	for i := 0; i < n; i++ {
		edges = append(edges, model.EdgeRecord{
			Regulator:  fmt.Sprintf("tf%d", rapid.IntRange(0, 7).Draw(t, "tf")),
			Target:     fmt.Sprintf("g%d", rapid.IntRange(0, 11).Draw(t, "gene")),
			Confidence: rapid.Float64Range(0, 1).Draw(t, "conf"),
		})
	}
	return BuildIndex(edges, nil)
}

// Removal actions can only shrink the estimate: for any sequence of
// deselections and threshold increases, both counts are non-increasing.
func TestEstimateMonotoneUnderRemovals(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		idx := genIndex(t)
		s := NewSelection(rapid.Float64Range(0, 0.5).Draw(t, "threshold"))
		s.SelectAll(KindTF, idx)
		s.SelectAll(KindGene, idx)

		prev := EstimateSize(idx, s)
		steps := rapid.IntRange(1, 12).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			switch rapid.IntRange(0, 2).Draw(t, "action") {
			case 0:
				ids := s.TFs()
				if len(ids) > 0 {
					s.SetTFSelected(ids[rapid.IntRange(0, len(ids)-1).Draw(t, "tfIdx")], false)
				}
			case 1:
				ids := s.Genes()
				if len(ids) > 0 {
					s.SetGeneSelected(ids[rapid.IntRange(0, len(ids)-1).Draw(t, "geneIdx")], false)
				}
			case 2:
				bump := rapid.Float64Range(0, 0.3).Draw(t, "bump")
				s.SetThreshold(s.Threshold() + bump)
			}
			cur := EstimateSize(idx, s)
			if cur.Nodes > prev.Nodes || cur.Edges > prev.Edges {
				t.Fatalf("removal grew estimate: %+v -> %+v", prev, cur)
			}
			prev = cur
		}
	})
}

// A special TF never contributes nodes or edges regardless of other selections.
func TestSpecialTFNeverCounts(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 20).Draw(t, "edgeCount")
		edges := make([]model.EdgeRecord, 0, n)
		for i := 0; i < n; i++ {
			edges = append(edges, model.EdgeRecord{
				Regulator:  fmt.Sprintf("tf%d", rapid.IntRange(0, 4).Draw(t, "tf")),
				Target:     fmt.Sprintf("g%d", rapid.IntRange(0, 6).Draw(t, "gene")),
				Confidence: rapid.Float64Range(0, 1).Draw(t, "conf"),
			})
		}
		idx := BuildIndex(edges, []model.SpecialTF{{ID: "tfSpecial"}})

		s := NewSelection(0)
		s.SelectAll(KindTF, idx)
		s.SelectAll(KindGene, idx)
		base := EstimateSize(idx, s)

		s.SetTFSelected("tfSpecial", true) // force it in despite being disabled
		with := EstimateSize(idx, s)
		if base != with {
			t.Fatalf("special TF changed estimate: %+v -> %+v", base, with)
		}
	})
}

// Estimate never exceeds the trivial upper bounds.
func TestEstimateBounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		idx := genIndex(t)
		s := NewSelection(rapid.Float64Range(0, 1).Draw(t, "threshold"))
		for _, id := range idx.TFIDs() {
			if rapid.Bool().Draw(t, "pickTF") {
				s.SetTFSelected(id, true)
			}
		}
		for _, id := range idx.GeneIDs() {
			if rapid.Bool().Draw(t, "pickGene") {
				s.SetGeneSelected(id, true)
			}
		}
		est := EstimateSize(idx, s)
		if est.Edges > idx.EdgeCount() {
			t.Fatalf("edge estimate %d exceeds edge count %d", est.Edges, idx.EdgeCount())
		}
		if est.Nodes > s.TFCount()+s.GeneCount() {
			t.Fatalf("node estimate %d exceeds selected id count %d", est.Nodes, s.TFCount()+s.GeneCount())
		}
		if (est.Nodes == 0) != (est.Edges == 0) {
			t.Fatalf("nodes and edges must be zero together: %+v", est)
		}
	})
}
