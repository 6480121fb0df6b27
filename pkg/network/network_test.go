package network

import (
	"testing"

	"github.com/regulomics/grnscope/pkg/model"
)

func testEdges() []model.EdgeRecord {
	return []model.EdgeRecord{
		{Regulator: "tfA", Target: "geneX", RegulatorName: "ARG80", TargetName: "GAL1", Confidence: 0.9},
		{Regulator: "tfA", Target: "geneY", Confidence: 0.05},
		{Regulator: "tfB", Target: "geneX", Confidence: 0.5},
		{Regulator: "tfB", Target: "geneZ", Confidence: 0.72},
	}
}

func TestBuildIndex(t *testing.T) {
	idx := BuildIndex(testEdges(), []model.SpecialTF{{ID: "tfS", Name: "SPECIAL1"}})

	if got := len(idx.TFIDs()); got != 3 {
		t.Errorf("expected 3 TFs (incl. special), got %d", got)
	}
	if got := len(idx.GeneIDs()); got != 3 {
		t.Errorf("expected 3 genes, got %d", got)
	}
	if !idx.IsTF("tfS") || !idx.IsSpecial("tfS") {
		t.Error("special TF should be in tfIDs and flagged special")
	}
	if idx.IsSpecial("tfA") {
		t.Error("tfA is not special")
	}
	if got := idx.DisplayName("tfA"); got != "ARG80" {
		t.Errorf("DisplayName(tfA) = %q, want ARG80", got)
	}
	if got := idx.DisplayName("geneZ"); got != "geneZ" {
		t.Errorf("DisplayName without common name should fall back to id, got %q", got)
	}
	if got := idx.Targets("tfA"); len(got) != 2 || got[0] != "geneX" || got[1] != "geneY" {
		t.Errorf("Targets(tfA) = %v", got)
	}
	min, max := idx.ConfidenceRange()
	if min != 0.05 || max != 0.9 {
		t.Errorf("ConfidenceRange = %v, %v", min, max)
	}
}

func TestSpecialTFWithEdgesIsNormal(t *testing.T) {
	idx := BuildIndex(testEdges(), []model.SpecialTF{{ID: "tfA"}})
	if idx.IsSpecial("tfA") {
		t.Error("a declared special that has edges must stay a normal TF")
	}
}

func TestSetSelectedIdempotent(t *testing.T) {
	s := NewSelection(0.14)
	if !s.SetTFSelected("tfA", true) {
		t.Error("first select should report changed")
	}
	if s.SetTFSelected("tfA", true) {
		t.Error("selecting an already-selected id must be a no-op")
	}
	if !s.SetTFSelected("tfA", false) {
		t.Error("deselect should report changed")
	}
	if s.SetTFSelected("tfA", false) {
		t.Error("deselecting an absent id must be a no-op")
	}
}

func TestSetThresholdClampAndChange(t *testing.T) {
	s := NewSelection(0.14)
	if s.SetThreshold(0.14) {
		t.Error("same value should report unchanged")
	}
	if !s.SetThreshold(0.5) {
		t.Error("new value should report changed")
	}
	s.SetThreshold(1.7)
	if s.Threshold() != 1 {
		t.Errorf("threshold should clamp to 1, got %v", s.Threshold())
	}
	s.SetThreshold(-0.2)
	if s.Threshold() != 0 {
		t.Errorf("threshold should clamp to 0, got %v", s.Threshold())
	}
}

func TestSelectAllExcludesSpecials(t *testing.T) {
	idx := BuildIndex(testEdges(), []model.SpecialTF{{ID: "tfS"}})
	s := NewSelection(0.14)
	s.SelectAll(KindTF, idx)
	if s.HasTF("tfS") {
		t.Error("select-all must exclude disabled special TFs")
	}
	if s.TFCount() != 2 {
		t.Errorf("expected 2 selected TFs, got %d", s.TFCount())
	}
	s.SelectAll(KindGene, idx)
	if s.GeneCount() != 3 {
		t.Errorf("expected 3 selected genes, got %d", s.GeneCount())
	}
	s.ClearAll(KindTF)
	if s.TFCount() != 0 || s.Ready() {
		t.Error("clear-all should empty the TF set and drop readiness")
	}
}

func TestReady(t *testing.T) {
	s := NewSelection(0.14)
	if s.Ready() {
		t.Error("empty selection is not ready")
	}
	s.SetTFSelected("tfA", true)
	if s.Ready() {
		t.Error("TF-only selection is not ready")
	}
	s.SetGeneSelected("geneX", true)
	if !s.Ready() {
		t.Error("one TF + one gene should be ready")
	}
}

// The worked example from the design discussion: A->X at 0.9 qualifies,
// A->Y at 0.05 is excluded by the 0.14 threshold.
func TestEstimateConfidenceFilter(t *testing.T) {
	idx := BuildIndex([]model.EdgeRecord{
		{Regulator: "A", Target: "X", Confidence: 0.9},
		{Regulator: "A", Target: "Y", Confidence: 0.05},
	}, nil)
	s := NewSelection(0.14)
	s.SetTFSelected("A", true)
	s.SetGeneSelected("X", true)
	s.SetGeneSelected("Y", true)

	est := EstimateSize(idx, s)
	if est.Nodes != 2 || est.Edges != 1 {
		t.Fatalf("estimate = %+v, want {Nodes:2 Edges:1}", est)
	}
	if est.Large(DefaultLimits) {
		t.Error("two nodes and one edge is not large")
	}
}

func TestEstimateThresholdBoundaryInclusive(t *testing.T) {
	idx := BuildIndex([]model.EdgeRecord{
		{Regulator: "A", Target: "X", Confidence: 0.14},
	}, nil)
	s := NewSelection(0.14)
	s.SetTFSelected("A", true)
	s.SetGeneSelected("X", true)
	if est := EstimateSize(idx, s); est.Edges != 1 {
		t.Errorf("comparison must be >=: got %+v", est)
	}
}

func TestEstimateWithGenes(t *testing.T) {
	idx := BuildIndex(testEdges(), nil)
	s := NewSelection(0.14)
	s.SetTFSelected("tfB", true)

	// No genes selected: nothing counts.
	if est := EstimateSize(idx, s); est.Edges != 0 {
		t.Fatalf("no genes selected, got %+v", est)
	}

	// Hypothetical gene set adds tfB's targets without committing them.
	est := EstimateWithGenes(idx, s, idx.Targets("tfB"))
	if est.Nodes != 3 || est.Edges != 2 {
		t.Errorf("hypothetical estimate = %+v, want {Nodes:3 Edges:2}", est)
	}
	if s.GeneCount() != 0 {
		t.Error("EstimateWithGenes must not mutate the selection")
	}
}

func TestEstimateLarge(t *testing.T) {
	if (Estimate{Nodes: 251, Edges: 0}).Large(DefaultLimits) != true {
		t.Error("251 nodes breaches the node limit")
	}
	if (Estimate{Nodes: 250, Edges: 800}).Large(DefaultLimits) != false {
		t.Error("at-limit counts are not large")
	}
	if (Estimate{Nodes: 10, Edges: 801}).Large(DefaultLimits) != true {
		t.Error("801 edges breaches the edge limit")
	}
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	s := NewSelection(0.3)
	s.SetTFSelected("tfA", true)
	s.SetGeneSelected("geneX", true)

	snap := s.Snapshot()
	s.SetTFSelected("tfB", true)
	s.SetGeneSelected("geneX", false)
	s.SetThreshold(0.8)

	s.Restore(snap)
	if !s.Snapshot().Equal(snap) {
		t.Error("restore should reproduce the snapshot exactly")
	}
	if !s.HasTF("tfA") || s.HasTF("tfB") || !s.HasGene("geneX") || s.Threshold() != 0.3 {
		t.Error("restored state mismatch")
	}
}

func TestPrune(t *testing.T) {
	idx := BuildIndex(testEdges(), nil)
	s := NewSelection(0.14)
	s.SetTFSelected("tfA", true)
	s.SetTFSelected("tfGone", true)
	s.SetGeneSelected("geneGone", true)

	if !s.Prune(idx) {
		t.Error("prune should report removals")
	}
	if s.HasTF("tfGone") || s.HasGene("geneGone") {
		t.Error("stale ids should be pruned")
	}
	if !s.HasTF("tfA") {
		t.Error("valid ids must survive pruning")
	}
	if s.Prune(idx) {
		t.Error("second prune should be a no-op")
	}
}
