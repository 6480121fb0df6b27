package guard

import (
	"fmt"
	"testing"

	"github.com/regulomics/grnscope/pkg/model"
	"github.com/regulomics/grnscope/pkg/network"
)

// fakeRenderer records render/clear calls for assertions.
type fakeRenderer struct {
	renders int
	clears  int
	last    network.Estimate
}

func (f *fakeRenderer) Render(idx *network.DataIndex, sel *network.Selection) model.Outcome {
	f.renders++
	f.last = network.EstimateSize(idx, sel)
	if f.last.Edges == 0 {
		return model.OutcomeEmpty
	}
	return model.OutcomeRendered
}

func (f *fakeRenderer) Clear() { f.clears++ }

// smallIndex: two TFs, three genes, one low-confidence edge.
func smallIndex() *network.DataIndex {
	return network.BuildIndex([]model.EdgeRecord{
		{Regulator: "tfA", Target: "geneX", Confidence: 0.9},
		{Regulator: "tfA", Target: "geneY", Confidence: 0.05},
		{Regulator: "tfB", Target: "geneZ", Confidence: 0.6},
	}, nil)
}

// fanoutIndex: one hub TF regulating n genes at confidence 0.9.
func fanoutIndex(n int) *network.DataIndex {
	edges := make([]model.EdgeRecord, 0, n)
	for i := 0; i < n; i++ {
		edges = append(edges, model.EdgeRecord{
			Regulator:  "hub",
			Target:     fmt.Sprintf("g%03d", i),
			Confidence: 0.9,
		})
	}
	return network.BuildIndex(edges, nil)
}

func newGuard(idx *network.DataIndex) (*Guard, *fakeRenderer) {
	r := &fakeRenderer{}
	return New(idx, network.DefaultLimits, 0.14, r), r
}

func TestRemovalRendersWithoutSizeCheck(t *testing.T) {
	g, r := newGuard(smallIndex())
	g.Apply(SelectAll{Kind: network.KindTF})
	g.Apply(SelectAll{Kind: network.KindGene})
	rendersBefore := r.renders

	d := g.Apply(ToggleGene{ID: "geneZ", Selected: false})
	if d.Effect != EffectRender {
		t.Fatalf("removal effect = %v, want render", d.Effect)
	}
	if g.State() != StateIdle {
		t.Error("removal must not leave Idle")
	}
	if r.renders != rendersBefore+1 {
		t.Errorf("expected one additional render, got %d", r.renders-rendersBefore)
	}
}

func TestIdempotentToggleIsNoOp(t *testing.T) {
	g, r := newGuard(smallIndex())
	g.Apply(ToggleTF{ID: "tfA", Selected: true})
	renders := r.renders

	d := g.Apply(ToggleTF{ID: "tfA", Selected: true})
	if d.Effect != EffectNone {
		t.Fatalf("effect = %v, want none", d.Effect)
	}
	if r.renders != renders {
		t.Error("idempotent toggle must not render")
	}
}

func TestNotReadyClearsInsteadOfErroring(t *testing.T) {
	g, r := newGuard(smallIndex())
	d := g.Apply(ToggleTF{ID: "tfA", Selected: true})
	if d.Effect != EffectClear || d.Outcome != model.OutcomeNotReady {
		t.Fatalf("TF-only selection: got %v/%v, want clear/not-ready", d.Effect, d.Outcome)
	}
	if r.clears == 0 {
		t.Error("renderer.Clear should have been invoked")
	}
}

func TestEmptyResultIsRenderedNotError(t *testing.T) {
	g, _ := newGuard(smallIndex())
	g.Apply(ToggleTF{ID: "tfA", Selected: true})
	d := g.Apply(ToggleGene{ID: "geneY", Selected: true}) // only edge is below threshold
	if d.Effect != EffectRender || d.Outcome != model.OutcomeEmpty {
		t.Fatalf("got %v/%v, want render/empty", d.Effect, d.Outcome)
	}
}

func TestLargeAdditionParksChange(t *testing.T) {
	g, r := newGuard(fanoutIndex(250)) // 251 nodes with the hub
	g.Apply(ToggleTF{ID: "hub", Selected: true})
	renders := r.renders

	d := g.Apply(SelectAll{Kind: network.KindGene})
	if d.Effect != EffectWarn {
		t.Fatalf("effect = %v, want warn", d.Effect)
	}
	if d.Estimate.Nodes != 251 || d.Estimate.Edges != 250 {
		t.Fatalf("estimate = %+v, want 251 nodes / 250 edges", d.Estimate)
	}
	if g.State() != StateAwaiting {
		t.Fatal("guard should be awaiting confirmation")
	}
	if r.renders != renders {
		t.Error("parked change must not render")
	}
	// Mutation is live but parked.
	if g.Selection().GeneCount() != 250 {
		t.Error("parked bulk addition should already be applied to the selection")
	}
}

func TestConfirmRendersParkedChange(t *testing.T) {
	g, r := newGuard(fanoutIndex(250))
	g.Apply(ToggleTF{ID: "hub", Selected: true})
	g.Apply(SelectAll{Kind: network.KindGene})

	d := g.Apply(Confirm{})
	if d.Effect != EffectRender || d.Outcome != model.OutcomeRendered {
		t.Fatalf("confirm: got %v/%v", d.Effect, d.Outcome)
	}
	if g.State() != StateIdle || g.Pending() != nil {
		t.Error("confirm should return to Idle with no pending change")
	}
	if r.last.Nodes != 251 {
		t.Errorf("rendered %d nodes, want exactly the parked selection", r.last.Nodes)
	}
}

func TestCancelRevertsExactlyTheTriggeringAction(t *testing.T) {
	g, r := newGuard(fanoutIndex(250))
	g.Apply(ToggleTF{ID: "hub", Selected: true})
	before := g.Selection().Snapshot()
	rendersBefore := r.renders

	g.Apply(SelectAll{Kind: network.KindGene})
	d := g.Apply(Cancel{})
	if d.Effect != EffectCancelled {
		t.Fatalf("cancel effect = %v", d.Effect)
	}
	if !g.Selection().Snapshot().Equal(before) {
		t.Error("cancel must restore the selection bit-identically")
	}
	if r.renders != rendersBefore {
		t.Error("cancel must not render; the prior render stands")
	}
	if g.State() != StateIdle || g.Pending() != nil {
		t.Error("cancel should return to Idle")
	}
}

func TestCancelSingleToggleRoundTrip(t *testing.T) {
	idx := fanoutIndex(300)
	g, _ := newGuard(idx)
	g.Apply(SelectAll{Kind: network.KindGene}) // no TF yet: not ready, small
	before := g.Selection().Snapshot()

	d := g.Apply(ToggleTF{ID: "hub", Selected: true})
	if d.Effect != EffectWarn {
		t.Fatalf("expected warn, got %v", d.Effect)
	}
	pc := g.Pending()
	if pc == nil || pc.Kind != PendingToggle || pc.ID != "hub" || pc.PrevSelected {
		t.Fatalf("pending = %+v", pc)
	}

	g.Apply(Cancel{})
	if !g.Selection().Snapshot().Equal(before) {
		t.Error("single-toggle cancel must restore prior state exactly")
	}
}

func TestThresholdDecreaseParksAndCancelRestores(t *testing.T) {
	idx := fanoutIndex(300)
	g, _ := newGuard(idx)
	g.Apply(SelectAll{Kind: network.KindGene})
	g.Selection().SetThreshold(0.95) // start above the edges' confidence
	g.Apply(ToggleTF{ID: "hub", Selected: true})
	if g.State() != StateIdle {
		t.Fatal("no qualifying edges at 0.95; nothing to warn about")
	}

	d := g.Apply(SetThreshold{Value: 0.5})
	if d.Effect != EffectWarn {
		t.Fatalf("lowering onto 300 edges should warn, got %v", d.Effect)
	}
	pc := g.Pending()
	if pc.Kind != PendingThreshold || pc.PrevThreshold != 0.95 || pc.NewThreshold != 0.5 {
		t.Fatalf("pending = %+v", pc)
	}

	g.Apply(Cancel{})
	if g.Selection().Threshold() != 0.95 {
		t.Errorf("cancel should restore threshold 0.95, got %v", g.Selection().Threshold())
	}
}

func TestAdditionWhileAwaitingIsRejected(t *testing.T) {
	g, _ := newGuard(fanoutIndex(250))
	g.Apply(ToggleTF{ID: "hub", Selected: true})
	g.Apply(SelectAll{Kind: network.KindGene})

	d := g.Apply(ToggleTF{ID: "other", Selected: true})
	if d.Effect != EffectRejected {
		t.Fatalf("addition while awaiting: got %v, want rejected", d.Effect)
	}
	if g.Selection().HasTF("other") {
		t.Error("rejected addition must not touch the selection")
	}
	if g.State() != StateAwaiting {
		t.Error("rejection must stay awaiting")
	}
}

func TestSliderWhileAwaitingRefreshesAndAutoConfirms(t *testing.T) {
	// 300 edges at 0.9 plus 100 at 0.3; selecting everything at 0.14 parks.
	edges := make([]model.EdgeRecord, 0, 400)
	for i := 0; i < 300; i++ {
		edges = append(edges, model.EdgeRecord{Regulator: "hub", Target: fmt.Sprintf("lo%03d", i), Confidence: 0.3})
	}
	for i := 0; i < 100; i++ {
		edges = append(edges, model.EdgeRecord{Regulator: "hub", Target: fmt.Sprintf("hi%03d", i), Confidence: 0.9})
	}
	idx := network.BuildIndex(edges, nil)
	g, r := newGuard(idx)
	g.Apply(ToggleTF{ID: "hub", Selected: true})
	d := g.Apply(SelectAll{Kind: network.KindGene})
	if d.Effect != EffectWarn {
		t.Fatalf("expected warn, got %v", d.Effect)
	}

	// Raising to 0.4 leaves 100 edges / 101 nodes: numbers refresh, then the
	// pending change auto-confirms and renders without an explicit proceed.
	renders := r.renders
	d = g.Apply(SetThreshold{Value: 0.4})
	if d.Effect != EffectRender {
		t.Fatalf("expected auto-confirm render, got %v", d.Effect)
	}
	if g.State() != StateIdle || g.Pending() != nil {
		t.Error("auto-confirm should return to Idle")
	}
	if r.renders != renders+1 {
		t.Error("auto-confirm should have rendered once")
	}
	if r.last.Edges != 100 || r.last.Nodes != 101 {
		t.Errorf("rendered %+v, want 101 nodes / 100 edges", r.last)
	}
}

func TestSliderWhileAwaitingStillLargeKeepsWaiting(t *testing.T) {
	g, _ := newGuard(fanoutIndex(900))
	g.Apply(ToggleTF{ID: "hub", Selected: true})
	g.Apply(SelectAll{Kind: network.KindGene})

	d := g.Apply(SetThreshold{Value: 0.2}) // all edges still pass
	if d.Effect != EffectWarn {
		t.Fatalf("still large: got %v, want warn", d.Effect)
	}
	if g.State() != StateAwaiting {
		t.Error("guard should remain awaiting with refreshed numbers")
	}
	if d.Estimate.Edges != 900 {
		t.Errorf("refreshed estimate = %+v", d.Estimate)
	}
}

func TestRemovalWhileAwaitingAppliesAndRefreshes(t *testing.T) {
	g, _ := newGuard(fanoutIndex(260))
	g.Apply(ToggleTF{ID: "hub", Selected: true})
	d := g.Apply(SelectAll{Kind: network.KindGene})
	if d.Effect != EffectWarn {
		t.Fatalf("expected warn, got %v", d.Effect)
	}

	// Removing genes while awaiting shrinks the estimate; once at or under
	// both limits the pending change auto-confirms. 261 nodes to start, so
	// ten removals leave 251 (still large), the eleventh reaches 250.
	for i := 0; i < 10; i++ {
		d = g.Apply(ToggleGene{ID: fmt.Sprintf("g%03d", i), Selected: false})
	}
	if d.Effect != EffectWarn {
		t.Fatalf("at 251 nodes the warning should persist, got %v", d.Effect)
	}
	d = g.Apply(ToggleGene{ID: "g010", Selected: false})
	if d.Effect != EffectRender {
		t.Fatalf("at 250 nodes the change should auto-confirm, got %v", d.Effect)
	}
}

func TestSelectTFWithTargetsSmallPath(t *testing.T) {
	g, _ := newGuard(smallIndex())
	d := g.Apply(SelectTFWithTargets{ID: "tfA"})
	if d.Effect != EffectRender {
		t.Fatalf("effect = %v, want render", d.Effect)
	}
	sel := g.Selection()
	if !sel.HasTF("tfA") || !sel.HasGene("geneX") || !sel.HasGene("geneY") {
		t.Error("TF and all its targets should be selected")
	}
}

func TestSelectTFWithTargetsLargeParksBulkSnapshot(t *testing.T) {
	g, _ := newGuard(fanoutIndex(300))
	before := g.Selection().Snapshot()

	d := g.Apply(SelectTFWithTargets{ID: "hub"})
	if d.Effect != EffectWarn {
		t.Fatalf("effect = %v, want warn", d.Effect)
	}
	if pc := g.Pending(); pc.Kind != PendingBulk {
		t.Fatalf("pending kind = %v, want bulk", pc.Kind)
	}
	g.Apply(Cancel{})
	if !g.Selection().Snapshot().Equal(before) {
		t.Error("bulk cancel must restore the full snapshot")
	}
}

func TestSelectTFWithTargetsUnknownTF(t *testing.T) {
	g, _ := newGuard(smallIndex())
	if d := g.Apply(SelectTFWithTargets{ID: "nope"}); d.Effect != EffectNone {
		t.Errorf("unknown TF should be a no-op, got %v", d.Effect)
	}
}

func TestSelectTFWithTargetsWarnEstimateCountsWholeAddition(t *testing.T) {
	g, _ := newGuard(fanoutIndex(300))
	d := g.Apply(SelectTFWithTargets{ID: "hub"})
	if d.Effect != EffectWarn {
		t.Fatalf("effect = %v, want warn", d.Effect)
	}
	want := network.Estimate{Nodes: 301, Edges: 300}
	if d.Estimate != want {
		t.Errorf("warn estimate = %+v, want %+v", d.Estimate, want)
	}
	// the pre-checked numbers must match what the committed selection renders
	if got := network.EstimateSize(g.Index(), g.Selection()); got != want {
		t.Errorf("committed selection estimates %+v, want %+v", got, want)
	}
}

func TestSelectTFWithTargetsAlreadySelectedIsNoOp(t *testing.T) {
	g, _ := newGuard(smallIndex())
	g.Apply(SelectTFWithTargets{ID: "tfA"})
	if d := g.Apply(SelectTFWithTargets{ID: "tfA"}); d.Effect != EffectNone {
		t.Errorf("repeat bulk select should be a no-op, got %v", d.Effect)
	}
}

func TestResetClearsEverything(t *testing.T) {
	g, r := newGuard(fanoutIndex(300))
	g.Apply(SetThreshold{Value: 0.5})
	g.Apply(SelectTFWithTargets{ID: "hub"})
	if g.State() != StateAwaiting {
		t.Fatal("setup should be awaiting")
	}

	d := g.Apply(Reset{})
	if d.Effect != EffectClear {
		t.Fatalf("reset effect = %v", d.Effect)
	}
	sel := g.Selection()
	if sel.TFCount() != 0 || sel.GeneCount() != 0 || sel.Threshold() != 0.14 {
		t.Error("reset should empty both sets and restore the initial threshold")
	}
	if g.State() != StateIdle || g.Pending() != nil {
		t.Error("reset should discard any pending change")
	}
	if r.clears == 0 {
		t.Error("reset should clear the rendered graph")
	}
}

func TestConfirmCancelWhileIdleAreNoOps(t *testing.T) {
	g, _ := newGuard(smallIndex())
	if d := g.Apply(Confirm{}); d.Effect != EffectNone {
		t.Errorf("confirm while idle: %v", d.Effect)
	}
	if d := g.Apply(Cancel{}); d.Effect != EffectNone {
		t.Errorf("cancel while idle: %v", d.Effect)
	}
}

func TestSetIndexPrunesAndDiscardsPending(t *testing.T) {
	g, _ := newGuard(fanoutIndex(300))
	g.Apply(SelectTFWithTargets{ID: "hub"})
	if g.State() != StateAwaiting {
		t.Fatal("setup should be awaiting")
	}

	g.SetIndex(smallIndex())
	if g.State() != StateIdle || g.Pending() != nil {
		t.Error("index swap should discard the pending change")
	}
	if g.Selection().HasTF("hub") {
		t.Error("stale ids should be pruned after reload")
	}
}
