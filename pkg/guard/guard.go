// Package guard implements the selection change guard: the state machine that
// sits between user actions and the graph renderer. Every selection-changing
// action is dispatched through Apply as a Command; the guard decides whether
// to re-render, suppress the update, or park the change behind a size-warning
// confirmation, keeping selection state and the rendered graph consistent.
package guard

import (
	"fmt"

	"github.com/regulomics/grnscope/pkg/debug"
	"github.com/regulomics/grnscope/pkg/model"
	"github.com/regulomics/grnscope/pkg/network"
)

// State is the guard's position in its two-state machine.
type State int

const (
	StateIdle State = iota
	StateAwaiting // a size-breaching change is parked awaiting confirmation
)

// String returns a human-readable label for the state.
func (s State) String() string {
	if s == StateAwaiting {
		return "awaiting-confirmation"
	}
	return "idle"
}

// Effect tells the UI what the transition did.
type Effect int

const (
	EffectNone      Effect = iota // no-op (idempotent toggle, equal threshold)
	EffectRender                  // selection changed and was rendered
	EffectClear                   // selection changed but is not ready; clear the graph
	EffectWarn                    // change parked (or warning numbers refreshed)
	EffectRejected                // addition refused while awaiting; snap the control back
	EffectCancelled               // pending change reverted; previous render stands
)

// String returns a human-readable label for the effect.
func (e Effect) String() string {
	switch e {
	case EffectRender:
		return "render"
	case EffectClear:
		return "clear"
	case EffectWarn:
		return "warn"
	case EffectRejected:
		return "rejected"
	case EffectCancelled:
		return "cancelled"
	default:
		return "none"
	}
}

// Decision is the result of dispatching one command.
type Decision struct {
	Effect   Effect
	Estimate network.Estimate // projected counts (warning) or rendered counts
	Outcome  model.Outcome    // meaningful for EffectRender and EffectClear
}

// Renderer is the external collaborator that turns the current selection into
// a drawn graph. Render is invoked once per accepted change, full replace.
type Renderer interface {
	Render(idx *network.DataIndex, sel *network.Selection) model.Outcome
	Clear()
}

// PendingKind tags the variant of a parked change.
type PendingKind int

const (
	PendingToggle PendingKind = iota
	PendingThreshold
	PendingBulk
)

// PendingChange captures exactly the one action under confirmation, with
// enough information to reverse it on cancel. At most one exists at a time.
type PendingChange struct {
	Kind PendingKind

	// PendingToggle
	TargetSet    network.Kind
	ID           string
	PrevSelected bool

	// PendingThreshold
	PrevThreshold float64
	NewThreshold  float64

	// PendingBulk
	Snapshot network.SelectionSnapshot

	// Estimate holds the warning numbers shown to the user. It is refreshed
	// live when the threshold moves while awaiting confirmation.
	Estimate network.Estimate
}

// Guard owns the selection and the render trigger. All mutation goes through
// Apply; no other component touches the selection directly.
type Guard struct {
	idx      *network.DataIndex
	sel      *network.Selection
	limits   network.Limits
	renderer Renderer

	state   State
	pending *PendingChange

	resetThreshold float64
}

// New creates a guard in the Idle state over an empty selection.
func New(idx *network.DataIndex, limits network.Limits, initialThreshold float64, r Renderer) *Guard {
	return &Guard{
		idx:            idx,
		sel:            network.NewSelection(initialThreshold),
		limits:         limits,
		renderer:       r,
		resetThreshold: initialThreshold,
	}
}

// Selection exposes the guarded selection for read-only queries.
func (g *Guard) Selection() *network.Selection { return g.sel }

// Index returns the data index the guard operates over.
func (g *Guard) Index() *network.DataIndex { return g.idx }

// State returns the current machine state.
func (g *Guard) State() State { return g.state }

// Pending returns a copy of the parked change, or nil when idle.
func (g *Guard) Pending() *PendingChange {
	if g.pending == nil {
		return nil
	}
	pc := *g.pending
	return &pc
}

// SetIndex swaps in a freshly loaded index (live reload). Stale selected ids
// are pruned and any parked change is discarded: its baseline no longer exists.
func (g *Guard) SetIndex(idx *network.DataIndex) Decision {
	g.idx = idx
	g.sel.Prune(idx)
	g.pending = nil
	g.state = StateIdle
	return g.renderOrClear()
}

// Apply dispatches a command through the transition function.
func (g *Guard) Apply(cmd Command) Decision {
	g.checkInvariant()
	defer g.checkInvariant()

	switch c := cmd.(type) {
	case Confirm:
		return g.applyConfirm()
	case Cancel:
		return g.applyCancel()
	case Reset:
		return g.applyReset()
	case ToggleTF:
		return g.applyToggle(network.KindTF, c.ID, c.Selected)
	case ToggleGene:
		return g.applyToggle(network.KindGene, c.ID, c.Selected)
	case SetThreshold:
		return g.applyThreshold(c.Value)
	case SelectAll:
		return g.applyBulk(func() { g.sel.SelectAll(c.Kind, g.idx) }, true)
	case ClearAll:
		return g.applyBulk(func() { g.sel.ClearAll(c.Kind) }, false)
	case SelectTFWithTargets:
		return g.applySelectTFWithTargets(c.ID)
	default:
		panic(fmt.Sprintf("guard: unknown command %T", cmd))
	}
}

func (g *Guard) applyConfirm() Decision {
	if g.state != StateAwaiting {
		return Decision{Effect: EffectNone}
	}
	// The mutation is already live in the selection; just let go of the
	// pending record and render.
	g.pending = nil
	g.state = StateIdle
	return g.renderOrClear()
}

func (g *Guard) applyCancel() Decision {
	if g.state != StateAwaiting {
		return Decision{Effect: EffectNone}
	}
	g.revertPending()
	g.pending = nil
	g.state = StateIdle
	// No render: the reverted mutation was never drawn, so whatever is on
	// screen still matches the selection.
	return Decision{Effect: EffectCancelled}
}

func (g *Guard) applyReset() Decision {
	g.sel.ClearAll(network.KindTF)
	g.sel.ClearAll(network.KindGene)
	g.sel.SetThreshold(g.resetThreshold)
	g.pending = nil
	g.state = StateIdle
	if g.renderer != nil {
		g.renderer.Clear()
	}
	return Decision{Effect: EffectClear, Outcome: model.OutcomeNotReady}
}

func (g *Guard) applyToggle(kind network.Kind, id string, selected bool) Decision {
	if !selected {
		return g.applyRemoval(func() bool { return g.setSelected(kind, id, false) })
	}

	if g.state == StateAwaiting {
		// Single consistent pending change: further additions are refused and
		// the UI snaps the checkbox back.
		return Decision{Effect: EffectRejected, Estimate: g.pending.Estimate}
	}

	prev := g.isSelected(kind, id)
	if !g.setSelected(kind, id, true) {
		// Idempotent: no size check, no render.
		return Decision{Effect: EffectNone}
	}
	est := network.EstimateSize(g.idx, g.sel)
	if est.Large(g.limits) {
		g.park(&PendingChange{
			Kind:         PendingToggle,
			TargetSet:    kind,
			ID:           id,
			PrevSelected: prev,
			Estimate:     est,
		})
		return Decision{Effect: EffectWarn, Estimate: est}
	}
	return g.renderOrClear()
}

func (g *Guard) applyThreshold(v float64) Decision {
	if g.state == StateAwaiting {
		// Slider moves while awaiting refresh the displayed warning numbers
		// live; if the estimate falls under both limits the pending change
		// auto-confirms.
		if !g.sel.SetThreshold(v) {
			return Decision{Effect: EffectWarn, Estimate: g.pending.Estimate}
		}
		return g.refreshPending()
	}

	prev := g.sel.Threshold()
	if !g.sel.SetThreshold(v) {
		return Decision{Effect: EffectNone}
	}
	if g.sel.Threshold() > prev {
		// Raising the threshold only removes edges; always safe.
		return g.renderOrClear()
	}
	est := network.EstimateSize(g.idx, g.sel)
	if est.Large(g.limits) {
		g.park(&PendingChange{
			Kind:          PendingThreshold,
			PrevThreshold: prev,
			NewThreshold:  g.sel.Threshold(),
			Estimate:      est,
		})
		return Decision{Effect: EffectWarn, Estimate: est}
	}
	return g.renderOrClear()
}

// applyBulk runs a whole-set replacement. Additions are size-checked against a
// snapshot; removals (clear-all) are always safe.
func (g *Guard) applyBulk(mutate func(), isAddition bool) Decision {
	if !isAddition {
		return g.applyRemoval(func() bool {
			before := g.sel.Snapshot()
			mutate()
			return !g.sel.Snapshot().Equal(before)
		})
	}

	if g.state == StateAwaiting {
		return Decision{Effect: EffectRejected, Estimate: g.pending.Estimate}
	}

	snap := g.sel.Snapshot()
	mutate()
	if g.sel.Snapshot().Equal(snap) {
		return Decision{Effect: EffectNone}
	}
	est := network.EstimateSize(g.idx, g.sel)
	if est.Large(g.limits) {
		g.park(&PendingChange{Kind: PendingBulk, Snapshot: snap, Estimate: est})
		return Decision{Effect: EffectWarn, Estimate: est}
	}
	return g.renderOrClear()
}

func (g *Guard) applySelectTFWithTargets(id string) Decision {
	if g.state == StateAwaiting {
		return Decision{Effect: EffectRejected, Estimate: g.pending.Estimate}
	}
	if !g.idx.IsTF(id) {
		return Decision{Effect: EffectNone}
	}

	snap := g.sel.Snapshot()
	targets := g.idx.Targets(id)
	changed := g.sel.SetTFSelected(id, true)
	if !changed {
		for _, tgt := range targets {
			if !g.sel.HasGene(tgt) {
				changed = true
				break
			}
		}
	}
	if !changed {
		return Decision{Effect: EffectNone}
	}

	// size-check the whole bulk addition before committing the gene set
	est := network.EstimateWithGenes(g.idx, g.sel, targets)
	for _, tgt := range targets {
		g.sel.SetGeneSelected(tgt, true)
	}
	if est.Large(g.limits) {
		g.park(&PendingChange{Kind: PendingBulk, Snapshot: snap, Estimate: est})
		return Decision{Effect: EffectWarn, Estimate: est}
	}
	return g.renderOrClear()
}

// applyRemoval handles any action that can only shrink the rendered set.
// Removals never breach the size limits, so no check is needed. While a
// change is parked, the removal still applies and the warning numbers are
// re-estimated, mirroring the live-slider rule; the pending change
// auto-confirms when the refreshed estimate fits.
func (g *Guard) applyRemoval(mutate func() bool) Decision {
	if g.state == StateAwaiting {
		if !mutate() {
			return Decision{Effect: EffectWarn, Estimate: g.pending.Estimate}
		}
		return g.refreshPending()
	}
	if !mutate() {
		return Decision{Effect: EffectNone}
	}
	return g.renderOrClear()
}

// refreshPending re-estimates the parked change's warning numbers after the
// selection moved underneath it, auto-confirming when it no longer breaches.
func (g *Guard) refreshPending() Decision {
	est := network.EstimateSize(g.idx, g.sel)
	if !est.Large(g.limits) {
		debug.Log("guard: pending change auto-confirmed at %d nodes / %d edges", est.Nodes, est.Edges)
		g.pending = nil
		g.state = StateIdle
		return g.renderOrClear()
	}
	g.pending.Estimate = est
	return Decision{Effect: EffectWarn, Estimate: est}
}

// park records pc and moves to AwaitingConfirmation. The triggering mutation
// stays applied to the selection; it simply is not rendered yet.
func (g *Guard) park(pc *PendingChange) {
	if g.pending != nil {
		panic("guard: second pending change while one is alive")
	}
	g.pending = pc
	g.state = StateAwaiting
	debug.Log("guard: parked %d-node/%d-edge change awaiting confirmation", pc.Estimate.Nodes, pc.Estimate.Edges)
}

// revertPending reverses exactly the parked action against the selection.
func (g *Guard) revertPending() {
	pc := g.pending
	switch pc.Kind {
	case PendingToggle:
		g.setSelected(pc.TargetSet, pc.ID, pc.PrevSelected)
	case PendingThreshold:
		g.sel.SetThreshold(pc.PrevThreshold)
	case PendingBulk:
		g.sel.Restore(pc.Snapshot)
	}
}

// renderOrClear invokes the renderer against the now-consistent selection.
func (g *Guard) renderOrClear() Decision {
	est := network.EstimateSize(g.idx, g.sel)
	if !g.sel.Ready() {
		if g.renderer != nil {
			g.renderer.Clear()
		}
		return Decision{Effect: EffectClear, Estimate: est, Outcome: model.OutcomeNotReady}
	}
	outcome := model.OutcomeRendered
	if est.Edges == 0 {
		outcome = model.OutcomeEmpty
	}
	if g.renderer != nil {
		outcome = g.renderer.Render(g.idx, g.sel)
	}
	return Decision{Effect: EffectRender, Estimate: est, Outcome: outcome}
}

func (g *Guard) setSelected(kind network.Kind, id string, selected bool) bool {
	if kind == network.KindTF {
		return g.sel.SetTFSelected(id, selected)
	}
	return g.sel.SetGeneSelected(id, selected)
}

func (g *Guard) isSelected(kind network.Kind, id string) bool {
	if kind == network.KindTF {
		return g.sel.HasTF(id)
	}
	return g.sel.HasGene(id)
}

// checkInvariant asserts the mutual-exclusion invariant between state and
// pending. A violation is a programming defect, not a recoverable condition.
func (g *Guard) checkInvariant() {
	if (g.state == StateAwaiting) != (g.pending != nil) {
		panic(fmt.Sprintf("guard: state %v with pending=%v", g.state, g.pending))
	}
}
