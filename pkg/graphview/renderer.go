package graphview

import (
	"time"

	"github.com/regulomics/grnscope/pkg/debug"
	"github.com/regulomics/grnscope/pkg/layout"
	"github.com/regulomics/grnscope/pkg/model"
	"github.com/regulomics/grnscope/pkg/network"
)

// Renderer satisfies the guard's render collaborator: it owns the current
// scene and rebuilds it wholesale on every accepted change.
type Renderer struct {
	opts  layout.Options
	scene *Scene
}

// NewRenderer creates a renderer with the given fixed layout parameters.
func NewRenderer(opts layout.Options) *Renderer {
	return &Renderer{opts: opts}
}

// Render rebuilds the scene from the selection and reports the outcome.
func (r *Renderer) Render(idx *network.DataIndex, sel *network.Selection) model.Outcome {
	start := time.Now()
	scene := BuildScene(idx, sel, r.opts)
	r.scene = &scene
	debug.LogTiming("render", time.Since(start))
	debug.Log("render: %d nodes, %d edges, outcome %v", len(scene.Nodes), len(scene.Edges), scene.Outcome)
	return scene.Outcome
}

// Clear drops the current scene (not-ready / reset state).
func (r *Renderer) Clear() {
	r.scene = nil
}

// Scene returns the last rendered scene, or nil when cleared.
func (r *Renderer) Scene() *Scene { return r.scene }

// State summarizes the render state. Derived, never authoritative: the scene
// is always recomputable from the index and selection.
type State struct {
	IsRendered bool
	NodeCount  int
	EdgeCount  int
}

// RenderState reports whether a scene is on screen and how big it is.
func (r *Renderer) RenderState() State {
	if r.scene == nil || r.scene.Outcome != model.OutcomeRendered {
		return State{}
	}
	return State{IsRendered: true, NodeCount: len(r.scene.Nodes), EdgeCount: len(r.scene.Edges)}
}
