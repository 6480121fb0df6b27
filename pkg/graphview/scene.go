// Package graphview turns the current selection into a drawable scene: the
// deduplicated node list with computed roles and degrees, the qualifying edge
// list with confidence-derived visual weight, and force-layout positions.
package graphview

import (
	"sort"

	"github.com/regulomics/grnscope/pkg/layout"
	"github.com/regulomics/grnscope/pkg/model"
	"github.com/regulomics/grnscope/pkg/network"
)

// Node is one rendered vertex.
type Node struct {
	ID        string
	Name      string // display name, falls back to the systematic id
	Role      model.Role
	InDegree  int // within the rendered subgraph only
	OutDegree int
	Pos       layout.Point
}

// Edge is one rendered regulatory edge, endpoints by node index.
type Edge struct {
	Source     int
	Target     int
	Confidence float64
	Weight     float64 // stroke width, monotonic in confidence
	Opacity    float64 // likewise
}

// Scene is the full drawable result of one render.
type Scene struct {
	Nodes     []Node
	Edges     []Edge
	Outcome   model.Outcome
	Threshold float64
	Space     layout.Result
}

// EdgeWeight maps confidence to stroke width. Strictly increasing so stronger
// evidence always draws heavier.
func EdgeWeight(confidence float64) float64 {
	return 0.5 + 2.5*confidence
}

// EdgeOpacity maps confidence to opacity in (0,1].
func EdgeOpacity(confidence float64) float64 {
	return 0.3 + 0.7*confidence
}

// BuildScene assembles the subgraph induced by the selection at its current
// threshold and runs the layout engine over it (full replace, fixed
// parameters). Pure with respect to its inputs.
func BuildScene(idx *network.DataIndex, sel *network.Selection, opts layout.Options) Scene {
	scene := Scene{Threshold: sel.Threshold()}
	if !sel.Ready() {
		scene.Outcome = model.OutcomeNotReady
		return scene
	}

	nodeIdx := make(map[string]int)
	asRegulator := make(map[string]bool)
	asTarget := make(map[string]bool)

	intern := func(id string) int {
		if i, ok := nodeIdx[id]; ok {
			return i
		}
		i := len(scene.Nodes)
		nodeIdx[id] = i
		scene.Nodes = append(scene.Nodes, Node{ID: id, Name: idx.DisplayName(id)})
		return i
	}

	for _, e := range idx.Edges() {
		if e.Confidence < sel.Threshold() || !sel.HasTF(e.Regulator) || !sel.HasGene(e.Target) {
			continue
		}
		src := intern(e.Regulator)
		tgt := intern(e.Target)
		scene.Nodes[src].OutDegree++
		scene.Nodes[tgt].InDegree++
		asRegulator[e.Regulator] = true
		asTarget[e.Target] = true
		scene.Edges = append(scene.Edges, Edge{
			Source:     src,
			Target:     tgt,
			Confidence: e.Confidence,
			Weight:     EdgeWeight(e.Confidence),
			Opacity:    EdgeOpacity(e.Confidence),
		})
	}

	if len(scene.Edges) == 0 {
		scene.Nodes = nil
		scene.Outcome = model.OutcomeEmpty
		return scene
	}

	for i := range scene.Nodes {
		id := scene.Nodes[i].ID
		switch {
		case asRegulator[id] && asTarget[id]:
			scene.Nodes[i].Role = model.RoleBoth
		case asRegulator[id]:
			scene.Nodes[i].Role = model.RoleTF
		default:
			scene.Nodes[i].Role = model.RoleTarget
		}
	}

	lnodes := make([]layout.Node, len(scene.Nodes))
	for i, n := range scene.Nodes {
		lnodes[i] = layout.Node{ID: n.ID}
	}
	ledges := make([]layout.Edge, len(scene.Edges))
	for i, e := range scene.Edges {
		ledges[i] = layout.Edge{Source: e.Source, Target: e.Target}
	}
	scene.Space = layout.Compute(lnodes, ledges, opts)
	for i := range scene.Nodes {
		scene.Nodes[i].Pos = scene.Space.Positions[i]
	}

	scene.Outcome = model.OutcomeRendered
	return scene
}

// NodeByID returns the index of the node with the given id, or -1.
func (s *Scene) NodeByID(id string) int {
	for i := range s.Nodes {
		if s.Nodes[i].ID == id {
			return i
		}
	}
	return -1
}

// TFNodes returns the indices of nodes acting as regulators, sorted by id.
func (s *Scene) TFNodes() []int {
	var out []int
	for i := range s.Nodes {
		if s.Nodes[i].Role == model.RoleTF || s.Nodes[i].Role == model.RoleBoth {
			out = append(out, i)
		}
	}
	sort.Slice(out, func(a, b int) bool { return s.Nodes[out[a]].ID < s.Nodes[out[b]].ID })
	return out
}
