package graphview

import (
	"gonum.org/v1/gonum/graph/network"
	"gonum.org/v1/gonum/graph/simple"
)

// Insights holds centrality scores for the rendered subgraph. They describe
// only what is on screen, recomputed per render.
type Insights struct {
	PageRank  map[string]float64
	Hub       map[string]float64
	Authority map[string]float64
}

// ComputeInsights runs PageRank and HITS over the scene. Rendered subgraphs
// are small by construction (the size guard caps them), so the exact
// algorithms are fine here.
func ComputeInsights(s *Scene) *Insights {
	ins := &Insights{
		PageRank:  make(map[string]float64, len(s.Nodes)),
		Hub:       make(map[string]float64, len(s.Nodes)),
		Authority: make(map[string]float64, len(s.Nodes)),
	}
	if len(s.Nodes) == 0 {
		return ins
	}

	g := simple.NewDirectedGraph()
	gid := make([]int64, len(s.Nodes))
	for i := range s.Nodes {
		n := g.NewNode()
		g.AddNode(n)
		gid[i] = n.ID()
	}
	for _, e := range s.Edges {
		if e.Source == e.Target {
			continue
		}
		g.SetEdge(g.NewEdge(g.Node(gid[e.Source]), g.Node(gid[e.Target])))
	}

	for i, score := range invert(gid, network.PageRank(g, 0.85, 1e-6)) {
		ins.PageRank[s.Nodes[i].ID] = score
	}
	if len(s.Edges) > 0 {
		ha := network.HITS(g, 1e-3)
		for i, id := range gid {
			if v, ok := ha[id]; ok {
				ins.Hub[s.Nodes[i].ID] = v.Hub
				ins.Authority[s.Nodes[i].ID] = v.Authority
			}
		}
	}
	return ins
}

// invert maps gonum node ids back to scene indices.
func invert(gid []int64, scores map[int64]float64) map[int]float64 {
	byIndex := make(map[int]float64, len(gid))
	for i, id := range gid {
		if v, ok := scores[id]; ok {
			byIndex[i] = v
		}
	}
	return byIndex
}
