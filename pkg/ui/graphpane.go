package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/regulomics/grnscope/pkg/graphview"
	"github.com/regulomics/grnscope/pkg/model"
)

// GraphPane draws the rendered scene as a character canvas. Node positions
// come from the force layout, scaled into the pane.
type GraphPane struct {
	width   int
	height  int
	theme   Theme
	scene   *graphview.Scene
	insight *graphview.Insights
	cursor  int // node index, -1 when nothing highlighted
}

// NewGraphPane creates an empty graph pane.
func NewGraphPane(theme Theme) GraphPane {
	return GraphPane{
		width:  60,
		height: 20,
		theme:  theme,
		cursor: -1,
	}
}

// SetSize updates the pane dimensions.
func (g *GraphPane) SetSize(width, height int) {
	if width < 20 {
		width = 20
	}
	if height < 8 {
		height = 8
	}
	g.width = width
	g.height = height
}

// SetScene replaces the drawable scene. Insights may be nil.
func (g *GraphPane) SetScene(scene *graphview.Scene, insight *graphview.Insights) {
	g.scene = scene
	g.insight = insight
	g.cursor = -1
}

// Clear drops the scene.
func (g *GraphPane) Clear() {
	g.scene = nil
	g.insight = nil
	g.cursor = -1
}

// HasScene reports whether a rendered scene is on display.
func (g *GraphPane) HasScene() bool {
	return g.scene != nil && g.scene.Outcome == model.OutcomeRendered
}

// CycleNode moves the node highlight forward or backward.
func (g *GraphPane) CycleNode(delta int) {
	if !g.HasScene() || len(g.scene.Nodes) == 0 {
		return
	}
	n := len(g.scene.Nodes)
	g.cursor = ((g.cursor+delta)%n + n) % n
}

// DismissCursor clears the node highlight.
func (g *GraphPane) DismissCursor() {
	g.cursor = -1
}

// ClickAt highlights the node nearest to the given canvas cell, or dismisses
// the highlight on a background click. Reports whether a node was hit.
func (g *GraphPane) ClickAt(x, y int) bool {
	if !g.HasScene() {
		return false
	}
	best := -1
	bestDist := 3 // cells, exclusive; clicks further than 2 miss
	for i, n := range g.scene.Nodes {
		nx, ny := g.cell(n.Pos.X, n.Pos.Y)
		d := abs(nx-x) + abs(ny-y)
		if d < bestDist {
			best = i
			bestDist = d
		}
	}
	g.cursor = best
	return best >= 0
}

// EdgeAt returns the rendered edge whose drawn line passes through the given
// canvas cell. Node hits take precedence; call this only after ClickAt missed.
func (g *GraphPane) EdgeAt(x, y int) (graphview.Edge, bool) {
	if !g.HasScene() {
		return graphview.Edge{}, false
	}
	for _, e := range g.scene.Edges {
		x1, y1 := g.cell(g.scene.Nodes[e.Source].Pos.X, g.scene.Nodes[e.Source].Pos.Y)
		x2, y2 := g.cell(g.scene.Nodes[e.Target].Pos.X, g.scene.Nodes[e.Target].Pos.Y)
		hit := false
		plotLine(x1, y1, x2, y2, func(px, py int) {
			if px == x && py == y {
				hit = true
			}
		})
		if hit {
			return e, true
		}
	}
	return graphview.Edge{}, false
}

// EdgeInfo describes an edge for the info line: both endpoints plus the
// interaction confidence.
func (g *GraphPane) EdgeInfo(e graphview.Edge) string {
	if g.scene == nil || e.Source >= len(g.scene.Nodes) || e.Target >= len(g.scene.Nodes) {
		return ""
	}
	return fmt.Sprintf("%s → %s  confidence %.2f",
		g.scene.Nodes[e.Source].Name, g.scene.Nodes[e.Target].Name, e.Confidence)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// CurrentNode returns the highlighted node.
func (g *GraphPane) CurrentNode() (graphview.Node, bool) {
	if !g.HasScene() || g.cursor < 0 || g.cursor >= len(g.scene.Nodes) {
		return graphview.Node{}, false
	}
	return g.scene.Nodes[g.cursor], true
}

// NodeInfo returns a plain-text description of the highlighted node,
// suitable for the info line and for clipboard yanking.
func (g *GraphPane) NodeInfo() string {
	node, ok := g.CurrentNode()
	if !ok {
		return ""
	}
	info := fmt.Sprintf("%s (%s) %s  in:%d out:%d",
		node.Name, node.ID, node.Role, node.InDegree, node.OutDegree)
	if g.insight != nil {
		if pr, ok := g.insight.PageRank[node.ID]; ok {
			info += fmt.Sprintf("  pagerank:%.3f", pr)
		}
		if hub, ok := g.insight.Hub[node.ID]; ok {
			info += fmt.Sprintf("  hub:%.3f auth:%.3f", hub, g.insight.Authority[node.ID])
		}
	}
	return info
}

// cell maps a layout position into canvas coordinates.
func (g *GraphPane) cell(x, y float64) (int, int) {
	if g.scene.Space.Width <= 0 || g.scene.Space.Height <= 0 {
		return 0, 0
	}
	cx := int(x / g.scene.Space.Width * float64(g.width-1))
	cy := int(y / g.scene.Space.Height * float64(g.height-1))
	if cx < 0 {
		cx = 0
	}
	if cx >= g.width {
		cx = g.width - 1
	}
	if cy < 0 {
		cy = 0
	}
	if cy >= g.height {
		cy = g.height - 1
	}
	return cx, cy
}

// View renders the pane.
func (g *GraphPane) View(focused bool) string {
	t := g.theme

	if g.scene == nil {
		return g.message(t.MutedText.Render("Select at least one TF and one gene to draw the network."))
	}
	switch g.scene.Outcome {
	case model.OutcomeNotReady:
		return g.message(t.MutedText.Render("Select at least one TF and one gene to draw the network."))
	case model.OutcomeEmpty:
		return g.message(t.MutedText.Render(
			fmt.Sprintf("No interactions at confidence ≥ %.2f.", g.scene.Threshold)))
	}

	type colored struct {
		r     rune
		color lipgloss.AdaptiveColor
		bold  bool
	}
	grid := make([][]colored, g.height)
	for y := range grid {
		grid[y] = make([]colored, g.width)
		for x := range grid[y] {
			grid[y][x] = colored{r: ' '}
		}
	}

	// edges first so nodes draw over them
	for _, e := range g.scene.Edges {
		x1, y1 := g.cell(g.scene.Nodes[e.Source].Pos.X, g.scene.Nodes[e.Source].Pos.Y)
		x2, y2 := g.cell(g.scene.Nodes[e.Target].Pos.X, g.scene.Nodes[e.Target].Pos.Y)
		edgeColor := t.EdgeDim
		if e.Confidence >= 0.5 {
			edgeColor = t.EdgeMain
		}
		plotLine(x1, y1, x2, y2, func(x, y int) {
			if grid[y][x].r == ' ' {
				grid[y][x] = colored{r: '·', color: edgeColor}
			}
		})
	}

	for i, n := range g.scene.Nodes {
		x, y := g.cell(n.Pos.X, n.Pos.Y)
		glyph := []rune(n.Role.Glyph())[0]
		grid[y][x] = colored{r: glyph, color: t.RoleColor(n.Role.String()), bold: i == g.cursor}

		// label to the right when there is room
		label := truncate(n.Name, 12)
		lx := x + 2
		for _, r := range label {
			if lx >= g.width {
				break
			}
			if grid[y][lx].r == ' ' || grid[y][lx].r == '·' {
				grid[y][lx] = colored{r: r, color: t.Subtext, bold: i == g.cursor}
			}
			lx++
		}
	}

	var sb strings.Builder
	for y := 0; y < g.height; y++ {
		var run strings.Builder
		var runStyle colored
		flush := func() {
			if run.Len() == 0 {
				return
			}
			style := t.Renderer.NewStyle().Foreground(runStyle.color)
			if runStyle.bold {
				style = style.Bold(true)
			}
			sb.WriteString(style.Render(run.String()))
			run.Reset()
		}
		for x := 0; x < g.width; x++ {
			c := grid[y][x]
			if c.color != runStyle.color || c.bold != runStyle.bold {
				flush()
				runStyle = c
			}
			run.WriteRune(c.r)
		}
		flush()
		if y < g.height-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// message centers a single-line notice in the pane.
func (g *GraphPane) message(s string) string {
	return lipgloss.Place(g.width, g.height, lipgloss.Center, lipgloss.Center, s)
}

// plotLine walks the Bresenham line from (x1,y1) to (x2,y2).
func plotLine(x1, y1, x2, y2 int, plot func(x, y int)) {
	dx := int(math.Abs(float64(x2 - x1)))
	dy := -int(math.Abs(float64(y2 - y1)))
	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}
	err := dx + dy

	for {
		plot(x1, y1)
		if x1 == x2 && y1 == y2 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x1 += sx
		}
		if e2 <= dx {
			err += dx
			y1 += sy
		}
	}
}
