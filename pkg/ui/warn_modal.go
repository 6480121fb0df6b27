package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/regulomics/grnscope/pkg/network"
)

// WarnModal is the size-warning confirmation shown when a change would draw
// more than the configured node or edge limits. The numbers refresh live
// while the modal is up, so slider moves underneath it stay visible.
type WarnModal struct {
	estimate network.Estimate
	limits   network.Limits
	width    int
	height   int
	theme    Theme
}

// NewWarnModal creates a warn modal for the given limits.
func NewWarnModal(limits network.Limits, theme Theme) WarnModal {
	return WarnModal{limits: limits, theme: theme}
}

// SetSize sets the overlay dimensions.
func (m *WarnModal) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetEstimate updates the displayed node and edge counts.
func (m *WarnModal) SetEstimate(est network.Estimate) {
	m.estimate = est
}

// Estimate returns the currently displayed counts.
func (m *WarnModal) Estimate() network.Estimate {
	return m.estimate
}

// View renders the modal centered in the viewport.
func (m WarnModal) View() string {
	t := m.theme

	var lines []string
	lines = append(lines, t.WarningBold.Render("Large network"))
	lines = append(lines, "")
	lines = append(lines, t.Base.Render(fmt.Sprintf(
		"This selection would draw %d nodes and %d edges.",
		m.estimate.Nodes, m.estimate.Edges)))
	lines = append(lines, t.SecondaryText.Render(fmt.Sprintf(
		"Recommended limits are %d nodes and %d edges;", m.limits.MaxNodes, m.limits.MaxEdges)))
	lines = append(lines, t.SecondaryText.Render("rendering may be slow."))
	lines = append(lines, "")

	overNodes := m.estimate.Nodes > m.limits.MaxNodes
	overEdges := m.estimate.Edges > m.limits.MaxEdges
	switch {
	case overNodes && overEdges:
		lines = append(lines, t.MutedText.Render("Both limits exceeded."))
	case overNodes:
		lines = append(lines, t.MutedText.Render("Node limit exceeded."))
	case overEdges:
		lines = append(lines, t.MutedText.Render("Edge limit exceeded."))
	default:
		// slider moved the estimate back under the limits; the render is
		// about to happen and this frame is transient
		lines = append(lines, t.MutedText.Render("Estimate now within limits."))
	}

	lines = append(lines, "")
	lines = append(lines, t.MutedText.Render("y/enter: render anyway   n/esc: cancel"))

	boxStyle := t.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Warning).
		Padding(1, 2)

	box := boxStyle.Render(strings.Join(lines, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
