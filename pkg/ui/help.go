package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

const helpMarkdown = `# grn — regulatory network viewer

## Navigation

| Key | Action |
|-----|--------|
| tab / shift+tab | cycle focus: TFs, genes, slider, graph |
| j/k, ↑/↓ | move within the focused list |
| space / enter | toggle the highlighted TF or gene |
| t | select a TF together with all of its targets |
| a | select all in the focused list |
| x | clear the focused list |
| / | filter the focused list by id or common name |
| esc | clear filter, dismiss node highlight |

## Threshold

| Key | Action |
|-----|--------|
| ←/→, h/l | move the confidence slider one step |

Slider changes apply after a short pause, so holding the key
does not re-render on every step.

## Graph

| Key | Action |
|-----|--------|
| n / p | highlight next / previous node |
| y | copy the highlighted node's details |
| e | export snapshot (svg next to the data file) |
| r | reset all selections |

## Size warning

Selections that would draw a very large network pause for
confirmation first. The selection itself is already applied;
confirm to render it, or cancel to undo the last change.

Press **?** or **esc** to close this help.
`

// HelpModel renders the key reference as a glamour-styled overlay.
// Rendering is cached per width.
type HelpModel struct {
	width    int
	height   int
	rendered string
	rendAt   int // width the cache was rendered for
	theme    Theme
}

// NewHelp creates the help overlay.
func NewHelp(theme Theme) HelpModel {
	return HelpModel{theme: theme}
}

// SetSize updates the overlay dimensions.
func (m *HelpModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// View renders the help content centered in the viewport.
func (m *HelpModel) View() string {
	wrap := m.width - 12
	if wrap > 76 {
		wrap = 76
	}
	if wrap < 30 {
		wrap = 30
	}

	if m.rendered == "" || m.rendAt != wrap {
		r, err := glamour.NewTermRenderer(
			glamourStyle(),
			glamour.WithWordWrap(wrap),
		)
		if err == nil {
			if out, rerr := r.Render(helpMarkdown); rerr == nil {
				m.rendered = out
				m.rendAt = wrap
			}
		}
		if m.rendered == "" {
			// glamour failed; fall back to raw markdown
			m.rendered = helpMarkdown
			m.rendAt = wrap
		}
	}

	content := strings.TrimRight(m.rendered, "\n")
	boxStyle := m.theme.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.Primary).
		Padding(0, 2)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		boxStyle.Render(content))
}

func glamourStyle() glamour.TermRendererOption {
	return glamour.WithAutoStyle()
}
