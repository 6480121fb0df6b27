package ui

import (
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
)

// TermProfile holds the detected terminal color profile. Computed once at
// package init so every style helper can branch without re-detecting.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// ThemeFg returns the given hex color for ANSI256+ terminals and a safe
// ANSI white (color 7) for 16-color or lower terminals.
func ThemeFg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 {
		return lipgloss.ANSIColor(7)
	}
	return lipgloss.Color(hex)
}

type Theme struct {
	Renderer *lipgloss.Renderer

	// Colors
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor

	// Node roles
	TF       lipgloss.AdaptiveColor
	Target   lipgloss.AdaptiveColor
	Both     lipgloss.AdaptiveColor
	Special  lipgloss.AdaptiveColor
	EdgeDim  lipgloss.AdaptiveColor
	EdgeMain lipgloss.AdaptiveColor

	// Feedback
	Warning lipgloss.AdaptiveColor
	Error   lipgloss.AdaptiveColor

	// UI Elements
	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor

	// Styles
	Base     lipgloss.Style
	Selected lipgloss.Style
	Header   lipgloss.Style

	// Pre-computed styles, created once instead of per-frame
	MutedText     lipgloss.Style
	SecondaryText lipgloss.Style
	PrimaryBold   lipgloss.Style
	WarningBold   lipgloss.Style
	ErrorText     lipgloss.Style
}

// ThemeForMode pins the renderer's background assumption to the configured
// mode ("dark" or "light") so the adaptive colors resolve consistently,
// then builds the standard theme on it.
func ThemeForMode(r *lipgloss.Renderer, mode string) Theme {
	r.SetHasDarkBackground(mode != "light")
	return DefaultTheme(r)
}

// DefaultTheme returns the standard Dracula-inspired theme (adaptive)
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer: r,

		Primary:   lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"}, // Purple
		Secondary: lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"}, // Gray
		Subtext:   lipgloss.AdaptiveColor{Light: "#666666", Dark: "#BFBFBF"}, // Dim

		TF:       lipgloss.AdaptiveColor{Light: "#0066CC", Dark: "#8BE9FD"}, // Cyan-blue, regulators
		Target:   lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"}, // Green, regulated genes
		Both:     lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"}, // Purple, dual role
		Special:  lipgloss.AdaptiveColor{Light: "#888888", Dark: "#44475A"}, // Muted, no edges in dataset
		EdgeDim:  lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#44475A"},
		EdgeMain: lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},

		Warning: lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFB86C"}, // Orange
		Error:   lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"}, // Red

		Border:    lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#44475A"},
		Highlight: lipgloss.AdaptiveColor{Light: "#E0E0E0", Dark: "#44475A"},
		Muted:     lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},
	}

	t.Base = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#F8F8F2"})

	t.Selected = r.NewStyle().
		Background(t.Highlight).
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(t.Primary).
		PaddingLeft(1).
		Bold(true)

	t.Header = r.NewStyle().
		Background(t.Primary).
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}).
		Bold(true).
		Padding(0, 1)

	t.MutedText = r.NewStyle().Foreground(t.Muted)
	t.SecondaryText = r.NewStyle().Foreground(t.Secondary)
	t.PrimaryBold = r.NewStyle().Foreground(t.Primary).Bold(true)
	t.WarningBold = r.NewStyle().Foreground(t.Warning).Bold(true)
	t.ErrorText = r.NewStyle().Foreground(t.Error)

	return t
}

// RoleColor maps a role string to its theme color.
func (t Theme) RoleColor(role string) lipgloss.AdaptiveColor {
	switch role {
	case "TF":
		return t.TF
	case "TF+Target":
		return t.Both
	default:
		return t.Target
	}
}

// TestTheme returns a theme suitable for use in tests (deterministic renderer).
func TestTheme() Theme {
	return DefaultTheme(lipgloss.NewRenderer(os.Stdout))
}
