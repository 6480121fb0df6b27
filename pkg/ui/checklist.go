package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
)

// ChecklistItem is one selectable entry in a TF or gene checklist.
type ChecklistItem struct {
	ID       string // systematic id
	Name     string // common name, falls back to id
	Selected bool
	Disabled bool // shown but not toggleable (TFs with no edges in the dataset)
}

// ChecklistModel is a scrollable, filterable checklist. Selection state is
// owned by the caller; the checklist only displays it and reports toggles.
type ChecklistModel struct {
	title       string
	allItems    []ChecklistItem
	filtered    []int // indices into allItems
	input       textinput.Model
	cursor      int // index into filtered
	offset      int // scroll offset into filtered
	height      int // visible rows for items
	width       int
	theme       Theme
	filterFocus bool
}

// NewChecklist creates an empty checklist with the given pane title.
func NewChecklist(title string, theme Theme) ChecklistModel {
	ti := textinput.New()
	ti.Placeholder = "filter..."
	ti.CharLimit = 40
	ti.Prompt = "/ "

	return ChecklistModel{
		title:  title,
		input:  ti,
		height: 10,
		width:  30,
		theme:  theme,
	}
}

// SetSize updates the pane dimensions. height is total rows including the
// title and filter lines.
func (m *ChecklistModel) SetSize(width, height int) {
	m.width = width
	m.height = height - 3 // title + filter + count line
	if m.height < 3 {
		m.height = 3
	}
	m.clampCursor()
}

// SetItems replaces the item list, preserving cursor position by id when
// possible. Items should arrive pre-sorted.
func (m *ChecklistModel) SetItems(items []ChecklistItem) {
	var currentID string
	if it, ok := m.Current(); ok {
		currentID = it.ID
	}

	m.allItems = items
	m.applyFilter()

	if currentID != "" {
		for fi, ai := range m.filtered {
			if m.allItems[ai].ID == currentID {
				m.cursor = fi
				break
			}
		}
	}
	m.clampCursor()
}

// SetSelected updates displayed selection flags from the caller's state.
func (m *ChecklistModel) SetSelected(isSelected func(id string) bool) {
	for i := range m.allItems {
		m.allItems[i].Selected = isSelected(m.allItems[i].ID)
	}
}

// Current returns the item under the cursor.
func (m *ChecklistModel) Current() (ChecklistItem, bool) {
	if m.cursor < 0 || m.cursor >= len(m.filtered) {
		return ChecklistItem{}, false
	}
	return m.allItems[m.filtered[m.cursor]], true
}

// ItemAtRow maps a visible row (0-based, items only) to an item, for mouse.
func (m *ChecklistModel) ItemAtRow(row int) (ChecklistItem, bool) {
	idx := m.offset + row
	if idx < 0 || idx >= len(m.filtered) {
		return ChecklistItem{}, false
	}
	return m.allItems[m.filtered[idx]], true
}

// MoveUp moves the cursor up one row.
func (m *ChecklistModel) MoveUp() {
	if m.cursor > 0 {
		m.cursor--
	}
	m.scrollToCursor()
}

// MoveDown moves the cursor down one row.
func (m *ChecklistModel) MoveDown() {
	if m.cursor < len(m.filtered)-1 {
		m.cursor++
	}
	m.scrollToCursor()
}

// FocusFilter routes subsequent keys into the filter input.
func (m *ChecklistModel) FocusFilter() {
	m.filterFocus = true
	m.input.Focus()
}

// BlurFilter returns key handling to list navigation.
func (m *ChecklistModel) BlurFilter() {
	m.filterFocus = false
	m.input.Blur()
}

// FilterFocused reports whether keys go to the filter input.
func (m *ChecklistModel) FilterFocused() bool {
	return m.filterFocus
}

// UpdateInput processes a key message for the filter input.
func (m *ChecklistModel) UpdateInput(msg interface{}) {
	m.input, _ = m.input.Update(msg)
	m.applyFilter()
}

// ClearFilter resets the filter text.
func (m *ChecklistModel) ClearFilter() {
	m.input.SetValue("")
	m.applyFilter()
}

// FilterValue returns the current filter text.
func (m *ChecklistModel) FilterValue() string {
	return m.input.Value()
}

// FilteredCount returns the number of items matching the filter.
func (m *ChecklistModel) FilteredCount() int {
	return len(m.filtered)
}

// applyFilter recomputes the visible set. Matching is a case-insensitive
// substring test against either the systematic id or the common name.
func (m *ChecklistModel) applyFilter() {
	query := strings.ToLower(strings.TrimSpace(m.input.Value()))
	m.filtered = m.filtered[:0]
	for i, it := range m.allItems {
		if query == "" ||
			strings.Contains(strings.ToLower(it.ID), query) ||
			strings.Contains(strings.ToLower(it.Name), query) {
			m.filtered = append(m.filtered, i)
		}
	}
	m.clampCursor()
}

func (m *ChecklistModel) clampCursor() {
	if m.cursor >= len(m.filtered) {
		m.cursor = len(m.filtered) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.scrollToCursor()
}

func (m *ChecklistModel) scrollToCursor() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// View renders the checklist pane, focused panes get a highlighted title.
func (m *ChecklistModel) View(focused bool) string {
	t := m.theme
	var lines []string

	titleStyle := t.SecondaryText
	if focused {
		titleStyle = t.PrimaryBold
	}
	selected := 0
	for _, it := range m.allItems {
		if it.Selected {
			selected++
		}
	}
	lines = append(lines, titleStyle.Render(m.title)+
		t.MutedText.Render(" ("+itoa(selected)+"/"+itoa(len(m.allItems))+")"))

	if m.filterFocus || m.input.Value() != "" {
		lines = append(lines, m.input.View())
	} else {
		lines = append(lines, t.MutedText.Render("/ to filter"))
	}

	end := m.offset + m.height
	if end > len(m.filtered) {
		end = len(m.filtered)
	}
	if len(m.filtered) == 0 {
		lines = append(lines, t.MutedText.Render("  no matches"))
	}
	for fi := m.offset; fi < end; fi++ {
		it := m.allItems[m.filtered[fi]]

		mark := "[ ]"
		if it.Selected {
			mark = "[x]"
		}
		if it.Disabled {
			mark = " - "
		}

		prefix := "  "
		if focused && fi == m.cursor {
			prefix = "> "
		}

		label := it.Name
		if label == "" {
			label = it.ID
		}
		row := prefix + mark + " " + truncate(label, m.width-8)

		style := t.Base
		switch {
		case it.Disabled:
			style = t.MutedText
		case focused && fi == m.cursor:
			style = t.PrimaryBold
		case it.Selected:
			style = t.Renderer.NewStyle().Foreground(t.TF)
		}
		lines = append(lines, style.Render(row))
	}

	if len(m.filtered) > m.height {
		lines = append(lines, t.MutedText.Render(
			"  "+itoa(m.cursor+1)+"/"+itoa(len(m.filtered))))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
